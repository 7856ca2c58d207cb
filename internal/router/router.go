// Package router implements the gateway's single request/response contract
// (spec §4.1 "Router"): parse, dispatch, encode, never letting a panic or
// malformed envelope escape the transport boundary (invariants I1-I3).
package router

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/envelope"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/methods"
)

// Router is the single entrypoint every transport (HTTP, in future a test
// harness) calls into. It owns no backend logic of its own; it only wires
// envelope parsing to a Dispatcher and re-wraps whatever comes back.
type Router struct {
	Dispatcher methods.Dispatcher
	Log        *zap.SugaredLogger
}

// New builds a Router bound to a single backend's dispatcher.
func New(d methods.Dispatcher, log *zap.SugaredLogger) *Router {
	return &Router{Dispatcher: d, Log: log}
}

// Handle parses a single JSON-RPC request body, dispatches it, and returns
// the encoded response body. It never panics out to the caller (I3): a
// recovered panic becomes an ExecutionError envelope like any other fault.
func (r *Router) Handle(ctx context.Context, body []byte) []byte {
	var req envelope.Request
	if err := json.Unmarshal(body, &req); err != nil {
		resp := envelope.NewError(nil, gwerrors.MalformedRequest("invalid JSON-RPC request: %v", err))
		return mustEncode(resp)
	}

	resp := r.dispatchSafely(ctx, req)
	return mustEncode(resp)
}

// dispatchSafely wraps a single request's lifecycle in panic recovery so a
// misbehaving backend or handler can never crash the listener (I3).
func (r *Router) dispatchSafely(ctx context.Context, req envelope.Request) (resp *envelope.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Log.Errorw("recovered panic handling request", "method", req.Method, "panic", rec)
			resp = envelope.NewError(req.ID, gwerrors.ExecutionError(fmt.Sprintf("internal error: %v", rec), nil))
		}
	}()

	r.Log.Infow("dispatching request", "method", req.Method)
	r.Log.Debugw("request params", "method", req.Method, "params", string(req.Params))

	result, gerr := r.Dispatcher.Dispatch(ctx, req.Method, req.Params)
	if gerr != nil {
		r.Log.Warnw("request failed", "method", req.Method, "kind", gerr.Kind, "err", gerr.Message)
		return envelope.NewError(req.ID, gerr)
	}

	r.Log.Infow("request succeeded", "method", req.Method)
	return envelope.NewResult(req.ID, result)
}

// mustEncode marshals resp, falling back to a hand-built error envelope if
// even that somehow fails — the one place a JSON failure must not produce
// an empty HTTP body (I2: exactly one of result/error, always present).
func mustEncode(resp *envelope.Response) []byte {
	out, err := json.Marshal(resp)
	if err != nil {
		return []byte(fmt.Sprintf(
			`{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":%q}}`,
			"failed to encode response: "+err.Error(),
		))
	}
	return out
}
