package methods

import (
	"context"
	"encoding/json"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/confluxchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/reefchain"
)

// Dispatcher is the Router's view of a BackendWrapper plus its bound
// MethodHandlers table (spec §4.1 steps 2-3: look up a local handler,
// falling back to a raw forward).
type Dispatcher interface {
	Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError)
}

// EVMDispatcher binds the generic EVM/Celo/zkSync table to a concrete
// backend (spec §4.2, §4.6).
type EVMDispatcher struct {
	Backend EVMBackend
}

func (d EVMDispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if handler, ok := EVMTable[method]; ok {
		return handler(ctx, d.Backend, params)
	}
	return d.Backend.RawForward(ctx, method, params)
}

// ConfluxDispatcher binds the Conflux table to its backend (spec §4.4).
type ConfluxDispatcher struct {
	Backend *confluxchain.Wrapper
}

func (d ConfluxDispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if handler, ok := ConfluxTable[method]; ok {
		return handler(ctx, d.Backend, params)
	}
	return d.Backend.RawForward(ctx, method, params)
}

// ReefDispatcher binds the Reef table to its backend (spec §4.5). Reef has
// no raw-forward path: every supported read is synthesized, and any method
// outside the table is unknown to this gateway.
type ReefDispatcher struct {
	Backend *reefchain.Wrapper
}

func (d ReefDispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	handler, ok := ReefTable[method]
	if !ok {
		return nil, gwerrors.UnknownMethod(method)
	}
	return handler(ctx, d.Backend, params)
}
