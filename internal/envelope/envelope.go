// Package envelope defines the canonical JSON-RPC request/response shapes
// the Router owns (spec §3 "RequestEnvelope"/"ResponseEnvelope", §4.1).
package envelope

import (
	"encoding/json"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// Request is the inbound JSON-RPC 2.0 envelope.
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// ErrorBody is the JSON-RPC error object.
type ErrorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Response is the outbound JSON-RPC 2.0 envelope. Exactly one of Result or
// Error is serialized (spec I2): MarshalJSON writes "error" when Error is
// set and "result" (null included) otherwise, never both and never neither.
type Response struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// MarshalJSON encodes an error envelope without "result" and a success
// envelope with "result" kept even when it is null.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			Jsonrpc string      `json:"jsonrpc"`
			ID      interface{} `json:"id"`
			Error   *ErrorBody  `json:"error"`
		}{r.Jsonrpc, r.ID, r.Error})
	}
	return json.Marshal(struct {
		Jsonrpc string      `json:"jsonrpc"`
		ID      interface{} `json:"id"`
		Result  interface{} `json:"result"`
	}{r.Jsonrpc, r.ID, r.Result})
}

// NewResult builds a success envelope, echoing the request id unchanged (I1).
func NewResult(id json.RawMessage, result interface{}) *Response {
	return &Response{Jsonrpc: "2.0", ID: rawID(id), Result: result}
}

// NewError builds an error envelope from a GatewayError.
func NewError(id json.RawMessage, err *gwerrors.GatewayError) *Response {
	return &Response{
		Jsonrpc: "2.0",
		ID:      rawID(id),
		Error: &ErrorBody{
			Code:    err.Code(),
			Message: err.Message,
			Data:    err.Data,
		},
	}
}

// rawID checks that the request's raw id is valid JSON and returns the raw
// bytes so it is re-encoded exactly (numbers keep every digit, strings stay
// strings, null stays null) without gaining quotes it never had.
func rawID(id json.RawMessage) interface{} {
	if len(id) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(id, &v); err != nil {
		return nil
	}
	return id
}
