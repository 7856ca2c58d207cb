// Package gwerrors implements the gateway's error taxonomy (spec §7) as a
// closed sum type instead of the source's throw-with-structured-body style
// (spec §9 DESIGN NOTES: "Exception-as-control-flow").
package gwerrors

import "fmt"

// Kind is the abstract error kind from spec §7's taxonomy table.
type Kind int

const (
	KindGeneric Kind = iota
	KindMalformedRequest
	KindUnknownMethod
	KindInvalidParameter
	KindUnknownSigner
	KindUnsupportedFilter
	KindExecutionError
	KindGasPriceAboveThreshold
	KindGasLimitAboveThreshold
	KindUnpredictableGasPrice
	KindUnpredictableGasLimit
	KindInvalidJSONResponse
	KindInvalidAddress
)

// code returns the JSON-RPC error code for a Kind, per spec §7.
func (k Kind) code() int {
	switch k {
	case KindMalformedRequest:
		return -32700
	case KindUnknownMethod:
		return -32601
	case KindInvalidParameter, KindInvalidAddress:
		return -32602
	case KindUnknownSigner:
		return -32000
	case KindUnsupportedFilter:
		return -32500
	case KindExecutionError:
		return -32015
	case KindGasPriceAboveThreshold, KindGasLimitAboveThreshold,
		KindUnpredictableGasPrice, KindUnpredictableGasLimit:
		return -32099
	case KindInvalidJSONResponse:
		return -32700
	default:
		return -32099
	}
}

// GatewayError is the single error type every gateway layer returns at its
// boundary. envelope.NewError, called by the Router, is the single match
// site (spec §9).
type GatewayError struct {
	Kind    Kind
	Message string
	Data    interface{}

	code *int // passthrough override: a backend's own JSON-RPC error code
}

func (e *GatewayError) Error() string {
	return e.Message
}

// Code returns the JSON-RPC error code for this error: the backend's own
// code if one was attached via WithCode/Passthrough, else the taxonomy
// code for its Kind.
func (e *GatewayError) Code() int {
	if e.code != nil {
		return *e.code
	}
	return e.Kind.code()
}

// WithCode overrides the error's JSON-RPC code with a passthrough value
// (spec §7: backend-reported errors carrying their own code/message/data
// pass through unchanged except for envelope).
func (e *GatewayError) WithCode(code int) *GatewayError {
	e.code = &code
	return e
}

// New builds a GatewayError of the given kind.
func New(kind Kind, format string, args ...interface{}) *GatewayError {
	return &GatewayError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithData attaches passthrough data (e.g. a backend's native error body).
func (e *GatewayError) WithData(data interface{}) *GatewayError {
	e.Data = data
	return e
}

// Wrap classifies a generic error as KindGeneric, preserving its message.
// Used at boundaries where the failure did not originate as a GatewayError.
func Wrap(err error) *GatewayError {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*GatewayError); ok {
		return ge
	}
	return &GatewayError{Kind: KindGeneric, Message: err.Error()}
}

// Common constructors for frequently raised kinds (spec §4.3, §4.4, §7).

func UnknownSigner(addr string) *GatewayError {
	return New(KindUnknownSigner, "no signer for address %s", addr)
}

func InvalidAddress(raw string) *GatewayError {
	return New(KindInvalidAddress, "invalid address: %s", raw)
}

func InvalidParameter(format string, args ...interface{}) *GatewayError {
	return New(KindInvalidParameter, format, args...)
}

func GasPriceAboveThreshold(got, threshold string) *GatewayError {
	return New(KindGasPriceAboveThreshold, "estimated gas price %s exceeds threshold %s", got, threshold)
}

func GasLimitAboveThreshold(got, threshold string) *GatewayError {
	return New(KindGasLimitAboveThreshold, "estimated gas limit %s exceeds threshold %s", got, threshold)
}

func UnpredictableGasPrice(err error) *GatewayError {
	return New(KindUnpredictableGasPrice, "unable to determine gas price: %v", err)
}

func UnpredictableGasLimit(err error) *GatewayError {
	return New(KindUnpredictableGasLimit, "unable to determine gas limit: %v", err)
}

func ExecutionError(msg string, data interface{}) *GatewayError {
	return (&GatewayError{Kind: KindExecutionError, Message: msg}).WithData(data)
}

// Passthrough wraps a backend's own JSON-RPC error code/message/data
// unchanged, bypassing the fixed taxonomy entirely (spec §7).
func Passthrough(code int, msg string, data interface{}) *GatewayError {
	return (&GatewayError{Kind: KindExecutionError, Message: msg}).WithCode(code).WithData(data)
}

func UnknownMethod(method string) *GatewayError {
	return New(KindUnknownMethod, "method not found: %s", method)
}

func UnsupportedFilter(id string) *GatewayError {
	return New(KindUnsupportedFilter, "unknown filter id: %s", id)
}

func MalformedRequest(format string, args ...interface{}) *GatewayError {
	return New(KindMalformedRequest, format, args...)
}

func InvalidJSONResponse(err error) *GatewayError {
	return New(KindInvalidJSONResponse, "could not parse backend response: %v", err)
}
