package gwerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeMappingMatchesTaxonomy(t *testing.T) {
	cases := []struct {
		kind Kind
		code int
	}{
		{KindMalformedRequest, -32700},
		{KindUnknownMethod, -32601},
		{KindInvalidParameter, -32602},
		{KindInvalidAddress, -32602},
		{KindUnknownSigner, -32000},
		{KindUnsupportedFilter, -32500},
		{KindExecutionError, -32015},
		{KindGasPriceAboveThreshold, -32099},
		{KindGasLimitAboveThreshold, -32099},
		{KindUnpredictableGasPrice, -32099},
		{KindUnpredictableGasLimit, -32099},
		{KindInvalidJSONResponse, -32700},
	}
	for _, c := range cases {
		ge := New(c.kind, "boom")
		assert.Equal(t, c.code, ge.Code())
	}
}

func TestWrapPreservesExistingGatewayError(t *testing.T) {
	original := UnknownSigner("0xabc")
	wrapped := Wrap(original)
	assert.Same(t, original, wrapped)
}

func TestWrapClassifiesGenericErrorAsGeneric(t *testing.T) {
	wrapped := Wrap(errors.New("boom"))
	assert.Equal(t, KindGeneric, wrapped.Kind)
	assert.Equal(t, "boom", wrapped.Message)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil))
}

func TestWithDataAttachesPassthroughPayload(t *testing.T) {
	ge := ExecutionError("reverted", map[string]string{"reason": "insufficient funds"})
	assert.Equal(t, "reverted", ge.Error())
	assert.NotNil(t, ge.Data)
}
