package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwlog"
)

// fakeDispatcher is a methods.Dispatcher test double.
type fakeDispatcher struct {
	result interface{}
	err    *gwerrors.GatewayError
	panics bool
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if f.panics {
		panic("boom")
	}
	return f.result, f.err
}

func TestHandleEchoesRequestIDOnSuccess(t *testing.T) {
	r := New(&fakeDispatcher{result: "0x1"}, gwlog.Nop())
	body := []byte(`{"jsonrpc":"2.0","id":7,"method":"eth_chainId","params":[]}`)

	out := r.Handle(context.Background(), body)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, float64(7), resp["id"])
	assert.Equal(t, "0x1", resp["result"])
	assert.Nil(t, resp["error"])
}

func TestHandleWrapsGatewayErrorIntoEnvelope(t *testing.T) {
	r := New(&fakeDispatcher{err: gwerrors.UnknownMethod("eth_bogus")}, gwlog.Nop())
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"eth_bogus","params":[]}`)

	out := r.Handle(context.Background(), body)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Nil(t, resp["result"])
	errBody, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(-32601), errBody["code"])
}

func TestHandleMalformedJSONReturnsParseError(t *testing.T) {
	r := New(&fakeDispatcher{}, gwlog.Nop())
	out := r.Handle(context.Background(), []byte(`not json`))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &resp))
	errBody, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(-32700), errBody["code"])
}

func TestHandleRecoversFromPanicWithoutCrashing(t *testing.T) {
	r := New(&fakeDispatcher{panics: true}, gwlog.Nop())
	body := []byte(`{"jsonrpc":"2.0","id":3,"method":"eth_call","params":[]}`)

	out := r.Handle(context.Background(), body)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, float64(3), resp["id"])
	errBody, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(-32015), errBody["code"])
}

func TestHandleNullIDWhenAbsent(t *testing.T) {
	r := New(&fakeDispatcher{result: nil}, gwlog.Nop())
	body := []byte(`{"jsonrpc":"2.0","method":"eth_chainId","params":[]}`)

	out := r.Handle(context.Background(), body)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Nil(t, resp["id"])
}
