package confluxchain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteResponseRenamesDerivedFields(t *testing.T) {
	in := map[string]interface{}{
		"epochNumber":     "0x10",
		"index":           "0x1",
		"gasUsed":         "0x5208",
		"contractCreated": nil,
		"stateRoot":       "0xdeadbeef",
	}

	out, ok := RewriteResponse(in).(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "0x10", out["number"])
	assert.Equal(t, "0x10", out["blockNumber"])
	assert.Equal(t, "0x1", out["transactionIndex"])
	assert.Equal(t, "0x5208", out["cumulativeGasUsed"])
	assert.Equal(t, "0xdeadbeef", out["root"])
}

func TestRewriteResponseInvertsOutcomeStatus(t *testing.T) {
	success := map[string]interface{}{"outcomeStatus": "0x0"}
	out, ok := RewriteResponse(success).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0x1", out["status"], "Conflux success (0) must become Ethereum success (1)")

	failure := map[string]interface{}{"outcomeStatus": "0x1"}
	out, ok = RewriteResponse(failure).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0x0", out["status"])
}

func TestRewriteResponseEnrichesLogsFromEnclosingReceipt(t *testing.T) {
	receipt := map[string]interface{}{
		"transactionHash": "0xabc",
		"blockHash":       "0xdef",
		"blockNumber":     "0x5",
		"logs": []interface{}{
			map[string]interface{}{"index": "0x0"},
		},
	}

	out, ok := RewriteResponse(receipt).(map[string]interface{})
	require.True(t, ok)
	logs, ok := out["logs"].([]interface{})
	require.True(t, ok)
	require.Len(t, logs, 1)

	log, ok := logs[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0xabc", log["transactionHash"])
	assert.Equal(t, "0xdef", log["blockHash"])
	assert.Equal(t, "0x5", log["blockNumber"])
	assert.Equal(t, "0x0", log["logIndex"])
}

func TestRewriteResponseDecodesCfxAddressStrings(t *testing.T) {
	addr := common.HexToAddress("0x1234567890123456789012345678901234567890")
	cfxAddr := EncodeAddress(addr, 1029)

	in := map[string]interface{}{"from": cfxAddr}
	out, ok := RewriteResponse(in).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, addr.Hex(), out["from"])
}

func TestRewriteResponseIsIdempotentOnEthereumNativeObjects(t *testing.T) {
	in := map[string]interface{}{
		"number": "0x10",
		"status": "0x1",
	}
	once, ok := RewriteResponse(in).(map[string]interface{})
	require.True(t, ok)
	twice, ok := RewriteResponse(once).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, once["number"], twice["number"])
	assert.Equal(t, once["status"], twice["status"])
}
