package reefchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectBlockBuildsEthereumShape(t *testing.T) {
	b := block{
		Hash:       "0xblockhash",
		ParentHash: "0xparent",
		Height:     42,
		StateRoot:  "0xstate",
		Timestamp:  "1700000000",
		Finalized:  true,
	}
	out := ProjectBlock(b, []string{"0xtx1", "0xtx2"})

	assert.Equal(t, "0xblockhash", out["hash"])
	assert.Equal(t, "0x2a", out["number"])
	txs, ok := out["transactions"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"0xtx1", "0xtx2"}, txs)
}

func TestProjectReceiptMapsExecutedToSuccess(t *testing.T) {
	ext := extrinsic{
		Hash:   "0xtxhash",
		Index:  1,
		Signer: "0xsigner",
		Events: []evmEvent{
			{Section: "evm", Method: "Executed"},
		},
	}
	out := ProjectReceipt(ext, "0xblockhash", 7, 210, 21)

	assert.Equal(t, "0x1", out["status"])
	assert.Equal(t, "0x7", out["blockNumber"])
	assert.Equal(t, "0xa", out["effectiveGasPrice"]) // 210/21 = 10
}

func TestProjectReceiptMapsExecutedFailedToFailure(t *testing.T) {
	ext := extrinsic{
		Hash: "0xtxhash",
		Events: []evmEvent{
			{Section: "evm", Method: "ExecutedFailed"},
		},
	}
	out := ProjectReceipt(ext, "0xblockhash", 1, 0, 0)
	assert.Equal(t, "0x0", out["status"])
	assert.Equal(t, "0x0", out["effectiveGasPrice"])
}

func TestProjectReceiptCollectsLogsAndContractAddress(t *testing.T) {
	ext := extrinsic{
		Hash: "0xtxhash",
		Events: []evmEvent{
			{Section: "evm", Method: "Created", Data: map[string]interface{}{"contractAddress": "0xnewcontract"}},
			{Section: "evm", Method: "Log", Data: map[string]interface{}{"topics": []interface{}{"0xtopic"}}},
			{Section: "balances", Method: "Transfer"}, // non-evm events are ignored
		},
	}
	out := ProjectReceipt(ext, "0xblockhash", 3, 100, 10)

	assert.Equal(t, "0xnewcontract", out["contractAddress"])
	logs, ok := out["logs"].([]interface{})
	require.True(t, ok)
	require.Len(t, logs, 1)
	log, ok := logs[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"0xtopic"}, log["topics"])
	assert.Equal(t, "0x0", log["logIndex"])
}
