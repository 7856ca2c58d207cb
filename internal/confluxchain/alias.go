package confluxchain

import "github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"

// MethodAlias is the full Eth→Cfx method-name rewrite table (spec §4.4).
// Wrapper.RawForward applies it only when forwarding to the node. The
// Conflux handler table (methods.ConfluxTable) and the param translators
// in params.go are both keyed by the original eth_* name; no handler is
// keyed by a rewritten cfx_* name.
var MethodAlias = map[string]string{
	"eth_blockNumber":           "cfx_epochNumber",
	"eth_call":                  "cfx_call",
	"eth_gasPrice":               "cfx_gasPrice",
	"eth_getBalance":             "cfx_getBalance",
	"eth_getBlockByHash":         "cfx_getBlockByHash",
	"eth_getBlockByNumber":       "cfx_getBlockByEpochNumber",
	"eth_getCode":                "cfx_getCode",
	"eth_getLogs":                "cfx_getLogs",
	"eth_getStorageAt":           "cfx_getStorageAt",
	"eth_getTransactionByHash":   "cfx_getTransactionByHash",
	"eth_getTransactionCount":    "cfx_getNextNonce",
	"eth_getTransactionReceipt":  "cfx_getTransactionReceipt",
}

// TranslateTag maps an Ethereum block tag to a Conflux epoch label (spec
// §4.4 "Tag translation"): latest follows the configured epochLabel,
// pending maps to latest_checkpoint, everything else (earliest, hex
// numbers, other labels) passes through unchanged.
func TranslateTag(tag string, cfg *gwconfig.BackendConfig) string {
	switch tag {
	case "latest":
		return string(cfg.EpochLabel)
	case "pending":
		return string(gwconfig.EpochLatestCheckpoint)
	default:
		return tag
	}
}
