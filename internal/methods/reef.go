package methods

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/reefchain"
)

// ReefHandler is a locally-intercepted method's signature for the Reef
// backend (spec §4.5): every read is synthesized from the GraphQL index
// rather than forwarded raw, so Reef gets its own full table instead of
// a RawForward fallback.
type ReefHandler func(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError)

// ReefTable is the Reef method table (spec §4.5).
var ReefTable = map[string]ReefHandler{
	"eth_accounts":              reefAccounts,
	"net_version":               reefNetVersion,
	"eth_chainId":               reefChainID,
	"eth_blockNumber":           reefBlockNumber,
	"eth_getBlockByNumber":      reefGetBlockByNumber,
	"eth_getTransactionByHash":  reefGetTransactionByHash,
	"eth_getTransactionReceipt": reefGetTransactionReceipt,
	"eth_sendTransaction":       reefSendTransaction,
}

func reefAccounts(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	return w.Accounts(), nil
}

func reefNetVersion(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	id := w.ChainID()
	if id == nil {
		return "0", nil
	}
	return id.String(), nil
}

func reefChainID(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	id := w.ChainID()
	if id == nil {
		return "0x0", nil
	}
	return toHexBig(id), nil
}

func reefGetTransactionByHash(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []string
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_getTransactionByHash expects [hash]")
	}
	return w.GetTransactionByHash(ctx, args[0])
}

func reefBlockNumber(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	return w.BlockNumber(ctx)
}

func reefGetBlockByNumber(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_getBlockByNumber expects [tag, fullTx?]")
	}
	tag, _ := args[0].(string)
	return w.GetBlockByNumber(ctx, tag)
}

func reefGetTransactionReceipt(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []string
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_getTransactionReceipt expects [hash]")
	}
	return w.GetTransactionReceipt(ctx, args[0])
}

func reefSendTransaction(ctx context.Context, w *reefchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []map[string]interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_sendTransaction expects [txArgs]")
	}
	txArgs := args[0]

	from, ok := txArgs["from"].(string)
	if !ok || from == "" {
		return nil, gwerrors.InvalidParameter("eth_sendTransaction requires from")
	}

	var to *common.Address
	if toStr, ok := txArgs["to"].(string); ok && toStr != "" {
		addr := common.HexToAddress(toStr)
		to = &addr
	}

	var value []byte
	if v, ok := txArgs["value"].(string); ok {
		value = common.FromHex(v)
	}

	var data []byte
	if d, ok := txArgs["data"].(string); ok {
		data = common.FromHex(d)
	} else if d, ok := txArgs["input"].(string); ok {
		data = common.FromHex(d)
	}

	hash, gerr := w.SendTransaction(ctx, common.HexToAddress(from), to, value, data)
	if gerr != nil {
		return nil, gerr
	}
	return hash.Hex(), nil
}
