// Package methods implements the per-backend MethodHandlers table (spec
// §4.2): pure functions over (socket, params, wrapper-state) intercepting
// account- and transaction-scoped calls before they'd otherwise forward
// raw.
package methods

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/translate"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/wallet"
)

// EVMHandler is a locally-intercepted method's signature for the generic
// EVM/Celo/zkSync family (spec §2 "MethodHandlers": a pure function over
// socket, params and wrapper-state).
type EVMHandler func(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError)

// EVMBackend is the subset of evmchain.Wrapper (and celochain.Wrapper,
// which embeds it) that the generic handler table needs.
type EVMBackend interface {
	ComposeTransaction(ctx context.Context, args backend.TxArgs) (*backend.Transaction, *gwerrors.GatewayError)
	GasPrice(ctx context.Context) (*big.Int, *gwerrors.GatewayError)
	GetTransactionCount(ctx context.Context, addr string) (uint64, *gwerrors.GatewayError)
	SignAndSend(ctx context.Context, signer *wallet.Wallet, tx *backend.Transaction) (string, *gwerrors.GatewayError)
	RawForward(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError)
	WalletSet() *wallet.WalletSet
	NonceMonitor() *wallet.NonceMonitor
	ChainID() *big.Int
	Config() *gwconfig.BackendConfig
	BindInterleavedBlock(ctx context.Context) (string, *gwerrors.GatewayError)
}

// EVMTable is the generic EVM/Celo/zkSync method table (spec §4.2).
var EVMTable = map[string]EVMHandler{
	"eth_accounts":         evmAccounts,
	"net_version":          evmNetVersion,
	"eth_chainId":          evmChainID,
	"eth_sign":             evmSign,
	"eth_sendTransaction":  evmSendTransaction,
	"eth_estimateGas":      evmEstimateGas,
	"eth_gasPrice":         evmGasPrice,
	"eth_call":             evmCall,
	"eth_getBlockByNumber": evmGetBlockByNumber,
	"eth_syncing":          evmSyncing,
	"eth_newBlockFilter":   evmNewBlockFilter,
	"eth_getFilterChanges": evmGetFilterChanges,
	"eth_uninstallFilter":  evmUninstallFilter,
}

func evmAccounts(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	addrs := w.WalletSet().Addresses()
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out, nil
}

func evmNetVersion(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	id := w.ChainID()
	if id == nil {
		return "0", nil
	}
	return id.String(), nil
}

func evmChainID(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	id := w.ChainID()
	if id == nil {
		return "0x0", nil
	}
	return hexutil.EncodeBig(id), nil
}

func evmSign(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []string
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, gwerrors.InvalidParameter("eth_sign expects [address, message]")
	}
	signer, gerr := w.WalletSet().Resolve(args[0])
	if gerr != nil {
		return nil, gerr
	}
	sig, err := signer.SignMessage(common.FromHex(args[1]))
	if err != nil {
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	return hexutil.Encode(sig), nil
}

func evmSendTransaction(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []backend.TxArgs
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_sendTransaction expects [txArgs]")
	}

	txArgs := args[0]
	var signer *wallet.Wallet
	if from, ok := txArgs["from"].(string); ok && from != "" {
		resolved, gerr := w.WalletSet().Resolve(from)
		if gerr != nil {
			return nil, gerr
		}
		signer = resolved
	} else {
		signer = w.WalletSet().Default()
		txArgs["from"] = signer.Address.Hex()
	}

	var hash string
	err := w.NonceMonitor().WithLock(signer.Address, func() error {
		tx, gerr := w.ComposeTransaction(ctx, txArgs)
		if gerr != nil {
			return gerr
		}
		tx.From = &signer.Address

		if !txArgs.HasField("nonce") {
			nonce, gerr := w.GetTransactionCount(ctx, signer.Address.Hex())
			if gerr != nil {
				return gerr
			}
			tx.Nonce = &nonce
		}

		h, gerr := w.SignAndSend(ctx, signer, tx)
		if gerr != nil {
			return gerr
		}
		hash = h
		return nil
	})
	if err != nil {
		return nil, gwerrors.Wrap(err)
	}
	return hash, nil
}

func evmEstimateGas(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []backend.TxArgs
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_estimateGas expects [txArgs]")
	}
	txArgs := args[0]
	delete(txArgs, "gas") // force re-estimation, spec §4.2

	tx, gerr := w.ComposeTransaction(ctx, txArgs)
	if gerr != nil {
		return nil, gerr
	}
	return hexutil.EncodeUint64(*tx.GasLimit), nil
}

func evmGasPrice(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	price, gerr := w.GasPrice(ctx)
	if gerr != nil {
		return nil, gerr
	}
	return hexutil.EncodeBig(price), nil
}

func evmCall(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []json.RawMessage
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_call expects [txArgs, blockTag?]")
	}
	var txArgs backend.TxArgs
	if err := json.Unmarshal(args[0], &txArgs); err != nil {
		return nil, gwerrors.InvalidParameter("invalid call args: %v", err)
	}
	if _, gerr := w.ComposeTransaction(ctx, txArgs); gerr != nil {
		return nil, gerr
	}

	bound, gerr := w.BindInterleavedBlock(ctx)
	if gerr != nil {
		return nil, gerr
	}
	if bound != "" {
		tagArg, err := json.Marshal(bound)
		if err != nil {
			return nil, gwerrors.MalformedRequest("invalid block tag: %v", err)
		}
		if len(args) > 1 {
			args[1] = tagArg
		} else {
			args = append(args, tagArg)
		}
		rebuilt, err := json.Marshal(args)
		if err != nil {
			return nil, gwerrors.MalformedRequest("invalid params: %v", err)
		}
		params = rebuilt
	}

	return w.RawForward(ctx, "eth_call", params)
}

func evmGetBlockByNumber(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	result, gerr := w.RawForward(ctx, "eth_getBlockByNumber", params)
	if gerr != nil {
		return nil, gerr
	}
	if block, ok := result.(map[string]interface{}); ok {
		return translate.NormalizeBlockHex(block), nil
	}
	return result, nil
}

// evmSyncing short-circuits to a static "not syncing" answer when
// alwaysSynced is configured, otherwise asks the backend.
func evmSyncing(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if w.Config().AlwaysSynced {
		return false, nil
	}
	return w.RawForward(ctx, "eth_syncing", params)
}

// evmNewBlockFilter mocks a single static filter id when mockFilters is
// configured, otherwise asks the backend.
func evmNewBlockFilter(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if w.Config().MockFilters {
		return "0x1", nil
	}
	return w.RawForward(ctx, "eth_newBlockFilter", params)
}

// evmGetFilterChanges mocks filter polling, when mockFilters is configured,
// as a single-element array holding the current block number.
func evmGetFilterChanges(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	if w.Config().MockFilters {
		latest, gerr := w.RawForward(ctx, "eth_blockNumber", json.RawMessage(`[]`))
		if gerr != nil {
			return nil, gerr
		}
		return []interface{}{latest}, nil
	}
	return w.RawForward(ctx, "eth_getFilterChanges", params)
}

func evmUninstallFilter(ctx context.Context, w EVMBackend, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	return true, nil
}
