package methods

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/confluxchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/wallet"
)

// ConfluxHandler is a locally-intercepted method's signature for the
// Conflux backend (spec §4.4): CIP-37 addressing and epoch-tag semantics
// diverge enough from the generic EVM family to warrant their own table
// rather than forcing both through one interface.
type ConfluxHandler func(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError)

// ConfluxTable is the Conflux method table (spec §4.4).
var ConfluxTable = map[string]ConfluxHandler{
	"eth_accounts":        confluxAccounts,
	"net_version":         confluxNetVersion,
	"eth_chainId":         confluxChainID,
	"eth_sign":            confluxSign,
	"eth_sendTransaction": confluxSendTransaction,
	"eth_estimateGas":     confluxEstimateGas,
	"eth_gasPrice":        confluxGasPrice,
	"eth_call":            confluxCall,
}

func confluxAccounts(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	addrs := w.Wallets.Addresses()
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = confluxchain.EncodeAddress(a, w.NetworkID)
	}
	return out, nil
}

func confluxNetVersion(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	return strconv.FormatUint(uint64(w.NetworkID), 10), nil
}

func confluxChainID(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	id := w.ChainID()
	if id == nil {
		return "0x0", nil
	}
	return toHexBig(id), nil
}

// confluxSign resolves a signer by its CIP-37 or hex address and signs the
// raw message locally, mirroring evmSign instead of forwarding to the
// Conflux node.
func confluxSign(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []string
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, gwerrors.InvalidParameter("eth_sign expects [address, message]")
	}
	signer, gerr := resolveConfluxSigner(w, args[0])
	if gerr != nil {
		return nil, gerr
	}
	sig, err := signer.wallet.SignMessage(common.FromHex(args[1]))
	if err != nil {
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	return hexutil.Encode(sig), nil
}

func confluxSendTransaction(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []backend.TxArgs
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_sendTransaction expects [txArgs]")
	}

	txArgs := args[0]
	var signer *confluxSigner
	if from, ok := txArgs["from"].(string); ok && from != "" {
		resolved, gerr := resolveConfluxSigner(w, from)
		if gerr != nil {
			return nil, gerr
		}
		signer = resolved
	} else {
		wlt := w.Wallets.Default()
		signer = &confluxSigner{wallet: wlt, cfxAddr: confluxchain.EncodeAddress(wlt.Address, w.NetworkID)}
		txArgs["from"] = signer.cfxAddr
	}

	var hash string
	err := w.Nonces.WithLock(signer.wallet.Address, func() error {
		tx, gerr := w.ComposeTransaction(ctx, txArgs)
		if gerr != nil {
			return gerr
		}
		tx.From = &signer.wallet.Address

		if !txArgs.HasField("nonce") {
			nonce, gerr := w.GetTransactionCount(ctx, signer.cfxAddr)
			if gerr != nil {
				return gerr
			}
			tx.Nonce = &nonce
		}

		h, gerr := w.SignAndSend(ctx, signer.wallet, tx)
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

func confluxEstimateGas(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []backend.TxArgs
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, gwerrors.InvalidParameter("eth_estimateGas expects [txArgs]")
	}
	txArgs := args[0]
	delete(txArgs, "gas")

	tx, gerr := w.ComposeTransaction(ctx, txArgs)
	if gerr != nil {
		return nil, gerr
	}
	return toHexUint64(*tx.GasLimit), nil
}

func confluxGasPrice(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	price, err := w.EstimateGasPrice(ctx)
	if err != nil {
		return nil, gwerrors.UnpredictableGasPrice(err)
	}
	return toHexBig(price), nil
}

// confluxCall runs composeTransaction for validation/threshold checks
// before forwarding; RawForward handles the eth_call->cfx_call alias,
// CIP-37 address translation and rollback-bound epoch tag.
func confluxCall(ctx context.Context, w *confluxchain.Wrapper, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
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
	return w.RawForward(ctx, "eth_call", params)
}

// confluxSigner pairs a managed wallet with the CIP-37 address form
// Conflux's JSON-RPC expects on the wire.
type confluxSigner struct {
	wallet  *wallet.Wallet
	cfxAddr string
}

func resolveConfluxSigner(w *confluxchain.Wrapper, addrOrCfx string) (*confluxSigner, *gwerrors.GatewayError) {
	resolved, gerr := w.Wallets.Resolve(addrOrCfx)
	if gerr != nil {
		decoded, decErr := confluxchain.DecodeAddress(addrOrCfx)
		if decErr != nil {
			return nil, gerr
		}
		resolved, gerr = w.Wallets.Resolve(decoded.Hex())
		if gerr != nil {
			return nil, gerr
		}
	}
	return &confluxSigner{wallet: resolved, cfxAddr: confluxchain.EncodeAddress(resolved.Address, w.NetworkID)}, nil
}
