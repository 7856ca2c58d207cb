package confluxchain

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/wallet"
)

// Wrapper is the Conflux BackendWrapper (spec §4.4).
type Wrapper struct {
	Cfg       *gwconfig.BackendConfig
	Client    *ethrpc.Client
	Wallets   *wallet.WalletSet
	Nonces    *wallet.NonceMonitor
	Rollback  *RollbackState
	Log       *zap.SugaredLogger
	NetworkID uint32
	chainID   *big.Int
}

// New dials the Conflux node and fetches its network id for CIP-37 scoping.
func New(ctx context.Context, url string, cfg *gwconfig.BackendConfig, ws *wallet.WalletSet, log *zap.SugaredLogger) (*Wrapper, error) {
	client, err := ethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	w := &Wrapper{
		Cfg: cfg, Client: client, Wallets: ws,
		Nonces: wallet.NewNonceMonitor(), Rollback: NewRollbackState(), Log: log,
	}

	var status struct {
		ChainID   hexutil.Uint64 `json:"chainId"`
		NetworkID hexutil.Uint64 `json:"networkId"`
	}
	if err := client.CallContext(ctx, &status, "cfx_getStatus"); err == nil {
		w.chainID = new(big.Int).SetUint64(uint64(status.ChainID))
		w.NetworkID = uint32(status.NetworkID)
		ws.BindChainID(w.chainID)
	}
	return w, nil
}

func (w *Wrapper) ChainID() *big.Int { return w.chainID }

// EstimateGasPrice implements backend.GasEstimator via cfx_gasPrice.
func (w *Wrapper) EstimateGasPrice(ctx context.Context) (*big.Int, error) {
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "cfx_gasPrice"); err != nil {
		return nil, err
	}
	return hexutil.DecodeBig(hex)
}

// EstimateGasLimit implements backend.GasEstimator via cfx_estimateGasAndCollateral's gas field.
func (w *Wrapper) EstimateGasLimit(ctx context.Context, tx *backend.Transaction) (uint64, error) {
	callArgs := map[string]interface{}{}
	if tx.From != nil {
		callArgs["from"] = EncodeAddress(*tx.From, w.NetworkID)
	}
	if tx.To != nil {
		callArgs["to"] = EncodeAddress(*tx.To, w.NetworkID)
	}
	if tx.Value != nil {
		callArgs["value"] = hexutil.EncodeBig(tx.Value)
	}
	if len(tx.Data) > 0 {
		callArgs["data"] = hexutil.Encode(tx.Data)
	}
	var result struct {
		GasLimit hexutil.Uint64 `json:"gasLimit"`
	}
	if err := w.Client.CallContext(ctx, &result, "cfx_estimateGasAndCollateral", callArgs); err != nil {
		return 0, err
	}
	return uint64(result.GasLimit), nil
}

// ComposeTransaction runs the shared algorithm against Conflux's gas RPCs.
func (w *Wrapper) ComposeTransaction(ctx context.Context, args backend.TxArgs) (*backend.Transaction, *gwerrors.GatewayError) {
	return backend.ComposeTransaction(ctx, w.Cfg, w, w.chainID, args)
}

// RawForward performs method aliasing then forwards to the Conflux node
// (spec §4.1 steps 1 and 3).
func (w *Wrapper) RawForward(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	rewritten, gerr := RewriteParams(method, params, w.Cfg, w.NetworkID)
	if gerr != nil {
		return nil, gerr
	}

	cfxMethod := method
	if alias, ok := MethodAlias[method]; ok {
		cfxMethod = alias
	}

	var args []interface{}
	if len(rewritten) > 0 {
		if err := json.Unmarshal(rewritten, &args); err != nil {
			return nil, gwerrors.MalformedRequest("invalid params: %v", err)
		}
	}

	// Rollback detection runs before every read-only cfx_call regardless of
	// confirmationEpochs; only the bound applied below is conditioned on it
	// (spec §4.4 "Rollback detection").
	if cfxMethod == "cfx_call" {
		bound, err := CheckRollbacks(ctx, w.Client, w.Cfg, w.Rollback, w.Log)
		if err != nil {
			w.Log.Warnw("conflux rollback check failed", "err", err)
		} else if w.Cfg.ConfirmationEpochs > 0 {
			if len(args) < 2 {
				args = append(args, hexutil.EncodeBig(bound))
			} else {
				args[1] = hexutil.EncodeBig(bound)
			}
		}
	}

	var result interface{}
	if err := w.Client.CallContext(ctx, &result, cfxMethod, args...); err != nil {
		if rpcErr, ok := err.(ethrpc.Error); ok {
			var data interface{}
			if de, ok := err.(ethrpc.DataError); ok {
				data = de.ErrorData()
			}
			return nil, gwerrors.Passthrough(rpcErr.ErrorCode(), rpcErr.Error(), data)
		}
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	return RewriteResponse(result), nil
}

func (w *Wrapper) GetTransactionCount(ctx context.Context, cfxAddr string) (uint64, *gwerrors.GatewayError) {
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "cfx_getNextNonce", cfxAddr); err != nil {
		return 0, gwerrors.ExecutionError(err.Error(), nil)
	}
	n, err := hexutil.DecodeUint64(hex)
	if err != nil {
		return 0, gwerrors.InvalidJSONResponse(err)
	}
	return n, nil
}

// SignAndSend signs a composed Conflux-shaped transaction and submits it
// raw via cfx_sendRawTransaction.
func (w *Wrapper) SignAndSend(ctx context.Context, signer *wallet.Wallet, tx *backend.Transaction) (string, *gwerrors.GatewayError) {
	ethTx := tx.ToEthTx()
	signed, err := signer.SignTransaction(ethTx)
	if err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	var hash string
	if err := w.Client.CallContext(ctx, &hash, "cfx_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	return hash, nil
}
