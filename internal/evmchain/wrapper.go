// Package evmchain implements the generic EVM-compatible BackendWrapper
// (spec §4.6's "otherwise same envelope and handler set as generic EVM"
// baseline; also the literal Infura/ethers-style adapter of spec §1).
// zkSync-era speaks the same JSON-RPC surface from the gateway's vantage
// point, so it is configured as this same wrapper with forceEIP1559=true.
package evmchain

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

// Wrapper is the generic EVM BackendWrapper (spec §2 "BackendWrapper").
type Wrapper struct {
	Cfg      *gwconfig.BackendConfig
	Client   *ethrpc.Client
	Wallets  *wallet.WalletSet
	Nonces   *wallet.NonceMonitor
	Rollback *RollbackState
	Log      *zap.SugaredLogger
	chainID  *big.Int
}

// New dials the upstream JSON-RPC endpoint and binds the WalletSet to its
// chain id (spec §4.7).
func New(ctx context.Context, url string, cfg *gwconfig.BackendConfig, ws *wallet.WalletSet, log *zap.SugaredLogger) (*Wrapper, error) {
	client, err := ethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	w := &Wrapper{
		Cfg: cfg, Client: client, Wallets: ws,
		Nonces: wallet.NewNonceMonitor(), Rollback: NewRollbackState(), Log: log,
	}

	var chainIDHex string
	if err := client.CallContext(ctx, &chainIDHex, "eth_chainId"); err == nil {
		if id, err := hexutil.DecodeBig(chainIDHex); err == nil {
			w.chainID = id
			ws.BindChainID(id)
		}
	}
	return w, nil
}

// ChainID returns the bound network's chain id.
func (w *Wrapper) ChainID() *big.Int { return w.chainID }

// WalletSet exposes the wrapper's bound WalletSet to the method table.
func (w *Wrapper) WalletSet() *wallet.WalletSet { return w.Wallets }

// NonceMonitor exposes the wrapper's per-address send lock to the method table.
func (w *Wrapper) NonceMonitor() *wallet.NonceMonitor { return w.Nonces }

// Config exposes the wrapper's tuning knobs to the method table (eth_syncing,
// eth_newBlockFilter, eth_getFilterChanges, interleaveBlocks).
func (w *Wrapper) Config() *gwconfig.BackendConfig { return w.Cfg }

// BindInterleavedBlock implements eth_call's interleaveBlocks binding: when
// configured, checks for a backend rollback against the last observed head
// and returns the hex block number to bind the call to. Returns "" when
// interleaving is disabled — the zero-cost path, no rollback check at all.
func (w *Wrapper) BindInterleavedBlock(ctx context.Context) (string, *gwerrors.GatewayError) {
	if w.Cfg.InterleaveBlocks == 0 {
		return "", nil
	}
	bound, err := CheckRollbacks(ctx, w.Client, w.Cfg.InterleaveBlocks, w.Rollback, w.Log)
	if err != nil {
		w.Log.Warnw("evm rollback check failed", "err", err)
		return "", nil
	}
	return hexutil.EncodeBig(bound), nil
}

// EstimateGasPrice implements backend.GasEstimator via eth_gasPrice.
func (w *Wrapper) EstimateGasPrice(ctx context.Context) (*big.Int, error) {
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return hexutil.DecodeBig(hex)
}

// EstimateGasLimit implements backend.GasEstimator via eth_estimateGas.
func (w *Wrapper) EstimateGasLimit(ctx context.Context, tx *backend.Transaction) (uint64, error) {
	callArgs := map[string]interface{}{}
	if tx.From != nil {
		callArgs["from"] = tx.From.Hex()
	}
	if tx.To != nil {
		callArgs["to"] = tx.To.Hex()
	}
	if tx.Value != nil {
		callArgs["value"] = hexutil.EncodeBig(tx.Value)
	}
	if len(tx.Data) > 0 {
		callArgs["data"] = hexutil.Encode(tx.Data)
	}
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "eth_estimateGas", callArgs); err != nil {
		return 0, err
	}
	return hexutil.DecodeUint64(hex)
}

// ComposeTransaction runs the shared algorithm from spec §4.3.
func (w *Wrapper) ComposeTransaction(ctx context.Context, args backend.TxArgs) (*backend.Transaction, *gwerrors.GatewayError) {
	return backend.ComposeTransaction(ctx, w.Cfg, w, w.chainID, args)
}

// GasPrice implements eth_gasPrice's MethodHandler behavior (spec §4.2):
// return a factored estimate when configured, else the raw backend value.
func (w *Wrapper) GasPrice(ctx context.Context) (*big.Int, *gwerrors.GatewayError) {
	price, err := w.EstimateGasPrice(ctx)
	if err != nil {
		return nil, gwerrors.UnpredictableGasPrice(err)
	}
	if w.Cfg.EthGasPriceFactor {
		return applyGasPriceFactor(price, w.Cfg.GasPriceFactor), nil
	}
	return price, nil
}

func applyGasPriceFactor(price *big.Int, factor float64) *big.Int {
	if factor == 0 || factor == 1.0 {
		return price
	}
	scaled := new(big.Float).Mul(new(big.Float).SetInt(price), big.NewFloat(factor))
	out, _ := scaled.Int(nil)
	return out
}

// GetTransactionCount fetches the nonce for an address at "pending".
func (w *Wrapper) GetTransactionCount(ctx context.Context, addr string) (uint64, *gwerrors.GatewayError) {
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "eth_getTransactionCount", addr, "pending"); err != nil {
		return 0, gwerrors.ExecutionError(err.Error(), nil)
	}
	n, err := hexutil.DecodeUint64(hex)
	if err != nil {
		return 0, gwerrors.InvalidJSONResponse(err)
	}
	return n, nil
}

// SignAndSend signs tx with w and submits it raw (spec §4.2 eth_sendTransaction).
func (w *Wrapper) SignAndSend(ctx context.Context, signer *wallet.Wallet, tx *backend.Transaction) (string, *gwerrors.GatewayError) {
	signed, err := signer.SignTransaction(tx.ToEthTx())
	if err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	var hash string
	if err := w.Client.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	return hash, nil
}

// RawForward implements step 3's "forward raw" path: any method without a
// local handler passes straight through to the backend (spec §4.1).
func (w *Wrapper) RawForward(ctx context.Context, method string, params json.RawMessage) (interface{}, *gwerrors.GatewayError) {
	var args []interface{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &args); err != nil {
			return nil, gwerrors.MalformedRequest("invalid params: %v", err)
		}
	}
	var result interface{}
	if err := w.Client.CallContext(ctx, &result, method, args...); err != nil {
		if rpcErr, ok := err.(ethrpc.Error); ok {
			var data interface{}
			if de, ok := err.(ethrpc.DataError); ok {
				data = de.ErrorData()
			}
			return nil, gwerrors.Passthrough(rpcErr.ErrorCode(), rpcErr.Error(), data)
		}
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	return result, nil
}
