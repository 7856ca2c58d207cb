// Package celochain specializes the generic EVM wrapper for Celo's
// gas-aware JSON-RPC (spec §4.6): fee-currency-aware gas pricing and a
// gasPriceMax ceiling distinct from the shared defaultGasPrice threshold.
//
// Celo's CIP-64 fee-currency transaction encoding needs its own RLP tx
// type outside go-ethereum's stdlib types.Transaction; like the vendored
// signing primitives spec §1 keeps external, this gateway signs and
// submits a standard legacy/dynamic-fee transaction. feeCurrency is sent
// to the backend only with the eth_gasPrice estimate that
// ComposeTransaction makes; eth_call, eth_estimateGas, the eth_gasPrice
// handler and the signed transaction do not carry it (see DESIGN.md).
package celochain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/evmchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// Wrapper adds Celo's feeCurrency/gasPriceMax semantics on top of the
// generic EVM wrapper.
type Wrapper struct {
	*evmchain.Wrapper
	FeeCurrency *common.Address
	GasPriceMax *big.Int
}

// New wraps an already-dialed generic wrapper with Celo specifics.
func New(base *evmchain.Wrapper, feeCurrency string, gasPriceMax *big.Int) *Wrapper {
	w := &Wrapper{Wrapper: base, GasPriceMax: gasPriceMax}
	if feeCurrency != "" {
		addr := common.HexToAddress(feeCurrency)
		w.FeeCurrency = &addr
	}
	return w
}

// EstimateGasPrice asks the backend with feeCurrency attached, per spec
// §4.6 "getGasPrice() calls backend with feeCurrency".
func (w *Wrapper) EstimateGasPrice(ctx context.Context) (*big.Int, error) {
	if w.FeeCurrency == nil {
		return w.Wrapper.EstimateGasPrice(ctx)
	}
	var hex string
	if err := w.Client.CallContext(ctx, &hex, "eth_gasPrice", map[string]interface{}{
		"feeCurrency": w.FeeCurrency.Hex(),
	}); err != nil {
		return nil, err
	}
	return decodeBig(hex)
}

// ComposeTransaction runs the shared algorithm, then enforces Celo's
// gasPriceMax ceiling and stamps the resolved feeCurrency onto the tx.
func (w *Wrapper) ComposeTransaction(ctx context.Context, args backend.TxArgs) (*backend.Transaction, *gwerrors.GatewayError) {
	tx, gerr := backend.ComposeTransaction(ctx, w.Cfg, w, w.ChainID(), args)
	if gerr != nil {
		return nil, gerr
	}
	if w.GasPriceMax != nil && tx.GasPrice != nil && tx.GasPrice.Cmp(w.GasPriceMax) > 0 {
		return nil, gwerrors.GasPriceAboveThreshold(tx.GasPrice.String(), w.GasPriceMax.String())
	}
	tx.FeeCurrency = w.FeeCurrency
	return tx, nil
}

func decodeBig(hex string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(trimHexPrefix(hex), 16)
	if !ok {
		return nil, fmt.Errorf("celochain: invalid hex integer %q", hex)
	}
	return n, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
