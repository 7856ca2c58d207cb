package backend

import (
	"context"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// GasEstimator asks the downstream backend for a live gas price/limit
// estimate. Each chain package supplies its own (e.g. Celo's passes
// feeCurrency, spec §4.6; Conflux's speaks cfx_gasPrice, spec §4.4).
type GasEstimator interface {
	EstimateGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGasLimit(ctx context.Context, tx *Transaction) (uint64, error)
}

// ComposeTransaction implements spec §4.3's ordered contract: resolve
// EIP-155/1559 shaping, then gas price, then gas limit, enforcing the
// configured thresholds at every step.
func ComposeTransaction(
	ctx context.Context,
	cfg *gwconfig.BackendConfig,
	estimator GasEstimator,
	chainID *big.Int,
	args TxArgs,
) (*Transaction, *gwerrors.GatewayError) {
	tx, gerr := ParseTxArgs(args)
	if gerr != nil {
		return nil, gerr
	}

	if cfg.ForceEIP155 && chainID != nil {
		tx.ChainID = chainID
	}
	if cfg.ForceEIP1559 {
		t := byte(types.DynamicFeeTxType)
		tx.Type = &t
	}

	// Step 4: gas price resolution.
	readOnly := tx.From == nil
	switch {
	case readOnly && !args.HasField("gasPrice"):
		// leave gasPrice unset
	case !args.HasField("gasPrice"):
		price, gerr := getGasPrice(ctx, cfg, estimator)
		if gerr != nil {
			return nil, gerr
		}
		tx.GasPrice = price
	default:
		if tx.GasPrice.Cmp(cfg.DefaultGasPrice) > 0 {
			return nil, gwerrors.GasPriceAboveThreshold(tx.GasPrice.String(), cfg.DefaultGasPrice.String())
		}
	}

	// Step 6: gas limit resolution, symmetric to gas price.
	switch {
	case !args.HasField("gas"):
		limit, gerr := getGasLimit(ctx, cfg, estimator, tx)
		if gerr != nil {
			return nil, gerr
		}
		tx.GasLimit = &limit
	default:
		if *tx.GasLimit > cfg.DefaultGasLimit {
			return nil, gwerrors.GasLimitAboveThreshold(
				big.NewInt(0).SetUint64(*tx.GasLimit).String(),
				big.NewInt(0).SetUint64(cfg.DefaultGasLimit).String(),
			)
		}
	}

	if cfg.ForceEIP1559 && tx.GasPrice != nil {
		if tx.MaxFeePerGas == nil {
			tx.MaxFeePerGas = new(big.Int).Set(tx.GasPrice)
		}
		if tx.MaxPriorityFeePerGas == nil {
			tx.MaxPriorityFeePerGas = new(big.Int).Set(tx.GasPrice)
		}
	}

	return tx, nil
}

// getGasPrice implements spec §4.3 step 5.
func getGasPrice(ctx context.Context, cfg *gwconfig.BackendConfig, estimator GasEstimator) (*big.Int, *gwerrors.GatewayError) {
	if !cfg.EstimateGasPrice {
		return new(big.Int).Set(cfg.DefaultGasPrice), nil
	}
	price, err := estimator.EstimateGasPrice(ctx)
	if err != nil {
		return nil, gwerrors.UnpredictableGasPrice(err)
	}
	factored := applyFactor(price, cfg.GasPriceFactor)
	if factored.Cmp(cfg.DefaultGasPrice) > 0 {
		return nil, gwerrors.GasPriceAboveThreshold(factored.String(), cfg.DefaultGasPrice.String())
	}
	return factored, nil
}

// getGasLimit implements spec §4.3 step 6.
func getGasLimit(ctx context.Context, cfg *gwconfig.BackendConfig, estimator GasEstimator, tx *Transaction) (uint64, *gwerrors.GatewayError) {
	if !cfg.EstimateGasLimit {
		return cfg.DefaultGasLimit, nil
	}
	limit, err := estimator.EstimateGasLimit(ctx, tx)
	if err != nil {
		return 0, gwerrors.UnpredictableGasLimit(err)
	}
	factored := applyFactorUint(limit, cfg.GasLimitFactor)
	if factored > cfg.DefaultGasLimit {
		return 0, gwerrors.GasLimitAboveThreshold(
			big.NewInt(0).SetUint64(factored).String(),
			big.NewInt(0).SetUint64(cfg.DefaultGasLimit).String(),
		)
	}
	return factored, nil
}

// applyFactor multiplies a big.Int gas price by a rational factor, taking
// the ceiling of (value * factor * 100) / 100 per spec §4.3 step 5.
func applyFactor(value *big.Int, factor float64) *big.Int {
	if factor == 1.0 || factor == 0 {
		return new(big.Int).Set(value)
	}
	scaled := new(big.Float).Mul(new(big.Float).SetInt(value), big.NewFloat(factor*100))
	rounded, _ := scaled.Float64()
	ceiled := math.Ceil(rounded) / 100
	out, _ := big.NewFloat(ceiled).Int(nil)
	return out
}

func applyFactorUint(value uint64, factor float64) uint64 {
	if factor == 1.0 || factor == 0 {
		return value
	}
	scaled := math.Ceil(float64(value)*factor*100) / 100
	return uint64(scaled)
}
