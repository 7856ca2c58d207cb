package backend

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// fakeEstimator is a GasEstimator test double returning fixed values.
type fakeEstimator struct {
	gasPrice *big.Int
	gasLimit uint64
	priceErr error
	limitErr error
}

func (f *fakeEstimator) EstimateGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasPrice, f.priceErr
}

func (f *fakeEstimator) EstimateGasLimit(ctx context.Context, tx *Transaction) (uint64, error) {
	return f.gasLimit, f.limitErr
}

func TestComposeTransactionUsesDefaultsWithoutEstimation(t *testing.T) {
	cfg := gwconfig.Default()
	cfg.DefaultGasPrice = big.NewInt(5)
	cfg.DefaultGasLimit = 21000

	est := &fakeEstimator{}
	args := TxArgs{"from": "0x0000000000000000000000000000000000000002", "to": "0x0000000000000000000000000000000000000001"}

	tx, gerr := ComposeTransaction(context.Background(), cfg, est, nil, args)
	require.Nil(t, gerr)
	assert.Equal(t, big.NewInt(5), tx.GasPrice)
	require.NotNil(t, tx.GasLimit)
	assert.Equal(t, uint64(21000), *tx.GasLimit)
}

func TestComposeTransactionEstimatesAndAppliesFactor(t *testing.T) {
	cfg := gwconfig.Default()
	cfg.DefaultGasPrice = big.NewInt(1000)
	cfg.DefaultGasLimit = 100000
	cfg.EstimateGasPrice = true
	cfg.EstimateGasLimit = true
	cfg.GasPriceFactor = 1.1
	cfg.GasLimitFactor = 1.0

	est := &fakeEstimator{gasPrice: big.NewInt(100), gasLimit: 21000}
	args := TxArgs{"from": "0x0000000000000000000000000000000000000002", "to": "0x0000000000000000000000000000000000000001"}

	tx, gerr := ComposeTransaction(context.Background(), cfg, est, nil, args)
	require.Nil(t, gerr)
	assert.Equal(t, big.NewInt(110), tx.GasPrice)
	assert.Equal(t, uint64(21000), *tx.GasLimit)
}

func TestComposeTransactionRejectsGasPriceAboveThreshold(t *testing.T) {
	cfg := gwconfig.Default()
	cfg.DefaultGasPrice = big.NewInt(100)
	cfg.DefaultGasLimit = 100000

	est := &fakeEstimator{}
	args := TxArgs{
		"from":     "0x0000000000000000000000000000000000000002",
		"to":       "0x0000000000000000000000000000000000000001",
		"gasPrice": "0xffff", // 65535, far above threshold
	}

	_, gerr := ComposeTransaction(context.Background(), cfg, est, nil, args)
	require.NotNil(t, gerr)
	assert.Equal(t, -32099, gerr.Code())
}

func TestComposeTransactionRejectsExplicitGasLimitAboveThreshold(t *testing.T) {
	cfg := gwconfig.Default()
	cfg.DefaultGasPrice = big.NewInt(100)
	cfg.DefaultGasLimit = 21000

	est := &fakeEstimator{}
	args := TxArgs{
		"from": "0x0000000000000000000000000000000000000002",
		"to":   "0x0000000000000000000000000000000000000001",
		"gas":  "0x61a8", // 25000, above 21000 threshold
	}

	_, gerr := ComposeTransaction(context.Background(), cfg, est, nil, args)
	require.NotNil(t, gerr)
	assert.Equal(t, -32099, gerr.Code())
}

func TestComposeTransactionPropagatesEstimatorFailureAsUnpredictable(t *testing.T) {
	cfg := gwconfig.Default()
	cfg.EstimateGasPrice = true
	est := &fakeEstimator{priceErr: assertErr{}}
	args := TxArgs{"from": "0x0000000000000000000000000000000000000002", "to": "0x0000000000000000000000000000000000000001"}

	_, gerr := ComposeTransaction(context.Background(), cfg, est, nil, args)
	require.NotNil(t, gerr)
	assert.Equal(t, gwerrors.KindUnpredictableGasPrice, gerr.Kind)
}

type assertErr struct{}

func (assertErr) Error() string { return "rpc unavailable" }
