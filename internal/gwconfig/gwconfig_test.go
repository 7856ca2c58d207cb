package gwconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDisarmsEstimationAndFactors(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.EstimateGasPrice)
	assert.False(t, cfg.EstimateGasLimit)
	assert.Equal(t, 1.0, cfg.GasPriceFactor)
	assert.Equal(t, 1.0, cfg.GasLimitFactor)
	assert.Equal(t, EpochLatestState, cfg.EpochLabel)
}

func TestLoadFromEnvOverlaysDefaults(t *testing.T) {
	t.Setenv("ETHRPC_INFURA_GAS_PRICE", "42")
	t.Setenv("ETHRPC_INFURA_ESTIMATE_GAS_PRICE", "true")
	t.Setenv("ETHRPC_INFURA_GAS_PRICE_FACTOR", "1.5")

	cfg := LoadFromEnv("ETHRPC_INFURA_")
	require.NotNil(t, cfg.DefaultGasPrice)
	assert.Equal(t, "42", cfg.DefaultGasPrice.String())
	assert.True(t, cfg.EstimateGasPrice)
	assert.Equal(t, 1.5, cfg.GasPriceFactor)

	os.Unsetenv("ETHRPC_INFURA_GAS_PRICE")
	os.Unsetenv("ETHRPC_INFURA_ESTIMATE_GAS_PRICE")
	os.Unsetenv("ETHRPC_INFURA_GAS_PRICE_FACTOR")
}

func TestLoadGatewayConfigDefaultsPortAndWalletCount(t *testing.T) {
	cfg := LoadGatewayConfig()
	assert.Equal(t, "8545", cfg.Port)
	assert.Equal(t, 5, cfg.SeedPhraseWallets)
}
