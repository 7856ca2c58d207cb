// Package gwconfig models the per-backend tuning knobs of spec §3
// ("BackendConfig") and loads them from the environment variables listed
// in spec §6, grounded on the wallet-service pack's viper-based config
// loader. Env collection itself is an external-collaborator concern
// (spec §1); core packages only ever see the typed struct below.
package gwconfig

import (
	"math/big"
	"strings"

	"github.com/spf13/viper"
)

// EpochLabel enumerates Conflux's epoch tags (spec §3).
type EpochLabel string

const (
	EpochLatestState      EpochLabel = "latest_state"
	EpochLatestConfirmed  EpochLabel = "latest_confirmed"
	EpochLatestFinalized  EpochLabel = "latest_finalized"
	EpochLatestCheckpoint EpochLabel = "latest_checkpoint"
)

// BackendConfig is the common tuning surface shared by every backend
// wrapper (spec §3 BackendConfig, §4.3 composeTransaction).
type BackendConfig struct {
	DefaultGasPrice *big.Int
	DefaultGasLimit uint64

	EstimateGasPrice bool
	EstimateGasLimit bool

	GasPriceFactor float64
	GasLimitFactor float64

	ForceEIP155  bool
	ForceEIP1559 bool

	InterleaveBlocks uint64

	AlwaysSynced bool
	MockFilters  bool

	EthGasPriceFactor bool

	// Conflux-only.
	EpochLabel         EpochLabel
	ConfirmationEpochs uint64

	// Celo-only.
	FeeCurrency string // ERC-20 address, empty if unset.
	GasPriceMax *big.Int

	// Reef-only.
	GraphURL string
}

// Default returns thresholds of 20 gwei gas price and 6,000,000 gas limit
// with estimation disarmed (factors at 1.0, no estimation), mirroring the
// teacher's Default()/MergeWithDefaults idiom.
func Default() *BackendConfig {
	return &BackendConfig{
		DefaultGasPrice:    big.NewInt(20_000_000_000),
		DefaultGasLimit:    6_000_000,
		GasPriceFactor:     1.0,
		GasLimitFactor:     1.0,
		EpochLabel:         EpochLatestState,
		ConfirmationEpochs: 0,
	}
}

// LoadFromEnv builds a BackendConfig for the given env-var prefix
// (one of ETHRPC_ETHERS_, ETHRPC_INFURA_, ETHRPC_CONFLUX_, ETHRPC_CELO_,
// per spec §6), overlaying Default() with whatever is set.
func LoadFromEnv(prefix string) *BackendConfig {
	v := viper.New()
	v.SetEnvPrefix(strings.TrimSuffix(prefix, "_"))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := Default()

	if s := v.GetString("GAS_PRICE"); s != "" {
		if n, ok := new(big.Int).SetString(s, 10); ok {
			cfg.DefaultGasPrice = n
		}
	}
	if n := v.GetUint64("GAS_LIMIT"); n != 0 {
		cfg.DefaultGasLimit = n
	}
	cfg.EstimateGasPrice = v.GetBool("ESTIMATE_GAS_PRICE")
	cfg.EstimateGasLimit = v.GetBool("ESTIMATE_GAS_LIMIT")
	if f := v.GetFloat64("GAS_PRICE_FACTOR"); f != 0 {
		cfg.GasPriceFactor = f
	}
	if f := v.GetFloat64("GAS_LIMIT_FACTOR"); f != 0 {
		cfg.GasLimitFactor = f
	}
	cfg.ForceEIP155 = v.GetBool("FORCE_EIP_155")
	cfg.ForceEIP1559 = v.GetBool("FORCE_EIP_1559")
	cfg.EthGasPriceFactor = v.GetBool("ETH_GAS_PRICE_FACTOR")
	cfg.AlwaysSynced = v.GetBool("ALWAYS_SYNCED")
	cfg.MockFilters = v.GetBool("MOCK_FILTERS")

	if lbl := v.GetString("DEFAULT_EPOCH_LABEL"); lbl != "" {
		cfg.EpochLabel = EpochLabel(lbl)
	}
	if n := v.GetUint64("CONFIRMATION_EPOCHS"); n != 0 {
		cfg.ConfirmationEpochs = n
	}

	return cfg
}

// GatewayConfig holds the top-level wiring that cmd/gateway assembles
// before constructing a backend wrapper (spec §6 env var table).
type GatewayConfig struct {
	Port        string
	ProviderURL string
	ProviderKey string
	Network     string

	SeedPhrase        string
	PrivateKeysJSON   string
	SeedPhraseWallets int

	CallInterleaveBlocks uint64
	ReefGraphQLURL       string
	CeloFeeCurrency      string
	CeloGasPriceMax      string

	LogLevel string
}

// LoadGatewayConfig reads the top-level env vars from spec §6 via viper.
func LoadGatewayConfig() *GatewayConfig {
	v := viper.New()
	v.SetEnvPrefix("ETHRPC")
	v.AutomaticEnv()

	cfg := &GatewayConfig{
		Port:              v.GetString("PORT"),
		ProviderURL:       v.GetString("PROVIDER_URL"),
		ProviderKey:       v.GetString("PROVIDER_KEY"),
		Network:           v.GetString("NETWORK"),
		SeedPhrase:        v.GetString("SEED_PHRASE"),
		PrivateKeysJSON:   v.GetString("PRIVATE_KEYS"),
		SeedPhraseWallets: v.GetInt("SEED_PHRASE_WALLETS"),
		LogLevel:          v.GetString("LOG_LEVEL"),
	}
	if cfg.SeedPhraseWallets == 0 {
		cfg.SeedPhraseWallets = 5
	}
	if cfg.Port == "" {
		cfg.Port = "8545"
	}

	reef := viper.New()
	reef.AutomaticEnv()
	cfg.ReefGraphQLURL = reef.GetString("REEF_GRAPHQL_URL")
	cfg.CeloFeeCurrency = reef.GetString("CELO_FEE_CURRENCY")
	cfg.CeloGasPriceMax = reef.GetString("CELO_GAS_PRICE_MAX")
	if n := v.GetUint64("CALL_INTERLEAVE_BLOCKS"); n != 0 {
		cfg.CallInterleaveBlocks = n
	}

	return cfg
}
