// Command gateway runs the web3-jsonrpc-gateway HTTP listener, wiring
// configuration, wallets and a single backend together in the teacher's
// thin-main style (cmd/anvil/main.go).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	ethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/celochain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/confluxchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/evmchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwlog"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/httpserver"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/methods"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/reefchain"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/router"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/wallet"
)

func main() {
	log := gwlog.FromEnv()
	defer log.Sync()

	gw := gwconfig.LoadGatewayConfig()

	if gw.ProviderURL == "" {
		log.Fatalw("ETHRPC_PROVIDER_URL is required")
	}

	ws, err := loadWallets(gw)
	if err != nil {
		log.Fatalw("failed to load wallets", "err", err)
	}

	ctx := context.Background()
	dispatcher, err := buildDispatcher(ctx, gw, ws, log)
	if err != nil {
		log.Fatalw("failed to initialize backend", "network", gw.Network, "err", err)
	}

	r := router.New(dispatcher, log)
	srv := httpserver.New(r, log)

	addr := ":" + gw.Port
	log.Infow("gateway listening", "addr", addr, "network", gw.Network)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalw("listener exited", "err", err)
	}
}

// loadWallets builds the gateway's WalletSet from a mnemonic and/or an
// explicit private-key list (spec §4.7, §6).
func loadWallets(gw *gwconfig.GatewayConfig) (*wallet.WalletSet, error) {
	var keys []string
	if gw.PrivateKeysJSON != "" {
		if err := json.Unmarshal([]byte(gw.PrivateKeysJSON), &keys); err != nil {
			return nil, fmt.Errorf("parsing ETHRPC_PRIVATE_KEYS: %w", err)
		}
	}
	return wallet.New(gw.SeedPhrase, gw.SeedPhraseWallets, keys)
}

// buildDispatcher picks the BackendWrapper family for gw.Network and binds
// it to its MethodHandlers table (spec §4.2, §4.4, §4.5, §4.6).
func buildDispatcher(ctx context.Context, gw *gwconfig.GatewayConfig, ws *wallet.WalletSet, log *zap.SugaredLogger) (methods.Dispatcher, error) {
	switch gw.Network {
	case "conflux":
		cfg := gwconfig.LoadFromEnv("ETHRPC_CONFLUX_")
		if n := os.Getenv("ETHRPC_CONFLUX_CONFIRMATION_EPOCHS"); n != "" {
			fmt.Sscanf(n, "%d", &cfg.ConfirmationEpochs)
		}
		w, err := confluxchain.New(ctx, gw.ProviderURL, cfg, ws, log)
		if err != nil {
			return nil, err
		}
		return methods.ConfluxDispatcher{Backend: w}, nil

	case "celo":
		cfg := gwconfig.LoadFromEnv("ETHRPC_CELO_")
		base, err := evmchain.New(ctx, gw.ProviderURL, cfg, ws, log)
		if err != nil {
			return nil, err
		}
		var gasPriceMax *big.Int
		if gw.CeloGasPriceMax != "" {
			gasPriceMax, _ = new(big.Int).SetString(gw.CeloGasPriceMax, 10)
		}
		w := celochain.New(base, gw.CeloFeeCurrency, gasPriceMax)
		return methods.EVMDispatcher{Backend: w}, nil

	case "reef":
		substrateClient, err := ethrpc.DialContext(ctx, gw.ProviderURL)
		if err != nil {
			return nil, err
		}
		var signers []reefchain.ReefSigner
		for _, addr := range ws.Addresses() {
			wlt, gerr := ws.Resolve(addr.Hex())
			if gerr != nil {
				return nil, gerr
			}
			signers = append(signers, reefchain.NewEthSigner(wlt, substrateClient))
		}
		w, err := reefchain.New(ctx, gw.ProviderURL, gw.ReefGraphQLURL, signers)
		if err != nil {
			return nil, err
		}
		return methods.ReefDispatcher{Backend: w}, nil

	case "zksync":
		cfg := gwconfig.LoadFromEnv("ETHRPC_ZKSYNC_")
		cfg.ForceEIP1559 = true
		w, err := evmchain.New(ctx, gw.ProviderURL, cfg, ws, log)
		if err != nil {
			return nil, err
		}
		return methods.EVMDispatcher{Backend: w}, nil

	default: // "ethers" / "infura" / any other generic EVM provider
		prefix := "ETHRPC_ETHERS_"
		if gw.Network == "infura" {
			prefix = "ETHRPC_INFURA_"
		}
		cfg := gwconfig.LoadFromEnv(prefix)
		cfg.InterleaveBlocks = gw.CallInterleaveBlocks
		w, err := evmchain.New(ctx, gw.ProviderURL, cfg, ws, log)
		if err != nil {
			return nil, err
		}
		return methods.EVMDispatcher{Backend: w}, nil
	}
}
