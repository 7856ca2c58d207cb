package reefchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// ReefSigner adapts a gateway-managed EVM address to Substrate extrinsic
// submission (spec §4.5, §1: sr25519 signing is a vendored primitive this
// gateway calls into rather than implements).
type ReefSigner interface {
	Address() common.Address
	ClaimDefaultAccount(ctx context.Context) error
	SendTransaction(ctx context.Context, to *common.Address, value []byte, data []byte) (common.Hash, error)
}

// Wrapper is the Reef BackendWrapper (spec §4.5).
type Wrapper struct {
	Substrate *ethrpc.Client // raw Call() access to the Substrate node's JSON-RPC
	GraphQL   *GraphQLClient
	Signers   map[common.Address]ReefSigner
	chainID   *big.Int
}

// New builds a Reef wrapper bound to a Substrate JSON-RPC endpoint and a
// GraphQL index, claiming any unclaimed EVM account at startup (spec
// §4.5 "At startup, any unclaimed EVM account is claimed on-chain").
func New(ctx context.Context, substrateURL, graphURL string, signers []ReefSigner) (*Wrapper, error) {
	client, err := ethrpc.DialContext(ctx, substrateURL)
	if err != nil {
		return nil, err
	}
	w := &Wrapper{Substrate: client, GraphQL: NewGraphQLClient(graphURL), Signers: make(map[common.Address]ReefSigner)}
	for _, s := range signers {
		w.Signers[s.Address()] = s
		if err := s.ClaimDefaultAccount(ctx); err != nil {
			return nil, fmt.Errorf("reefchain: claiming default account for %s: %w", s.Address().Hex(), err)
		}
	}

	// Frontier's EVM pallet answers eth_chainId over the same Substrate
	// JSON-RPC endpoint, same as any other Ethereum-compatible node.
	var chainIDHex string
	if err := client.CallContext(ctx, &chainIDHex, "eth_chainId"); err == nil {
		if id, err := hexutil.DecodeBig(chainIDHex); err == nil {
			w.chainID = id
		}
	}
	return w, nil
}

// ChainID returns the bound chain's id.
func (w *Wrapper) ChainID() *big.Int { return w.chainID }

// Accounts implements eth_accounts: the configured EVM addresses, each
// tied to a Reef keypair (spec §4.5).
func (w *Wrapper) Accounts() []string {
	out := make([]string, 0, len(w.Signers))
	for addr := range w.Signers {
		out = append(out, addr.Hex())
	}
	return out
}

// BlockNumber implements eth_blockNumber from the Substrate chain head.
func (w *Wrapper) BlockNumber(ctx context.Context) (string, *gwerrors.GatewayError) {
	var header struct {
		Number string `json:"number"`
	}
	if err := w.Substrate.CallContext(ctx, &header, "chain_getHeader"); err != nil {
		return "", gwerrors.ExecutionError(err.Error(), nil)
	}
	return header.Number, nil
}

// GetBlockByNumber implements eth_getBlockByNumber by querying the
// GraphQL index for the latest finalized block and its evm extrinsics
// (spec §4.5).
func (w *Wrapper) GetBlockByNumber(ctx context.Context, tag string) (map[string]interface{}, *gwerrors.GatewayError) {
	const query = `
query($height: bigint) {
  block(where: {finalized: {_eq: true}, height: {_eq: $height}}, limit: 1) {
    id hash parentHash height stateRoot timestamp finalized
  }
  extrinsic(where: {block: {height: {_eq: $height}}, section: {_eq: "evm"}}) {
    hash
  }
}`
	var result struct {
		Block      []block `json:"block"`
		Extrinsic  []struct {
			Hash string `json:"hash"`
		} `json:"extrinsic"`
	}
	vars := map[string]interface{}{}
	if tag != "latest" {
		vars["height"] = tag
	}
	if err := w.GraphQL.Query(ctx, query, vars, &result); err != nil {
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	if len(result.Block) == 0 {
		return nil, gwerrors.ExecutionError("reef: no finalized block found", nil)
	}

	hashes := make([]string, len(result.Extrinsic))
	for i, e := range result.Extrinsic {
		hashes[i] = e.Hash
	}
	return ProjectBlock(result.Block[0], hashes), nil
}

// GetTransactionReceipt implements eth_getTransactionReceipt by querying
// the GraphQL index by hash, requiring block.finalized (spec §4.5).
func (w *Wrapper) GetTransactionReceipt(ctx context.Context, hash string) (map[string]interface{}, *gwerrors.GatewayError) {
	const query = `
query($hash: String!) {
  extrinsic(where: {hash: {_eq: $hash}, block: {finalized: {_eq: true}}}, limit: 1) {
    hash index signer
    block { hash height }
    events { section method data }
    partialFee
    weight
  }
}`
	var result struct {
		Extrinsic []struct {
			Hash   string `json:"hash"`
			Index  int    `json:"index"`
			Signer string `json:"signer"`
			Block  struct {
				Hash   string `json:"hash"`
				Height uint64 `json:"height"`
			} `json:"block"`
			Events     []evmEvent `json:"events"`
			PartialFee float64    `json:"partialFee"`
			Weight     float64    `json:"weight"`
		} `json:"extrinsic"`
	}
	if err := w.GraphQL.Query(ctx, query, map[string]interface{}{"hash": hash}, &result); err != nil {
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	if len(result.Extrinsic) == 0 {
		return nil, nil
	}
	e := result.Extrinsic[0]
	ext := extrinsic{Hash: e.Hash, Index: e.Index, Signer: e.Signer, Events: e.Events}
	return ProjectReceipt(ext, e.Block.Hash, e.Block.Height, e.PartialFee, e.Weight), nil
}

// GetTransactionByHash implements eth_getTransactionByHash by querying the
// GraphQL index by hash, requiring block.finalized (spec §4.5).
func (w *Wrapper) GetTransactionByHash(ctx context.Context, hash string) (map[string]interface{}, *gwerrors.GatewayError) {
	const query = `
query($hash: String!) {
  extrinsic(where: {hash: {_eq: $hash}, block: {finalized: {_eq: true}}}, limit: 1) {
    hash index signer
    block { hash height }
  }
}`
	var result struct {
		Extrinsic []struct {
			Hash   string `json:"hash"`
			Index  int    `json:"index"`
			Signer string `json:"signer"`
			Block  struct {
				Hash   string `json:"hash"`
				Height uint64 `json:"height"`
			} `json:"block"`
		} `json:"extrinsic"`
	}
	if err := w.GraphQL.Query(ctx, query, map[string]interface{}{"hash": hash}, &result); err != nil {
		return nil, gwerrors.ExecutionError(err.Error(), nil)
	}
	if len(result.Extrinsic) == 0 {
		return nil, nil
	}
	e := result.Extrinsic[0]
	return ProjectTransaction(e.Hash, e.Block.Hash, e.Block.Height, e.Index, e.Signer), nil
}

// SendTransaction delegates to the resolved signer's SendTransaction
// (spec §4.5 "eth_sendTransaction: delegate to the Reef
// Signer's sendTransaction").
func (w *Wrapper) SendTransaction(ctx context.Context, from common.Address, to *common.Address, value, data []byte) (common.Hash, *gwerrors.GatewayError) {
	signer, ok := w.Signers[from]
	if !ok {
		return common.Hash{}, gwerrors.UnknownSigner(from.Hex())
	}
	hash, err := signer.SendTransaction(ctx, to, value, data)
	if err != nil {
		return common.Hash{}, gwerrors.ExecutionError(err.Error(), nil)
	}
	return hash, nil
}
