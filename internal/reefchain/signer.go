package reefchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	ethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/wallet"
)

// EthSigner adapts a gateway-managed ECDSA wallet to ReefSigner.
//
// Spec §1 lists sr25519 signing among the vendored cryptographic
// primitives this gateway calls into rather than re-implements; no
// Substrate SDK exists anywhere in the retrieved corpus to ground a
// byte-exact SCALE-encoded extrinsic signer against (same situation as
// Celo's CIP-64 and Conflux's CIP-37 codec — see DESIGN.md). This signer
// uses the wallet's ECDSA key only for the one-time account claim message.
// Ordinary sends go to the node's eth_sendTransaction as unsigned
// transaction fields; the wallet's key does not sign them, and no
// Substrate extrinsic is built.
type EthSigner struct {
	wallet *wallet.Wallet
	client *ethrpc.Client
}

// NewEthSigner binds a wallet to the Substrate node's JSON-RPC client.
func NewEthSigner(w *wallet.Wallet, client *ethrpc.Client) *EthSigner {
	return &EthSigner{wallet: w, client: client}
}

func (s *EthSigner) Address() common.Address { return s.wallet.Address }

// ClaimDefaultAccount binds the wallet's EVM address to a default Reef
// native account by submitting a signed claim message (spec §4.5
// "At startup, any unclaimed EVM account is claimed on-chain").
func (s *EthSigner) ClaimDefaultAccount(ctx context.Context) error {
	sig, err := s.wallet.SignMessage([]byte("claim default account:" + s.wallet.Address.Hex()))
	if err != nil {
		return err
	}
	var ignored interface{}
	return s.client.CallContext(ctx, &ignored, "evm_claimDefaultAccount", s.wallet.Address.Hex(), common.Bytes2Hex(sig))
}

// SendTransaction submits the transaction fields, unsigned, through the
// node's eth_sendTransaction method; the wallet's key is not used here.
func (s *EthSigner) SendTransaction(ctx context.Context, to *common.Address, value, data []byte) (common.Hash, error) {
	args := map[string]interface{}{
		"from": s.wallet.Address.Hex(),
		"data": common.Bytes2Hex(data),
	}
	if to != nil {
		args["to"] = to.Hex()
	}
	if len(value) > 0 {
		args["value"] = common.Bytes2Hex(value)
	}
	var hash common.Hash
	if err := s.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}
