// Package wallet implements the WalletSet (spec §3, §4.7): an ordered,
// immutable-after-startup collection of signing identities built from a
// BIP-39 seed phrase and/or a list of raw private keys.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// coinType is Ethereum's coin type in the BIP-44 path m/44'/60'/0'/0/i
// (spec Glossary).
const coinType = 60

// Wallet is a single signing identity (spec §3 "Wallet").
type Wallet struct {
	Address         common.Address
	DerivationIndex int

	mu      sync.RWMutex
	priv    *ecdsa.PrivateKey
	chainID *big.Int // bound once the provider's network is known (§4.7)
}

// bindChainID sets the chain id used for EIP-155 signing. Called through
// WalletSet.BindChainID once a backend wrapper has resolved the network.
func (w *Wallet) bindChainID(id *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainID = id
}

// SignMessage implements the eth_sign capability: an EIP-191 personal
// message signature (the "\x19Ethereum Signed Message:\n" prefix).
func (w *Wallet) SignMessage(message []byte) ([]byte, error) {
	hash := accounts.TextHash(message)
	sig, err := crypto.Sign(hash, w.priv)
	if err != nil {
		return nil, err
	}
	// crypto.Sign's recovery id is 0/1; eth_sign callers expect 27/28.
	sig[64] += 27
	return sig, nil
}

// SignTransaction signs a composed transaction, applying EIP-155 replay
// protection when a chain id is bound (spec §4.3 step 2, §4.7).
func (w *Wallet) SignTransaction(tx *types.Transaction) (*types.Transaction, error) {
	w.mu.RLock()
	chainID := w.chainID
	w.mu.RUnlock()

	var signer types.Signer
	switch {
	case tx.Type() == types.DynamicFeeTxType:
		signer = types.NewLondonSigner(chainID)
	case chainID != nil:
		signer = types.NewEIP155Signer(chainID)
	default:
		signer = types.HomesteadSigner{}
	}
	return types.SignTx(tx, signer, w.priv)
}

// WalletSet is the ordered, non-empty collection of Wallets (spec §3).
type WalletSet struct {
	wallets   []*Wallet
	byAddress map[common.Address]*Wallet
}

// New builds a WalletSet from a BIP-39 seed phrase (deriving numAddresses
// wallets along m/44'/60'/0'/0/i) and/or a list of raw hex private keys
// (spec §4.7). At least one of the two inputs must yield a wallet.
func New(seedPhrase string, numAddresses int, privateKeys []string) (*WalletSet, error) {
	ws := &WalletSet{byAddress: make(map[common.Address]*Wallet)}

	if strings.TrimSpace(seedPhrase) != "" {
		if !bip39.IsMnemonicValid(seedPhrase) {
			return nil, fmt.Errorf("wallet: invalid seed phrase")
		}
		seed := bip39.NewSeed(seedPhrase, "")
		master, err := bip32.NewMasterKey(seed)
		if err != nil {
			return nil, fmt.Errorf("wallet: deriving master key: %w", err)
		}
		for i := 0; i < numAddresses; i++ {
			priv, err := derivePrivateKey(master, i)
			if err != nil {
				return nil, fmt.Errorf("wallet: deriving account %d: %w", i, err)
			}
			ws.append(priv, i)
		}
		// Best-effort zeroization of the derived seed bytes; the mnemonic
		// string itself is immutable Go memory and outlives this call.
		for i := range seed {
			seed[i] = 0
		}
	}

	for _, hexKey := range privateKeys {
		priv, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("wallet: parsing private key: %w", err)
		}
		ws.append(priv, -1)
	}

	if len(ws.wallets) == 0 {
		return nil, fmt.Errorf("wallet: no wallets configured (need a seed phrase or private keys)")
	}
	return ws, nil
}

// derivePrivateKey walks m/44'/60'/0'/0/i from the master key.
func derivePrivateKey(master *bip32.Key, index int) (*ecdsa.PrivateKey, error) {
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + coinType,
		bip32.FirstHardenedChild + 0,
		0,
		uint32(index),
	}
	key := master
	for _, component := range path {
		var err error
		key, err = key.NewChildKey(component)
		if err != nil {
			return nil, err
		}
	}
	return crypto.ToECDSA(key.Key)
}

func (ws *WalletSet) append(priv *ecdsa.PrivateKey, derivationIndex int) {
	addr := crypto.PubkeyToAddress(priv.PublicKey)
	w := &Wallet{Address: addr, DerivationIndex: derivationIndex, priv: priv}
	ws.wallets = append(ws.wallets, w)
	ws.byAddress[addr] = w
}

// BindChainID binds every wallet to the provider's chain id so signing
// applies the correct replay protection (spec §4.7 "Bind every wallet to
// the provider").
func (ws *WalletSet) BindChainID(id *big.Int) {
	for _, w := range ws.wallets {
		w.bindChainID(id)
	}
}

// Addresses returns the wallet addresses in their defined order (spec §3:
// order defines the default sender at index 0).
func (ws *WalletSet) Addresses() []common.Address {
	out := make([]common.Address, len(ws.wallets))
	for i, w := range ws.wallets {
		out[i] = w.Address
	}
	return out
}

// Default returns the wallet at index 0, the implicit default sender.
func (ws *WalletSet) Default() *Wallet {
	return ws.wallets[0]
}

// ByAddress looks a wallet up case-insensitively (spec §3 invariant);
// common.Address is a fixed-size byte array so HexToAddress already
// normalizes case for us.
func (ws *WalletSet) ByAddress(addr common.Address) (*Wallet, bool) {
	w, ok := ws.byAddress[addr]
	return w, ok
}

// Resolve looks a wallet up by its hex string form, returning a
// GatewayError of kind UnknownSigner when absent (spec §4.2 eth_sign).
func (ws *WalletSet) Resolve(hexAddr string) (*Wallet, *gwerrors.GatewayError) {
	addr := common.HexToAddress(hexAddr)
	w, ok := ws.ByAddress(addr)
	if !ok {
		return nil, gwerrors.UnknownSigner(hexAddr)
	}
	return w, nil
}
