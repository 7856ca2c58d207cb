package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestNewFromSeedPhraseDerivesDeterministicAddresses(t *testing.T) {
	ws1, err := New(testMnemonic, 3, nil)
	require.NoError(t, err)
	ws2, err := New(testMnemonic, 3, nil)
	require.NoError(t, err)

	require.Len(t, ws1.Addresses(), 3)
	assert.Equal(t, ws1.Addresses(), ws2.Addresses(), "derivation from the same mnemonic must be deterministic")

	for i, addr := range ws1.Addresses() {
		w, ok := ws1.ByAddress(addr)
		require.True(t, ok)
		assert.Equal(t, i, w.DerivationIndex)
	}
}

func TestNewRejectsInvalidMnemonic(t *testing.T) {
	_, err := New("not a valid bip39 mnemonic at all", 1, nil)
	assert.Error(t, err)
}

func TestNewRequiresAtLeastOneWallet(t *testing.T) {
	_, err := New("", 0, nil)
	assert.Error(t, err)
}

func TestNewFromPrivateKeys(t *testing.T) {
	ws, err := New("", 0, []string{"fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a0"})
	require.NoError(t, err)
	require.Len(t, ws.Addresses(), 1)
}

func TestResolveUnknownSigner(t *testing.T) {
	ws, err := New(testMnemonic, 1, nil)
	require.NoError(t, err)

	_, gerr := ws.Resolve("0x0000000000000000000000000000000000000000")
	require.Error(t, gerr)
}

func TestSignTransactionAppliesEIP155WhenChainIDBound(t *testing.T) {
	ws, err := New(testMnemonic, 1, nil)
	require.NoError(t, err)
	ws.BindChainID(big.NewInt(1337))

	signer := ws.Default()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1_000_000_000),
		Gas:      21000,
		To:       &signer.Address,
		Value:    big.NewInt(0),
	})

	signed, err := signer.SignTransaction(tx)
	require.NoError(t, err)

	recovered, err := types.Sender(types.NewEIP155Signer(big.NewInt(1337)), signed)
	require.NoError(t, err)
	assert.Equal(t, signer.Address, recovered)
}

func TestSignTransactionUsesLondonSignerForDynamicFee(t *testing.T) {
	ws, err := New(testMnemonic, 1, nil)
	require.NoError(t, err)
	ws.BindChainID(big.NewInt(1337))

	signer := ws.Default()
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1337),
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &signer.Address,
		Value:     big.NewInt(0),
	})

	signed, err := signer.SignTransaction(tx)
	require.NoError(t, err)

	recovered, err := types.Sender(types.NewLondonSigner(big.NewInt(1337)), signed)
	require.NoError(t, err)
	assert.Equal(t, signer.Address, recovered)
}

func TestSignMessageProducesRecoverableSignature(t *testing.T) {
	ws, err := New(testMnemonic, 1, nil)
	require.NoError(t, err)

	signer := ws.Default()
	sig, err := signer.SignMessage([]byte("hello gateway"))
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.GreaterOrEqual(t, sig[64], byte(27), "eth_sign recovery id must be normalized to 27/28")
}
