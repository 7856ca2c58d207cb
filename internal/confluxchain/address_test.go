package confluxchain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAddressRoundTrips(t *testing.T) {
	original := common.HexToAddress("0x1234567890123456789012345678901234567890")

	encoded := EncodeAddress(original, 1029)
	assert.True(t, LooksLikeCfxAddress(encoded))

	decoded, gerr := DecodeAddress(encoded)
	require.Nil(t, gerr)
	assert.Equal(t, original, decoded)
}

func TestEncodeAddressUsesNetworkPrefix(t *testing.T) {
	addr := common.HexToAddress("0xabc0000000000000000000000000000000abc0")
	assert.Contains(t, EncodeAddress(addr, 1029), "cfx:")
	assert.Contains(t, EncodeAddress(addr, 1), "cfxtest:")
	assert.Contains(t, EncodeAddress(addr, 77), "net77:")
}

func TestDecodeAddressRejectsMalformedInput(t *testing.T) {
	_, gerr := DecodeAddress("not-a-cfx-address")
	require.NotNil(t, gerr)
	assert.Equal(t, -32602, gerr.Code())
}

func TestLooksLikeCfxAddressIsCaseInsensitive(t *testing.T) {
	assert.True(t, LooksLikeCfxAddress("CFX:abcdefgh"))
	assert.False(t, LooksLikeCfxAddress("0xabc"))
}
