// Package translate holds the response/parameter translators shared by
// backends that don't need a full per-chain translation layer of their
// own (spec §4.2 "eth_getBlockByNumber" hex normalization).
package translate

import (
	"math/big"
)

// hexNormalizedFields are the eth_getBlockByNumber response fields the
// gateway hex-normalizes on the way back to the client (spec §4.2).
var hexNormalizedFields = []string{"baseFeePerGas", "difficulty", "gasLimit", "gasUsed"}

// NormalizeBlockHex rewrites any of hexNormalizedFields present as a
// decimal number or numeric string into 0x-hex, leaving already-hex
// values and everything else untouched.
func NormalizeBlockHex(block map[string]interface{}) map[string]interface{} {
	if block == nil {
		return nil
	}
	for _, field := range hexNormalizedFields {
		v, ok := block[field]
		if !ok {
			continue
		}
		if hex, ok := toHex(v); ok {
			block[field] = hex
		}
	}
	return block
}

func toHex(v interface{}) (string, bool) {
	switch t := v.(type) {
	case float64:
		return "0x" + big.NewInt(int64(t)).Text(16), true
	case string:
		if len(t) >= 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
			return t, false // already hex
		}
		n, ok := new(big.Int).SetString(t, 10)
		if !ok {
			return "", false
		}
		return "0x" + n.Text(16), true
	default:
		return "", false
	}
}
