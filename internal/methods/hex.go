package methods

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func toHexUint64(v uint64) string { return hexutil.EncodeUint64(v) }

func toHexBig(v *big.Int) string { return hexutil.EncodeBig(v) }
