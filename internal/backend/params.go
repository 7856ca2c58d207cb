package backend

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// TxArgs is the raw JSON object clients send to eth_sendTransaction,
// eth_call and eth_estimateGas (spec §4.3).
type TxArgs map[string]interface{}

// ParseTxArgs builds a partially-filled Transaction from the raw object,
// leaving gas fields to ComposeTransaction's resolution logic.
func ParseTxArgs(args TxArgs) (*Transaction, *gwerrors.GatewayError) {
	tx := &Transaction{}

	if v, ok := args["from"].(string); ok && v != "" {
		addr := common.HexToAddress(v)
		tx.From = &addr
	}
	if v, ok := args["to"].(string); ok && v != "" {
		addr := common.HexToAddress(v)
		tx.To = &addr
	}
	if v, ok := args["value"].(string); ok && v != "" {
		n, err := hexutil.DecodeBig(v)
		if err != nil {
			return nil, gwerrors.InvalidParameter("invalid value: %v", err)
		}
		tx.Value = n
	} else {
		tx.Value = big.NewInt(0)
	}
	if v, ok := args["data"].(string); ok && v != "" {
		tx.Data = common.FromHex(v)
	} else if v, ok := args["input"].(string); ok && v != "" {
		tx.Data = common.FromHex(v)
	}
	if v, ok := args["nonce"].(string); ok && v != "" {
		n, err := hexutil.DecodeUint64(v)
		if err != nil {
			return nil, gwerrors.InvalidParameter("invalid nonce: %v", err)
		}
		tx.Nonce = &n
	}
	if v, ok := args["gasPrice"].(string); ok && v != "" {
		n, err := hexutil.DecodeBig(v)
		if err != nil {
			return nil, gwerrors.InvalidParameter("invalid gasPrice: %v", err)
		}
		tx.GasPrice = n
	}
	if v, ok := args["gas"].(string); ok && v != "" {
		n, err := hexutil.DecodeUint64(v)
		if err != nil {
			return nil, gwerrors.InvalidParameter("invalid gas: %v", err)
		}
		tx.GasLimit = &n
	}
	return tx, nil
}

// HasField reports whether the raw object set a given key to a non-empty
// value, distinguishing "absent" from "zero" (spec §4.3 step 4).
func (a TxArgs) HasField(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	s, ok := v.(string)
	return !ok || s != ""
}
