// Package backend holds the shapes and the shared composeTransaction
// algorithm (spec §4.3) common to every BackendWrapper. The evmchain,
// confluxchain and celochain wrappers each supply a GasEstimator and run
// ComposeTransaction through it; reefchain does not use this package.
package backend

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// RPCClient is the minimal JSON-RPC transport contract every wrapper
// forwards through, satisfied directly by *go-ethereum/rpc.Client.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Transaction is the logical transaction spec §3 describes, filled in
// progressively by ComposeTransaction.
type Transaction struct {
	From                 *common.Address
	To                   *common.Address // nil => contract creation
	Value                *big.Int
	Data                 []byte
	Nonce                *uint64
	GasPrice             *big.Int
	GasLimit             *uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	ChainID              *big.Int
	Type                 *byte
	FeeCurrency          *common.Address // Celo only (spec §4.6)
}

// ToEthTx builds a *types.Transaction ready for signing once Nonce, From,
// GasPrice/GasLimit (or the EIP-1559 pair) are all resolved.
func (t *Transaction) ToEthTx() *types.Transaction {
	nonce := uint64(0)
	if t.Nonce != nil {
		nonce = *t.Nonce
	}
	gasLimit := uint64(0)
	if t.GasLimit != nil {
		gasLimit = *t.GasLimit
	}
	value := t.Value
	if value == nil {
		value = big.NewInt(0)
	}

	if t.Type != nil && *t.Type == types.DynamicFeeTxType {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   t.ChainID,
			Nonce:     nonce,
			GasTipCap: t.MaxPriorityFeePerGas,
			GasFeeCap: t.MaxFeePerGas,
			Gas:       gasLimit,
			To:        t.To,
			Value:     value,
			Data:      t.Data,
		})
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: t.GasPrice,
		Gas:      gasLimit,
		To:       t.To,
		Value:    value,
		Data:     t.Data,
	})
}
