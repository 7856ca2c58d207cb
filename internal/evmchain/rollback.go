package evmchain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
)

// RollbackState tracks the last observed block number for a generic EVM
// backend's interleaved read-only calls (spec §3 "RollbackState").
type RollbackState struct {
	mu             sync.Mutex
	lastKnownBlock int64
	hasObserved    bool
}

// NewRollbackState returns a fresh, unobserved RollbackState.
func NewRollbackState() *RollbackState {
	return &RollbackState{}
}

// CheckRollbacks fetches the current block number, compares it with the
// last observed value, and returns latest-interleaveBlocks as the bound
// for the call about to run. It never aborts the call; it only traces.
func CheckRollbacks(ctx context.Context, client backend.RPCClient, interleaveBlocks uint64, state *RollbackState, log *zap.SugaredLogger) (*big.Int, error) {
	var blockHex string
	if err := client.CallContext(ctx, &blockHex, "eth_blockNumber"); err != nil {
		return nil, err
	}
	block, err := hexutil.DecodeUint64(blockHex)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	current := int64(block)
	if state.hasObserved && current < state.lastKnownBlock {
		gap := state.lastKnownBlock - current
		if uint64(gap) >= interleaveBlocks {
			log.Errorw("compromising rollback detected",
				"fromBlock", state.lastKnownBlock, "toBlock", current, "gap", gap)
		} else {
			log.Warnw("filtered rollback detected",
				"fromBlock", state.lastKnownBlock, "toBlock", current, "gap", gap)
		}
	}
	state.lastKnownBlock = current
	state.hasObserved = true

	bound := current - int64(interleaveBlocks)
	if bound < 0 {
		bound = 0
	}
	return big.NewInt(bound), nil
}
