package confluxchain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/backend"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
)

// RollbackState tracks the last observed epoch for a Conflux backend
// (spec §3 "RollbackState"). lastKnownEpoch is advisory only: a stale
// compare-and-set is acceptable (spec §5), so a plain mutex suffices.
type RollbackState struct {
	mu             sync.Mutex
	lastKnownEpoch int64
	hasObserved    bool
}

// NewRollbackState returns a fresh, unobserved RollbackState.
func NewRollbackState() *RollbackState {
	return &RollbackState{}
}

// CheckRollbacks fetches the current epoch at cfg.EpochLabel and compares
// it with the last observed value (spec §4.4 "Rollback detection").
// It never aborts the call; it only traces. Returns the bound epoch to
// use for the upcoming read-only call (current epoch minus
// confirmationEpochs, spec §4.4).
func CheckRollbacks(ctx context.Context, client backend.RPCClient, cfg *gwconfig.BackendConfig, state *RollbackState, log *zap.SugaredLogger) (*big.Int, error) {
	var epochHex string
	if err := client.CallContext(ctx, &epochHex, "cfx_epochNumber", string(cfg.EpochLabel)); err != nil {
		return nil, err
	}
	epoch, err := hexutil.DecodeUint64(epochHex)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	current := int64(epoch)
	if state.hasObserved && current < state.lastKnownEpoch {
		gap := state.lastKnownEpoch - current
		if uint64(gap) >= cfg.ConfirmationEpochs {
			log.Errorw("compromising Conflux rollback detected",
				"fromEpoch", state.lastKnownEpoch, "toEpoch", current, "gap", gap)
		} else {
			log.Warnw("filtered Conflux rollback detected",
				"fromEpoch", state.lastKnownEpoch, "toEpoch", current, "gap", gap)
		}
	}
	state.lastKnownEpoch = current
	state.hasObserved = true

	bound := current
	if cfg.ConfirmationEpochs > 0 {
		bound -= int64(cfg.ConfirmationEpochs)
		if bound < 0 {
			bound = 0
		}
	}
	return big.NewInt(bound), nil
}
