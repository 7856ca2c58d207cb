package wallet

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// NonceMonitor serializes nonce-fetch-then-send for a single address so two
// concurrent eth_sendTransaction calls that both auto-fetch their nonce
// cannot observe the same value (spec §5 "known design hazard", §9
// "Per-wallet nonce race"). It does not serialize across different
// addresses: unrelated senders stay fully concurrent.
type NonceMonitor struct {
	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// NewNonceMonitor builds an empty monitor.
func NewNonceMonitor() *NonceMonitor {
	return &NonceMonitor{locks: make(map[common.Address]*sync.Mutex)}
}

// lockFor returns (creating if needed) the per-address mutex.
func (m *NonceMonitor) lockFor(addr common.Address) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		m.locks[addr] = l
	}
	return l
}

// WithLock runs fn while holding the address's nonce lock; fn is expected
// to fetch the nonce and submit the transaction before releasing.
func (m *NonceMonitor) WithLock(addr common.Address, fn func() error) error {
	l := m.lockFor(addr)
	l.Lock()
	defer l.Unlock()
	return fn()
}
