package trading

import "sync"

// portfolioLocks serializes trades per portfolio. Concurrent trades against
// different portfolios proceed in parallel; two trades against the same
// portfolio queue up so each sees the other's committed cash and positions.
type portfolioLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newPortfolioLocks() *portfolioLocks {
	return &portfolioLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for a portfolio, creating it on first use.
// Mutexes are never removed; the map grows with the number of portfolios
// traded during the process lifetime, which stays small.
func (p *portfolioLocks) lock(portfolioID int64) func() {
	p.mu.Lock()
	m, ok := p.locks[portfolioID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[portfolioID] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}
