package marketdata

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// cacheEntry holds one cached quote
type cacheEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// quoteCache is a read-mostly TTL cache keyed by normalized symbol.
// Refresh races are tolerated: two concurrent misses both fetch upstream
// and the last write wins, which is acceptable for point-in-time prices.
type quoteCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newQuoteCache(ttl time.Duration, now func() time.Time) *quoteCache {
	if now == nil {
		now = time.Now
	}
	return &quoteCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached price if it is still within the freshness window
func (c *quoteCache) get(symbol string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return decimal.Zero, false
	}

	if c.now().Sub(entry.fetchedAt) > c.ttl {
		return decimal.Zero, false
	}

	return entry.price, true
}

// put stores or refreshes a cache entry
func (c *quoteCache) put(symbol string, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = cacheEntry{
		price:     price,
		fetchedAt: c.now(),
	}
}
