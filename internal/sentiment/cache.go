package sentiment

import (
	"sync"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

// CacheEntry is the memoized result of one analysis.
type CacheEntry struct {
	Ticker     string
	Verdict    models.Verdict
	SourceName string
	ComputedAt time.Time
}

// Cache is a time-bounded memo of the last computed verdict per ticker.
// Entries are overwritten on each successful computation and are considered
// stale once older than the TTL. State is process-local and lost on restart.
type Cache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a Cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the fresh entry for a ticker, if any. Stale entries are left in
// place; the next Put overwrites them.
func (c *Cache) Get(symbol string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok || c.now().Sub(entry.ComputedAt) >= c.ttl {
		return CacheEntry{}, false
	}
	return entry, true
}

// Put stores a freshly computed verdict.
func (c *Cache) Put(symbol string, verdict models.Verdict, sourceName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = CacheEntry{
		Ticker:     symbol,
		Verdict:    verdict,
		SourceName: sourceName,
		ComputedAt: c.now(),
	}
}

// Age returns how long ago the entry for symbol was computed, or false when
// no entry exists. Used for the "retrieved N minutes ago" footer.
func (c *Cache) Age(symbol string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return 0, false
	}
	return c.now().Sub(entry.ComputedAt), true
}
