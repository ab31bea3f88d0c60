package cache

import (
	"sync"
	"time"

	"tenup-padel-service/internal/domain"
)

const (
	// DefaultTTL bounds how stale a served result can be.
	DefaultTTL = time.Hour
	// softCap triggers an expired-entry sweep on Put. Live entries are
	// never evicted early, so the cap is soft.
	softCap = 500
)

type entry struct {
	result    domain.SearchResult
	expiresAt time.Time
}

// Cache maps query fingerprints to results with absolute expiry.
// Expiry is lazy: expired entries are removed when read, and swept in
// bulk only when the entry count exceeds the soft cap at write time.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New constructs a cache with the default TTL.
func New() *Cache {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL constructs a cache whose entries expire ttl after Put.
func NewWithTTL(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for the fingerprint. An expired entry is
// removed and reported as absent.
func (c *Cache) Get(fingerprint string) (domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return domain.SearchResult{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, fingerprint)
		return domain.SearchResult{}, false
	}
	return e.result, true
}

// Put stores the result under the fingerprint. When the cache holds more
// than the soft cap of entries it first drops everything already expired.
func (c *Cache) Put(fingerprint string, result domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) > softCap {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}

	c.entries[fingerprint] = entry{
		result:    result,
		expiresAt: now.Add(c.ttl),
	}
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
