// Package memo is a small in-process TTL cache used by the analytical
// engines to absorb bursts of identical queries.
//
// The cache is an explicitly owned object (created with the service,
// cleared on demand) rather than package state, so nothing couples across
// requests invisibly. Expiry is purely time-based; no capacity eviction.
package memo

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache memoizes computation results for a fixed TTL.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	flight  singleflight.Group
	now     func() time.Time
}

// New creates a Cache with the given TTL per entry.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or false on a miss. An entry past
// its expiry behaves as a miss and is dropped.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores a value under key, replacing any previous entry.
func (c *Cache) Put(key string, v any) {
	c.mu.Lock()
	c.entries[key] = entry{value: v, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Do returns the cached value for key, or computes it with fn and caches
// the result. Concurrent callers with the same key share one computation.
// Errors are not cached.
func (c *Cache) Do(key string, fn func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check: another caller may have filled the entry while this
		// one waited on the flight group.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.Put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports how many entries are currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
