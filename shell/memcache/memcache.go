// Package memcache provides the process-wide response cache consumed by
// the caching pipeline stage. Entries expire after a fixed absolute TTL
// and there is no explicit invalidation path; stale analytics results
// within the TTL are an accepted trade-off.
package memcache

import (
	"sync"
	"time"
)

// DefaultTTL is the absolute expiration applied to cached responses.
const DefaultTTL = 5 * time.Minute

// Cache is a concurrency-safe in-process key/value store with absolute
// expiration. Concurrent writes to the same key are last-write-wins,
// which is acceptable because cached values are derived deterministically
// from the same inputs.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Option defines a functional option for configuring the Cache.
type Option func(*Cache)

// WithTTL overrides the default absolute expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source. Tests use this to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty cache with optional configuration.
func New(options ...Option) *Cache {
	cache := &Cache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}

	for _, option := range options {
		option(cache)
	}

	return cache
}

// Get returns the value stored under key, reporting a miss for unknown
// or expired entries. Expired entries are removed lazily.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	stored, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if c.now().After(stored.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock, a concurrent Set may have refreshed the entry.
		if current, stillThere := c.entries[key]; stillThere && c.now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return nil, false
	}

	return stored.value, true
}

// Set stores value under key with the configured absolute expiration.
func (c *Cache) Set(key string, value any) {
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
