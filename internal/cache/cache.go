// Package cache provides a small in-memory key/value store with per-entry
// time-to-live, used to memoize upstream provider lookups.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a mutex-guarded TTL cache. Expired entries are evicted lazily on
// read; there is no background sweep, so under high key cardinality the map
// can grow until keys are read again. The planner's key space (terminal
// pairs, trip dates, coordinate pairs) is small and bounded.
//
// A stored nil value is a valid entry: Get reports it as a hit, which lets
// callers cache "provider had no answer" without re-querying.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	now     func() time.Time
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get returns the value stored under key and whether it was present and
// unexpired. An expired entry is removed before reporting a miss, so an
// expired key is indistinguishable from one that was never set.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if !e.expiresAt.After(c.now()) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores value under key with expiry now+ttl, overwriting any prior
// entry.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Len returns the number of entries currently held, including any expired
// entries that have not been read since expiring.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
