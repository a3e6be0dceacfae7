// Package cache provides a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

// TTLCache stores values with optional expiry. It is safe for concurrent use.
type TTLCache[V any] struct {
	mu   sync.Mutex
	data map[string]entry[V]
	now  func() time.Time
}

type entry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time
}

// New creates an empty cache using the wall clock.
func New[V any]() *TTLCache[V] {
	return NewWithClock[V](time.Now)
}

// NewWithClock creates an empty cache reading time from now.
func NewWithClock[V any](now func() time.Time) *TTLCache[V] {
	return &TTLCache[V]{data: make(map[string]entry[V]), now: now}
}

// Get returns the value for key if present and not expired. Expired entries are evicted.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	v, _, ok := c.GetWithStoredAt(key)
	return v, ok
}

// GetWithStoredAt is Get that also reports when the value was stored.
func (c *TTLCache[V]) GetWithStoredAt(key string) (V, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	it, ok := c.data[key]
	if !ok {
		return zero, time.Time{}, false
	}
	if !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt) {
		delete(c.data, key)
		return zero, time.Time{}, false
	}
	return it.value, it.storedAt, true
}

// Set stores value under key; ttl <= 0 means no expiry.
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	c.data[key] = entry[V]{value: value, storedAt: now, expiresAt: expires}
}

// Delete removes key.
func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
