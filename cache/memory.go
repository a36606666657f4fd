package cache

import (
	"context"
	"slices"
	"sync"
)

// MemoryCache is an in-memory cache implementation. Entries never expire.
type MemoryCache[N any] struct {
	mu      sync.RWMutex
	entries map[Key][]N
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache[N any]() *MemoryCache[N] {
	return &MemoryCache[N]{
		entries: make(map[Key][]N),
	}
}

// Get retrieves a copy of the stored sequence. Returns (nil, false) on miss.
func (c *MemoryCache[N]) Get(_ context.Context, key Key) ([]N, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return slices.Clone(entry), true
}

// Set stores a copy of value.
func (c *MemoryCache[N]) Set(_ context.Context, key Key, value []N) error {
	entry := slices.Clone(value)
	if entry == nil {
		entry = []N{}
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache[N]) Delete(_ context.Context, key Key) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (c *MemoryCache[N]) Clear(_ context.Context) {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *MemoryCache[N]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure MemoryCache implements Cache
var _ Cache[any] = (*MemoryCache[any])(nil)
