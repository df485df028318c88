package memory

import (
	"context"
	"sync"

	"rentradar/internal/app/scan"
)

// SearchCache stores query result sets in memory. Expired entries stay until
// overwritten; the reader ignores them, matching the document-store layout.
type SearchCache struct {
	mu      sync.RWMutex
	entries map[string]scan.CacheEntry
}

func NewSearchCache() *SearchCache {
	return &SearchCache{entries: make(map[string]scan.CacheEntry)}
}

func (c *SearchCache) Get(ctx context.Context, key string) (scan.CacheEntry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok, nil
}

func (c *SearchCache) Put(ctx context.Context, entry scan.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Query] = entry
	return nil
}

var _ scan.Cache = (*SearchCache)(nil)
