package search

import (
	"sync"
	"time"

	"shopsage/app/dal/catalog"
)

const bestsellerTTL = 5 * time.Minute

// bestsellerCache holds the single bestseller head. Besides event-driven
// invalidation it auto-expires, so a missed event cannot serve stale data
// forever.
type bestsellerCache struct {
	mu        sync.RWMutex
	items     []catalog.Product
	fetchedAt time.Time
}

func newBestsellerCache() *bestsellerCache {
	return &bestsellerCache{}
}

func (c *bestsellerCache) get() ([]catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || time.Since(c.fetchedAt) > bestsellerTTL {
		return nil, false
	}
	return c.items, true
}

func (c *bestsellerCache) set(items []catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.fetchedAt = time.Now()
}

func (c *bestsellerCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
