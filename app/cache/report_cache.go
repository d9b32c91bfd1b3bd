// Package cache provides a small bounded FIFO cache for report results.
// Callers construct one explicitly and pass it in; there is no process-wide
// cache, so eviction is a visible, testable contract.
package cache

import (
	"container/list"
	"sync"
)

// ReportCache is a size-bounded FIFO cache keyed by string. When full, the
// oldest entry is evicted. Safe for concurrent use.
type ReportCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key   string
	value interface{}
}

// NewReportCache creates a cache bounded to maxSize entries; sizes below 1
// are clamped to 1.
func NewReportCache(maxSize int) *ReportCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &ReportCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get returns the cached value for key, if present
func (c *ReportCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		return el.Value.(cacheEntry).value, true
	}
	return nil, false
}

// Put stores a value, evicting the oldest entry when the cache is full.
// Re-putting an existing key replaces its value without changing its age.
func (c *ReportCache) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value = cacheEntry{key: key, value: value}
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(cacheEntry).key)
		}
	}

	c.entries[key] = c.order.PushBack(cacheEntry{key: key, value: value})
}

// Len returns the number of cached entries
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
