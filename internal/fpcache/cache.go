// Package fpcache holds recently seen transaction fingerprints so repeated
// deliveries can be rejected without touching the store.
package fpcache

import (
	"container/list"
	"sync"
)

// DefaultCapacity bounds the cache when no explicit capacity is given.
const DefaultCapacity = 200

type entry struct {
	fingerprint string
	timestamp   int64 // epoch milliseconds of the transaction the fp belongs to
}

// Cache is a bounded LRU map of fingerprint to last-seen timestamp. Capacity
// eviction and age-based Cleanup are independent mechanisms: either may
// remove an entry regardless of the other. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	index    map[string]*list.Element
}

// New creates a cache bounded to capacity entries. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Add inserts the fingerprint or refreshes it if already present, making it
// the most recently used entry. When the cache is full the least recently
// used entry is evicted.
func (c *Cache) Add(fingerprint string, timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[fingerprint]; ok {
		el.Value.(*entry).timestamp = timestamp
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(*entry).fingerprint)
		}
	}

	c.index[fingerprint] = c.order.PushFront(&entry{fingerprint: fingerprint, timestamp: timestamp})
}

// Contains reports whether the fingerprint is cached. A hit counts as a use
// for LRU purposes.
func (c *Cache) Contains(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[fingerprint]
	if ok {
		c.order.MoveToFront(el)
	}
	return ok
}

// Cleanup removes every entry whose stored timestamp predates cutoff (epoch
// milliseconds), regardless of recency. Returns the number removed. This is
// caller-invoked maintenance, not automatic expiry.
func (c *Cache) Cleanup(cutoff int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry)
		if e.timestamp < cutoff {
			c.order.Remove(el)
			delete(c.index, e.fingerprint)
			removed++
		}
		el = next
	}
	return removed
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
