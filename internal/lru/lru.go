// Package lru implements a bounded, O(1) least-recently-used cache.
//
// This is a hand-rolled map + doubly-linked-list cache rather than a
// wrapper around a third-party LRU library: the exact hit/miss/eviction
// accounting this package commits to (misses increment even for keys that
// were never present, stats reset only on Clear) isn't something
// off-the-shelf caches expose, so the bookkeeping has to live here.
package lru

import (
	"container/list"
	"sync"

	"github.com/ftskit/ftsengine/internal/ftserrors"
)

// Stats reports cumulative cache activity since construction or the last
// Clear.
type Stats struct {
	Size      int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// Cache is a generic, bounded LRU cache. The zero value is not usable; use
// New. A Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[K]*list.Element

	hits      int64
	misses    int64
	evictions int64
}

// New creates a Cache with the given positive capacity.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, ftserrors.ValidationError("lru capacity must be positive", nil)
	}
	return &Cache[K, V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[K]*list.Element, capacity),
	}, nil
}

// Get returns the value for key and moves it to the front. The second
// return value is false on a miss, which also increments the miss counter.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return el.Value.(*entry[K, V]).val, true
}

// Set inserts or updates key, moving it to the front. If inserting a new
// key exceeds capacity, the least-recently-used entry is evicted.
func (c *Cache[K, V]) Set(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).val = val
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry[K, V]{key: key, val: val})
	c.items[key] = el

	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		if tail != nil {
			c.ll.Remove(tail)
			delete(c.items, tail.Value.(*entry[K, V]).key)
			c.evictions++
		}
	}
}

// Has reports whether key is present without affecting recency order or
// hit/miss statistics.
func (c *Cache[K, V]) Has(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Delete removes key if present. Deleting an absent key is a no-op.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear empties the cache and resets all statistics, including size.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[K]*list.Element, c.capacity)
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// Stats returns a snapshot of cache size and cumulative counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      c.ll.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}
