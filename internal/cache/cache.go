// Package cache provides a generic LRU cache with a fixed capacity.
//
// The renderer keeps text layouts in one so that strings printed every
// frame are laid out once:
//
//	layouts := cache.New[layoutKey, font.Layout](256)
//	l := layouts.GetOrCreate(key, func() font.Layout { return f.Layout(s) })
package cache

import "sync"

// Cache is a thread-safe LRU cache. Once it holds capacity entries, adding
// another evicts the least recently used one.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	lru      lruList[K]
	capacity int
	hits     uint64
	misses   uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.lru.MoveToFront(e.node)
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// create runs under the lock, so concurrent callers never build the same
// value twice.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.lru.MoveToFront(e.node)
		return e.value
	}
	c.misses++
	value := create()
	c.set(key, value)
	return value
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.lru.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Hit and miss counters are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.lru = lruList[K]{}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:      len(c.entries),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// set stores value. Caller must hold c.mu.
func (c *Cache[K, V]) set(key K, value V) {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.lru.MoveToFront(e.node)
		return
	}
	c.entries[key] = &entry[K, V]{value: value, node: c.lru.PushFront(key)}
	for c.capacity > 0 && len(c.entries) > c.capacity {
		oldest, ok := c.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(c.entries, oldest)
	}
}

// Stats contains cache statistics.
type Stats struct {
	Len      int
	Capacity int
	Hits     uint64
	Misses   uint64
	HitRate  float64 // 0 to 1
}
