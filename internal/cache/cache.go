// Package cache provides a thread-safe LRU cache of compiled formulas.
//
// Formulas are immutable once compiled, including formulas that failed to
// parse, so a single compiled value can be handed to any number of readers.
//
// # Example
//
//	c := cache.New(64)
//	f := c.GetOrCompile("sin(x - time) * 10", formula.Compile)
package cache

import (
	"container/list"
	"sync"

	"github.com/zephyrtronium/formula"
)

type entry struct {
	key string
	f   formula.Formula
}

// Cache is an LRU cache of formulas keyed by source text. Once the capacity is
// reached, the least recently used entry is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	hits     uint64
	misses   uint64
}

// New creates a cache holding up to capacity formulas. If capacity <= 0, a
// default of 256 is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a formula and marks it most recently used.
func (c *Cache) Get(key string) (formula.Formula, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return formula.Formula{}, false
	}
	c.hits++
	c.ll.MoveToFront(el)
	return el.Value.(*entry).f, true
}

// Set inserts or replaces a formula, evicting the least recently used entry
// if the cache is full.
func (c *Cache) Set(key string, f formula.Formula) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).f = f
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = c.ll.PushFront(&entry{key: key, f: f})
}

// GetOrCompile returns the cached formula for key, or compiles and caches it.
// Failed compilations are cached like any other formula.
func (c *Cache) GetOrCompile(key string, compile func(string) formula.Formula) formula.Formula {
	if f, ok := c.Get(key); ok {
		return f
	}
	f := compile(key)
	c.Set(key, f)
	return f
}

// Len returns the number of cached formulas.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of cached formulas.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns the number of lookups that found and did not find a formula.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry. c.mu must be held for
// writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
