// Package gencache implements a two-generation bounded string cache.
//
// New keys go into the current generation. When the number of keys inserted
// since the last flip exceeds the capacity, the current generation becomes
// the previous one and a fresh generation starts. Reads that hit the
// previous generation copy the entry forward. Up to twice the capacity may
// be resident at once.
package gencache

import "sync"

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Flips   uint64
	Entries int
}

// Cache maps canonical class strings to merged output.
// The zero value is a disabled cache. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	size     int
	current  map[string]string
	previous map[string]string

	hits, misses, flips uint64

	// onFlip, when set, is called with the mutex held after each flip.
	onFlip func(evicted int)
}

// New returns a cache holding roughly capacity entries per generation.
// A capacity below 1 disables caching.
func New(capacity int) *Cache {
	c := &Cache{capacity: capacity}
	if capacity >= 1 {
		c.current = make(map[string]string)
		c.previous = make(map[string]string)
	}
	return c
}

// OnFlip registers fn to be called whenever a generation is discarded.
func (c *Cache) OnFlip(fn func(evicted int)) {
	c.mu.Lock()
	c.onFlip = fn
	c.mu.Unlock()
}

// Enabled reports whether the cache stores anything.
func (c *Cache) Enabled() bool {
	return c.capacity >= 1
}

// Get returns the value stored under key.
func (c *Cache) Get(key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.current[key]; ok {
		c.hits++
		return v, true
	}
	if v, ok := c.previous[key]; ok {
		c.hits++
		c.set(key, v)
		return v, true
	}
	c.misses++
	return "", false
}

// Set stores value under key.
func (c *Cache) Set(key, value string) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	c.set(key, value)
	c.mu.Unlock()
}

func (c *Cache) set(key, value string) {
	if _, ok := c.current[key]; ok {
		c.current[key] = value
		return
	}
	c.current[key] = value
	c.size++
	if c.size > c.capacity {
		evicted := len(c.previous)
		c.size = 0
		c.previous = c.current
		c.current = make(map[string]string)
		c.flips++
		if c.onFlip != nil {
			c.onFlip(evicted)
		}
	}
}

// Len returns the number of distinct resident keys across both generations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.len()
}

func (c *Cache) len() int {
	n := len(c.current)
	for k := range c.previous {
		if _, ok := c.current[k]; !ok {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Flips:   c.flips,
		Entries: c.len(),
	}
}
