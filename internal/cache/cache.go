// Package cache provides the bounded search-result cache: fixed capacity,
// FIFO eviction, per-entry TTL. It fronts the search query path and is
// shared by concurrent readers and writers.
package cache

import (
	"container/heap"
	"log/slog"
	"sync"
	"time"
)

const (
	// MaxEntries is the default number of resident keys.
	MaxEntries = 10
	// DefaultTTL is the default per-entry lifetime.
	DefaultTTL = time.Hour
)

type entry[V any] struct {
	value      V
	seq        uint64
	insertedAt time.Time
	expiresAt  time.Time
}

// indexItem mirrors one entry in the insertion-order index. Stale items
// (seq no longer matching the live entry) are discarded lazily on pop.
type indexItem struct {
	key string
	seq uint64
}

type fifoIndex []indexItem

func (h fifoIndex) Len() int            { return len(h) }
func (h fifoIndex) Less(i, j int) bool  { return h[i].seq < h[j].seq }
func (h fifoIndex) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *fifoIndex) Push(x interface{}) { *h = append(*h, x.(indexItem)) }
func (h *fifoIndex) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	Entries    int      `json:"entries"`
	MaxEntries int      `json:"max_entries"`
	Keys       []string `json:"keys"`
}

// Cache is a bounded FIFO cache with TTL expiry. The capacity check and
// the evict-plus-insert sequence run under one lock, so the resident
// count never exceeds the capacity regardless of writer concurrency.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	index    fifoIndex
	capacity int
	ttl      time.Duration
	seq      uint64
	now      func() time.Time
}

type Option[V any] func(*Cache[V])

// WithClock overrides the time source, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

func New[V any](capacity int, ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if capacity <= 0 {
		capacity = MaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		entries:  make(map[string]entry[V]),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	heap.Init(&c.index)
	return c
}

// Get returns the cached value for key. Expired entries are treated as
// absent and removed on the way out.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value. At capacity it evicts exactly the oldest-inserted
// resident entry first. Re-setting a resident key refreshes its value,
// TTL, and insertion order without affecting the resident count.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepExpired(now)

	if _, resident := c.entries[key]; !resident && len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	c.seq++
	c.entries[key] = entry[V]{
		value:      value,
		seq:        c.seq,
		insertedAt: now,
		expiresAt:  now.Add(c.ttl),
	}
	heap.Push(&c.index, indexItem{key: key, seq: c.seq})
}

// Clear removes all entries and resets the order index.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.index = c.index[:0]
	slog.Info("search cache cleared")
}

// Len reports the number of resident, non-expired entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepExpired(c.now())
	return len(c.entries)
}

// Stats snapshots occupancy for the stats endpoint.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepExpired(c.now())
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return Stats{
		Entries:    len(c.entries),
		MaxEntries: c.capacity,
		Keys:       keys,
	}
}

// evictOldest pops index items until one still describes a live entry,
// then removes that entry. Caller holds the lock.
func (c *Cache[V]) evictOldest() {
	for c.index.Len() > 0 {
		item := heap.Pop(&c.index).(indexItem)
		e, ok := c.entries[item.key]
		if !ok || e.seq != item.seq {
			continue // stale index item from an overwrite or expiry
		}
		delete(c.entries, item.key)
		slog.Info("evicted oldest cache entry", "key", item.key)
		return
	}
}

func (c *Cache[V]) sweepExpired(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.compactIndex()
}

// compactIndex rebuilds the order index from the live entries once stale
// items (overwrites, expiries) dominate it. Keeps index growth bounded
// for caches that churn below capacity and never hit eviction. Caller
// holds the lock.
func (c *Cache[V]) compactIndex() {
	if len(c.index) <= 2*c.capacity || len(c.index) <= 2*len(c.entries) {
		return
	}
	c.index = c.index[:0]
	for key, e := range c.entries {
		c.index = append(c.index, indexItem{key: key, seq: e.seq})
	}
	heap.Init(&c.index)
}
