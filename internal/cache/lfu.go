// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package cache

import (
	"sync"
	"time"
)

// lfuEntry is a node in a frequency list.
type lfuEntry[V any] struct {
	key       string
	value     V
	freq      int
	expiresAt time.Time
	prev      *lfuEntry[V]
	next      *lfuEntry[V]
}

// freqList is a doubly-linked list of entries sharing one access frequency.
// The head side holds the most recently touched entry.
type freqList[V any] struct {
	head *lfuEntry[V]
	tail *lfuEntry[V]
	size int
}

func newFreqList[V any]() *freqList[V] {
	fl := &freqList[V]{
		head: &lfuEntry[V]{},
		tail: &lfuEntry[V]{},
	}
	fl.head.next = fl.tail
	fl.tail.prev = fl.head
	return fl
}

func (fl *freqList[V]) pushFront(e *lfuEntry[V]) {
	e.prev = fl.head
	e.next = fl.head.next
	fl.head.next.prev = e
	fl.head.next = e
	fl.size++
}

func (fl *freqList[V]) unlink(e *lfuEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
	fl.size--
}

func (fl *freqList[V]) back() *lfuEntry[V] {
	if fl.size == 0 {
		return nil
	}
	return fl.tail.prev
}

// LFU is a thread-safe least-frequently-used cache with per-entry TTL.
// Get, Set and eviction are O(1); ties at the lowest frequency evict the
// least recently touched entry.
//
// Expired entries are removed lazily on access and in bulk by CleanupExpired.
type LFU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	keyMap  map[string]*lfuEntry[V]
	freqMap map[int]*freqList[V]
	minFreq int

	hits      int64
	misses    int64
	evictions int64

	// onEvict observes capacity and expiry removals, not explicit deletes.
	onEvict func(key string)
}

// NewLFU creates an LFU cache. Non-positive arguments select a capacity of
// 10000 entries and a TTL of 30 seconds.
func NewLFU[V any](capacity int, ttl time.Duration) *LFU[V] {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LFU[V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		keyMap:   make(map[string]*lfuEntry[V], capacity),
		freqMap:  make(map[int]*freqList[V]),
	}
}

// OnEvict registers a callback invoked, with the lock held, for every entry
// dropped by capacity pressure or expiry. It must not call back into the cache.
func (c *LFU[V]) OnEvict(fn func(key string)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the live value for key and bumps its frequency.
func (c *LFU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.keyMap[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.drop(e, true)
		c.misses++
		return zero, false
	}
	c.touch(e)
	c.hits++
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *LFU[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with a custom TTL. Updating an existing
// key counts as an access.
func (c *LFU[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if e, ok := c.keyMap[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.touch(e)
		return
	}

	if len(c.keyMap) >= c.capacity {
		c.evictOne()
	}

	e := &lfuEntry[V]{key: key, value: value, freq: 1, expiresAt: expiresAt}
	c.listFor(1).pushFront(e)
	c.keyMap[key] = e
	c.minFreq = 1
}

// Delete removes key. It reports whether the key was present.
func (c *LFU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.keyMap[key]
	if !ok {
		return false
	}
	c.drop(e, false)
	return true
}

// Contains reports whether key holds a live value without touching it.
func (c *LFU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.keyMap[key]
	return ok && !c.now().After(e.expiresAt)
}

// Len returns the number of stored entries, expired ones included.
func (c *LFU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keyMap)
}

// Clear removes every entry. Counters are kept.
func (c *LFU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.keyMap = make(map[string]*lfuEntry[V], c.capacity)
	c.freqMap = make(map[int]*freqList[V])
	c.minFreq = 0
}

// Frequency returns the access count recorded for key, or 0.
func (c *LFU[V]) Frequency(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.keyMap[key]; ok {
		return e.freq
	}
	return 0
}

// CleanupExpired removes every expired entry and returns how many went.
func (c *LFU[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, e := range c.keyMap {
		if now.After(e.expiresAt) {
			c.drop(e, true)
			removed++
		}
	}
	return removed
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Entries   int   `json:"entries"`
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// Stats returns the current counters.
func (c *LFU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.keyMap),
	}
}

// Internal methods (must be called with lock held)

func (c *LFU[V]) listFor(freq int) *freqList[V] {
	fl := c.freqMap[freq]
	if fl == nil {
		fl = newFreqList[V]()
		c.freqMap[freq] = fl
	}
	return fl
}

// touch moves e to the next frequency bucket.
func (c *LFU[V]) touch(e *lfuEntry[V]) {
	if fl := c.freqMap[e.freq]; fl != nil {
		fl.unlink(e)
		if fl.size == 0 {
			delete(c.freqMap, e.freq)
			if c.minFreq == e.freq {
				c.minFreq++
			}
		}
	}
	e.freq++
	c.listFor(e.freq).pushFront(e)
}

// evictOne removes the least recently touched entry at the lowest frequency.
func (c *LFU[V]) evictOne() {
	fl := c.freqMap[c.minFreq]
	if fl == nil || fl.size == 0 {
		c.recomputeMinFreq()
		fl = c.freqMap[c.minFreq]
		if fl == nil {
			return
		}
	}
	if victim := fl.back(); victim != nil {
		c.drop(victim, true)
	}
}

// recomputeMinFreq scans the buckets after minFreq went stale through a delete.
func (c *LFU[V]) recomputeMinFreq() {
	c.minFreq = 0
	for freq, fl := range c.freqMap {
		if fl.size > 0 && (c.minFreq == 0 || freq < c.minFreq) {
			c.minFreq = freq
		}
	}
}

func (c *LFU[V]) drop(e *lfuEntry[V], evicted bool) {
	if fl := c.freqMap[e.freq]; fl != nil {
		fl.unlink(e)
		if fl.size == 0 {
			delete(c.freqMap, e.freq)
		}
	}
	delete(c.keyMap, e.key)
	if evicted {
		c.evictions++
		if c.onEvict != nil {
			c.onEvict(e.key)
		}
	}
}
