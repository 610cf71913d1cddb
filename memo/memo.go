// Package memo provides a generic memoizer for pure sub-layout results
// keyed by a structural hash of their inputs plus the region they were
// laid out against, with level/age tracking so an incremental
// recompilation can retain only the cache entries still reachable at a
// given recursion depth. Its only caller in this module is grid cell
// width measurement; shaping, line breaking, flow, grid and page layout
// do not go through it.
//
// Keys use cespare/xxhash/v2 for the structural hash: a streaming 64-bit
// hasher with no allocation per Write is exactly what a per-call
// structural key needs, so two independent 64-bit sums (over the input
// fingerprint and the region fingerprint) combine into the 128-bit key
// instead of reaching for a slower general-purpose hash.
package memo

import (
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key is a 128-bit structural fingerprint: Input identifies the content
// and styles passed to a memoized function, Region identifies the
// available space it was asked to fit into. Two calls with the same Key
// are guaranteed (by the memoized function's purity contract) to produce
// the same result.
type Key struct {
	Input  uint64
	Region uint64
}

// Hasher accumulates the bytes that make up one half of a Key. Callers
// write a stable encoding of whatever they're fingerprinting (e.g. a
// content element's discriminant tag followed by its field bytes) and
// call Sum to get the 64-bit digest.
type Hasher struct {
	d *xxhash.Digest
}

func NewHasher() *Hasher { return &Hasher{d: xxhash.New()} }

func (h *Hasher) WriteString(s string) { h.d.WriteString(s) }
func (h *Hasher) WriteBytes(b []byte)  { h.d.Write(b) }
func (h *Hasher) WriteUint64(v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.d.Write(buf[:])
}
func (h *Hasher) WriteFloat64(v float64) { h.WriteUint64(math.Float64bits(v)) }
func (h *Hasher) Sum() uint64            { return h.d.Sum64() }

// entry is one cached result plus the bookkeeping the eviction and
// turnaround operations need.
type entry struct {
	value any
	level int
	age   int // compilations since last hit
}

// Cache is a thread-safe memoization table: many concurrent readers (one
// per page run under a parallel outer driver) and a single writer per
// key at a time.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// Get returns a cached value for key if present, bumping its age back to
// zero (it was just used).
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e.age = 0
	return e.value, true
}

// Put stores a value computed at the given recursion level.
func (c *Cache) Put(key Key, value any, level int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{value: value, level: level}
}

// Memoize runs compute and caches its result, or returns the cached
// result from a prior compilation without calling compute again.
func Memoize[T any](c *Cache, key Key, level int, compute func() T) T {
	if v, ok := c.Get(key); ok {
		return v.(T)
	}
	v := compute()
	c.Put(key, v, level)
	return v
}

// Turnaround advances every entry's age by one and evicts entries whose
// age then exceeds maxAge (unused for more than maxAge consecutive
// compilations), called once per completed top-level compilation.
func (c *Cache) Turnaround(maxAge int) (evicted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		e.age++
		if e.age > maxAge {
			delete(c.entries, k)
			evicted++
		}
	}
	return evicted
}

// RetainByLevel discards every entry whose level is not exactly level,
// letting an incremental test harness restrict cache hits to one
// recursion depth (e.g. to verify that only the paragraph that actually
// changed was recomputed, not anything above or below it in the tree).
func (c *Cache) RetainByLevel(level int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.level != level {
			delete(c.entries, k)
		}
	}
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate drops a single key, used when a caller knows a specific
// sub-result is stale (e.g. a introspector-dependent computation whose
// projection changed between fixpoint iterations) without paying for a
// full turnaround pass.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
