// Package evalcache memoizes static evaluation results by position hash and search depth. Static
// evaluation is called far more often than the transposition table is written (every quiescence
// node, not just every full-width node), so it gets its own table tuned for that access pattern:
// single-entry slots, always-replace, no bound bookkeeping -- plus the hit/miss/entry-count
// counters search needs to report cache effectiveness as a diagnostic alongside each depth's PV.
package evalcache

import (
	"sync"
	"sync/atomic"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

const numStripes = 1024

type entry struct {
	hash  board.ZobristHash
	depth int
	score eval.Score
	valid bool
}

// Stats summarizes a Cache's effectiveness since its last Clear.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries uint64 // populated slots, an approximation of distinct (hash, depth) pairs seen
}

// Cache is a concurrent, fixed-size, always-replace cache from (position hash, search depth) to
// static evaluation score, striped the same way as pkg/tt so the two tables never contend with
// each other or within themselves under parallel search. The key includes depth because a
// position's static evaluation can legitimately be asked for at different remaining depths within
// one search (e.g. quiescence re-entry), and those answers are not required to agree.
type Cache struct {
	mask    uint64
	entries []entry
	stripes [numStripes]sync.RWMutex

	hits   atomic.Uint64
	misses atomic.Uint64
	entryN atomic.Uint64
}

// New returns a Cache sized to hold approximately sizeMB megabytes of entries.
func New(sizeMB int) *Cache {
	entrySize := 32
	count := sizeMB * 1024 * 1024 / entrySize
	size := uint64(1)
	for size*2 <= uint64(count) {
		size *= 2
	}
	if size == 0 {
		size = 1
	}

	return &Cache{
		mask:    size - 1,
		entries: make([]entry, size),
	}
}

func (c *Cache) index(h board.ZobristHash) uint64 {
	return uint64(h) & c.mask
}

func (c *Cache) stripe(h board.ZobristHash) *sync.RWMutex {
	return &c.stripes[uint64(h)%numStripes]
}

// Get returns the cached score for (h, depth), if present.
func (c *Cache) Get(h board.ZobristHash, depth int) (eval.Score, bool) {
	i := c.index(h)
	mu := c.stripe(h)

	mu.RLock()
	e := c.entries[i]
	mu.RUnlock()

	if e.valid && e.hash == h && e.depth == depth {
		c.hits.Add(1)
		return e.score, true
	}
	c.misses.Add(1)
	return 0, false
}

// Put stores score under (h, depth), unconditionally replacing whatever was there.
func (c *Cache) Put(h board.ZobristHash, depth int, score eval.Score) {
	i := c.index(h)
	mu := c.stripe(h)

	mu.Lock()
	wasEmpty := !c.entries[i].valid
	c.entries[i] = entry{hash: h, depth: depth, score: score, valid: true}
	mu.Unlock()

	if wasEmpty {
		c.entryN.Add(1)
	}
}

// Stats returns the cache's current hit/miss/entry-count counters, observable for diagnostics and
// surfaced to callers alongside each iterative-deepening depth's results.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.entryN.Load(),
	}
}

// Clear empties the cache and resets its statistics.
func (c *Cache) Clear() {
	for i := range c.stripes {
		c.stripes[i].Lock()
	}
	for i := range c.entries {
		c.entries[i] = entry{}
	}
	for i := range c.stripes {
		c.stripes[i].Unlock()
	}
	c.hits.Store(0)
	c.misses.Store(0)
	c.entryN.Store(0)
}
