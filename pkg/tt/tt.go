// Package tt implements a concurrent, fixed-size transposition table keyed by zobrist hash, used
// by search to remember the result of positions already explored on other branches or in earlier
// iterations of iterative deepening.
package tt

import (
	"sync"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

// Bound classifies how an Entry's score relates to the search window it was produced in.
type Bound uint8

const (
	Exact      Bound = iota // score is the exact minimax value
	LowerBound              // true value is at least score (a beta cutoff occurred)
	UpperBound              // true value is at most score (no move improved alpha)
)

// Entry is a single transposition table record. Age identifies the root-search generation that
// wrote or last refreshed it; zero means "never touched" (IncrementAge never issues generation 0).
type Entry struct {
	Hash  board.ZobristHash
	Depth int
	Score eval.Score
	Bound Bound
	Move  board.Move // best move found, or the zero Move if none.
	Age   uint32
}

const numStripes = 1024

// Table is a two-probe-slot open-addressed table: each hash maps to an independently computed
// primary and secondary index, primary = hash & mask, secondary = (primary XOR (hash>>32)) &
// mask. The key space is additionally partitioned across numStripes independent locks, selected
// by index rather than by hash, so that a store touching both a position's probe slots always
// locks a consistent, deadlock-free pair of stripes.
type Table struct {
	mask    uint64
	entries []Entry
	gen     uint32
	stripes [numStripes]sync.RWMutex
}

// New returns a Table sized to hold approximately sizeMB megabytes of entries, rounded down to a
// power of two number of slots so that index-by-mask is branch-free.
func New(sizeMB int) *Table {
	entrySize := 48 // approximate Entry size in bytes, generous for alignment.
	count := sizeMB * 1024 * 1024 / entrySize
	size := uint64(1)
	for size*2 <= uint64(count) {
		size *= 2
	}
	if size == 0 {
		size = 1
	}

	return &Table{
		mask:    size - 1,
		entries: make([]Entry, size),
		gen:     1, // generation zero is reserved for "never touched"
	}
}

func (t *Table) primaryIndex(h board.ZobristHash) uint64 {
	return uint64(h) & t.mask
}

func (t *Table) secondaryIndex(h board.ZobristHash) uint64 {
	return (t.primaryIndex(h) ^ (uint64(h) >> 32)) & t.mask
}

// lockStripes locks the stripes covering indices i and j, in a fixed low-to-high order so that
// two concurrent calls covering the same pair of stripes never deadlock against each other.
func (t *Table) lockStripes(i, j uint64) (release func()) {
	a, b := i%numStripes, j%numStripes
	if a == b {
		t.stripes[a].Lock()
		return func() { t.stripes[a].Unlock() }
	}
	if a > b {
		a, b = b, a
	}
	t.stripes[a].Lock()
	t.stripes[b].Lock()
	return func() {
		t.stripes[b].Unlock()
		t.stripes[a].Unlock()
	}
}

// Probe looks up the entry for h, if any, preferring the primary probe slot. On a hit, the
// entry's age is refreshed to the table's current generation. The returned bool is false on a
// miss.
func (t *Table) Probe(h board.ZobristHash) (Entry, bool) {
	pi, si := t.primaryIndex(h), t.secondaryIndex(h)

	release := t.lockStripes(pi, si)
	defer release()

	if t.entries[pi].Hash == h {
		t.entries[pi].Age = t.gen
		return t.entries[pi], true
	}
	if t.entries[si].Hash == h {
		t.entries[si].Age = t.gen
		return t.entries[si], true
	}
	return Entry{}, false
}

// Store records an entry for h, stamped with the table's current generation. If either probe
// slot already holds h, it is updated in place; otherwise the slot chosen by replaceable (empty,
// then shallower depth, then non-EXACT over EXACT, then older generation over current) is
// overwritten.
func (t *Table) Store(e Entry) {
	pi, si := t.primaryIndex(e.Hash), t.secondaryIndex(e.Hash)

	release := t.lockStripes(pi, si)
	defer release()

	e.Age = t.gen

	p, s := &t.entries[pi], &t.entries[si]
	switch {
	case p.Hash == e.Hash:
		*p = e
	case s.Hash == e.Hash:
		*s = e
	case replaceable(*p, *s, t.gen):
		*p = e
	default:
		*s = e
	}
}

// replaceable reports whether p is the more replaceable of the two candidate slots, following
// the table's tiered should_replace preference: an empty slot beats a populated one; failing
// that, the shallower stored depth; failing that, a non-EXACT bound over an EXACT one (exact
// scores are worth preserving); failing that, an older generation over the current one.
func replaceable(p, s Entry, gen uint32) bool {
	pEmpty, sEmpty := p.Hash == 0, s.Hash == 0
	if pEmpty != sEmpty {
		return pEmpty
	}
	if pEmpty {
		return true
	}
	if p.Depth != s.Depth {
		return p.Depth < s.Depth
	}
	if pExact, sExact := p.Bound == Exact, s.Bound == Exact; pExact != sExact {
		return sExact
	}
	if pCurrent, sCurrent := p.Age == gen, s.Age == gen; pCurrent != sCurrent {
		return sCurrent
	}
	return true
}

// IncrementAge advances the table's generation counter. Called once at the start of each root
// search so that Store's replacement policy can prefer evicting entries from stale generations;
// generation zero is always skipped so an Entry's zero Age unambiguously means "never stored."
func (t *Table) IncrementAge() {
	t.gen++
	if t.gen == 0 {
		t.gen = 1
	}
}

// Clear empties the table and resets its generation, e.g. between games so stale entries from a
// different game cannot leak into a position that happens to share a hash by coincidence of a
// reused opening.
func (t *Table) Clear() {
	for i := range t.stripes {
		t.stripes[i].Lock()
	}
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.gen = 1
	for i := range t.stripes {
		t.stripes[i].Unlock()
	}
}
