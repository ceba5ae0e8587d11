// Package search implements parallel iterative-deepening alpha-beta search with quiescence: the
// engine's decision procedure for "what is the best move here".
package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

// ErrHalted is returned by a worker whose context was cancelled before it completed a depth,
// never wrapped. Execute does not return it: it reports the stop as Result.Halted.
var ErrHalted = errors.New("search: halted")

// ErrNoLegalMoves is returned by Execute when the position has no legal moves: the caller should
// adjudicate checkmate or stalemate rather than ask the engine to find a move.
var ErrNoLegalMoves = errors.New("search: no legal moves")

// PV is the principal variation and statistics for a single completed depth of iterative
// deepening.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table occupancy, [0;1]; Execute does not measure it and always sets 0

	// CacheHits, CacheMisses and CacheEntries are the evaluation cache's cumulative counters as of
	// this depth's completion, surfaced for diagnostics alongside the rest of the PV.
	CacheHits    uint64
	CacheMisses  uint64
	CacheEntries uint64
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%.0f%% cache=%v/%v pv=%v",
		p.Depth, p.Score, p.Nodes, p.Time, 100*p.Hash, p.CacheHits, p.CacheHits+p.CacheMisses, board.PrintMoves(p.Moves))
}

// Result is the final outcome of an Engine.Execute call: the deepest PV reached before the
// search stopped, whether by depth limit, time control, forced mate, or external halt.
type Result struct {
	PV
	Halted bool // true if stopped by context cancellation (including the hard time limit) before converging
}

// TimeControl describes the remaining clock for both sides, as reported by a GUI or tournament
// manager. Moves == 0 means "rest of the game".
type TimeControl struct {
	White, Black time.Duration
	Moves        int
}

// Limits returns the soft and hard time budget for the side to move: after the soft limit, no
// new iterative-deepening depth is started; the hard limit halts a depth already in progress.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft = remainder / (2 * moves)
	hard = 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// Config holds the parameters of a single Execute call. The zero value searches with no depth
// or time limit, using runtime.GOMAXPROCS(0) worker threads -- callers should always set at
// least one of DepthLimit or TimeControl in practice, or rely on context cancellation.
type Config struct {
	DepthLimit  lang.Optional[int]
	TimeControl lang.Optional[TimeControl]
	Threads     int // 0 == runtime.GOMAXPROCS(0)
	Noise       eval.Random

	// Aspiration is the half-width of the aspiration window around the previous iteration's
	// score, in centipawns. 0 selects defaultAspirationWindow.
	Aspiration eval.Score
	// QuiescenceBudget caps quiescence nodes per worker over the whole Execute call. 0 selects
	// defaultQuiescenceBudget.
	QuiescenceBudget int

	// Observer, if set, is called after every completed depth from the coordinating goroutine
	// only (never concurrently), one call at a time.
	Observer func(PV)
}
