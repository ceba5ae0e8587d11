// Package kepler is the public entry point of the chess engine core: a bitboard move generator,
// a transposition-table-backed parallel alpha-beta search, and a phase-aware evaluator, wrapped
// into a single Engine type. Callers that want the board representation or search internals
// directly can import pkg/board, pkg/search, pkg/eval and the rest of the pkg/ tree; this package
// exists so that the common case -- "give me the best move in this position" -- needs only one
// import.
package kepler

import (
	"context"
	"fmt"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/search"
)

// StandardStartingPosition returns the position at the start of a standard game.
func StandardStartingPosition() *board.Position {
	return board.StandardStartingPosition()
}

// Config holds the parameters of a single Execute call.
type Config struct {
	// MaxDepth is the search depth limit. 0 means no limit: callers relying on that should also
	// bound the call with a context deadline, or Execute will run until a forced mate or ctx
	// cancellation.
	MaxDepth int
	// TTSizeMB is the transposition table size in megabytes, applied only by NewEngine: an
	// Engine's table is sized once at construction and kept for the Engine's lifetime, since
	// resizing mid-game would discard entries a later search could still have used. Execute
	// ignores this field; it exists so a caller can round-trip the Config it built the Engine
	// from.
	TTSizeMB int
	// Threads is the number of Lazy-SMP worker threads. 0 selects runtime.GOMAXPROCS(0).
	Threads int
	// Aspiration is the half-width, in centipawns, of the aspiration window re-searched around
	// the previous iteration's score. 0 selects the search package's default.
	Aspiration int
	// QuiescenceBudget caps quiescence nodes per worker over the whole call. 0 selects the
	// search package's default.
	QuiescenceBudget int
}

// ProgressFunc is called once per completed iterative-deepening depth, from a single goroutine,
// never concurrently with itself. cacheHits, cacheMisses and cacheEntries are the evaluation
// cache's cumulative counters as of that depth's completion.
type ProgressFunc func(depth int, best board.Move, score eval.Score, boardsEvaluated uint64, elapsed int64, nps uint64, cacheHits, cacheMisses, cacheEntries uint64)

// Result is the outcome of an Execute call: the deepest result reached before it stopped, by
// depth limit, time control, forced mate, or context cancellation.
type Result struct {
	BestMove       board.Move
	Score          eval.Score
	IterationStats []search.PV
}

// Engine evaluates positions and searches for the best move in them. Its transposition table
// persists across Execute calls so that later searches in the same game benefit from earlier
// ones; the evaluation cache is reset at the start of every Execute call. Call ResetTables
// between unrelated games to clear the transposition table as well.
type Engine struct {
	inner    *search.Engine
	observer ProgressFunc
}

// NewEngine constructs an Engine with the given transposition table and evaluation cache sizes in
// megabytes. Zero selects each table's default size.
func NewEngine(ttSizeMB, evalCacheSizeMB int) *Engine {
	return &Engine{inner: search.NewEngine(ttSizeMB, evalCacheSizeMB)}
}

// Observe registers fn to be called after every completed search depth. A nil fn disables
// progress reporting. Only one observer is kept; a later call replaces an earlier one.
func (e *Engine) Observe(fn ProgressFunc) {
	e.observer = fn
}

// ResetTables clears the transposition table and evaluation cache, e.g. between games.
func (e *Engine) ResetTables() {
	e.inner.ResetTables()
}

// Execute searches pos and returns the deepest result reached before stopping. pos must have at
// least one legal move; callers should adjudicate checkmate and stalemate themselves first, via
// board.Board.AdjudicateNoLegalMoves or by checking board.Position.LegalMoves directly.
func (e *Engine) Execute(ctx context.Context, pos *board.Position, cfg Config) (Result, error) {
	var stats []search.PV

	searchCfg := search.Config{
		Threads:          cfg.Threads,
		Aspiration:       eval.Score(cfg.Aspiration),
		QuiescenceBudget: cfg.QuiescenceBudget,
		Observer: func(pv search.PV) {
			stats = append(stats, pv)
			if e.observer != nil {
				var move board.Move
				if len(pv.Moves) > 0 {
					move = pv.Moves[0]
				}
				e.observer(pv.Depth, move, pv.Score, pv.Nodes, pv.Time.Milliseconds(), nps(pv),
					pv.CacheHits, pv.CacheMisses, pv.CacheEntries)
			}
		},
	}
	if cfg.MaxDepth > 0 {
		searchCfg.DepthLimit = lang.Some(cfg.MaxDepth)
	}

	res, err := e.inner.Execute(ctx, pos, searchCfg)
	if err != nil {
		return Result{}, fmt.Errorf("kepler: execute: %w", err)
	}

	var best board.Move
	if len(res.Moves) > 0 {
		best = res.Moves[0]
	}
	return Result{BestMove: best, Score: res.Score, IterationStats: stats}, nil
}

func nps(pv search.PV) uint64 {
	seconds := pv.Time.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(float64(pv.Nodes) / seconds)
}
