// Package engine wraps pkg/board, pkg/search and pkg/eval into a single stateful, mutex-guarded
// game-playing object: the level a driver (a CLI, a protocol adapter, a test harness) talks to,
// so that it never has to juggle a Position, a search.Engine and a clock itself.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/board/fen"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/search"
)

var version = build.NewVersion(0, 1, 0)

// Options are the runtime-adjustable engine parameters.
type Options struct {
	// Depth is the default search depth limit. If zero, there is no limit.
	Depth uint
	// Hash is the transposition table size in MB.
	Hash uint
	// EvalCache is the evaluation cache size in MB.
	EvalCache uint
	// Noise adds some centipawn randomness to leaf evaluations, to avoid deterministic play
	// against a fixed opponent.
	Noise uint
	// Threads is the number of Lazy-SMP worker threads. If zero, runtime.GOMAXPROCS(0).
	Threads uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%vMB, evalcache=%vMB, noise=%vcp, threads=%v}", o.Depth, o.Hash, o.EvalCache, o.Noise, o.Threads)
}

// Engine encapsulates game-playing state: the current board and the search engine used to pick
// moves in it. A single search.Engine is kept for the lifetime of the Engine, so its
// transposition table and evaluation cache benefit across moves within a game; ResetTables (via
// Reset) clears them between games.
type Engine struct {
	name, author string
	opts         Options

	b      *board.Board
	search *search.Engine
	noise  eval.Random

	cancel context.CancelFunc // non-nil while an Analyze is in flight
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets the initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// New creates an engine positioned at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{name: name, author: author}
	for _, fn := range opts {
		fn(e)
	}

	e.search = search.NewEngine(int(e.opts.Hash), int(e.opts.EvalCache))
	e.noise = noiseFromOptions(e.opts)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

func noiseFromOptions(opts Options) eval.Random {
	if opts.Noise == 0 {
		return eval.Random{}
	}
	return eval.NewRandom(int(opts.Noise), 0x5EEDC0FFEE)
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = sizeMB
	e.search = search.NewEngine(int(e.opts.Hash), int(e.opts.EvalCache))
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = centipawns
	e.noise = noiseFromOptions(e.opts)
}

// Board returns a forked copy of the current board: safe for a caller to inspect or mutate
// without racing the engine's own searches and moves.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.b.Position(), e.b.Turn(), e.b.NoProgress(), e.b.FullMoves())
}

// Reset starts a new game from position, a FEN string, clearing the transposition table and
// evaluation cache: stale entries from whatever game preceded this one must never leak into it.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "reset %v, depth=%v, hash=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	e.haltAnalysisIfActive(ctx)

	pos, _, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.b = board.NewBoard(pos, noprogress, fullmoves)
	e.search.ResetTables()

	logw.Infof(ctx, "new board: %v", e.b)
	return nil
}

// Move plays the given move, in pure algebraic coordinate notation (e.g. "e2e4" or "e7e8q"),
// usually an opponent's move relayed by a driver.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltAnalysisIfActive(ctx)

	for _, m := range e.b.Position().PseudoLegalMoves() {
		if !m.MatchesCoordinates(candidate) {
			continue
		}
		if !e.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}
		logw.Infof(ctx, "move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltAnalysisIfActive(ctx)

	m, ok := e.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "takeback %v", m)
	return nil
}

// Analyze starts searching the current position in the background and streams a search.PV after
// every completed depth. The returned channel is closed when the search stops, by depth limit,
// time control, forced mate, or Halt. Only one Analyze may be active at a time.
func (e *Engine) Analyze(ctx context.Context, cfg search.Config) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		return nil, fmt.Errorf("search already active")
	}
	if _, ok := cfg.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		cfg.DepthLimit = lang.Some(int(e.opts.Depth))
	}
	if cfg.Threads == 0 {
		cfg.Threads = int(e.opts.Threads)
	}
	cfg.Noise = e.noise

	logw.Infof(ctx, "analyze %v, cfg=%v", e.b, cfg)

	searchCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	pos := e.b.Position()
	out := make(chan search.PV, 1)

	observed := cfg.Observer
	cfg.Observer = func(pv search.PV) {
		out <- pv
		if observed != nil {
			observed(pv)
		}
	}

	go func() {
		defer close(out)
		defer cancel()

		if _, err := e.search.Execute(searchCtx, pos, cfg); err != nil {
			logw.Errorf(ctx, "search %v failed: %v", e.b, err)
		}

		e.mu.Lock()
		if e.cancel != nil && searchCtx.Err() == nil {
			// Stopped on its own (depth limit, time control, forced mate): clear the handle so a
			// later Halt or Analyze doesn't mistake a finished search for an active one. If
			// searchCtx is already cancelled, Halt got there first and already cleared it.
			e.cancel = nil
		}
		e.mu.Unlock()
	}()

	return out, nil
}

// Halt stops the active Analyze, if any.
func (e *Engine) Halt(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel == nil {
		return fmt.Errorf("no active search")
	}
	e.haltAnalysisIfActive(ctx)
	return nil
}

func (e *Engine) haltAnalysisIfActive(ctx context.Context) {
	if e.cancel != nil {
		logw.Infof(ctx, "halting active search %v", e.b)
		e.cancel()
		e.cancel = nil
	}
}
