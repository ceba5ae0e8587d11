package search

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seekerror/logw"
	"golang.org/x/sync/errgroup"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/evalcache"
	"github.com/corvidchess/kepler/pkg/ordering"
	"github.com/corvidchess/kepler/pkg/tt"
)

const (
	defaultTTSizeMB    = 64
	defaultCacheSizeMB = 16

	defaultAspirationWindow = eval.Score(25)
	defaultQuiescenceBudget = 300000
	maxPVLength             = 64
)

// Engine runs parallel iterative-deepening alpha-beta search. Its transposition table persists
// across calls to Execute, aging by one generation at the start of each call so that replacement
// prefers evicting stale entries over ones from the current search; ResetTables clears it
// entirely for a new game. The evaluation cache is reset at the start of every Execute call (its
// key includes remaining depth, so little of it would be reusable across separate searches
// anyway), and accumulates hits within the call's own iterative-deepening depths.
type Engine struct {
	tt    *tt.Table
	cache *evalcache.Cache
}

// NewEngine allocates an Engine with the given table sizes in megabytes. Zero selects the
// default size for that table.
func NewEngine(ttSizeMB, cacheSizeMB int) *Engine {
	if ttSizeMB <= 0 {
		ttSizeMB = defaultTTSizeMB
	}
	if cacheSizeMB <= 0 {
		cacheSizeMB = defaultCacheSizeMB
	}
	return &Engine{
		tt:    tt.New(ttSizeMB),
		cache: evalcache.New(cacheSizeMB),
	}
}

// ResetTables clears the transposition table and evaluation cache, e.g. between games: stale
// entries from a previous, unrelated game should never influence a new one.
func (e *Engine) ResetTables() {
	e.tt.Clear()
	e.cache.Clear()
}

// Execute searches pos and returns the deepest result reached before stopping, by depth limit,
// time control, forced mate, or ctx cancellation. pos must have at least one legal move; callers
// holding a board.Board should check board.Board.AdjudicateNoLegalMoves first.
func (e *Engine) Execute(ctx context.Context, pos *board.Position, cfg Config) (Result, error) {
	if len(pos.LegalMoves()) == 0 {
		return Result{}, ErrNoLegalMoves
	}

	e.tt.IncrementAge()
	e.cache.Clear()

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	tc, hasTimeControl := cfg.TimeControl.V()

	searchCtx := ctx
	var soft time.Duration
	useSoft := false
	if hasTimeControl {
		s, hard := tc.Limits(pos.Turn())
		if hard > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(ctx, hard)
			defer cancel()
		}
		soft, useSoft = s, s > 0
	}

	budget := cfg.QuiescenceBudget
	if budget <= 0 {
		budget = defaultQuiescenceBudget
	}
	aspiration := cfg.Aspiration
	if aspiration <= 0 {
		aspiration = defaultAspirationWindow
	}

	workers := make([]*worker, threads)
	for i := range workers {
		workers[i] = &worker{id: i, tt: e.tt, cache: e.cache, noise: cfg.Noise, qbudget: budget}
	}

	depthLimit, hasDepthLimit := cfg.DepthLimit.V()

	var last Result
	var prevScore eval.Score
	searchStart := time.Now()

	for depth := 1; !hasDepthLimit || depth <= depthLimit; depth++ {
		start := time.Now()

		alpha, beta := eval.NegInf, eval.Inf
		if depth >= 3 {
			alpha, beta = prevScore-aspiration, prevScore+aspiration
		}

		score, move, halted, err := e.searchDepth(searchCtx, workers, pos, depth, alpha, beta)
		if err != nil {
			return last, err
		}
		if halted {
			last.Halted = true
			return last, nil
		}

		cacheStats := e.cache.Stats()
		pv := PV{
			Depth:        depth,
			Moves:        append([]board.Move{move}, pvLine(pos, move, e.tt, maxPVLength)...),
			Score:        score,
			Nodes:        totalNodes(workers),
			Time:         time.Since(start),
			Hash:         0,
			CacheHits:    cacheStats.Hits,
			CacheMisses:  cacheStats.Misses,
			CacheEntries: cacheStats.Entries,
		}
		logw.Debugf(ctx, "searched %v: %v", pos, pv)

		last = Result{PV: pv}
		prevScore = score

		if cfg.Observer != nil {
			cfg.Observer(pv)
		}

		if eval.IsMate(score) {
			return last, nil // forced mate found within a full-width search is an exact result.
		}
		if useSoft && time.Since(searchStart) > soft {
			return last, nil
		}
	}

	return last, nil
}

// searchDepth runs one iteration of the root search, re-searching with an infinite window if the
// aspiration window given failed to contain the true score.
func (e *Engine) searchDepth(ctx context.Context, workers []*worker, pos *board.Position, depth int, alpha, beta eval.Score) (eval.Score, board.Move, bool, error) {
	score, move, err := e.rootSearch(ctx, workers, pos, depth, alpha, beta)
	if err == ErrHalted || ctx.Err() != nil {
		return 0, board.Move{}, true, nil
	}
	if err != nil {
		return 0, board.Move{}, false, err
	}

	if score <= alpha || score >= beta {
		score, move, err = e.rootSearch(ctx, workers, pos, depth, eval.NegInf, eval.Inf)
		if err == ErrHalted || ctx.Err() != nil {
			return 0, board.Move{}, true, nil
		}
		if err != nil {
			return 0, board.Move{}, false, err
		}
	}

	return score, move, false, nil
}

// rootResult is the root search's shared (best-move, best-score) pair, consistent under its
// mutex: readers only ever observe a pair that was published together.
type rootResult struct {
	mu        sync.Mutex
	alpha     eval.Score
	beta      eval.Score
	bestScore eval.Score
	bestMove  board.Move
	set       bool
}

func (r *rootResult) snapshotAlpha() eval.Score {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alpha
}

func (r *rootResult) update(m board.Move, score eval.Score) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.set || score > r.bestScore {
		r.bestScore, r.bestMove, r.set = score, m, true
	}
	if score > r.alpha {
		r.alpha = score
	}
}

// rootSearch runs one parallel root search at the given window: Young-Brothers-Wait. Root moves
// are ordered once by the root sorter; worker 0 searches the first move alone while every other
// worker waits on a latch, then signals it once move 1's score is published. After the latch
// opens, every worker (including worker 0) draws move indices from a shared counter, skipping
// index 0, until the dispenser is exhausted.
func (e *Engine) rootSearch(ctx context.Context, workers []*worker, pos *board.Position, depth int, alpha, beta eval.Score) (eval.Score, board.Move, error) {
	moves := pos.LegalMoves()

	ttMove := board.Move{}
	if ent, ok := e.tt.Probe(pos.Hash()); ok {
		ttMove = ent.Move
	}
	var history ordering.History
	ordered := drainRootOrder(ordering.RootSorter(moves, ttMove, &history, pos.Turn(), pos))

	result := &rootResult{alpha: alpha, beta: beta, bestScore: eval.NegInf}

	var latch sync.WaitGroup
	latch.Add(1)
	var cursor int64 // index 0 belongs to worker 0; everyone else draws from 1.

	var g errgroup.Group
	for _, w := range workers {
		w := w
		g.Go(func() error {
			return e.runRootWorker(ctx, w, pos, ordered, depth, result, &latch, &cursor)
		})
	}

	if err := g.Wait(); err != nil {
		return 0, board.Move{}, err
	}

	result.mu.Lock()
	bestScore, bestMove := result.bestScore, result.bestMove
	result.mu.Unlock()

	e.tt.Store(tt.Entry{Hash: pos.Hash(), Depth: depth, Score: bestScore, Bound: tt.Exact, Move: bestMove})
	return bestScore, bestMove, nil
}

// runRootWorker drives one worker through the Young-Brothers-Wait state machine: SEARCHING_FIRST
// or WAITING, then PICKING/SEARCHING_OTHER until the root move list is exhausted or a stop is
// observed.
func (e *Engine) runRootWorker(ctx context.Context, w *worker, pos *board.Position, ordered []board.Move, depth int, result *rootResult, latch *sync.WaitGroup, cursor *int64) error {
	if w.id == 0 {
		score, legal, err := w.searchRootMove(ctx, pos, ordered[0], depth, result.alpha, result.beta, true)
		if err == nil && legal {
			result.update(ordered[0], score)
		}
		latch.Done()
		if err != nil {
			return err
		}
	} else {
		latch.Wait()
	}

	for {
		if err := ctx.Err(); err != nil {
			return ErrHalted
		}

		idx := atomic.AddInt64(cursor, 1)
		if idx >= int64(len(ordered)) {
			return nil
		}
		m := ordered[idx]

		d := depth - w.id%2 // helper diversification: odd worker ids search one ply shallower.

		a := result.snapshotAlpha()
		score, legal, err := w.searchRootMove(ctx, pos, m, d, a, result.beta, false)
		if err != nil {
			return err
		}
		if !legal {
			continue
		}
		result.update(m, score)
	}
}

// drainRootOrder exhausts a move list into a plain slice: the root dispenser indexes into a
// fixed, shared ordering, which a priority-queue pull interface doesn't give workers directly.
func drainRootOrder(ml *board.MoveList) []board.Move {
	var moves []board.Move
	for {
		m, ok := ml.Next()
		if !ok {
			return moves
		}
		moves = append(moves, m)
	}
}

// pvLine extracts the remainder of the principal variation after the root move, by following
// best moves recorded in the transposition table. It stops at a TT miss, a repeated position
// (which would otherwise loop forever against a drawn or mishandled line), or maxLen.
func pvLine(root *board.Position, rootMove board.Move, table *tt.Table, maxLen int) []board.Move {
	pos, ok := root.Move(rootMove)
	if !ok {
		return nil
	}

	seen := map[board.ZobristHash]bool{root.Hash(): true}
	var moves []board.Move

	for len(moves) < maxLen {
		if seen[pos.Hash()] {
			break
		}
		seen[pos.Hash()] = true

		e, ok := table.Probe(pos.Hash())
		if !ok || e.Move.IsNull() {
			break
		}

		next, ok := pos.Move(e.Move)
		if !ok {
			break
		}
		moves = append(moves, e.Move)
		pos = next
	}
	return moves
}

func totalNodes(workers []*worker) uint64 {
	var n uint64
	for _, w := range workers {
		n += w.nodes
	}
	return n
}
