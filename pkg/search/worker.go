package search

import (
	"context"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/evalcache"
	"github.com/corvidchess/kepler/pkg/ordering"
	"github.com/corvidchess/kepler/pkg/phase"
	"github.com/corvidchess/kepler/pkg/see"
	"github.com/corvidchess/kepler/pkg/tt"
)

// seePruneThreshold is the SEE score below which a capture is considered an outright material
// loss worth pruning near the horizon; small losing exchanges (e.g. a pawn sac with compensation)
// are allowed through rather than pruning at a strict 0.
const seePruneThreshold = eval.Score(-20)

// worker carries one goroutine's mutable search state: its own move-ordering heuristics (killers,
// counter moves, history) are kept per-worker rather than shared, since ordering quality degrades
// under contention far more than it benefits from cross-thread sharing. The transposition table
// and evaluation cache are the only state shared across workers, and both are internally striped
// for concurrent access.
type worker struct {
	id    int
	tt    *tt.Table
	cache *evalcache.Cache
	noise eval.Random

	// qbudget caps quiescence expansion per root call: deep tactical fireworks in a single line
	// should not be allowed to stall the whole iterative-deepening loop.
	qbudget int

	killers  ordering.Killers
	counters ordering.CounterMoves
	history  ordering.History

	nodes  uint64
	qnodes int
}

// evaluate returns the side-to-move-relative static score of pos, i.e. positive means the side
// to move is better, using the cache and the phase-appropriate evaluator. depth is part of the
// cache key: a quiescence call (depth 0) and a full-width call at the same position are not
// required to agree, since quiescence's stand-pat score is one term among several a full-width
// node also searches.
func (w *worker) evaluate(ctx context.Context, pos *board.Position, depth int) eval.Score {
	h := pos.Hash()
	if s, ok := w.cache.Get(h, depth); ok {
		return s * eval.Unit(pos.Turn())
	}

	e := phase.ForPhase(phase.Detect(pos))
	abs := e.Evaluate(ctx, pos) + w.noise.Evaluate(ctx, pos)
	w.cache.Put(h, depth, abs)
	return abs * eval.Unit(pos.Turn())
}

// searchRootMove searches a single root move to depth and returns its score from the root side
// to move's perspective. pvNode true searches a full window (the first root move, or a re-search
// after a null-window probe improved alpha); pvNode false probes with a null window first and
// only re-searches the full window on improvement -- standard PVS, applied at the root exactly
// as it is one ply down.
func (w *worker) searchRootMove(ctx context.Context, pos *board.Position, m board.Move, depth int, alpha, beta eval.Score, pvNode bool) (eval.Score, bool, error) {
	child, legal := pos.Move(m)
	if !legal {
		return 0, false, nil
	}
	w.nodes++

	var score eval.Score
	var err error
	if pvNode {
		score, err = w.negamax(ctx, child, depth-1, 1, -beta, -alpha, true, m)
		score = -score
	} else {
		score, err = w.negamax(ctx, child, depth-1, 1, -alpha-1, -alpha, false, m)
		score = -score
		if err == nil && score > alpha && score < beta {
			score, err = w.negamax(ctx, child, depth-1, 1, -beta, -alpha, true, m)
			score = -score
		}
	}
	if err != nil {
		return 0, true, err
	}
	return score, true, nil
}

// negamax searches pos to the given depth from ply plies below the root, returning the score
// relative to the side to move at pos (not at the root). prev is the move that produced pos,
// used to index the counter-move table.
func (w *worker) negamax(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta eval.Score, pvNode bool, prev board.Move) (eval.Score, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrHalted
	}

	alphaOrig := alpha

	if ply > 0 {
		if e, ok := w.tt.Probe(pos.Hash()); ok && e.Depth >= depth {
			switch e.Bound {
			case tt.Exact:
				return e.Score, nil
			case tt.LowerBound:
				if e.Score > alpha {
					alpha = e.Score
				}
			case tt.UpperBound:
				if e.Score < beta {
					beta = e.Score
				}
			}
			if alpha >= beta {
				return e.Score, nil
			}
		}
	}

	checked := pos.IsChecked(pos.Turn())
	if checked {
		depth++ // check extension: never let a check evade full-width search at depth 0.
	}

	if depth <= 0 {
		return w.quiescence(ctx, pos, alpha, beta)
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if checked {
			return -eval.Mate(ply), nil
		}
		return 0, nil // stalemate
	}

	staticEval := w.evaluate(ctx, pos, depth)

	// Razoring: a quiet position far below alpha at low depth is very unlikely to recover within
	// a couple of plies; drop straight to quiescence with a margin.
	if !pvNode && !checked && depth <= 3 {
		margin := eval.Score(150 * depth)
		if staticEval+margin < alpha {
			score, err := w.quiescence(ctx, pos, alpha, beta)
			if err != nil {
				return 0, err
			}
			if score < alpha {
				return score, nil
			}
		}
	}

	// Null-move pruning: if passing still produces a beta cutoff, the side to move has such a
	// commanding position that a real move will too; skip searching it at reduced depth. Guarded
	// against zugzwang by requiring material beyond king and pawns, and verified (reduced depth
	// checked against a non-null search) from depth 6 on, where null-move tactics are most likely
	// to mislead.
	if !pvNode && !checked && depth >= 3 && hasNonPawnMaterial(pos, pos.Turn()) {
		r := 2 + depth/6
		child := pos.ApplyNull()
		score, err := w.negamax(ctx, child, depth-1-r, ply+1, -beta, -beta+1, false, board.NullMove)
		if err != nil {
			return 0, err
		}
		score = -score
		if score >= beta {
			if depth >= 6 {
				verify, err := w.negamax(ctx, pos, depth-1-r, ply, alpha, beta, false, prev)
				if err != nil {
					return 0, err
				}
				if verify >= beta {
					return beta, nil
				}
			} else {
				return beta, nil
			}
		}
	}

	ttMove := board.Move{}
	if e, ok := w.tt.Probe(pos.Hash()); ok {
		ttMove = e.Move
	} else if depth >= 4 {
		// Internal iterative deepening: no TT move to order with, so spend a shallow search to
		// find one before committing to the expensive full-depth search.
		if _, err := w.negamax(ctx, pos, depth-2, ply, alpha, beta, pvNode, prev); err != nil {
			return 0, err
		}
		if e, ok := w.tt.Probe(pos.Hash()); ok {
			ttMove = e.Move
		}
	}

	opponentLast := prev
	ml := ordering.InteriorSorter(moves, ttMove, ply, &w.killers, &w.counters, &w.history, pos.Turn(), opponentLast, pos)

	best := moves[0]
	bestScore := eval.NegInf
	moveCount := 0

	for {
		m, ok := ml.Next()
		if !ok {
			break
		}
		moveCount++

		// Futility pruning: in non-PV nodes near the horizon, skip quiet moves that static
		// evaluation says cannot plausibly raise alpha.
		if !pvNode && !checked && depth <= 2 && moveCount > 1 && !m.IsCapture() && !m.IsPromotion() {
			if staticEval+eval.Score(100+100*depth) < alpha {
				continue
			}
		}

		child, legal := pos.Move(m)
		if !legal {
			continue
		}

		// SEE-based capture pruning: in non-PV nodes near the horizon, skip captures that lose
		// material outright, unless they deliver check -- a check can force a reply that SEE's
		// static recapture model has no way to anticipate.
		if !pvNode && !checked && depth <= 2 && moveCount > 1 && m.IsCapture() {
			if see.Evaluate(pos, m) < seePruneThreshold && !child.IsChecked(child.Turn()) {
				continue
			}
		}
		w.nodes++

		reduction := 0
		if depth >= 3 && moveCount > 3 && !checked && !m.IsCapture() && !m.IsPromotion() {
			reduction = 1
			if moveCount > 8 {
				reduction = 2
			}
		}

		var score eval.Score
		var err error
		if moveCount == 1 {
			score, err = w.negamax(ctx, child, depth-1, ply+1, -beta, -alpha, pvNode, m)
			score = -score
		} else {
			score, err = w.negamax(ctx, child, depth-1-reduction, ply+1, -alpha-1, -alpha, false, m)
			score = -score
			if err == nil && score > alpha && (reduction > 0 || pvNode) {
				score, err = w.negamax(ctx, child, depth-1, ply+1, -beta, -alpha, pvNode, m)
				score = -score
			}
		}
		if err != nil {
			return 0, err
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !m.IsCapture() {
				w.killers.Record(ply, m)
				w.counters.Record(pos.Turn(), prev, m)
				w.history.Bonus(pos.Turn(), m, depth)
			}
			break
		}
	}

	bound := tt.Exact
	switch {
	case bestScore <= alphaOrig:
		bound = tt.UpperBound
	case bestScore >= beta:
		bound = tt.LowerBound
	}
	w.tt.Store(tt.Entry{Hash: pos.Hash(), Depth: depth, Score: bestScore, Bound: bound, Move: best})

	return bestScore, nil
}

// quiescence extends the search along capture/check sequences only, so that static evaluation is
// never trusted at a point where an obvious recapture is still pending (the "horizon effect").
func (w *worker) quiescence(ctx context.Context, pos *board.Position, alpha, beta eval.Score) (eval.Score, error) {
	if err := ctx.Err(); err != nil {
		return 0, ErrHalted
	}
	if w.qnodes >= w.qbudget {
		return w.evaluate(ctx, pos, 0), nil
	}
	w.qnodes++
	w.nodes++

	standPat := w.evaluate(ctx, pos, 0)
	if standPat >= beta {
		return beta, nil
	}
	if standPat > alpha {
		alpha = standPat
	}

	const deltaMargin = eval.Score(200) // safety margin on top of the move's own nominal gain

	for _, m := range pos.PseudoLegalMoves() {
		if !m.IsCapture() && !m.IsPromotion() {
			continue
		}

		// Delta pruning: a capture that cannot plausibly close the gap to alpha even in the best
		// case (winning the captured piece outright) is not worth searching further.
		if standPat+eval.NominalValueGain(m)+deltaMargin < alpha {
			continue
		}

		child, legal := pos.Move(m)
		if !legal {
			continue
		}

		// SEE-based capture pruning: a losing capture is skipped unless it delivers check or
		// snaps off a piece the defender never bothered to guard -- both cases SEE's static
		// recapture model cannot see coming.
		if m.IsCapture() && see.Evaluate(pos, m) < seePruneThreshold {
			victim := pos.Turn().Opponent()
			undefended := !see.IsPieceDefended(pos, victim, m.To)
			givesCheck := child.IsChecked(child.Turn())
			if !undefended && !givesCheck {
				continue
			}
		}

		score, err := w.quiescence(ctx, child, -beta, -alpha)
		if err != nil {
			return 0, err
		}
		score = -score

		if score >= beta {
			return beta, nil
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha, nil
}

func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	return pos.Piece(c, board.Knight)|pos.Piece(c, board.Bishop)|pos.Piece(c, board.Rook)|pos.Piece(c, board.Queen) != 0
}
