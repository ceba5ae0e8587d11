// Package phase classifies a position into a coarse game stage -- opening, middlegame or
// endgame -- so that search can select the evaluator whose weights fit the material and
// development still on the board.
package phase

import (
	"sync"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

// Phase is a coarse classification of the stage of the game.
type Phase uint8

const (
	Opening Phase = iota
	Middlegame
	Endgame
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Middlegame:
		return "middlegame"
	case Endgame:
		return "endgame"
	default:
		return "?"
	}
}

// startingNonKingPieces is the number of non-king pieces (both sides, pawns included) present in
// the standard starting position: 16 pawns, 4 rooks, 4 minors, 2 queens.
const startingNonKingPieces = 30

// indicators holds the six raw, phase-neutral measurements spec's phase detector is built from.
// Each is a plain count or weighted sum over the position; the per-phase scoring functions below
// combine them with different weights and signs to produce each phase's "how much does this look
// like me" score.
type indicators struct {
	material   int // non-pawn, non-king material, weighted, both sides summed
	developed  int // minor/queen pieces off the back rank, plus a bonus per side castled
	moveCount  int // approximate moves played, from captured-piece count
	pieceCount int // total non-king pieces (both sides) still on the board
	pawns      int // advanced-pawn and traded-pawn markers combined
	kingActive int // king centralization and back-rank departure, both sides summed
}

const (
	queenWeight = 9
	rookWeight  = 5
	minorWeight = 3
	castleBonus = 3
)

func computeIndicators(pos *board.Position) indicators {
	var ind indicators

	nonKingPieces := 0
	for c := board.ZeroColor; c < board.NumColors; c++ {
		ind.material += pos.Piece(c, board.Queen).PopCount() * queenWeight
		ind.material += pos.Piece(c, board.Rook).PopCount() * rookWeight
		ind.material += (pos.Piece(c, board.Bishop).PopCount() + pos.Piece(c, board.Knight).PopCount()) * minorWeight

		for _, piece := range []board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight, board.Pawn} {
			nonKingPieces += pos.Piece(c, piece).PopCount()
		}
	}
	ind.pieceCount = nonKingPieces

	captured := startingNonKingPieces - nonKingPieces
	if captured < 0 {
		captured = 0
	}
	ind.moveCount = captured / 2

	for c := board.ZeroColor; c < board.NumColors; c++ {
		home := board.Rank1
		if c == board.Black {
			home = board.Rank8
		}
		backRank := 0
		for _, piece := range []board.Piece{board.Bishop, board.Knight, board.Queen} {
			for _, sq := range pos.Piece(c, piece).ToSquares() {
				if sq.Rank() == home {
					backRank++
				}
			}
		}
		total := pos.Piece(c, board.Bishop).PopCount() + pos.Piece(c, board.Knight).PopCount() + pos.Piece(c, board.Queen).PopCount()
		ind.developed += total - backRank
		if pos.HasCastled(c) {
			ind.developed += castleBonus
		}
	}

	for c := board.ZeroColor; c < board.NumColors; c++ {
		pawns := pos.Piece(c, board.Pawn)
		total := pawns.PopCount()
		advanced := 0
		for _, sq := range pawns.ToSquares() {
			rank := sq.Rank().V()
			if c == board.Black {
				rank = 7 - rank
			}
			if rank >= 4 { // on or past its own fifth rank
				advanced++
			}
		}
		ind.pawns += advanced*3 + (8 - total)
	}

	for c := board.ZeroColor; c < board.NumColors; c++ {
		k := pos.King(c)
		ind.kingActive += 7 - chebyshevDistanceToCenter(k)
		home := board.Rank1
		if c == board.Black {
			home = board.Rank8
		}
		if k.Rank() != home {
			ind.kingActive += 4
		}
	}

	return ind
}

// chebyshevDistanceToCenter returns sq's Chebyshev distance to the nearest of the four center
// squares (d4, d5, e4, e5), used as a proxy for king centralization.
func chebyshevDistanceToCenter(sq board.Square) int {
	f := sq.File().V()
	r := sq.Rank().V()

	df := f - 3
	if f >= 4 {
		df = f - 4
	}
	if df < 0 {
		df = -df
	}
	dr := r - 3
	if r >= 4 {
		dr = r - 4
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// openingScore rewards full material and piece count with little development, trading, or king
// activity -- a position that still looks like the first few moves of the game.
func openingScore(ind indicators) int {
	return ind.material + ind.pieceCount - 2*ind.developed - 2*ind.moveCount - ind.pawns - ind.kingActive
}

// middlegameScore rewards development and remaining material roughly in balance: pieces are out
// and fighting, but enough of them remain that the position isn't reducible to king-and-pawn
// technique yet.
func middlegameScore(ind indicators) int {
	return 2*ind.developed + ind.material - ind.pawns/2 - ind.kingActive
}

// endgameScore rewards a long game (high move count), pawn advancement/trades, and active
// (centralized, off-back-rank) kings, discounted by whatever material and piece count remain.
func endgameScore(ind indicators) int {
	return 2*ind.moveCount + ind.pawns + 2*ind.kingActive - ind.material - ind.pieceCount
}

// cache memoizes phase detection by position hash: Detect is on the hot path of both search
// (once per node, to pick an evaluator) and evaluation itself.
type cache struct {
	mu sync.RWMutex
	m  map[board.ZobristHash]Phase
}

const maxCacheEntries = 10000

var detectCache = &cache{m: make(map[board.ZobristHash]Phase, 1<<16)}

// Detect classifies the position's game stage from six weighted indicators (material, minor-piece
// development, approximate move count, total piece count, pawn-structure markers, king activity),
// memoized by hash. The phase with the highest score wins; ties resolve ENDGAME > MIDDLEGAME >
// OPENING.
func Detect(pos *board.Position) Phase {
	h := pos.Hash()

	detectCache.mu.RLock()
	if p, ok := detectCache.m[h]; ok {
		detectCache.mu.RUnlock()
		return p
	}
	detectCache.mu.RUnlock()

	p := detect(pos)

	detectCache.mu.Lock()
	if len(detectCache.m) >= maxCacheEntries {
		detectCache.m = make(map[board.ZobristHash]Phase, 1<<16)
	}
	detectCache.m[h] = p
	detectCache.mu.Unlock()

	return p
}

func detect(pos *board.Position) Phase {
	ind := computeIndicators(pos)

	opening := openingScore(ind)
	middlegame := middlegameScore(ind)
	endgame := endgameScore(ind)

	switch {
	case endgame >= middlegame && endgame >= opening:
		return Endgame
	case middlegame >= opening:
		return Middlegame
	default:
		return Opening
	}
}

// ForPhase returns the combined evaluator appropriate for p. The returned Evaluator still scores
// the whole board (material, PSQT, mobility, pawn structure, king safety); only the relative
// weighting of those terms changes with phase.
func ForPhase(p Phase) eval.Evaluator {
	switch p {
	case Opening:
		return eval.Opening{}
	case Endgame:
		return eval.Endgame{}
	default:
		return eval.Middlegame{}
	}
}
