// Package eval contains static position evaluation: material, piece-square tables, mobility,
// pawn structure and king safety, combined into phase-specific evaluators.
package eval

import (
	"context"

	"github.com/corvidchess/kepler/pkg/board"
)

// Evaluator is a static position evaluator. Evaluate always scores from White's perspective;
// callers wanting the side-to-move-relative value multiply by Unit(pos.Turn()).
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) Score
}

// Material returns the nominal material balance, White minus Black.
type Material struct{}

func (Material) Evaluate(_ context.Context, pos *board.Position) Score {
	var score Score
	for p := board.Pawn; p <= board.King; p++ {
		score += Score(pos.Piece(board.White, p).PopCount()-pos.Piece(board.Black, p).PopCount()) * NominalValue(p)
	}
	return score
}

// NominalValue is the absolute nominal value in centipawns of a piece kind. The King has an
// arbitrary large value so that NominalValueGain never treats losing it as a normal trade.
func NominalValue(p board.Piece) Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Bishop, board.Knight:
		return 300
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 10000
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain of playing m, used by quiescence search for delta
// pruning. It does not account for recaptures.
func NominalValueGain(m board.Move) Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}
