package eval

import (
	"context"

	"github.com/corvidchess/kepler/pkg/board"
)

// Opening weighs material, center control and development heavily, and pays no attention yet to
// king activity in the endgame sense: the king should stay home and castle.
type Opening struct{}

func (Opening) Evaluate(ctx context.Context, pos *board.Position) Score {
	score := Material{}.Evaluate(ctx, pos)

	score += psqtScore(pos, board.Pawn, pawnPSQT)
	score += psqtScore(pos, board.Knight, knightPSQT)
	score += psqtScore(pos, board.Bishop, bishopPSQT)
	score += psqtScore(pos, board.Rook, rookPSQT)
	score += psqtScore(pos, board.Queen, queenPSQT)
	score += psqtScore(pos, board.King, kingMiddlegamePSQT)

	score += mobility(pos, board.Knight) * 4
	score += mobility(pos, board.Bishop) * 4

	score += pawnStructure(pos)
	score += kingSafety(pos) * 2
	score += bishopPair(pos)
	score += knightOutposts(pos)
	score += spaceControl(pos)

	return score
}

// Middlegame weighs material, PSQT, mobility, pawn structure and king safety with balanced
// weights, the workhorse evaluator for the bulk of a typical game.
type Middlegame struct{}

func (Middlegame) Evaluate(ctx context.Context, pos *board.Position) Score {
	score := Material{}.Evaluate(ctx, pos)

	score += psqtScore(pos, board.Pawn, pawnPSQT)
	score += psqtScore(pos, board.Knight, knightPSQT)
	score += psqtScore(pos, board.Bishop, bishopPSQT)
	score += psqtScore(pos, board.Rook, rookPSQT)
	score += psqtScore(pos, board.Queen, queenPSQT)
	score += psqtScore(pos, board.King, kingMiddlegamePSQT)

	score += mobility(pos, board.Knight) * 3
	score += mobility(pos, board.Bishop) * 3
	score += mobility(pos, board.Rook) * 2
	score += mobility(pos, board.Queen)

	score += pawnStructure(pos)
	score += kingSafety(pos)
	score += bishopPair(pos)
	score += rookCoordination(pos)
	score += knightOutposts(pos)
	score += spaceControl(pos)

	return score
}

// Endgame drops king safety and development in favor of king activity (an active king is an
// attacker, not a target) and advances passed/far-advanced pawns toward promotion via the pawn
// PSQT's own rank-7 bonus, plus the endgame-specific opposition term.
type Endgame struct{}

func (Endgame) Evaluate(ctx context.Context, pos *board.Position) Score {
	score := Material{}.Evaluate(ctx, pos)

	score += psqtScore(pos, board.Pawn, pawnPSQT)
	score += psqtScore(pos, board.Knight, knightPSQT)
	score += psqtScore(pos, board.Bishop, bishopPSQT)
	score += psqtScore(pos, board.Rook, rookPSQT)
	score += psqtScore(pos, board.Queen, queenPSQT)
	score += psqtScore(pos, board.King, kingEndgamePSQT)

	score += mobility(pos, board.Rook) * 2
	score += mobility(pos, board.Queen)

	score += pawnStructure(pos)
	score += bishopPair(pos)
	score += opposition(pos)

	return score
}
