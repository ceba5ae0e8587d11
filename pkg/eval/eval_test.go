package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

func TestScore_IsMate(t *testing.T) {
	assert.True(t, eval.IsMate(eval.Mate(3)))
	assert.True(t, eval.IsMate(-eval.Mate(3)))
	assert.False(t, eval.IsMate(eval.Score(500)))
}

func TestScore_MateDistancePreference(t *testing.T) {
	// A mate in 1 ply must score higher than a mate in 3, so the search prefers the faster one.
	assert.Greater(t, eval.Mate(1), eval.Mate(3))
}

func TestScore_Crop(t *testing.T) {
	assert.Equal(t, eval.MaxScore, eval.Crop(eval.MaxScore+500))
	assert.Equal(t, eval.MinScore, eval.Crop(eval.MinScore-500))
	assert.Equal(t, eval.Score(7), eval.Crop(7))
}

func TestMaterial_StartingPositionIsBalanced(t *testing.T) {
	pos := board.StandardStartingPosition()
	assert.Equal(t, eval.Score(0), eval.Material{}.Evaluate(context.Background(), pos))
}

func TestMaterial_ExtraQueenFavorsWhite(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.D1, Color: board.White, Piece: board.Queen},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	assert.Equal(t, eval.NominalValue(board.Queen), eval.Material{}.Evaluate(context.Background(), pos))
}

func TestNominalValueGain(t *testing.T) {
	assert.Equal(t, eval.NominalValue(board.Queen), eval.NominalValueGain(board.Move{Type: board.Capture, Capture: board.Queen}))
	assert.Equal(t, eval.NominalValue(board.Pawn), eval.NominalValueGain(board.Move{Type: board.EnPassant, Capture: board.Pawn}))
	assert.Equal(t, eval.Score(0), eval.NominalValueGain(board.Move{Type: board.Quiet}))

	promo := eval.NominalValueGain(board.Move{Type: board.Promotion, Promotion: board.Queen})
	assert.Equal(t, eval.NominalValue(board.Queen)-eval.NominalValue(board.Pawn), promo)
}

func TestPhaseEvaluators_SymmetricStartingPosition(t *testing.T) {
	pos := board.StandardStartingPosition()
	ctx := context.Background()

	// The starting position is symmetric under color swap, so every phase evaluator must score
	// it exactly zero: any nonzero value would mean a White-only or Black-only term leaked in.
	assert.Equal(t, eval.Score(0), eval.Opening{}.Evaluate(ctx, pos))
	assert.Equal(t, eval.Score(0), eval.Middlegame{}.Evaluate(ctx, pos))
	assert.Equal(t, eval.Score(0), eval.Endgame{}.Evaluate(ctx, pos))
}

func TestRandom_ZeroValueIsDeterministic(t *testing.T) {
	var r eval.Random
	pos := board.StandardStartingPosition()
	assert.Equal(t, eval.Score(0), r.Evaluate(context.Background(), pos))
}

func TestRandom_WithinLimit(t *testing.T) {
	r := eval.NewRandom(20, 42)
	pos := board.StandardStartingPosition()

	for i := 0; i < 100; i++ {
		s := r.Evaluate(context.Background(), pos)
		assert.True(t, s >= -10 && s < 10, "score %v out of [-10;10)", s)
	}
}

func TestEndgame_BishopPairOutscoresEqualMaterialKnight(t *testing.T) {
	ctx := context.Background()

	withPair, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.C3, Color: board.White, Piece: board.Bishop},
		{Square: board.F3, Color: board.White, Piece: board.Bishop},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	withKnight, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.C3, Color: board.White, Piece: board.Bishop},
		{Square: board.F3, Color: board.White, Piece: board.Knight},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Bishop and knight carry the same nominal value and an equal PSQT entry on f3, so the
	// 30-point bishop-pair bonus is the only thing that can separate the two evaluations.
	diff := eval.Endgame{}.Evaluate(ctx, withPair) - eval.Endgame{}.Evaluate(ctx, withKnight)
	assert.Equal(t, eval.Score(30), diff)
}

func TestEndgame_OppositionFavorsTheSideNotToMove(t *testing.T) {
	ctx := context.Background()
	placements := []board.Placement{
		{Square: board.E4, Color: board.White, Piece: board.King},
		{Square: board.E6, Color: board.Black, Piece: board.King},
	}

	whiteToMove, err := board.NewPosition(placements, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)
	blackToMove, err := board.NewPosition(placements, board.Black, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Same kings, same squares -- only the side to move differs, so the opposition term is the
	// entire difference: the side not on move holds the opposition.
	diff := eval.Endgame{}.Evaluate(ctx, blackToMove) - eval.Endgame{}.Evaluate(ctx, whiteToMove)
	assert.Equal(t, eval.Score(20), diff)
}

func TestEndgame_FarAdvancedPassedPawnOutscoresBlockedPawn(t *testing.T) {
	ctx := context.Background()

	passed, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A6, Color: board.White, Piece: board.Pawn},
		{Square: board.H7, Color: board.Black, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	blocked, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.A6, Color: board.White, Piece: board.Pawn},
		{Square: board.A7, Color: board.Black, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Moving Black's pawn from h7 to a7 doesn't change material or PSQT (the table is symmetric
	// at its file edges) but it plants a blocker directly ahead of White's a6 pawn, stripping its
	// passed-pawn bonus and its own passed-pawn status at the same time.
	diff := eval.Endgame{}.Evaluate(ctx, passed) - eval.Endgame{}.Evaluate(ctx, blocked)
	assert.Equal(t, eval.Score(55), diff)
}

func TestEndgame_FragmentedPawnsScoreWorseThanConnected(t *testing.T) {
	ctx := context.Background()

	fragmented, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.B2, Color: board.White, Piece: board.Pawn},
		{Square: board.G2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	connected, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.B2, Color: board.White, Piece: board.Pawn},
		{Square: board.C2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Two pawns on b2/g2 are both isolated and form two separate islands; sliding the second pawn
	// next to the first (c2) removes both penalties without changing material or rank.
	diff := eval.Endgame{}.Evaluate(ctx, fragmented) - eval.Endgame{}.Evaluate(ctx, connected)
	assert.Equal(t, eval.Score(-34), diff)
}

func TestMiddlegame_DefendedAdvancedKnightOutscoresUndefendedKnight(t *testing.T) {
	ctx := context.Background()

	defended, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D5, Color: board.White, Piece: board.Knight},
		{Square: board.C4, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	undefended, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D5, Color: board.White, Piece: board.Knight},
		{Square: board.H2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// The knight never moves; only its supporting pawn does. On c4 the pawn defends d5, planting
	// it past the midline beyond Black's reach (no Black pawns exist at all here) -- a textbook
	// outpost. On h2 the same pawn no longer guards d5, so the knight loses outpost status even
	// though the board is otherwise just as quiet.
	diff := eval.Middlegame{}.Evaluate(ctx, defended) - eval.Middlegame{}.Evaluate(ctx, undefended)
	assert.Greater(t, diff, eval.Score(0))
}

func TestMiddlegame_PawnShieldAndClosedFileOutscoreExposedKing(t *testing.T) {
	ctx := context.Background()

	sheltered, err := board.NewPosition([]board.Placement{
		{Square: board.G1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.G2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	exposed, err := board.NewPosition([]board.Placement{
		{Square: board.G1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.A2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Same king, same lone pawn, different square: g2 sits in front of the king (a shield pawn,
	// and it closes the g-file); a2 sits nowhere near it, leaving all three of the king's own
	// files open.
	diff := eval.Middlegame{}.Evaluate(ctx, sheltered) - eval.Middlegame{}.Evaluate(ctx, exposed)
	assert.Equal(t, eval.Score(23), diff)
}

func TestMiddlegame_OpenFileRookOutscoresBlockedRook(t *testing.T) {
	ctx := context.Background()

	open, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Rook},
		{Square: board.E2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	blockedByOwnPawn, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D4, Color: board.White, Piece: board.Rook},
		{Square: board.D2, Color: board.White, Piece: board.Pawn},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	// Moving the lone pawn from e2 to d2 plants it on the rook's own file: the rook loses its
	// open-file bonus and a slice of its own mobility in the same move, while the pawn's PSQT and
	// structure terms are unchanged (e2 and d2 share the same PSQT value and rank-2 status).
	diff := eval.Middlegame{}.Evaluate(ctx, open) - eval.Middlegame{}.Evaluate(ctx, blockedByOwnPawn)
	assert.Equal(t, eval.Score(17), diff)
}

func TestFindCapture(t *testing.T) {
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.C2, Color: board.White, Piece: board.Bishop}, // diagonal to e4 via d3
		{Square: board.G3, Color: board.White, Piece: board.Knight}, // knight's move to e4
		{Square: board.F3, Color: board.White, Piece: board.Pawn},   // diagonal pawn capture onto e4
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	attackers := eval.FindCapture(pos, board.White, board.E4)

	var pieces []board.Piece
	for _, a := range attackers {
		pieces = append(pieces, a.Piece)
	}
	assert.ElementsMatch(t, []board.Piece{board.Bishop, board.Knight, board.Pawn}, pieces)
}

func TestFindPins(t *testing.T) {
	// White king on e1, White knight on e3 pinned by a Black rook on e8 along the open e-file.
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.E3, Color: board.White, Piece: board.Knight},
		{Square: board.E8, Color: board.Black, Piece: board.Rook},
		{Square: board.A8, Color: board.Black, Piece: board.King},
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, board.King)
	require.Len(t, pins, 1)
	assert.Equal(t, board.E3, pins[0].Pinned)
	assert.Equal(t, board.E1, pins[0].Target)
	assert.Equal(t, board.E8, pins[0].Attacker)
}
