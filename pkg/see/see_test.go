package see_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/see"
)

var farKings = []board.Placement{
	{Square: board.A1, Color: board.White, Piece: board.King},
	{Square: board.A8, Color: board.Black, Piece: board.King},
}

func TestEvaluate_QuietMoveIsZero(t *testing.T) {
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.E2, Color: board.White, Piece: board.Pawn},
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	m := board.Move{Type: board.Push, Piece: board.Pawn, From: board.E2, To: board.E3}
	assert.Equal(t, eval.Score(0), see.Evaluate(pos, m))
}

func TestEvaluate_UndefendedCaptureWinsMaterial(t *testing.T) {
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.C3, Color: board.White, Piece: board.Knight},
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, Piece: board.Knight, From: board.C3, To: board.D5, Capture: board.Pawn}
	assert.Equal(t, eval.NominalValue(board.Pawn), see.Evaluate(pos, m))
}

func TestEvaluate_OverloadedCaptureLosesMaterial(t *testing.T) {
	// White rook takes a pawn on e5, but a black knight on d7 recaptures for free: the rook is
	// worth far more than the pawn it won, so the exchange nets a loss for White.
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.Rook},
		{Square: board.E5, Color: board.Black, Piece: board.Pawn},
		{Square: board.D7, Color: board.Black, Piece: board.Knight},
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, Piece: board.Rook, From: board.E1, To: board.E5, Capture: board.Pawn}

	expected := eval.NominalValue(board.Pawn) - eval.NominalValue(board.Rook)
	assert.Equal(t, expected, see.Evaluate(pos, m))
}

func TestIsPieceDefended_UndefendedPiece(t *testing.T) {
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	assert.False(t, see.IsPieceDefended(pos, board.Black, board.D5))
}

func TestIsPieceDefended_DefendedPiece(t *testing.T) {
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.D5, Color: board.Black, Piece: board.Pawn},
		{Square: board.C6, Color: board.Black, Piece: board.Pawn}, // guards d5
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	assert.True(t, see.IsPieceDefended(pos, board.Black, board.D5))
}

func TestEvaluate_EvenPawnTradeNetsZero(t *testing.T) {
	// White pawn takes a black pawn; the only recapture available is Black's queen, so the
	// exchange is a straight pawn-for-pawn trade and nets zero material for White.
	pos, err := board.NewPosition(append([]board.Placement{
		{Square: board.D4, Color: board.White, Piece: board.Pawn},
		{Square: board.E5, Color: board.Black, Piece: board.Pawn},
		{Square: board.E8, Color: board.Black, Piece: board.Queen},
	}, farKings...), board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	m := board.Move{Type: board.Capture, Piece: board.Pawn, From: board.D4, To: board.E5, Capture: board.Pawn}
	assert.Equal(t, eval.Score(0), see.Evaluate(pos, m))
}
