package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/board/fen"
)

func TestBoard_PushAndPopMove(t *testing.T) {
	b := board.NewBoard(board.StandardStartingPosition(), 0, 1)

	ok := b.PushMove(board.Move{Type: board.Jump, Piece: board.Pawn, From: board.E2, To: board.E4})
	require.True(t, ok)
	assert.Equal(t, board.Black, b.Turn())
	assert.Equal(t, 0, b.NoProgress())

	m, ok := b.PopMove()
	require.True(t, ok)
	assert.Equal(t, board.E2, m.From)
	assert.Equal(t, board.White, b.Turn())

	_, ok = b.PopMove()
	assert.False(t, ok)
}

func TestBoard_PushMoveRejectsIllegalMove(t *testing.T) {
	b := board.NewBoard(board.StandardStartingPosition(), 0, 1)

	ok := b.PushMove(board.Move{Type: board.Push, Piece: board.Pawn, From: board.E3, To: board.E4})
	assert.False(t, ok)
	assert.Equal(t, board.White, b.Turn())
}

func TestBoard_NoProgressResetsOnPawnMoveOrCapture(t *testing.T) {
	b := board.NewBoard(board.StandardStartingPosition(), 0, 1)

	require.True(t, b.PushMove(board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}))
	assert.Equal(t, 1, b.NoProgress())

	require.True(t, b.PushMove(board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B8, To: board.C6}))
	assert.Equal(t, 2, b.NoProgress())

	require.True(t, b.PushMove(board.Move{Type: board.Jump, Piece: board.Pawn, From: board.E2, To: board.E4}))
	assert.Equal(t, 0, b.NoProgress())
}

func TestBoard_AdjudicateNoLegalMoves(t *testing.T) {
	// Fool's mate: Black delivers checkmate on move two.
	pos, _, _, _, err := fen.Decode("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)

	b := board.NewBoard(pos, 0, 1)
	require.Empty(t, b.Position().LegalMoves())

	result := b.AdjudicateNoLegalMoves()
	assert.True(t, result.IsDecided())
	assert.Equal(t, board.Checkmate, result.Reason)
	assert.Equal(t, board.Loss(board.White), result.Outcome)
}
