package ordering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/ordering"
)

func drain(ml *board.MoveList) []board.Move {
	var out []board.Move
	for {
		m, ok := ml.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestKillers_RecordAndGet(t *testing.T) {
	var k ordering.Killers

	a := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}
	b := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.G1, To: board.F3}

	k.Record(2, a)
	k.Record(2, b)

	k1, k2 := k.Get(2)
	assert.True(t, b.Equals(k1))
	assert.True(t, a.Equals(k2))
}

func TestKillers_IgnoresCaptures(t *testing.T) {
	var k ordering.Killers
	capture := board.Move{Type: board.Capture, Piece: board.Knight, From: board.B1, To: board.C3, Capture: board.Pawn}

	k.Record(0, capture)

	k1, k2 := k.Get(0)
	assert.True(t, k1.Equals(board.Move{}))
	assert.True(t, k2.Equals(board.Move{}))
}

func TestKillers_DuplicateDoesNotShiftSlots(t *testing.T) {
	var k ordering.Killers
	a := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}

	k.Record(1, a)
	k.Record(1, a)

	k1, k2 := k.Get(1)
	assert.True(t, a.Equals(k1))
	assert.True(t, k2.Equals(board.Move{}))
}

func TestCounterMoves_RecordAndGet(t *testing.T) {
	var c ordering.CounterMoves

	prev := board.Move{Type: board.Jump, Piece: board.Pawn, From: board.E2, To: board.E4}
	reply := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.G8, To: board.F6}

	c.Record(board.Black, prev, reply)

	got, ok := c.Get(board.Black, prev)
	assert.True(t, ok)
	assert.True(t, reply.Equals(got))
}

func TestCounterMoves_NullPreviousMoveMisses(t *testing.T) {
	var c ordering.CounterMoves
	_, ok := c.Get(board.White, board.NullMove)
	assert.False(t, ok)
}

func TestHistory_BonusAccumulatesByDepthSquared(t *testing.T) {
	var h ordering.History
	m := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}

	h.Bonus(board.White, m, 3)
	h.Bonus(board.White, m, 2)

	assert.Equal(t, 9+4, h.Get(board.White, m))
}

func TestHistory_IgnoresCaptures(t *testing.T) {
	var h ordering.History
	m := board.Move{Type: board.Capture, Piece: board.Knight, From: board.B1, To: board.C3, Capture: board.Pawn}

	h.Bonus(board.White, m, 5)

	assert.Equal(t, 0, h.Get(board.White, m))
}

func TestRootSorter_BestMoveFirst(t *testing.T) {
	var history ordering.History
	pos := board.StandardStartingPosition()

	best := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.G1, To: board.F3}
	other := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}
	moves := []board.Move{other, best}

	ml := ordering.RootSorter(moves, best, &history, board.White, pos)
	ordered := drain(ml)

	assert.True(t, best.Equals(ordered[0]))
}

func TestRootSorter_ChecksThenCastleThenCaptureThenQuiet(t *testing.T) {
	var history ordering.History

	// Move() trusts a Move's fields rather than re-deriving them from board geometry, so the
	// from/to squares below only need to be internally consistent, not reachable in one physical
	// step -- this lets the test isolate each ordering tier without a realistic game history.
	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.A1, Color: board.White, Piece: board.Queen},
		{Square: board.H1, Color: board.White, Piece: board.Rook},
		{Square: board.F3, Color: board.White, Piece: board.Knight},
		{Square: board.B1, Color: board.White, Piece: board.Knight},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E5, Color: board.Black, Piece: board.Pawn},
	}, board.White, board.WhiteKingSideCastle, board.ZeroSquare)
	require.NoError(t, err)

	check := board.Move{Type: board.Quiet, Piece: board.Queen, From: board.A1, To: board.D8}
	castle := board.Move{Type: board.KingSideCastle, Piece: board.King, From: board.E1, To: board.G1}
	capture := board.Move{Type: board.Capture, Piece: board.Knight, From: board.F3, To: board.E5, Capture: board.Pawn}
	quiet := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}

	moves := []board.Move{quiet, capture, castle, check}
	ml := ordering.RootSorter(moves, board.Move{}, &history, board.White, pos)
	ordered := drain(ml)

	assert.True(t, check.Equals(ordered[0]), "checking move must rank first")
	assert.True(t, castle.Equals(ordered[1]), "castling must rank second")
	assert.True(t, capture.Equals(ordered[2]), "capture must rank third")
	assert.True(t, quiet.Equals(ordered[3]), "quiet move must rank last")
}

func TestInteriorSorter_TTMoveFirstThenUndefendedCaptureThenKillers(t *testing.T) {
	var killers ordering.Killers
	var counters ordering.CounterMoves
	var history ordering.History

	pos, err := board.NewPosition([]board.Placement{
		{Square: board.E1, Color: board.White, Piece: board.King},
		{Square: board.C1, Color: board.White, Piece: board.Bishop},
		{Square: board.F3, Color: board.White, Piece: board.Knight},
		{Square: board.B1, Color: board.White, Piece: board.Knight},
		{Square: board.G1, Color: board.White, Piece: board.Knight},
		{Square: board.E8, Color: board.Black, Piece: board.King},
		{Square: board.E5, Color: board.Black, Piece: board.Pawn}, // undefended: no d6/f6 pawn guards it
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	ttMove := board.Move{Type: board.Quiet, Piece: board.Bishop, From: board.C1, To: board.G5}
	capture := board.Move{Type: board.Capture, Piece: board.Knight, From: board.F3, To: board.E5, Capture: board.Pawn}
	killer := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}
	quiet := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.G1, To: board.H3}

	killers.Record(0, killer)

	moves := []board.Move{quiet, killer, capture, ttMove}
	ml := ordering.InteriorSorter(moves, ttMove, 0, &killers, &counters, &history, board.White, board.NullMove, pos)
	ordered := drain(ml)

	assert.True(t, ttMove.Equals(ordered[0]))
	assert.True(t, capture.Equals(ordered[1]), "capture of an undefended piece must outrank a killer")
	assert.True(t, killer.Equals(ordered[2]))
	assert.True(t, quiet.Equals(ordered[3]))
}

func TestInteriorSorter_NonLosingCaptureAboveQuietAboveLosingCapture(t *testing.T) {
	var killers ordering.Killers
	var counters ordering.CounterMoves
	var history ordering.History

	pos, err := board.NewPosition([]board.Placement{
		{Square: board.A1, Color: board.White, Piece: board.King},
		{Square: board.E4, Color: board.White, Piece: board.Pawn},
		{Square: board.E1, Color: board.White, Piece: board.Rook},
		{Square: board.B1, Color: board.White, Piece: board.Knight},
		{Square: board.A8, Color: board.Black, Piece: board.King},
		{Square: board.D5, Color: board.Black, Piece: board.Knight},
		{Square: board.C6, Color: board.Black, Piece: board.Pawn}, // defends d5
		{Square: board.E5, Color: board.Black, Piece: board.Pawn},
		{Square: board.D7, Color: board.Black, Piece: board.Knight}, // defends e5
	}, board.White, 0, board.ZeroSquare)
	require.NoError(t, err)

	winning := board.Move{Type: board.Capture, Piece: board.Pawn, From: board.E4, To: board.D5, Capture: board.Knight}
	losing := board.Move{Type: board.Capture, Piece: board.Rook, From: board.E1, To: board.E5, Capture: board.Pawn}
	quiet := board.Move{Type: board.Quiet, Piece: board.Knight, From: board.B1, To: board.C3}

	moves := []board.Move{losing, quiet, winning}
	ml := ordering.InteriorSorter(moves, board.Move{}, 0, &killers, &counters, &history, board.White, board.NullMove, pos)
	ordered := drain(ml)

	assert.True(t, winning.Equals(ordered[0]), "a non-losing, defended capture still outranks a quiet move")
	assert.True(t, quiet.Equals(ordered[1]), "a quiet move outranks a losing, defended capture")
	assert.True(t, losing.Equals(ordered[2]))
}
