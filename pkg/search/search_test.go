package search_test

import (
	"context"
	"testing"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/board/fen"
	"github.com/corvidchess/kepler/pkg/eval"
	"github.com/corvidchess/kepler/pkg/search"
)

func newSingleThreaded() *search.Engine {
	return search.NewEngine(1, 1)
}

func TestExecute_NoLegalMoves(t *testing.T) {
	// Fool's mate: Black has just delivered checkmate, so White has no legal moves left.
	pos, _, _, _, err := fen.Decode("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)

	e := newSingleThreaded()
	_, err = e.Execute(context.Background(), pos, search.Config{Threads: 1})
	assert.ErrorIs(t, err, search.ErrNoLegalMoves)
}

func TestExecute_FindsMateInOne(t *testing.T) {
	// White to move: Ra1-a8 is a back-rank checkmate, the Black king boxed in by its own pawns
	// on f7/g7/h7 with f8 and h8 both covered by the rook along the eighth rank.
	pos, _, _, _, err := fen.Decode("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	e := newSingleThreaded()
	result, err := e.Execute(context.Background(), pos, search.Config{
		Threads:    1,
		DepthLimit: lang.Some(4),
	})
	require.NoError(t, err)
	require.False(t, result.Halted)

	assert.True(t, eval.IsMate(result.Score))
	assert.Equal(t, board.A1, result.Moves[0].From)
	assert.Equal(t, board.A8, result.Moves[0].To)
}

func TestExecute_RespectsDepthLimit(t *testing.T) {
	pos := board.StandardStartingPosition()

	e := newSingleThreaded()
	result, err := e.Execute(context.Background(), pos, search.Config{
		Threads:    1,
		DepthLimit: lang.Some(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Depth)
}

func TestExecute_ObserverCalledPerDepth(t *testing.T) {
	pos := board.StandardStartingPosition()

	var depths []int
	e := newSingleThreaded()
	_, err := e.Execute(context.Background(), pos, search.Config{
		Threads:    1,
		DepthLimit: lang.Some(3),
		Observer: func(pv search.PV) {
			depths = append(depths, pv.Depth)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, depths)
}

func TestExecute_ObserverReceivesCacheStats(t *testing.T) {
	pos := board.StandardStartingPosition()

	var last search.PV
	e := newSingleThreaded()
	_, err := e.Execute(context.Background(), pos, search.Config{
		Threads:    1,
		DepthLimit: lang.Some(2),
		Observer: func(pv search.PV) {
			last = pv
		},
	})
	require.NoError(t, err)
	assert.Greater(t, last.CacheHits+last.CacheMisses, uint64(0))
}

func TestExecute_ContextCancellationHalts(t *testing.T) {
	pos := board.StandardStartingPosition()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newSingleThreaded()
	result, err := e.Execute(ctx, pos, search.Config{Threads: 1})
	require.NoError(t, err)
	assert.True(t, result.Halted)
}

func TestResetTables_ClearsAcrossGames(t *testing.T) {
	e := newSingleThreaded()
	pos := board.StandardStartingPosition()

	_, err := e.Execute(context.Background(), pos, search.Config{Threads: 1, DepthLimit: lang.Some(2)})
	require.NoError(t, err)

	e.ResetTables()
	// ResetTables must not panic or corrupt internal state; a subsequent search still works.
	result, err := e.Execute(context.Background(), pos, search.Config{Threads: 1, DepthLimit: lang.Some(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Depth)
}
