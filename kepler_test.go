package kepler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler"
	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

func TestStandardStartingPosition(t *testing.T) {
	pos := kepler.StandardStartingPosition()
	require.NotNil(t, pos)
	assert.Equal(t, board.White, pos.Turn())
	assert.Len(t, pos.LegalMoves(), 20)
}

func TestEngine_ExecuteFindsAMove(t *testing.T) {
	e := kepler.NewEngine(1, 1)
	pos := kepler.StandardStartingPosition()

	result, err := e.Execute(context.Background(), pos, kepler.Config{MaxDepth: 2, Threads: 1})
	require.NoError(t, err)

	assert.NotEqual(t, board.Move{}, result.BestMove)
	assert.Len(t, result.IterationStats, 2)
}

func TestEngine_ObserveIsCalledPerDepth(t *testing.T) {
	e := kepler.NewEngine(1, 1)
	pos := kepler.StandardStartingPosition()

	var depths []int
	e.Observe(func(depth int, best board.Move, score eval.Score, boardsEvaluated uint64, elapsed int64, nps uint64, cacheHits, cacheMisses, cacheEntries uint64) {
		depths = append(depths, depth)
	})

	_, err := e.Execute(context.Background(), pos, kepler.Config{MaxDepth: 3, Threads: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, depths)
}

func TestEngine_ResetTablesDoesNotBreakSubsequentSearch(t *testing.T) {
	e := kepler.NewEngine(1, 1)
	pos := kepler.StandardStartingPosition()

	_, err := e.Execute(context.Background(), pos, kepler.Config{MaxDepth: 1, Threads: 1})
	require.NoError(t, err)

	e.ResetTables()

	result, err := e.Execute(context.Background(), pos, kepler.Config{MaxDepth: 1, Threads: 1})
	require.NoError(t, err)
	assert.NotEqual(t, board.Move{}, result.BestMove)
}
