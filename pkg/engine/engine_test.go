package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidchess/kepler/pkg/engine"
	"github.com/corvidchess/kepler/pkg/search"
)

func TestNew_StartsAtStandardPosition(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")
	assert.Contains(t, e.Position(), "rnbqkbnr/pppppppp")
}

func TestMove_PlaysLegalMove(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	require.NoError(t, e.Move(context.Background(), "e2e4"))
	assert.Contains(t, e.Position(), " b ")
}

func TestMove_RejectsIllegalMove(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	err := e.Move(context.Background(), "e2e5")
	assert.Error(t, err)
}

func TestMove_RejectsMalformedInput(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	err := e.Move(context.Background(), "not-a-move")
	assert.Error(t, err)
}

func TestTakeBack_UndoesLastMove(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")
	before := e.Position()

	require.NoError(t, e.Move(context.Background(), "e2e4"))
	require.NoError(t, e.TakeBack(context.Background()))

	assert.Equal(t, before, e.Position())
}

func TestTakeBack_ErrorsWithNoHistory(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")
	assert.Error(t, e.TakeBack(context.Background()))
}

func TestReset_ClearsHistoryAndLoadsNewPosition(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")
	require.NoError(t, e.Move(context.Background(), "e2e4"))

	require.NoError(t, e.Reset(context.Background(), "k7/8/8/8/8/8/8/7K w - - 0 1"))
	assert.Contains(t, e.Position(), "k7/8/8/8/8/8/8/7K")

	assert.Error(t, e.TakeBack(context.Background()))
}

func TestAnalyze_StreamsPVsAndCompletes(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	ch, err := e.Analyze(context.Background(), search.Config{Threads: 1, DepthLimit: lang.Some(2)})
	require.NoError(t, err)

	var last search.PV
	for pv := range ch {
		last = pv
	}
	assert.Equal(t, 2, last.Depth)
}

func TestAnalyze_RejectsConcurrentAnalysis(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := e.Analyze(ctx, search.Config{Threads: 1})
	require.NoError(t, err)

	_, err = e.Analyze(context.Background(), search.Config{Threads: 1})
	assert.Error(t, err)

	require.NoError(t, e.Halt(context.Background()))
}

func TestHalt_StopsActiveAnalysis(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")

	ch, err := e.Analyze(context.Background(), search.Config{Threads: 1})
	require.NoError(t, err)

	require.NoError(t, e.Halt(context.Background()))

	select {
	case _, ok := <-ch:
		if ok {
			// Drain any in-flight PV until the channel closes from the halted search.
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("analysis channel did not close after Halt")
	}
}

func TestHalt_ErrorsWithNoActiveAnalysis(t *testing.T) {
	e := engine.New(context.Background(), "kepler", "tester")
	assert.Error(t, e.Halt(context.Background()))
}
