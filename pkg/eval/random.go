package eval

import (
	"context"
	"math/rand"

	"github.com/corvidchess/kepler/pkg/board"
)

// Random adds a small amount of noise to evaluations, to stop the engine from playing the exact
// same game against itself every time. limit specifies how many centipawns to add/remove, in the
// range [-limit/2;limit-limit/2). The zero value always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(_ context.Context, _ *board.Position) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}
