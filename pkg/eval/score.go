package eval

import (
	"fmt"

	"github.com/corvidchess/kepler/pkg/board"
)

// Score is a signed position or move score in centipawns, always from White's perspective:
// positive favors White regardless of the side to move. Search multiplies by board.Color.Unit
// to obtain the side-to-move-relative value it needs for negamax.
type Score int32

const (
	NegInf         = MinScore - 1
	MinScore Score = -1000000
	MaxScore Score = 1000000
	Inf            = MaxScore + 1
)

// Mate returns the score of delivering checkmate in ply plies, biased so that shallower mates
// are preferred to deeper ones by plain score comparison.
func Mate(ply int) Score {
	return MaxScore - Score(ply)
}

// IsMate reports whether s represents a forced mate score, for either side.
func IsMate(s Score) bool {
	return s.Abs() > MaxScore-Score(1<<14)
}

func (s Score) Abs() Score {
	if s < 0 {
		return -s
	}
	return s
}

func (s Score) String() string {
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// Unit returns the signed unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Score {
	return Score(c.Unit())
}

// Crop crops a Score into [MinScore;MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
