package board

// Status classifies the outcome of applying a candidate move to a Position.
type Status uint8

const (
	// Applied means the move was pseudo-legal and did not leave the mover's king attacked.
	Applied Status = iota
	// IllegalMove means the move does not correspond to any pseudo-legal move in this position
	// (wrong piece, blocked path, not actually a capture, etc).
	IllegalMove
	// LeavesPlayerInCheck means the move is pseudo-legal but would leave the mover's own king
	// attacked, e.g. moving a pinned piece off its pin line.
	LeavesPlayerInCheck
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case IllegalMove:
		return "illegal move"
	case LeavesPlayerInCheck:
		return "leaves player in check"
	default:
		return "?"
	}
}

// MoveTransition is the result of attempting to play a move from an external source (e.g. a
// recorded game, a UI, a protocol driver) against a Position, as opposed to a move already known
// to be pseudo-legal because it came from PseudoLegalMoves.
type MoveTransition struct {
	Position *Position // the resulting position, if Status == Applied.
	Status   Status
}

// Apply attempts to play m against pos, distinguishing a move that is not even pseudo-legal from
// one that is pseudo-legal but illegal because it leaves the mover in check. Position.Move alone
// cannot make that distinction: it assumes pseudo-legality and only checks for self-check.
func Apply(pos *Position, m Move) MoveTransition {
	if m.Type == Null {
		return MoveTransition{Status: IllegalMove}
	}

	found := false
	for _, pl := range pos.PseudoLegalMoves() {
		if pl.Equals(m) {
			found = true
			break
		}
	}
	if !found {
		return MoveTransition{Status: IllegalMove}
	}

	next, ok := pos.Move(m)
	if !ok {
		return MoveTransition{Status: LeavesPlayerInCheck}
	}
	return MoveTransition{Position: next, Status: Applied}
}
