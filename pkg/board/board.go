// Package board contains the chess board representation and utilities.
package board

import "fmt"

const (
	repetition3Limit  = 3
	repetition5Limit  = 5
	noProgressPlyLimit = 100
)

type node struct {
	pos        *Position
	noprogress int

	next Move // move made from this node, if not current
	prev *node
}

// Board tracks a sequence of positions reached over the course of a game, layering the
// history-dependent draw rules (repetition, fifty-move) on top of the otherwise self-contained
// Position. Position itself carries everything needed to apply a single move; Board exists only
// because repetition and no-progress adjudication require seeing more than one ply back. Not
// thread-safe: callers that explore variations concurrently should Fork first.
type Board struct {
	repetitions map[ZobristHash]int

	fullmoves int
	result    Result
	current   *node
}

// NewBoard starts a Board at the given position, with fullmoves and the no-progress ply count
// as would be recorded by a FEN's halfmove clock / fullmove number fields.
func NewBoard(pos *Position, noprogress, fullmoves int) *Board {
	current := &node{pos: pos, noprogress: noprogress}

	return &Board{
		repetitions: map[ZobristHash]int{pos.Hash(): 1},
		fullmoves:   fullmoves,
		current:     current,
	}
}

// Fork branches off a new board at the current position, without the past history. The fork's own
// repetition counts start fresh from the current position, since this engine never needs to pop
// past a fork point -- it only plays moves forward from there.
func (b *Board) Fork() *Board {
	return &Board{
		repetitions: map[ZobristHash]int{b.current.pos.Hash(): 1},
		fullmoves:   b.fullmoves,
		result:      b.result,
		current: &node{
			pos:        b.current.pos,
			noprogress: b.current.noprogress,
		},
	}
}

func (b *Board) Position() *Position {
	return b.current.pos
}

func (b *Board) Turn() Color {
	return b.current.pos.Turn()
}

func (b *Board) NoProgress() int {
	return b.current.noprogress
}

func (b *Board) FullMoves() int {
	return b.fullmoves
}

func (b *Board) Result() Result {
	return b.result
}

// HasCastled returns true iff the color has castled in the game reaching the current position.
func (b *Board) HasCastled(c Color) bool {
	return b.current.pos.HasCastled(c)
}

// PushMove attempts to make a pseudo-legal move. Returns true iff legal, leaving the board
// unchanged otherwise.
func (b *Board) PushMove(m Move) bool {
	if b.result.IsDecided() {
		return false
	}

	next, ok := b.current.pos.Move(m)
	if !ok {
		return false
	}

	// (1) Move is legal. Push a new node.

	n := &node{
		pos:        next,
		noprogress: updateNoProgress(b.current.noprogress, m),
		prev:       b.current,
	}

	b.current.next = m
	b.current = n

	if b.current.pos.Turn() == White {
		b.fullmoves++
	}
	b.repetitions[next.Hash()]++

	// (2) Determine if a draw condition now applies.

	if b.repetitions[next.Hash()] >= repetition3Limit {
		actual := b.identicalPositionCount(b.current)
		switch {
		case actual >= repetition5Limit:
			b.result = Result{Outcome: Draw, Reason: Repetition5}
		case actual >= repetition3Limit:
			b.result = Result{Outcome: Draw, Reason: Repetition3}
		default:
			// zobrist collision: not an actual repetition
		}
	}

	if b.current.noprogress >= noProgressPlyLimit {
		b.result = Result{Outcome: Draw, Reason: NoProgress}
	}

	if m.IsCapture() && next.HasInsufficientMaterial() {
		b.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
	}

	return true
}

// PopMove undoes the last move, returning it. Returns (NullMove, false) at the root.
func (b *Board) PopMove() (Move, bool) {
	if b.current.prev == nil {
		return NullMove, false
	}

	b.repetitions[b.current.pos.Hash()]--
	b.result = Result{Outcome: Undecided} // a legal move existed, so not terminal

	b.current = b.current.prev
	m := b.current.next
	if b.current.pos.Turn().Opponent() == White {
		b.fullmoves--
	}
	b.current.next = NullMove
	return m, true
}

// AdjudicateNoLegalMoves settles the result assuming the side to move has no legal moves: either
// checkmate, if in check, or stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: Draw, Reason: Stalemate}
	if b.Position().IsChecked(b.Turn()) {
		result = Result{Outcome: Loss(b.Turn()), Reason: Checkmate}
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate forces the result, e.g. for resignation or an externally-applied rule.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// LastMove returns the last move played, if any.
func (b *Board) LastMove() (Move, bool) {
	if b.current.prev != nil {
		return b.current.prev.next, true
	}
	return Move{}, false
}

func (b *Board) identicalPositionCount(n *node) int {
	ret := 1
	for tmp := n.prev; tmp != nil; tmp = tmp.prev {
		if tmp.pos.Hash() == n.pos.Hash() && tmp.pos.Turn() == n.pos.Turn() {
			ret++
		}
	}
	return ret
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, hash=%x (seen %v), noprogress=%v, fullmoves=%v, result=%v}",
		b.current.pos, b.current.pos.Hash(), b.repetitions[b.current.pos.Hash()], b.current.noprogress, b.fullmoves, b.result)
}

// updateNoProgress resets the fifty-move counter on a pawn move or a capture, and increments it
// otherwise.
func updateNoProgress(old int, m Move) int {
	if m.Piece == Pawn || m.IsCapture() {
		return 0
	}
	return old + 1
}
