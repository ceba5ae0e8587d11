package board

import "fmt"

// MoveType indicates the shape of a move: a tagged variant in the spirit of a sum type, since
// Go has no sealed class hierarchy. Dispatch is by switch, not virtual call.
type MoveType uint8

const (
	Quiet           MoveType = iota // non-pawn, non-capture move
	Push                            // pawn single-square advance
	Jump                            // pawn two-square advance from its start rank
	EnPassant                       // pawn capture of a pawn that just jumped, implicitly a capture
	QueenSideCastle                 // O-O-O
	KingSideCastle                  // O-O
	Capture                         // captures an enemy piece (includes pawn diagonal captures)
	Promotion                       // pawn reaches the back rank; Move.Promotion names the new piece
	CapturePromotion                // promotion that is also a capture
	Null                            // sentinel: "no move". Never legal, never returned by LegalMoves.
)

func (t MoveType) IsCapture() bool {
	return t == Capture || t == CapturePromotion || t == EnPassant
}

func (t MoveType) IsPromotion() bool {
	return t == Promotion || t == CapturePromotion
}

func (t MoveType) IsCastle() bool {
	return t == QueenSideCastle || t == KingSideCastle
}

// Move represents a not-necessarily-legal move together with enough metadata to apply it
// without consulting the Position it was generated from. It does not retain a back-reference
// to that Position: Moves are plain values.
type Move struct {
	Type       MoveType
	From, To   Square
	Piece      Piece // kind of the piece that is moving
	Promotion  Piece // promoted-to kind, if Type.IsPromotion(). Always Queen in this engine.
	Capture    Piece // captured piece kind, if Type.IsCapture()
}

// NullMove is the sentinel "no move" value: the parent of the root Position, and the move
// passed to Position.ApplyNull for null-move pruning. It is distinct from the zero Move of
// an unpopulated struct only by convention (Type == Null); executing it via Position.Move
// outside of null-move pruning is a programmer error and panics, per spec.
var NullMove = Move{Type: Null}

// Equals reports whether two moves are the same move: same origin/destination and moved
// piece, extended by captured piece for captures and by rook destination for castles.
func (m Move) Equals(o Move) bool {
	if m.From != o.From || m.To != o.To || m.Piece != o.Piece {
		return false
	}
	if m.Type.IsCapture() != o.Type.IsCapture() || m.Capture != o.Capture {
		return false
	}
	return m.Type.IsCastle() == o.Type.IsCastle()
}

func (m Move) IsCapture() bool   { return m.Type.IsCapture() }
func (m Move) IsPromotion() bool { return m.Type.IsPromotion() }
func (m Move) IsCastle() bool    { return m.Type.IsCastle() }
func (m Move) IsNull() bool      { return m.Type == Null }

// EnPassantCapture returns the square of the pawn captured by an EnPassant move.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	if m.To > m.From {
		// White capturing: captured pawn sits one rank below the target square.
		return m.To - 8, true
	}
	return m.To + 8, true
}

// CastlingRookSquares returns the rook's origin and destination for a castling move.
func (m Move) CastlingRookSquares() (from, to Square) {
	switch m.Type {
	case KingSideCastle:
		if m.From == E1 {
			return H1, F1
		}
		return H8, F8
	case QueenSideCastle:
		if m.From == E1 {
			return A1, D1
		}
		return A8, D8
	default:
		panic("not a castling move")
	}
}

func (m Move) String() string {
	if m.Type == Null {
		return "0000"
	}
	if m.Type.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From.Algebraic(), m.To.Algebraic(), m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From.Algebraic(), m.To.Algebraic())
}

// PrintMoves formats a move sequence space-separated, in pure algebraic coordinate notation.
func PrintMoves(moves []Move) string {
	s := ""
	for i, m := range moves {
		if i > 0 {
			s += " "
		}
		s += m.String()
	}
	return s
}

// lostRights returns the castling rights removed by the side to move making move m: its own
// king/rook leaving a home square, or it capturing an enemy rook still on its home square.
func lostRights(turn Color, m Move) Castling {
	lost := Lost(turn, m.From)
	if m.Type.IsCapture() {
		lost |= Lost(turn.Opponent(), m.To)
	}
	return lost
}

// epTargetFile returns the file of the en passant target square created by a Jump move. The
// target square shares a file with the arrival square, so only the file is needed for hashing.
func epTargetFile(m Move) File {
	return m.To.File()
}
