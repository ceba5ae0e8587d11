// Package see implements static exchange evaluation: the net material result of a sequence of
// captures on a single square, assuming both sides always recapture with their least valuable
// attacker. It is used by search to prune and order captures without having to actually play out
// the exchange in the main search tree.
package see

import (
	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/eval"
)

// Evaluate returns the net material gain, in centipawns from the mover's perspective, of playing
// m and then letting both sides recapture on m.To with their least valuable attacker until no
// attacker remains or the side on move would come out behind and stops.
//
// Unlike an attacker enumeration that reuses the opponent's legal moves (which misses attackers
// that are only revealed once pieces in front of them are swapped off), this recomputes attackers
// to the square from the actual occupancy after each hypothetical capture. Pins are not checked:
// a pinned piece still counts as an attacker.
func Evaluate(pos *board.Position, m board.Move) eval.Score {
	if !m.Type.IsCapture() {
		return 0
	}

	to := m.To
	side := pos.Turn()
	occ := pos.Rotated()

	// The mover's own piece has already left m.From in this hypothetical exchange.
	occ = occ.Xor(m.From)

	captured := m.Capture
	if m.Type == board.EnPassant {
		epSq, _ := m.EnPassantCapture()
		occ = occ.Xor(epSq)
	}

	gains := make([]eval.Score, 0, 32)
	gains = append(gains, eval.NominalValue(captured))

	attacker := m.Piece
	side = side.Opponent()

	for {
		from, piece, ok := leastValuableAttacker(pos, occ, side, to)
		if !ok {
			break
		}

		gains = append(gains, eval.NominalValue(attacker)-gains[len(gains)-1])
		occ = occ.Xor(from)
		attacker = piece
		side = side.Opponent()
	}

	// Fold the gain list from the leaf back to the root: at each step the side to move may
	// always decline a losing recapture, so its net is capped at not losing further material.
	for i := len(gains) - 2; i >= 0; i-- {
		if -gains[i+1] < gains[i] {
			gains[i] = -gains[i+1]
		}
	}
	return gains[0]
}

// IsPieceDefended returns true iff the piece of color at sq would be recaptured if captured, i.e.
// sq is attacked by another piece of the same color. Used both for move ordering (a capture of an
// undefended piece is worth searching before one of a defended piece, independent of SEE) and as
// an exception to SEE-based pruning: a losing capture is still worth playing if it snaps off a
// piece nobody is guarding.
func IsPieceDefended(pos *board.Position, color board.Color, sq board.Square) bool {
	return pos.IsAttacked(color.Opponent(), sq)
}

// leastValuableAttacker finds the cheapest piece of side attacking sq given the occupancy occ,
// recomputed from scratch rather than taken from a cached move list.
func leastValuableAttacker(pos *board.Position, occ board.RotatedBitboard, side board.Color, sq board.Square) (board.Square, board.Piece, bool) {
	if pawns := board.PawnCaptureboard(side.Opponent(), board.BitMask(sq)) & pos.Piece(side, board.Pawn) & occ.Mask(); pawns != 0 {
		return pawns.LastPopSquare(), board.Pawn, true
	}
	for _, piece := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		bb := board.Attackboard(occ, sq, piece) & pos.Piece(side, piece) & occ.Mask()
		if bb != 0 {
			return bb.LastPopSquare(), piece, true
		}
	}
	if kings := board.KingAttackboard(sq) & pos.Piece(side, board.King) & occ.Mask(); kings != 0 {
		return kings.LastPopSquare(), board.King, true
	}
	return 0, 0, false
}
