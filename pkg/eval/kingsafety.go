package eval

import "github.com/corvidchess/kepler/pkg/board"

// kingSafety sums every named king-safety term, White-minus-Black: an intact pawn shield, a
// castled-king bonus, king tropism (how close the opponent's pieces have gathered), open lines
// to the king (files with no pawn shelter), and attack potential (how many king-zone squares the
// opponent's pieces actually bear on). Only meaningful pre-endgame; Endgame does not use it.
func kingSafety(pos *board.Position) Score {
	return pawnShield(pos) + kingTropism(pos) + openKingLines(pos) + attackPotential(pos)
}

// pawnShield rewards pawns in front of the king and a bonus for having already castled.
func pawnShield(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		king := pos.King(c)

		shield := board.KingAttackboard(king) & pos.Piece(c, board.Pawn)
		s += sign * Score(shield.PopCount()) * 8

		if pos.HasCastled(c) {
			s += sign * 15
		}
	}
	return s
}

// kingAttackerPieces are the piece kinds whose proximity to the enemy king is worth tracking in
// the tropism and attack-potential terms.
var kingAttackerPieces = []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen}

// kingAttackerWeight is a piece's relative weight in those terms: a queen looming nearby is far
// more dangerous than a knight.
func kingAttackerWeight(p board.Piece) Score {
	switch p {
	case board.Queen:
		return 4
	case board.Rook:
		return 2
	default:
		return 1
	}
}

// kingTropism rewards pieces that have drawn close to the enemy king: distance is cheap to
// compute and correlates well with mating-attack potential without having to read the position's
// tactics directly.
func kingTropism(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		enemyKing := pos.King(c.Opponent())

		for _, piece := range kingAttackerPieces {
			weight := kingAttackerWeight(piece)
			for _, sq := range pos.Piece(c, piece).ToSquares() {
				s += sign * weight * Score(7-chebyshevDistance(sq, enemyKing))
			}
		}
	}
	return s
}

// openKingLines penalizes a king with no pawn of its own color on its file or either adjacent
// file: an open or semi-open line next to the king is a lane an attacker's rooks and queen can
// use.
func openKingLines(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		f := pos.King(c).File()
		pawns := pos.Piece(c, board.Pawn)

		files := []board.File{f}
		if f > board.ZeroFile {
			files = append(files, f-1)
		}
		if f < board.NumFiles-1 {
			files = append(files, f+1)
		}

		open := 0
		for _, file := range files {
			if pawns&board.BitFile(file) == 0 {
				open++
			}
		}
		s -= sign * Score(open) * 10
	}
	return s
}

// attackPotential weights how many squares in the king's own zone (the king square and everything
// a king move away) are actually attacked by enemy pieces right now, independent of tropism.
func attackPotential(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		opp := c.Opponent()
		zone := board.KingAttackboard(pos.King(c)) | board.BitMask(pos.King(c))

		for _, piece := range kingAttackerPieces {
			weight := kingAttackerWeight(piece)
			for _, sq := range pos.Piece(opp, piece).ToSquares() {
				hits := board.Attackboard(pos.Rotated(), sq, piece) & zone
				s -= sign * Score(hits.PopCount()) * weight
			}
		}
	}
	return s
}

// chebyshevDistance returns the king-move distance between two squares.
func chebyshevDistance(a, b board.Square) int {
	df := a.File().V() - b.File().V()
	if df < 0 {
		df = -df
	}
	dr := a.Rank().V() - b.Rank().V()
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

// opposition rewards the king not on move when the two kings face each other directly -- same
// file, rank, or diagonal, an even distance apart (an odd number of squares between them) -- the textbook technique for
// forcing the defending king to give way in a king-and-pawn ending.
func opposition(pos *board.Position) Score {
	wk, bk := pos.King(board.White), pos.King(board.Black)

	df := wk.File().V() - bk.File().V()
	if df < 0 {
		df = -df
	}
	dr := wk.Rank().V() - bk.Rank().V()
	if dr < 0 {
		dr = -dr
	}

	aligned := df == 0 || dr == 0 || df == dr
	gap := df
	if dr > gap {
		gap = dr
	}
	if !aligned || gap == 0 || gap%2 != 0 {
		return 0
	}
	return -Unit(pos.Turn()) * 10
}
