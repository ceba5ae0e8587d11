package eval

import "github.com/corvidchess/kepler/pkg/board"

// psqt is a piece-square table from White's perspective, indexed [rank 0=Rank1..7=Rank8][file
// 0=a..7=h]. Values are added to a piece's nominal value and are symmetric for Black by rank
// mirroring.
type psqt [8][8]Score

var pawnPSQT = psqt{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightPSQT = psqt{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopPSQT = psqt{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookPSQT = psqt{
	{0, 0, 0, 5, 5, 0, 0, 0},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var queenPSQT = psqt{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingMiddlegamePSQT = psqt{
	{20, 30, 10, 0, 0, 10, 30, 20},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
}

var kingEndgamePSQT = psqt{
	{-50, -30, -30, -30, -30, -30, -30, -50},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-50, -40, -30, -20, -20, -30, -40, -50},
}

// at returns the table's value for a piece of color c sitting on sq.
func (t psqt) at(c board.Color, sq board.Square) Score {
	rank := sq.Rank().V()
	file := 7 - sq.File().V() // board.File numbers h=0..a=7; the table is a=0..h=7.
	if c == board.Black {
		rank = 7 - rank
	}
	return t[rank][file]
}

// psqtScore sums t.at over every piece of kind piece, signed White-minus-Black.
func psqtScore(pos *board.Position, piece board.Piece, t psqt) Score {
	var s Score
	for _, sq := range pos.Piece(board.White, piece).ToSquares() {
		s += t.at(board.White, sq)
	}
	for _, sq := range pos.Piece(board.Black, piece).ToSquares() {
		s -= t.at(board.Black, sq)
	}
	return s
}

// mobility returns the White-minus-Black count of squares attacked by the given piece kind,
// a cheap proxy for piece activity.
func mobility(pos *board.Position, piece board.Piece) Score {
	var s Score
	for _, sq := range pos.Piece(board.White, piece).ToSquares() {
		s += Score(board.Attackboard(pos.Rotated(), sq, piece).PopCount())
	}
	for _, sq := range pos.Piece(board.Black, piece).ToSquares() {
		s -= Score(board.Attackboard(pos.Rotated(), sq, piece).PopCount())
	}
	return s
}

// doubledAndIsolatedPawns penalizes doubled and isolated pawns, White-minus-Black.
func doubledAndIsolatedPawns(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		pawns := pos.Piece(c, board.Pawn)

		for f := board.ZeroFile; f < board.NumFiles; f++ {
			onFile := (pawns & board.BitFile(f)).PopCount()
			if onFile > 1 {
				s -= sign * Score(onFile-1) * 15 // doubled
			}
			if onFile > 0 {
				neighbors := board.Bitboard(0)
				if f > board.ZeroFile {
					neighbors |= board.BitFile(f - 1)
				}
				if f < board.NumFiles-1 {
					neighbors |= board.BitFile(f + 1)
				}
				if pawns&neighbors == 0 {
					s -= sign * Score(onFile) * 12 // isolated
				}
			}
		}
	}
	return s
}
