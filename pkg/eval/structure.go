package eval

import "github.com/corvidchess/kepler/pkg/board"

// bishopPair rewards owning both bishops: together they cover both color complexes, a structural
// advantage no single minor piece can replicate.
func bishopPair(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		if pos.Piece(c, board.Bishop).PopCount() >= 2 {
			s += Unit(c) * 30
		}
	}
	return s
}

// rookCoordination rewards rooks on open or semi-open files, and a further bonus when two rooks
// stand connected -- sharing a file or rank with nothing between them, so either defends the
// other and both sweep the same line.
func rookCoordination(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		rooks := pos.Piece(c, board.Rook)
		ownPawns := pos.Piece(c, board.Pawn)
		enemyPawns := pos.Piece(c.Opponent(), board.Pawn)

		for _, sq := range rooks.ToSquares() {
			f := sq.File()
			if ownPawns&board.BitFile(f) != 0 {
				continue
			}
			if enemyPawns&board.BitFile(f) == 0 {
				s += sign * 15 // fully open file
			} else {
				s += sign * 8 // semi-open file
			}
		}

		if sqs := rooks.ToSquares(); len(sqs) == 2 {
			a, b := sqs[0], sqs[1]
			switch {
			case a.File() == b.File():
				if board.RookAttackboard(pos.Rotated(), a)&board.BitMask(b) != 0 {
					s += sign * 10
				}
			case a.Rank() == b.Rank():
				if board.RookAttackboard(pos.Rotated(), a)&board.BitMask(b) != 0 {
					s += sign * 10
				}
			}
		}
	}
	return s
}

// knightOutposts rewards a knight past the midline, defended by one of its own pawns, and beyond
// the reach of any enemy pawn: a square the opponent can never challenge without a piece trade.
func knightOutposts(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		opp := c.Opponent()
		ownPawns := pos.Piece(c, board.Pawn)
		enemyPawns := pos.Piece(opp, board.Pawn)

		for _, sq := range pos.Piece(c, board.Knight).ToSquares() {
			rank := sq.Rank().V()
			if c == board.Black {
				rank = 7 - rank
			}
			if rank < 4 {
				continue
			}
			if board.PawnCaptureboard(c, ownPawns)&board.BitMask(sq) == 0 {
				continue
			}
			// No enemy pawn on an adjacent file ahead of the knight: none attacks it now, and
			// none can advance to attack it later.
			if enemyPawns&passedPawnMask(c, sq)&^board.BitFile(sq.File()) != 0 {
				continue
			}
			s += sign * 20
		}
	}
	return s
}

// spaceControlRanks are the three ranks, counted from a side's own back rank its fourth to sixth,
// where contested squares count toward the space-control term: the centre and one rank beyond it,
// short of the opponent's back two ranks, where a space advantage actually cramps the opponent's
// pieces.
func spaceControlRanks(c board.Color) board.Bitboard {
	if c == board.White {
		return board.BitRank(board.Rank4) | board.BitRank(board.Rank5) | board.BitRank(board.Rank6)
	}
	return board.BitRank(board.Rank5) | board.BitRank(board.Rank4) | board.BitRank(board.Rank3)
}

// spaceControl counts squares, in the contested middle ranks, that a side's pawns and minor
// pieces attack and the opponent's pawns do not -- uncontested space the opponent's pieces have
// to route around.
func spaceControl(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		opp := c.Opponent()

		var controlled board.Bitboard
		controlled |= board.PawnCaptureboard(c, pos.Piece(c, board.Pawn))
		for _, piece := range []board.Piece{board.Knight, board.Bishop} {
			for _, sq := range pos.Piece(c, piece).ToSquares() {
				controlled |= board.Attackboard(pos.Rotated(), sq, piece)
			}
		}
		controlled &= spaceControlRanks(c)

		uncontested := controlled &^ board.PawnCaptureboard(opp, pos.Piece(opp, board.Pawn))
		s += sign * Score(uncontested.PopCount())
	}
	return s
}
