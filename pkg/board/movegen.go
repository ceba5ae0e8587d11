package board

// PseudoLegalMoves returns every move available to the side to move without checking whether
// it leaves that side's own king attacked. Use LegalMoves, or filter through Move, to obtain
// only legal moves.
func (p *Position) PseudoLegalMoves() []Move {
	turn := p.Turn()
	var moves []Move

	moves = append(moves, p.pawnMoves(turn)...)
	for _, piece := range KingQueenRookKnightBishop {
		moves = append(moves, p.officerMoves(turn, piece)...)
	}
	moves = append(moves, p.castlingMoves(turn)...)
	return moves
}

// LegalMoves returns every legal move available to the side to move: pseudo-legal moves that do
// not leave that side's own king attacked.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()

	ret := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if _, ok := p.Move(m); ok {
			ret = append(ret, m)
		}
	}
	return ret
}

func (p *Position) officerMoves(turn Color, piece Piece) []Move {
	own := p.Color(turn)
	opp := p.Color(turn.Opponent())

	var moves []Move
	for _, from := range p.Piece(turn, piece).ToSquares() {
		targets := Attackboard(p.rotated, from, piece) &^ own
		for _, to := range targets.ToSquares() {
			if opp.IsSet(to) {
				_, cap, _ := p.Square(to)
				moves = append(moves, Move{Type: Capture, From: from, To: to, Piece: piece, Capture: cap})
			} else {
				moves = append(moves, Move{Type: Quiet, From: from, To: to, Piece: piece})
			}
		}
	}
	return moves
}

func (p *Position) pawnMoves(turn Color) []Move {
	opp := p.Color(turn.Opponent())
	promoRank := PawnPromotionRank(turn)
	jumpRank := PawnJumpRank(turn)

	epSquare, hasEP := p.EnPassant()

	var moves []Move
	for _, from := range p.Piece(turn, Pawn).ToSquares() {
		var to, jumpTo Square
		if turn == White {
			to, jumpTo = from+8, from+16
		} else {
			to, jumpTo = from-8, from-16
		}

		pushEmpty := p.IsEmpty(to)
		if pushEmpty {
			if BitMask(to)&promoRank != 0 {
				moves = append(moves, Move{Type: Promotion, From: from, To: to, Piece: Pawn, Promotion: Queen})
			} else {
				moves = append(moves, Move{Type: Push, From: from, To: to, Piece: Pawn})
			}
		}

		// Double push: only from the pawn's own start rank, both squares empty, landing on the
		// jump rank.
		if pushEmpty && p.IsEmpty(jumpTo) && BitMask(jumpTo)&jumpRank != 0 {
			moves = append(moves, Move{Type: Jump, From: from, To: jumpTo, Piece: Pawn})
		}

		captures := PawnCaptureboard(turn, BitMask(from))
		for _, ct := range (captures & opp).ToSquares() {
			_, cap, _ := p.Square(ct)
			if BitMask(ct)&promoRank != 0 {
				moves = append(moves, Move{Type: CapturePromotion, From: from, To: ct, Piece: Pawn, Promotion: Queen, Capture: cap})
			} else {
				moves = append(moves, Move{Type: Capture, From: from, To: ct, Piece: Pawn, Capture: cap})
			}
		}

		if hasEP && captures&BitMask(epSquare) != 0 {
			moves = append(moves, Move{Type: EnPassant, From: from, To: epSquare, Piece: Pawn, Capture: Pawn})
		}
	}
	return moves
}

func (p *Position) castlingMoves(turn Color) []Move {
	// Square numbering runs H-file=0 .. A-file=7 within a rank, so "kingside" (toward the
	// h-file) is the lower square values and "queenside" (toward the a-file) the higher ones.
	var kingHome, kingSideNear, kingSideTo, queenSideNear, queenSideTo Square
	var kingSideRight, queenSideRight Castling
	var kingSideTransit, queenSideEmpty Bitboard

	if turn == White {
		kingHome, kingSideNear, kingSideTo = E1, F1, G1
		queenSideNear, queenSideTo = D1, C1
		kingSideRight, queenSideRight = WhiteKingSideCastle, WhiteQueenSideCastle
		kingSideTransit = BitMask(F1) | BitMask(G1)
		queenSideEmpty = BitMask(B1) | BitMask(C1) | BitMask(D1)
	} else {
		kingHome, kingSideNear, kingSideTo = E8, F8, G8
		queenSideNear, queenSideTo = D8, C8
		kingSideRight, queenSideRight = BlackKingSideCastle, BlackQueenSideCastle
		kingSideTransit = BitMask(F8) | BitMask(G8)
		queenSideEmpty = BitMask(B8) | BitMask(C8) | BitMask(D8)
	}

	if p.King(turn) != kingHome || p.IsChecked(turn) {
		return nil
	}

	var moves []Move
	if p.castling.IsAllowed(kingSideRight) && p.rotated.Mask()&kingSideTransit == 0 &&
		!p.IsAttacked(turn, kingSideNear) && !p.IsAttacked(turn, kingSideTo) {
		moves = append(moves, Move{Type: KingSideCastle, From: kingHome, To: kingSideTo, Piece: King})
	}
	if p.castling.IsAllowed(queenSideRight) && p.rotated.Mask()&queenSideEmpty == 0 &&
		!p.IsAttacked(turn, queenSideNear) && !p.IsAttacked(turn, queenSideTo) {
		moves = append(moves, Move{Type: QueenSideCastle, From: kingHome, To: queenSideTo, Piece: King})
	}
	return moves
}
