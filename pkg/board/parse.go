package board

import "fmt"

// ParseMove parses a move in pure algebraic coordinate notation, such as "e2e4" or "e7e8q". The
// result carries only From, To and Promotion: it is not necessarily legal, or even pseudo-legal,
// against any particular Position, and has no Type, Piece or Capture populated. Callers match it
// against Position.PseudoLegalMoves or Position.LegalMoves by From/To/Promotion before applying it.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from square: %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to square: %q: %w", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: %q", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}
	return Move{From: from, To: to}, nil
}

// MatchesCoordinates reports whether m shares its origin, destination and promotion piece with a
// coordinate-notation candidate such as one parsed by ParseMove: the two may otherwise disagree
// on Type, Piece and Capture, which the candidate never carries.
func (m Move) MatchesCoordinates(candidate Move) bool {
	return m.From == candidate.From && m.To == candidate.To && m.Promotion == candidate.Promotion
}
