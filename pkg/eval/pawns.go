package eval

import "github.com/corvidchess/kepler/pkg/board"

// queensideFiles and kingsideFiles split the board for the pawn-majority term. board.File
// numbers h=0..a=7, so the queenside (a-d) is the high half and the kingside (e-h) the low half.
var (
	queensideFiles = board.BitFile(board.FileA) | board.BitFile(board.FileB) |
		board.BitFile(board.FileC) | board.BitFile(board.FileD)
	kingsideFiles = board.BitFile(board.FileE) | board.BitFile(board.FileF) |
		board.BitFile(board.FileG) | board.BitFile(board.FileH)
)

// pawnStructure sums every named pawn-structure term, White-minus-Black: doubled and isolated
// pawns (penalties), passed pawns, backward pawns (penalty), connected ("chain") pawns, pawn
// islands (penalty beyond the first) and wing pawn majorities.
func pawnStructure(pos *board.Position) Score {
	return doubledAndIsolatedPawns(pos) +
		passedPawns(pos) +
		backwardPawns(pos) +
		pawnChains(pos) +
		pawnIslands(pos) +
		pawnMajority(pos)
}

// passedPawnBonus is indexed by a pawn's own rank from its own perspective (0 = its back rank,
// 1 = its start rank, 7 = promotion): the closer to promoting, the more a passed pawn is worth.
var passedPawnBonus = [8]Score{0, 5, 10, 20, 35, 60, 100, 0}

// passedPawns rewards pawns with no enemy pawn on their own or an adjacent file ahead of them --
// nothing standing in the way of a footrace to promotion.
func passedPawns(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		theirs := pos.Piece(c.Opponent(), board.Pawn)

		for _, sq := range pos.Piece(c, board.Pawn).ToSquares() {
			if theirs&passedPawnMask(c, sq) != 0 {
				continue
			}
			rank := sq.Rank().V()
			if c == board.Black {
				rank = 7 - rank
			}
			s += sign * passedPawnBonus[rank]
		}
	}
	return s
}

// passedPawnMask returns sq's own file and both neighbors, restricted to the ranks ahead of sq
// in c's direction of travel -- the squares an enemy pawn could occupy or capture from to stop
// sq from promoting unopposed.
func passedPawnMask(c board.Color, sq board.Square) board.Bitboard {
	f := sq.File()
	files := board.BitFile(f)
	if f > board.ZeroFile {
		files |= board.BitFile(f - 1)
	}
	if f < board.NumFiles-1 {
		files |= board.BitFile(f + 1)
	}

	var ranks board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r < board.NumRanks; r++ {
			ranks |= board.BitRank(r)
		}
	} else {
		for r := sq.Rank(); r > board.ZeroRank; r-- {
			ranks |= board.BitRank(r - 1)
		}
	}
	return files & ranks
}

// backwardPawns penalizes pawns that have fallen behind both of their file-neighbors (so neither
// can support an advance) and whose stop square is already controlled by an enemy pawn, making
// them a fixed, attackable weakness.
func backwardPawns(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		opp := c.Opponent()
		mine := pos.Piece(c, board.Pawn)
		enemyPawns := pos.Piece(opp, board.Pawn)

		for _, sq := range mine.ToSquares() {
			if isSupportedOrAheadOfNeighbor(c, mine, sq) {
				continue
			}
			ahead, ok := pawnPushSquare(c, sq)
			if !ok {
				continue
			}
			if board.PawnCaptureboard(opp, enemyPawns)&board.BitMask(ahead) != 0 {
				s -= sign * 8
			}
		}
	}
	return s
}

func isSupportedOrAheadOfNeighbor(c board.Color, mine board.Bitboard, sq board.Square) bool {
	f := sq.File()
	var neighbors board.Bitboard
	if f > board.ZeroFile {
		neighbors |= board.BitFile(f - 1)
	}
	if f < board.NumFiles-1 {
		neighbors |= board.BitFile(f + 1)
	}

	for _, other := range (mine & neighbors).ToSquares() {
		if c == board.White && other.Rank() <= sq.Rank() {
			return true
		}
		if c == board.Black && other.Rank() >= sq.Rank() {
			return true
		}
	}
	return false
}

// pawnPushSquare returns the square one step ahead of sq in c's direction of travel.
func pawnPushSquare(c board.Color, sq board.Square) (board.Square, bool) {
	r := sq.Rank()
	if c == board.White {
		if r >= board.Rank8 {
			return 0, false
		}
		return board.NewSquare(sq.File(), r+1), true
	}
	if r <= board.ZeroRank {
		return 0, false
	}
	return board.NewSquare(sq.File(), r-1), true
}

// pawnChains rewards pawns defended by another pawn of the same color: a chain is harder to
// dislodge than a lone pawn, since capturing it costs the attacker a pawn too.
func pawnChains(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		mine := pos.Piece(c, board.Pawn)
		connected := mine & board.PawnCaptureboard(c, mine)
		s += sign * Score(connected.PopCount()) * 5
	}
	return s
}

// pawnIslands penalizes pawn groups separated by a file with no pawns of that color: every
// island beyond the first is a second, independently defensible weakness.
func pawnIslands(pos *board.Position) Score {
	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		pawns := pos.Piece(c, board.Pawn)

		islands := 0
		inIsland := false
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			occupied := pawns&board.BitFile(f) != 0
			if occupied && !inIsland {
				islands++
			}
			inIsland = occupied
		}
		if islands > 1 {
			s -= sign * Score(islands-1) * 10
		}
	}
	return s
}

// pawnMajority rewards having more pawns than the opponent on a given wing, a long-term marker
// of where a future passed pawn is likely to be created.
func pawnMajority(pos *board.Position) Score {
	wQ := (pos.Piece(board.White, board.Pawn) & queensideFiles).PopCount()
	bQ := (pos.Piece(board.Black, board.Pawn) & queensideFiles).PopCount()
	wK := (pos.Piece(board.White, board.Pawn) & kingsideFiles).PopCount()
	bK := (pos.Piece(board.Black, board.Pawn) & kingsideFiles).PopCount()

	return Score(wQ-bQ)*4 + Score(wK-bK)*4
}
