// Package ordering decides what order a node's moves are searched in: the single biggest lever
// on alpha-beta's effective branching factor. It builds on board.MoveList (a heap-based move
// priority queue) by supplying the priority functions described in the move ordering component:
// at the root, checking moves first, then castling, then captures ranked by static exchange
// evaluation (SEE), then quiets by history; at interior nodes, the transposition-table move
// first, then captures of undefended pieces, then killer moves, then the counter-move table,
// then captures by SEE (winning captures ahead of quiets ahead of losing ones), then quiets by
// history.
package ordering

import (
	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/see"
)

const (
	ttMovePriority            = board.MovePriority(30000)
	checkPriority             = board.MovePriority(28000)
	castlePriority            = board.MovePriority(27000)
	undefendedCapturePriority = board.MovePriority(25000)
	killerPriority            = board.MovePriority(20100)
	killer2Priority           = board.MovePriority(20000)
	counterMovePriority       = board.MovePriority(19000)

	// rootCaptureBase anchors root-level capture ordering: shifted well above any history value,
	// since at the root captures are always ranked by SEE ahead of quiets (see RootSorter).
	rootCaptureBase = board.MovePriority(12000)

	// positiveSeeCaptureBase and negativeSeeCaptureBase anchor interior non-tactical captures
	// (i.e. not already claimed by the undefended/killer/counter tiers above) on either side of
	// the quiet-move history band: a non-losing capture always outranks every quiet move, and
	// every quiet move always outranks a losing capture.
	positiveSeeCaptureBase = board.MovePriority(12000)
	negativeSeeCaptureBase = board.MovePriority(-20000)
)

const maxPly = 128

// Killers holds, per ply, the two most recent quiet moves that caused a beta cutoff: moves that
// refuted a sibling position and are therefore worth trying early in this one too.
type Killers struct {
	slots [maxPly][2]board.Move
}

// Record stores m as the newest killer at ply, evicting the older of the two.
func (k *Killers) Record(ply int, m board.Move) {
	if ply >= maxPly || m.IsCapture() {
		return
	}
	if k.slots[ply][0].Equals(m) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}

func (k *Killers) Get(ply int) (board.Move, board.Move) {
	if ply >= maxPly {
		return board.Move{}, board.Move{}
	}
	return k.slots[ply][0], k.slots[ply][1]
}

// CounterMoves remembers, for each (piece, destination) the opponent just played, the move that
// refuted it in a sibling search -- a cheap substitute for full counter-move history.
type CounterMoves struct {
	table [board.NumColors][64][64]board.Move
}

func (c *CounterMoves) Record(side board.Color, prev board.Move, reply board.Move) {
	if prev.IsNull() {
		return
	}
	c.table[side][prev.From][prev.To] = reply
}

func (c *CounterMoves) Get(side board.Color, prev board.Move) (board.Move, bool) {
	if prev.IsNull() {
		return board.Move{}, false
	}
	m := c.table[side][prev.From][prev.To]
	return m, !m.Equals(board.Move{})
}

// History accumulates a depth-squared bonus for quiet moves that caused a beta cutoff, indexed
// by (color, from, to): a statistical memory of "this kind of move tends to be good here",
// independent of any single position.
type History struct {
	table [board.NumColors][64][64]int
}

// Bonus records depth*depth toward the (side, m) entry on a cutoff.
func (h *History) Bonus(side board.Color, m board.Move, depth int) {
	if m.IsCapture() {
		return
	}
	h.table[side][m.From][m.To] += depth * depth
}

func (h *History) Get(side board.Color, m board.Move) int {
	return h.table[side][m.From][m.To]
}

// RootSorter orders the moves considered at the root of the search: the move found best by the
// previous iterative-deepening iteration always goes first (by far the most likely to still be
// best, maximizing the odds of a useful aspiration window); among the rest, checking moves rank
// first, then castling, then captures by descending SEE, then quiets by history.
func RootSorter(moves []board.Move, best board.Move, history *History, turn board.Color, pos *board.Position) *board.MoveList {
	fn := board.First(best, func(m board.Move) board.MovePriority {
		switch {
		case givesCheck(pos, m):
			return checkPriority
		case m.IsCastle():
			return castlePriority
		case m.IsCapture():
			return rootCaptureBase + board.MovePriority(see.Evaluate(pos, m))
		default:
			return board.MovePriority(history.Get(turn, m))
		}
	})
	return board.NewMoveList(moves, fn)
}

// InteriorSorter orders the moves considered at a non-root node: the transposition-table move
// (if any) first, then captures of pieces the defender left undefended, then killer moves for
// this ply, then the counter-move to the opponent's last move, then the remaining captures by
// descending SEE (non-losing captures ahead of quiets, quiets ahead of losing captures), ties
// among quiets broken by history.
func InteriorSorter(moves []board.Move, ttMove board.Move, ply int, killers *Killers, counters *CounterMoves, history *History, turn board.Color, opponentLast board.Move, pos *board.Position) *board.MoveList {
	k1, k2 := killers.Get(ply)
	counter, hasCounter := counters.Get(turn, opponentLast)

	fn := func(m board.Move) board.MovePriority {
		switch {
		case !ttMove.IsNull() && m.Equals(ttMove):
			return ttMovePriority
		case m.IsCapture() && !see.IsPieceDefended(pos, turn.Opponent(), m.To):
			return undefendedCapturePriority
		case k1.Equals(m):
			return killerPriority
		case k2.Equals(m):
			return killer2Priority
		case hasCounter && counter.Equals(m):
			return counterMovePriority
		case m.IsCapture():
			s := board.MovePriority(see.Evaluate(pos, m))
			if s >= 0 {
				return positiveSeeCaptureBase + s
			}
			return negativeSeeCaptureBase + s
		default:
			return board.MovePriority(history.Get(turn, m))
		}
	}
	return board.NewMoveList(moves, fn)
}

// givesCheck reports whether playing m leaves the opponent in check.
func givesCheck(pos *board.Position, m board.Move) bool {
	child, legal := pos.Move(m)
	return legal && child.IsChecked(child.Turn())
}
