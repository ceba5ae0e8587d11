// kepler-console is a line-oriented debugging driver for pkg/engine: type moves in coordinate
// notation, "analyze [depth]" to search, "undo"/"print"/"reset" to manipulate the board. It
// speaks no GUI protocol -- it exists to exercise pkg/engine interactively without a UCI/xboard
// adapter in front of it.
package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/seekerror/logw"

	"github.com/corvidchess/kepler/pkg/board"
	"github.com/corvidchess/kepler/pkg/board/fen"
	"github.com/corvidchess/kepler/pkg/engine"
	"github.com/corvidchess/kepler/pkg/search"
)

var (
	depth     = flag.Uint("depth", 0, "Default search depth limit (zero for no limit)")
	hash      = flag.Uint("hash", 64, "Transposition table size in MB")
	evalCache = flag.Uint("evalcache", 16, "Evaluation cache size in MB")
	noise     = flag.Uint("noise", 0, "Evaluation randomness in centipawns")
	threads   = flag.Uint("threads", 0, "Root-search worker threads (zero selects GOMAXPROCS)")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "kepler-console", "corvidchess", engine.WithOptions(engine.Options{
		Depth:     *depth,
		Hash:      *hash,
		EvalCache: *evalCache,
		Noise:     *noise,
		Threads:   *threads,
	}))

	in := engine.ReadStdinLines(ctx)
	out := make(chan string, 100)
	go engine.WriteStdoutLines(ctx, out)

	d := &driver{e: e, out: out}
	d.run(ctx, in)
	close(out)
}

// driver runs the read-eval-print loop against a single engine.Engine. Not safe for concurrent
// use -- only run reads from in.
type driver struct {
	e      *engine.Engine
	out    chan<- string
	active atomic.Bool // an analyze is outstanding and has not yet reported bestmove
}

func (d *driver) run(ctx context.Context, in <-chan string) {
	d.out <- fmt.Sprintf("%v by %v", d.e.Name(), d.e.Author())
	d.printBoard()

	for line := range in {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "reset", "r":
			d.ensureInactive(ctx)
			pos := fen.Initial
			if len(args) > 0 {
				pos = strings.Join(args, " ")
			}
			if err := d.e.Reset(ctx, pos); err != nil {
				logw.Errorf(ctx, "reset failed: %v", err)
			}
			d.printBoard()

		case "undo", "u":
			d.ensureInactive(ctx)
			if err := d.e.TakeBack(ctx); err != nil {
				d.out <- fmt.Sprintf("undo failed: %v", err)
			}
			d.printBoard()

		case "print", "p":
			d.printBoard()

		case "analyze", "a", "go":
			d.ensureInactive(ctx)
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
					d.e.SetDepth(uint(n))
				}
			}
			d.startAnalyze(ctx)

		case "hash":
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					d.e.SetHash(uint(n))
				}
			}

		case "noise":
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					d.e.SetNoise(uint(n))
				}
			}

		case "halt", "stop":
			if err := d.e.Halt(ctx); err != nil {
				d.out <- fmt.Sprintf("%v", err)
			}

		case "quit", "exit", "q":
			d.ensureInactive(ctx)
			return

		default:
			// Assume a move in coordinate notation if not a recognized command.
			d.ensureInactive(ctx)
			if err := d.e.Move(ctx, parts[0]); err != nil {
				d.out <- fmt.Sprintf("invalid move %q: %v", parts[0], err)
			} else {
				d.printBoard()
			}
		}
	}
}

func (d *driver) ensureInactive(ctx context.Context) {
	if d.active.Load() {
		_ = d.e.Halt(ctx)
		d.active.Store(false)
	}
}

func (d *driver) startAnalyze(ctx context.Context) {
	pv, err := d.e.Analyze(ctx, search.Config{})
	if err != nil {
		d.out <- fmt.Sprintf("analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last string
		for p := range pv {
			last = fmt.Sprintf("bestmove %v", firstMove(p.Moves))
			d.out <- p.String()
		}
		d.active.Store(false)
		if last != "" {
			d.out <- last
		}
	}()
}

func (d *driver) printBoard() {
	b := d.e.Board()
	p := b.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	var sb strings.Builder
	sb.WriteString("8" + vertical)
	for i := board.ZeroSquare; i < board.NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			d.out <- sb.String()
			d.out <- horizontal

			sb.Reset()
			sb.WriteString((board.NumSquares - i - 1).Rank().String())
			sb.WriteString(vertical)
		}

		if color, piece, ok := p.Square(board.NumSquares - i - 1); ok {
			sb.WriteString(printPiece(color, piece))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(vertical)
	}
	d.out <- sb.String()
	d.out <- horizontal
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.Position())
	d.out <- fmt.Sprintf("result: %v, fullmoves: %v", b.Result(), b.FullMoves())
	d.out <- ""
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func printPiece(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return strings.ToLower(p.String())
}

func firstMove(moves []board.Move) board.Move {
	if len(moves) == 0 {
		return board.Move{}
	}
	return moves[0]
}
