// kepler-bench drives the search engine directly against a position, for benchmarking and
// manual analysis: it has no board/game state and speaks no GUI protocol (the engine's protocol
// non-goal is carried by pkg/engine, not by this tool).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/logw"

	"github.com/corvidchess/kepler"
	"github.com/corvidchess/kepler/pkg/board/fen"
)

var (
	position   = flag.String("fen", "", "Position to search (default to standard starting position)")
	depth      = flag.Int("depth", 8, "Search depth limit (zero if no limit)")
	moveTime   = flag.Duration("movetime", 10*time.Second, "Time limit for the search (zero if no limit)")
	threads    = flag.Int("threads", 0, "Lazy-SMP worker threads (zero selects GOMAXPROCS)")
	ttSizeMB   = flag.Int("hash", 64, "Transposition table size in MB")
	cacheSize  = flag.Int("evalcache", 16, "Evaluation cache size in MB")
	aspiration = flag.Int("aspiration", 0, "Aspiration window half-width in centipawns (zero selects the default)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kepler-bench [options]

kepler-bench searches a single position to a fixed depth or time limit and
reports the principal variation found at every completed depth, for
benchmarking the search engine and evaluator in isolation.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	pos := kepler.StandardStartingPosition()
	if *position != "" {
		decoded, _, _, _, err := fen.Decode(*position)
		if err != nil {
			logw.Exitf(ctx, "invalid fen %q: %v", *position, err)
		}
		pos = decoded
	}

	if len(pos.LegalMoves()) == 0 {
		logw.Exitf(ctx, "position has no legal moves: %v", *position)
	}

	e := kepler.NewEngine(*ttSizeMB, *cacheSize)

	searchCtx := ctx
	if *moveTime > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, *moveTime)
		defer cancel()
	}

	start := time.Now()
	result, err := e.Execute(searchCtx, pos, kepler.Config{
		MaxDepth:   *depth,
		Threads:    *threads,
		Aspiration: *aspiration,
	})
	if err != nil {
		logw.Exitf(ctx, "search failed: %v", err)
	}

	for _, pv := range result.IterationStats {
		println(fmt.Sprintf("%v", pv))
	}
	println(fmt.Sprintf("bestmove %v score %v time %v", result.BestMove, result.Score, time.Since(start)))
}
