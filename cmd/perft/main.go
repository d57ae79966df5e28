// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rotochess/rotochess/internal/fen"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	zt := board.Default()

	var pos *board.Position
	if *position == "" {
		pos = board.NewPosition(zt)
	} else {
		var err error
		pos, err = fen.Decode(zt, *position)
		if err != nil {
			logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
		}
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(pos, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v\n", i, nodes, duration.Microseconds())
	}
}

func perft(pos *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	side := pos.SideToMove()
	for _, mv := range pos.GenerateMoves(make([]board.Move, 0, 48)) {
		pos.Apply(mv)
		if pos.IsChecked(side) {
			pos.Unmake()
			continue
		}
		count := perft(pos, depth-1, false)
		pos.Unmake()

		if d {
			fmt.Printf("%v: %v\n", mv, count)
		}
		nodes += count
	}
	return nodes
}
