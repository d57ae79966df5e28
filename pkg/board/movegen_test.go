package board_test

import (
	"testing"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/stretchr/testify/assert"
)

// perftNodes matches the classic perft node counts from the standard starting
// position at depths 1-4 (depths 5-6 are omitted to keep the test fast).
var perftNodes = []int64{20, 400, 8902, 197281}

func TestPerftFromStartingPosition(t *testing.T) {
	for depth, want := range perftNodes {
		zt := board.NewZobristTable(int64(depth))
		pos := board.NewPosition(zt)
		got := perft(pos, depth+1)
		assert.Equal(t, want, got, "perft(%d)", depth+1)
	}
}

func perft(pos *board.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	side := pos.SideToMove()
	var nodes int64
	for _, mv := range pos.GenerateMoves(make([]board.Move, 0, 48)) {
		pos.Apply(mv)
		if pos.IsChecked(side) {
			pos.Unmake()
			continue
		}
		nodes += perft(pos, depth-1)
		pos.Unmake()
	}
	return nodes
}

func TestGenerateCapturesSubsetOfGenerateMoves(t *testing.T) {
	zt := board.NewZobristTable(99)
	pos := board.NewPosition(zt)

	for _, text := range []string{"e2e4", "d7d5"} {
		mv := board.ParseMove(text)
		for _, cand := range pos.LegalMoves() {
			if cand.Src() == mv.Src() && cand.Dest() == mv.Dest() {
				pos.Apply(cand)
				break
			}
		}
	}

	all := pos.GenerateMoves(make([]board.Move, 0, 48))
	captures := pos.GenerateCaptures(make([]board.Move, 0, 8), pos.IsChecked(pos.SideToMove()))

	for _, c := range captures {
		found := false
		for _, a := range all {
			if a == c {
				found = true
				break
			}
		}
		assert.True(t, found, "every generated capture must also appear in the full move list: %v", c)
	}
	assert.NotEmpty(t, captures, "exd5 must be available")
}
