package eval_test

import (
	"context"
	"testing"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
	"github.com/stretchr/testify/assert"
)

func TestStartingPositionIsMaterialBalanced(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(1)
	pos := board.NewPosition(zt)
	e := eval.NewFull(1 << 10)

	assert.Equal(t, eval.Pawns(0), e.Lazy(ctx, pos), "material is level at the start")
	assert.Equal(t, eval.Pawns(0), e.Evaluate(ctx, pos), "the starting position is symmetric")
}

func TestEvaluateIsSideToMoveSymmetricAfterSymmetricMoves(t *testing.T) {
	ctx := context.Background()
	zt := board.NewZobristTable(2)
	pos := board.NewPosition(zt)
	e := eval.NewFull(1 << 10)

	for _, text := range []string{"g1f3", "g8f6", "b1c3", "b8c6"} {
		mv := board.ParseMove(text)
		for _, cand := range pos.LegalMoves() {
			if cand.Src() == mv.Src() && cand.Dest() == mv.Dest() {
				pos.Apply(cand)
				break
			}
		}
	}

	assert.Equal(t, eval.Pawns(0), e.Evaluate(ctx, pos), "a mirror-symmetric position scores zero for the side to move")
}

func TestIsEndgameThresholds(t *testing.T) {
	zt := board.NewZobristTable(3)
	pos := board.NewPosition(zt)
	assert.False(t, eval.IsEndgame(pos), "the starting position is not an endgame")
}

func TestNominalValueOrdering(t *testing.T) {
	assert.Less(t, int(eval.NominalValue(board.Pawn, false)), int(eval.NominalValue(board.Knight, false)))
	assert.Less(t, int(eval.NominalValue(board.Knight, false)), int(eval.NominalValue(board.Rook, false)))
	assert.Less(t, int(eval.NominalValue(board.Rook, false)), int(eval.NominalValue(board.Queen, false)))
}
