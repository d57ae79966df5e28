package fen_test

import (
	"testing"

	"github.com/rotochess/rotochess/internal/fen"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeStartingPosition(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := board.NewPosition(zt)

	got := fen.Encode(pos)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0", got)
}

func TestEncodeAfterWorkedExample(t *testing.T) {
	zt := board.NewZobristTable(2)
	pos := board.NewPosition(zt)

	for _, text := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		mv := board.ParseMove(text)
		for _, cand := range pos.LegalMoves() {
			if cand.Src() == mv.Src() && cand.Dest() == mv.Dest() {
				pos.Apply(cand)
				break
			}
		}
	}

	got := fen.Encode(pos)
	assert.Contains(t, got, " b KQkq - 3 3")
}

func TestDecodeSetsBoardSideToMoveAndEnPassant(t *testing.T) {
	zt := board.NewZobristTable(3)
	decoded, err := fen.Decode(zt, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	require.NoError(t, err)

	assert.Equal(t, board.Black, decoded.SideToMove())
	sq, ok := decoded.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(board.FileE, board.Rank3), sq)

	c, p, ok := decoded.PieceAt(board.NewSquare(board.FileE, board.Rank4))
	require.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Pawn, p)
}
