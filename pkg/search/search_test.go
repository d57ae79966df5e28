package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/rotochess/rotochess/internal/fen"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *search.Engine {
	return search.NewEngine(1<<14, 1<<12, 1<<10)
}

// TestSearchFindsBackRankMate sets up the classic Ra8# back-rank mate and
// checks the engine finds it within a short budget.
func TestSearchFindsBackRankMate(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	e := newTestEngine()
	pv := e.Search(context.Background(), pos, 2*time.Second)

	require.NotEqual(t, board.NullMove, pv.Move)
	assert.Equal(t, board.NewSquare(board.FileA, board.Rank1), pv.Move.Src())
	assert.Equal(t, board.NewSquare(board.FileA, board.Rank8), pv.Move.Dest())
}

func TestSearchReturnsLegalMoveFromStartingPosition(t *testing.T) {
	zt := board.NewZobristTable(2)
	pos := board.NewPosition(zt)

	e := newTestEngine()
	pv := e.Search(context.Background(), pos, 300*time.Millisecond)

	require.NotEqual(t, board.NullMove, pv.Move)

	found := false
	for _, mv := range pos.LegalMoves() {
		if mv.Equals(pv.Move) {
			found = true
			break
		}
	}
	assert.True(t, found, "the chosen move must be one of the position's legal moves")
}

func TestKillerTableStoreAndClear(t *testing.T) {
	k := search.NewKillerTable()
	mv := board.NewMove(board.NewSquare(board.FileE, board.Rank2), board.NewSquare(board.FileE, board.Rank4), board.White, board.Pawn)

	k.Store(3, mv)
	assert.True(t, k.Moves(3)[0].Equals(mv))

	k.Clear(3)
	assert.Equal(t, board.NullMove, k.Moves(3)[0])
}

func TestAttackCacheRoundTrip(t *testing.T) {
	c := search.NewAttackCache(1024)
	hash := board.ZobristHash(99)

	_, _, ok := c.Get(hash)
	assert.False(t, ok)

	c.Put(hash, board.Bitboard(0xff), board.Bitboard(0xff00))
	white, black, ok := c.Get(hash)
	assert.True(t, ok)
	assert.Equal(t, board.Bitboard(0xff), white)
	assert.Equal(t, board.Bitboard(0xff00), black)
}
