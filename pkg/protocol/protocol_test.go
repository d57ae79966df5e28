package protocol_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/protocol"
	"github.com/rotochess/rotochess/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore() *protocol.Core {
	zt := board.NewZobristTable(1)
	e := search.NewEngine(1<<12, 1<<10, 1<<8)
	rng := rand.New(rand.NewSource(1))
	return protocol.NewCore(context.Background(), zt, e, nil, rng)
}

func TestSubmitMoveAppliesLegalMove(t *testing.T) {
	c := newTestCore()

	applied, illegal := c.SubmitMove(context.Background(), "e2e4")
	assert.True(t, applied)
	assert.False(t, illegal)
	assert.Equal(t, board.Black, c.Position().SideToMove())
}

func TestSubmitMoveRejectsIllegalMove(t *testing.T) {
	c := newTestCore()

	applied, illegal := c.SubmitMove(context.Background(), "e2e5")
	assert.False(t, applied)
	assert.True(t, illegal)
}

func TestNewGameResetsPosition(t *testing.T) {
	c := newTestCore()
	c.SubmitMove(context.Background(), "e2e4")

	c.NewGame(context.Background())
	assert.Equal(t, board.White, c.Position().SideToMove())
	assert.Equal(t, 20, len(c.Position().LegalMoves()))
}

func TestCheckGameOverInProgressAtStart(t *testing.T) {
	c := newTestCore()
	status := c.CheckGameOver(context.Background())
	assert.Equal(t, protocol.InProgress, status.Status)
}

func TestCheckGameOverDetectsCheckmate(t *testing.T) {
	zt := board.NewZobristTable(2)
	e := search.NewEngine(1<<10, 1<<8, 1<<8)
	rng := rand.New(rand.NewSource(1))
	c := protocol.NewCore(context.Background(), zt, e, nil, rng)

	// Fool's mate: the fastest checkmate in chess.
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		applied, illegal := c.SubmitMove(context.Background(), mv)
		require.True(t, applied, mv)
		require.False(t, illegal, mv)
	}

	status := c.CheckGameOver(context.Background())
	assert.Equal(t, protocol.Checkmate, status.Status)
	assert.Equal(t, board.White, status.Color)
}

func TestRequestMoveReturnsLegalMoveAndAdvancesPosition(t *testing.T) {
	c := newTestCore()
	c.SetClock(context.Background(), 10*time.Second, 0)

	mv := c.RequestMove(context.Background())
	assert.NotEmpty(t, mv)
	assert.Equal(t, board.Black, c.Position().SideToMove())
}
