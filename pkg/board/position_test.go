package board_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPositionInvariants(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := board.NewPosition(zt)

	assert.Equal(t, board.White, pos.SideToMove())
	assert.Equal(t, board.FullCastling, pos.Castling())
	assert.Equal(t, 0, pos.HalfmoveClock())
	assert.Equal(t, 20, len(pos.LegalMoves()), "20 legal moves from the starting position")

	sq, ok := pos.EnPassant()
	assert.False(t, ok)
	assert.Equal(t, board.ZeroSquare, sq)

	assert.Equal(t, zt.Generate(pos), pos.Hash(), "hash must agree with a from-scratch regeneration")
}

func TestApplyUnmakeRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(2)
	pos := board.NewPosition(zt)

	before := snapshot(pos)

	for _, mv := range pos.LegalMoves() {
		pos.Apply(mv)
		pos.Unmake()

		after := snapshot(pos)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Fatalf("unmake of %v must restore the position exactly (-before +after):\n%v", mv, diff)
		}
	}
}

func TestApplyUnmakeDeepRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(3)
	pos := board.NewPosition(zt)

	var applied []board.Move
	for i := 0; i < 6; i++ {
		moves := pos.LegalMoves()
		require.NotEmpty(t, moves)
		mv := moves[i%len(moves)]
		pos.Apply(mv)
		applied = append(applied, mv)
	}

	for i := len(applied) - 1; i >= 0; i-- {
		pos.Unmake()
	}

	fresh := board.NewPosition(zt)
	assert.Equal(t, snapshot(fresh), snapshot(pos))
}

func TestEnPassantSquareAfterDoublePush(t *testing.T) {
	zt := board.NewZobristTable(4)
	pos := board.NewPosition(zt)

	mv := findMove(t, pos, "e2e4")
	pos.Apply(mv)

	sq, ok := pos.EnPassant()
	require.True(t, ok)
	assert.Equal(t, board.NewSquare(board.FileE, board.Rank3), sq)
}

func TestFullmoveCounterWorkedExample(t *testing.T) {
	zt := board.NewZobristTable(5)
	pos := board.NewPosition(zt)

	for _, text := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"} {
		pos.Apply(findMove(t, pos, text))
	}

	assert.Equal(t, board.Black, pos.SideToMove())
	assert.Equal(t, board.FullCastling, pos.Castling())
	assert.Equal(t, 3, pos.HalfmoveClock())
	assert.Equal(t, 3, (pos.FullmoveCounter()+1)/2)
}

func TestThreefoldRepetitionCount(t *testing.T) {
	zt := board.NewZobristTable(6)
	pos := board.NewPosition(zt)

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 2; i++ {
		for _, text := range shuffle {
			pos.Apply(findMove(t, pos, text))
		}
	}
	assert.GreaterOrEqual(t, pos.Repetitions(), 2, "position must have recurred twice before by the third occurrence")
}

func TestFiftyMoveClockResetsOnPawnOrCapture(t *testing.T) {
	zt := board.NewZobristTable(7)
	pos := board.NewPosition(zt)

	pos.Apply(findMove(t, pos, "g1f3"))
	pos.Apply(findMove(t, pos, "g8f6"))
	assert.Equal(t, 2, pos.HalfmoveClock())

	pos.Apply(findMove(t, pos, "e2e4"))
	assert.Equal(t, 0, pos.HalfmoveClock(), "pawn move resets the clock")
}

func TestNullMoveRoundTrip(t *testing.T) {
	zt := board.NewZobristTable(8)
	pos := board.NewPosition(zt)

	before := snapshot(pos)
	pos.ApplyNull()
	assert.Equal(t, board.Black, pos.SideToMove())
	pos.UnmakeNull()

	assert.Equal(t, before, snapshot(pos))
}

func TestCastlingRightsLostOnKingAndRookMove(t *testing.T) {
	zt := board.NewZobristTable(9)
	pos := board.NewPosition(zt)

	for _, text := range []string{"g1f3", "g8f6", "e2e4", "e7e5", "f1c4", "f8c5"} {
		pos.Apply(findMove(t, pos, text))
	}
	pos.Apply(findMove(t, pos, "e1g1"))

	assert.True(t, pos.HasCastled(board.White))
	assert.False(t, pos.Castling().IsAllowed(board.WhiteKingSide))
	assert.False(t, pos.Castling().IsAllowed(board.WhiteQueenSide))
	assert.True(t, pos.Castling().IsAllowed(board.BlackKingSide))
}

// snapshot captures the state two Positions are compared on: hash, side to
// move, castling rights, clocks, and the four occupancy views. Per-piece
// bitboards are covered only indirectly, through the hash.
type stateSnapshot struct {
	Hash                                    board.ZobristHash
	SideMove                                board.Color
	Castling                                board.Castling
	Halfmove                                int
	Fullmove                                int
	Occupied                                board.Bitboard
	OccupiedR90, OccupiedR45, OccupiedR315 board.Bitboard
}

func snapshot(pos *board.Position) stateSnapshot {
	return stateSnapshot{
		Hash:         pos.Hash(),
		SideMove:     pos.SideToMove(),
		Castling:     pos.Castling(),
		Halfmove:     pos.HalfmoveClock(),
		Fullmove:     pos.FullmoveCounter(),
		Occupied:     pos.Occupied(),
		OccupiedR90:  pos.OccupiedR90(),
		OccupiedR45:  pos.OccupiedR45(),
		OccupiedR315: pos.OccupiedR315(),
	}
}

func findMove(t *testing.T, pos *board.Position, text string) board.Move {
	t.Helper()
	candidate := board.ParseMove(text)
	for _, mv := range pos.LegalMoves() {
		if mv.Src() == candidate.Src() && mv.Dest() == candidate.Dest() {
			return mv
		}
	}
	require.Failf(t, "move not found", "%v is not legal in this position", text)
	return board.NullMove
}
