package search_test

import (
	"testing"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
	"github.com/rotochess/rotochess/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableSizeRoundsDownToPowerOfTwo(t *testing.T) {
	tt := search.NewTranspositionTable(0x1000)
	assert.Equal(t, "TT[4096 entries]", tt.String())

	tt2 := search.NewTranspositionTable(0x1f00)
	assert.Equal(t, "TT[4096 entries]", tt2.String())
}

func TestTranspositionProbeMiss(t *testing.T) {
	tt := search.NewTranspositionTable(1024)
	_, ok := tt.Probe(board.ZobristHash(12345))
	assert.False(t, ok)
}

func TestTranspositionStoreAndProbe(t *testing.T) {
	tt := search.NewTranspositionTable(1024)
	hash := board.ZobristHash(42)

	tt.Store(1, search.Entry{
		Hash: hash, Value: eval.Pawns(50), GameDepth: 1, SearchDepth: 4, Bound: search.ExactBound, Valid: true,
	})

	e, ok := tt.Probe(hash)
	assert.True(t, ok)
	assert.Equal(t, eval.Pawns(50), e.Value)
	assert.Equal(t, search.ExactBound, e.Bound)
}

func TestTranspositionReplacementPrefersHigherBoundRank(t *testing.T) {
	tt := search.NewTranspositionTable(1024)
	hash := board.ZobristHash(7)

	tt.Store(5, search.Entry{Hash: hash, Value: 10, GameDepth: 6, SearchDepth: 6, Bound: search.UpperBound, Valid: true})
	tt.Store(5, search.Entry{Hash: hash, Value: 20, GameDepth: 6, SearchDepth: 2, Bound: search.ExactBound, Valid: true})

	e, ok := tt.Probe(hash)
	assert.True(t, ok)
	assert.Equal(t, eval.Pawns(20), e.Value, "an exact bound must replace a shallower upper bound")
}

func TestTranspositionReplacementRejectsShallowerSameBound(t *testing.T) {
	tt := search.NewTranspositionTable(1024)
	hash := board.ZobristHash(9)

	tt.Store(5, search.Entry{Hash: hash, Value: 10, GameDepth: 6, SearchDepth: 6, Bound: search.ExactBound, Valid: true})
	tt.Store(5, search.Entry{Hash: hash, Value: 20, GameDepth: 6, SearchDepth: 2, Bound: search.ExactBound, Valid: true})

	e, _ := tt.Probe(hash)
	assert.Equal(t, eval.Pawns(10), e.Value, "a shallower entry of the same bound kind must not replace a deeper one")
}

func TestTranspositionStaleRootAlwaysEvicts(t *testing.T) {
	tt := search.NewTranspositionTable(1024)
	hash := board.ZobristHash(11)

	tt.Store(5, search.Entry{Hash: hash, Value: 10, GameDepth: 5, SearchDepth: 10, Bound: search.ExactBound, Valid: true})
	tt.Store(9, search.Entry{Hash: hash, Value: 20, GameDepth: 5, SearchDepth: 1, Bound: search.UpperBound, Valid: true})

	e, _ := tt.Probe(hash)
	assert.Equal(t, eval.Pawns(20), e.Value, "an entry from a stale root must be evicted regardless of depth or bound")
}
