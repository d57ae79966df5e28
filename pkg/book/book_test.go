package book_test

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBook = "e2e4 e7e5 g1f3 b8c6 \ne2e4 c7c5 \nd2d4 d7d5 \n"

func TestFindAppliesStartingAndReplyOverrides(t *testing.T) {
	b, err := book.Load(strings.NewReader(sampleBook))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, "e2e4", b.Find(context.Background(), nil, rng))
	assert.Equal(t, "c7c5", b.Find(context.Background(), []string{"e2e4"}, rng))
}

func TestFindPrefixMatch(t *testing.T) {
	b, err := book.Load(strings.NewReader(sampleBook))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	got := b.Find(context.Background(), []string{"e2e4", "e7e5", "g1f3"}, rng)
	assert.Equal(t, "b8c6", got)
}

func TestFindNoMatchReturnsEmpty(t *testing.T) {
	b, err := book.Load(strings.NewReader(sampleBook))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	got := b.Find(context.Background(), []string{"a2a3", "a7a6", "b2b3"}, rng)
	assert.Equal(t, "", got)
}

func TestValidateAgainstPositionRejectsIllegalSuggestion(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos := board.NewPosition(zt)

	_, ok := book.ValidateAgainstPosition(pos, "e2e5")
	assert.False(t, ok)

	mv, ok := book.ValidateAgainstPosition(pos, "e2e4")
	assert.True(t, ok)
	assert.Equal(t, "e2e4", mv.String())
}
