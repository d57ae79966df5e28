// Package book implements the opening-book text-file matcher of spec.md §6:
// given the game's move sequence so far, it returns a candidate move for the
// core to validate and apply. It is a pure lookup with no board logic of its
// own, grounded on the teacher's pkg/engine.Book interface.
package book

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"strings"

	"github.com/rotochess/rotochess/pkg/board"
)

// Book is an opening-book lookup keyed by the exact move-sequence prefix
// played so far.
type Book struct {
	lines [][]string
}

// startOverride and replyOverride are the two hard-coded overrides of
// spec.md §6: from the starting position play e2e4; in reply to e2e4 play
// c7c5.
const (
	startOverride = "e2e4"
	replyOverride = "c7c5"
)

// Load reads a book.txt-format file: one line per opening, moves separated
// by single spaces with a trailing space.
func Load(r io.Reader) (*Book, error) {
	b := &Book{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		b.lines = append(b.lines, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// Find returns a move text for the position reached after playing the moves
// in played, or "" if the book has nothing to say. The caller is responsible
// for validating the result against the live position's legal moves (spec.md
// §6's opening-book lookup is "filter by legality in the current position").
func (b *Book) Find(ctx context.Context, played []string, rng *rand.Rand) string {
	if len(played) == 0 {
		return startOverride
	}
	if len(played) == 1 && played[0] == startOverride {
		return replyOverride
	}

	var candidates []string
	for _, line := range b.lines {
		if len(line) <= len(played) {
			continue
		}
		if !hasPrefix(line, played) {
			continue
		}
		candidates = append(candidates, line[len(played)])
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rng.Intn(len(candidates))]
}

func hasPrefix(line, prefix []string) bool {
	for i, mv := range prefix {
		if line[i] != mv {
			return false
		}
	}
	return true
}

// ValidateAgainstPosition re-checks a book-suggested move against pos's
// actual legal moves (the original engine's book.c revalidates a suggestion
// before trusting it, since the book file is static text and the live
// position is the source of truth).
func ValidateAgainstPosition(pos *board.Position, moveText string) (board.Move, bool) {
	candidate := board.ParseMove(moveText)
	if candidate.IsNull() {
		return board.NullMove, false
	}
	for _, mv := range pos.LegalMoves() {
		if mv.Src() == candidate.Src() && mv.Dest() == candidate.Dest() &&
			(!candidate.IsPromotion() || (mv.IsPromotion() && mv.PromotedPiece() == candidate.PromotedPiece())) {
			return mv, true
		}
	}
	return board.NullMove, false
}
