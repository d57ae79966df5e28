// Package search implements iterative-deepening fail-soft alpha-beta search
// with a transposition table, quiescence, and the move-ordering heuristics of
// spec.md §4.8-§4.10.
package search

import (
	"fmt"
	"math/bits"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
)

// Bound is the kind of bound a transposition entry represents.
type Bound uint8

const (
	NoBound Bound = iota
	UpperBound
	LowerBound
	ExactBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "none"
	}
}

// Entry is one transposition table slot (spec.md §4.8).
type Entry struct {
	Hash        board.ZobristHash
	Move        board.Move
	Reps        uint8
	Value       eval.Pawns
	GameDepth   uint8 // fullmove counter at which this entry was produced
	SearchDepth uint8
	Bound       Bound
	Valid       bool
}

// TranspositionTable is a direct-mapped table keyed by Zobrist hash, with the
// replacement policy of spec.md §4.8. It has process lifetime and is never
// cleared, neither between moves nor between games.
type TranspositionTable struct {
	entries []Entry
	mask    uint64
}

// NewTranspositionTable allocates a table sized to the next lower power of
// two of the requested entry count, grounded on the teacher's
// NewTranspositionTable sizing idiom.
func NewTranspositionTable(size int) *TranspositionTable {
	n := uint64(1) << uint(63-bits.LeadingZeros64(uint64(size)))
	if n == 0 {
		n = 1
	}
	return &TranspositionTable{entries: make([]Entry, n), mask: n - 1}
}

func (t *TranspositionTable) index(hash board.ZobristHash) uint64 {
	return uint64(hash) & t.mask
}

// Probe returns the stored entry for hash, if any.
func (t *TranspositionTable) Probe(hash board.ZobristHash) (Entry, bool) {
	e := t.entries[t.index(hash)]
	if e.Valid && e.Hash == hash {
		return e, true
	}
	return Entry{}, false
}

// Store inserts a new entry, applying the replacement policy: the new entry
// always wins if the old one predates the current search root (stale), or if
// its bound kind outranks the old one's, or if bound kinds tie and its search
// depth is greater.
func (t *TranspositionTable) Store(rootDepth int, e Entry) {
	idx := t.index(e.Hash)
	old := t.entries[idx]

	if !old.Valid ||
		rootDepth >= int(old.GameDepth) ||
		e.Bound > old.Bound ||
		(e.Bound == old.Bound && e.SearchDepth > old.SearchDepth) {
		t.entries[idx] = e
	}
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[%v entries]", len(t.entries))
}
