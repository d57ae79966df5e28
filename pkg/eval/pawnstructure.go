package eval

import "github.com/rotochess/rotochess/pkg/board"

// Pawn-structure scoring constants (spec.md §4.7), grounded on the original
// engine's pawnstructure evaluator.
const (
	chainBonus       = 2
	doubledPenalty   = 8
	isolatedPenalty  = 16
	backwardPenalty  = 8
)

// passedBonus[color][rank] rewards a passed pawn proportional to how close it
// is to promoting.
var passedBonus = [board.NumColors][8]Pawns{
	board.White: {0, 3, 6, 12, 24, 48, 96, 0},
	board.Black: {0, 96, 48, 24, 12, 6, 3, 0},
}

// pawnStructureEntry is one direct-mapped cache slot, keyed by a color's own
// pawn bitboard alone (spec.md §4.7): the cacheable part of the score depends
// only on the pawn skeleton, never on the rest of the position.
type pawnStructureEntry struct {
	valid bool
	key   board.Bitboard
	value Pawns
	holes board.Bitboard
}

// PawnStructureCache is a direct-mapped, process-lifetime cache of pawn
// structure scores (spec.md §3's "process lifetime, never cleared" caches).
type PawnStructureCache struct {
	entries []pawnStructureEntry
}

// NewPawnStructureCache allocates a cache with the given bucket count.
func NewPawnStructureCache(buckets int) *PawnStructureCache {
	return &PawnStructureCache{entries: make([]pawnStructureEntry, buckets)}
}

func (c *PawnStructureCache) bucket(key board.Bitboard) int {
	return int(uint64(key) % uint64(len(c.entries)))
}

// Evaluate returns the pawn-structure score for color c's pawns in pos, along
// with the "holes" bitmap (squares c's pawns can never attack), consulting
// the cache for the hashable part and always recomputing the passed-pawn
// bonus fresh since it depends on the opponent's pawns too.
func (c *PawnStructureCache) Evaluate(pos *board.Position, side board.Color) (Pawns, board.Bitboard) {
	pawns := pos.Pieces(side, board.Pawn)
	b := c.bucket(pawns)
	e := &c.entries[b]

	var value Pawns
	var holes board.Bitboard
	if e.valid && e.key == pawns {
		value, holes = e.value, e.holes
	} else {
		value, holes = computePawnStructure(pos, side, pawns)
		*e = pawnStructureEntry{valid: true, key: pawns, value: value, holes: holes}
	}

	unhashable := Pawns(0)
	for bb := pawns; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopSquare()
		if isPassedPawn(pos, side, sq) {
			unhashable += passedBonus[side][sq.Rank()]
		}
	}
	return value + unhashable, holes
}

func computePawnStructure(pos *board.Position, side board.Color, pawns board.Bitboard) (Pawns, board.Bitboard) {
	var value Pawns
	holes := ^board.Bitboard(0)

	for bb := pawns; bb != 0; {
		var sq board.Square
		sq, bb = bb.PopSquare()
		value += squareValue[side][board.Pawn][sq]

		others := pawns &^ board.BitMask(sq)

		friends := others & board.PawnAttackboard(side, sq)
		value += chainBonus * Pawns(friends.PopCount())

		doubled := others & board.BitFile(sq.File())
		value -= doubledPenalty * Pawns(doubled.PopCount())

		adjacent := others & adjacentFiles(sq.File())
		behind := behindMask(side, sq)
		if adjacent&behind == 0 {
			value -= backwardPenalty
			if adjacent == 0 {
				value -= isolatedPenalty
			}
		}

		holes &^= passedPawnMask(side, sq) &^ board.BitFile(sq.File())
	}
	return value, holes
}

// isPassedPawn reports whether the pawn on sq has no opposing pawn able to
// stop or capture it on its way to promotion: no enemy pawn on its file or
// the two adjacent files, on the ranks strictly ahead of it toward promotion.
func isPassedPawn(pos *board.Position, side board.Color, sq board.Square) bool {
	opp := side.Opponent()
	blockers := pos.Pieces(opp, board.Pawn) & passedPawnMask(side, sq)
	return blockers == 0
}

// passedPawnMask is the set of squares on sq's file and the two adjacent
// files, strictly ahead of sq from side's perspective.
func passedPawnMask(side board.Color, sq board.Square) board.Bitboard {
	var mask board.Bitboard
	f := sq.File()
	for _, df := range []int{-1, 0, 1} {
		nf := int(f) + df
		if nf < 0 || nf > 7 {
			continue
		}
		mask |= board.BitFile(board.File(nf))
	}
	return mask & aheadMask(side, sq.Rank())
}

func aheadMask(side board.Color, r board.Rank) board.Bitboard {
	var mask board.Bitboard
	if side == board.White {
		for rr := int(r) + 1; rr < 8; rr++ {
			mask |= board.BitRank(board.Rank(rr))
		}
	} else {
		for rr := int(r) - 1; rr >= 0; rr-- {
			mask |= board.BitRank(board.Rank(rr))
		}
	}
	return mask
}

func behindMask(side board.Color, sq board.Square) board.Bitboard {
	r := sq.Rank()
	mask := board.BitRank(r)
	if side == board.White {
		for rr := 0; rr < int(r); rr++ {
			mask |= board.BitRank(board.Rank(rr))
		}
	} else {
		for rr := int(r) + 1; rr < 8; rr++ {
			mask |= board.BitRank(board.Rank(rr))
		}
	}
	return mask
}

func adjacentFiles(f board.File) board.Bitboard {
	var mask board.Bitboard
	if f > 0 {
		mask |= board.BitFile(f - 1)
	}
	if f < 7 {
		mask |= board.BitFile(f + 1)
	}
	return mask
}
