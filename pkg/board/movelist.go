package board

import "github.com/seekerror/stdlib/pkg/util/mathx"

// MoveList is a bucketed move-ordering container (spec.md §4.5): moves are
// routed into one of numBuckets buckets by a cheap gain estimate and drained
// from the highest non-empty bucket, giving rough best-first order in O(n)
// with no comparisons. This replaces the teacher's container/heap-based
// MoveList: the heap's O(log n) push/pop is overkill once ordering only needs
// to be approximate, and a fixed bucket array is what the source engine uses.
const numBuckets = 64

// Bucket layout, low to high. Everything below bucketQuietBase is reserved for
// material-losing moves indexed by estimated loss; bucketQueenPromo through
// bucketKingUnhang hold the three "obviously good" categories that always
// sort first. No category maps to bucketTop.
const (
	bucketLoseBase   = 0
	bucketLoseSpan   = 16 // indices 0..15, loss clamped into this range
	bucketQuietBase  = 16
	bucketQuietSpan  = 24 // indices 16..39, PST delta clamped into this range
	bucketMinorPromo = 40
	bucketCastleQ    = 41
	bucketCastleK    = 42
	bucketCaptBase   = 43 // neutral captures by piece kind, 43..48
	bucketWinBase    = 49
	bucketWinSpan    = 11 // indices 49..59, gain clamped into this range
	bucketQueenPromo = 60
	bucketQueenPromoCapture = 61
	bucketKingUnhang = 62
	bucketTop        = 63
)

// MoveList is consumed destructively; zero value is ready to use.
type MoveList struct {
	buckets [numBuckets][]Move
	highest int
	size    int
}

// NewMoveList builds an empty bucketed list.
func NewMoveList() *MoveList {
	return &MoveList{highest: -1}
}

// Size returns the number of moves still queued.
func (l *MoveList) Size() int { return l.size }

func (l *MoveList) push(bucket int, mv Move) {
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= numBuckets {
		bucket = numBuckets - 1
	}
	l.buckets[bucket] = append(l.buckets[bucket], mv)
	l.size++
	if bucket > l.highest {
		l.highest = bucket
	}
}

// Next pops and returns the best remaining move, or (NullMove, false) if the
// list is empty.
func (l *MoveList) Next() (Move, bool) {
	for l.highest >= 0 {
		b := l.buckets[l.highest]
		if len(b) == 0 {
			l.highest--
			continue
		}
		mv := b[len(b)-1]
		l.buckets[l.highest] = b[:len(b)-1]
		l.size--
		return mv, true
	}
	return NullMove, false
}

// Load scores and buckets every move in moves for position pos, whose
// attacked_by masks (both colors, pre-move) are used as the cheap static-
// exchange proxy the spec describes.
func (l *MoveList) Load(pos *Position, moves []Move) {
	for _, mv := range moves {
		l.push(bucketFor(pos, mv), mv)
	}
}

func bucketFor(pos *Position, mv Move) int {
	c := mv.Color()
	opp := c.Opponent()
	to := mv.Dest()
	piece := mv.Piece()

	if mv.IsPromotion() {
		promo := mv.PromotedPiece()
		if promo == Queen {
			if mv.IsCapture() {
				return bucketQueenPromoCapture
			}
			return bucketQueenPromo
		}
		return bucketMinorPromo
	}

	if mv.IsCastle() {
		if to.File() == FileC {
			return bucketCastleQ
		}
		return bucketCastleK
	}

	hangingSrc := pos.attackedBy[opp]&BitMask(mv.Src()) != 0 && pos.attackedBy[c]&BitMask(mv.Src()) == 0
	hangingDst := pos.attackedBy[opp]&BitMask(to) != 0 && pos.attackedBy[c]&BitMask(to) == 0

	// hangingDst is always false for King: generatePieceMoves/Captures already
	// mask king destinations against the opponent's attacked_by, so a king
	// move never lands on a square this function would call hanging.
	if mv.IsCapture() || mv.IsEnPassant() {
		capt := mv.CapturedPiece()
		gain := pieceValue(capt)
		if hangingDst {
			gain -= pieceValue(piece)
		}
		switch {
		case gain > 0:
			return bucketWinBase + clamp(gain/100, 0, bucketWinSpan-1)
		case gain < 0:
			return bucketLoseBase + clamp(-gain/100, 0, bucketLoseSpan-1)
		default:
			return bucketCaptBase + clamp(int(piece), 0, 5)
		}
	}

	// Quiet moves: king-unhang (moving out of an attacked square to safety)
	// sorts at the very top; moving into a hanging square sorts at the
	// bottom; otherwise order by piece-square-table delta.
	if piece == King && hangingSrc && !hangingDst {
		return bucketKingUnhang
	}
	if hangingSrc && !hangingDst {
		return bucketWinBase + clamp(pieceValue(piece)/100, 0, bucketWinSpan-1)
	}
	if hangingDst {
		return bucketLoseBase + clamp(pieceValue(piece)/100, 0, bucketLoseSpan-1)
	}

	delta := pstDelta(piece, c, mv.Src(), to)
	return bucketQuietBase + clamp((delta+bucketQuietSpan/2), 0, bucketQuietSpan-1)
}

func clamp(v, lo, hi int) int {
	return mathx.Min(mathx.Max(v, lo), hi)
}

func pieceValue(k Piece) int {
	switch k {
	case Pawn:
		return 100
	case Knight, Bishop:
		return 300
	case Rook:
		return 500
	case Queen:
		return 900
	default:
		return 0
	}
}

// pstDelta is a coarse piece-square estimate used only for quiet-move
// ordering (not the evaluator's own tables): central squares score higher,
// giving forward/central quiet moves priority over edge shuffles.
func pstDelta(piece Piece, c Color, from, to Square) int {
	return centerScore(to) - centerScore(from)
}

func centerScore(sq Square) int {
	f, r := int(sq.File()), int(sq.Rank())
	df, dr := f-3, r-3
	if df < 0 {
		df = -df - 1
	}
	if dr < 0 {
		dr = -dr - 1
	}
	return 6 - df - dr
}
