package board

import (
	"fmt"
	"strings"
)

// Move is a compact 32-bit move word. Bit layout (spec.md §3):
//
//	0-5   source square
//	6-11  destination square
//	12    color making the move
//	13    castle flag
//	14    en passant flag
//	15    capture flag
//	16    promotion flag
//	17-19 captured piece kind (if capture)
//	20-22 promoted-to piece kind (if promotion)
//	23-25 moving piece kind
//	26-27 spare, unused
//
// The all-zero Move is the null move: both "no move" (the generator emits none)
// and the null move applied during null-move pruning. Callers that need to tell
// the two apart carry an explicit boolean rather than relying on the zero value.
type Move uint32

const NullMove Move = 0

const (
	shiftSrc       = 0
	shiftDest      = 6
	shiftColor     = 12
	shiftCastle    = 13
	shiftEP        = 14
	shiftCapture   = 15
	shiftPromotion = 16
	shiftCaptPiece = 17
	shiftPromPiece = 20
	shiftPiece     = 23
	shiftRep       = 26

	mask6 = 0x3f
	mask3 = 0x7
)

// NewMove packs the fields of an ordinary (non-special) move.
func NewMove(from, to Square, c Color, piece Piece) Move {
	return Move(uint32(from)&mask6) |
		Move(uint32(to)&mask6)<<shiftDest |
		Move(uint32(c)&1)<<shiftColor |
		Move(uint32(piece)&mask3)<<shiftPiece
}

func (m Move) Src() Square  { return Square((m >> shiftSrc) & mask6) }
func (m Move) Dest() Square { return Square((m >> shiftDest) & mask6) }
func (m Move) Color() Color { return Color((m >> shiftColor) & 1) }
func (m Move) Piece() Piece { return Piece((m >> shiftPiece) & mask3) }

func (m Move) IsCastle() bool    { return (m>>shiftCastle)&1 != 0 }
func (m Move) IsEnPassant() bool { return (m>>shiftEP)&1 != 0 }
func (m Move) IsCapture() bool   { return (m>>shiftCapture)&1 != 0 }
func (m Move) IsPromotion() bool { return (m>>shiftPromotion)&1 != 0 }

func (m Move) CapturedPiece() Piece { return Piece((m >> shiftCaptPiece) & mask3) }
func (m Move) PromotedPiece() Piece { return Piece((m >> shiftPromPiece) & mask3) }
func (m Move) IsNull() bool         { return m == NullMove }

func (m Move) withBit(shift uint, v bool) Move {
	if v {
		return m | 1<<shift
	}
	return m &^ (1 << shift)
}

func (m Move) WithCastle() Move    { return m.withBit(shiftCastle, true) }
func (m Move) WithEnPassant() Move { return m.withBit(shiftEP, true) }

func (m Move) WithCapture(p Piece) Move {
	return m.withBit(shiftCapture, true) | Move(uint32(p)&mask3)<<shiftCaptPiece
}

func (m Move) WithPromotion(p Piece) Move {
	return m.withBit(shiftPromotion, true) | Move(uint32(p)&mask3)<<shiftPromPiece
}

// Equals compares every field of the move word (all bits below shiftRep),
// ignoring only the unused spare high bits.
func (m Move) Equals(o Move) bool {
	const significant = (Move(1) << shiftRep) - 1
	return m&significant == o&significant
}

// ParseMove parses the plain-text five-character form "<srcfile><srcrank><dstfile>
// <dstrank>[promo]" (spec.md §4.3). It returns the null move on malformed input.
// Parsing does not set capture/castle/ep flags or the moving piece kind -- those
// are filled in by the legality checker against an actual position.
func ParseMove(str string) Move {
	runes := []rune(str)
	if len(runes) != 4 && len(runes) != 5 {
		return NullMove
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return NullMove
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return NullMove
	}

	mv := Move(uint32(from)&mask6) | Move(uint32(to)&mask6)<<shiftDest

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return NullMove
		}
		mv = mv.WithPromotion(promo)
	}
	return mv
}

// String formats the move in plain-text algebraic form, uppercasing the promotion
// letter on output. Castling is expressed as the king's move.
func (m Move) String() string {
	var sb strings.Builder
	sb.WriteString(m.Src().String())
	sb.WriteString(m.Dest().String())
	if m.IsPromotion() {
		sb.WriteString(strings.ToUpper(m.PromotedPiece().String()))
	}
	return sb.String()
}

func (m Move) GoString() string {
	return fmt.Sprintf("Move(%v)", m.String())
}
