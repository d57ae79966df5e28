package board

// Piece represents a chess piece kind with no color. Ordered to match the material
// value vectors of the evaluator: pawn, knight, bishop, rook, queen, king. 3 bits.
type Piece uint8

const (
	Pawn Piece = iota
	Knight
	Bishop
	Rook
	Queen
	King

	NoPiece Piece = 0xff
)

const (
	ZeroPiece Piece = 0
	NumPieces Piece = 6
)

// Slides reports whether the piece kind moves along sliding rays (bishop, rook, queen).
func (p Piece) Slides() bool {
	return p == Bishop || p == Rook || p == Queen
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return p < NumPieces
}

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return " "
	}
}
