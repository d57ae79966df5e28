package eval

import "github.com/rotochess/rotochess/pkg/board"

// Pawns is a centipawn score, positive favors the side being evaluated for.
type Pawns int16

// Material value vectors, indexed by board.Piece. King carries no material
// value; mate is detected separately by the searcher.
var pieceValue = [board.NumPieces]Pawns{100, 300, 300, 500, 900, 0}
var pieceValueEndgame = [board.NumPieces]Pawns{125, 300, 300, 550, 1200, 0}

// NominalValue returns the absolute material value of a piece kind, selecting
// the endgame vector when endgame is true.
func NominalValue(p board.Piece, endgame bool) Pawns {
	if endgame {
		return pieceValueEndgame[p]
	}
	return pieceValue[p]
}

// squareValue[color][piece][square] holds the middlegame piece-square bonus.
// Values are grounded on the original engine's table, transcribed square for
// square; both colors are kept as independently-written tables (rather than a
// single table plus rank mirroring done at lookup time) because that is how
// the source expresses it and it keeps the black tables trivially auditable
// against the source's own black block.
var squareValue = [board.NumColors][board.NumPieces][64]Pawns{
	board.White: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, -4, -4, 4, 0, 0,
			6, 2, 3, 4, 4, 3, 2, 8,
			3, 4, 12, 12, 12, 8, 4, 3,
			5, 8, 16, 20, 20, 16, 8, 5,
			20, 24, 24, 32, 32, 24, 24, 20,
			36, 36, 40, 40, 40, 40, 36, 36,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Knight: {
			-10, -6, -6, -6, -6, -6, -6, -10,
			-6, 0, 0, 3, 3, 0, 0, -6,
			-6, 0, 8, 4, 4, 10, 0, -6,
			-6, 0, 8, 10, 10, 8, 0, -6,
			-4, 0, 8, 10, 10, 8, 0, -4,
			-4, 5, 12, 12, 12, 12, 5, -4,
			-4, 0, 5, 3, 3, 5, 0, -4,
			-10, -4, -4, -4, -4, -4, -4, -10,
		},
		board.Bishop: {
			-6, -5, -5, -5, -5, -5, -5, -6,
			-5, 10, 5, 8, 8, 5, 10, -5,
			-5, 5, 3, 5, 5, 3, 5, -5,
			-5, 3, 10, 3, 3, 10, 3, -5,
			-5, 5, 10, 3, 3, 10, 5, -5,
			-5, 3, 8, 8, 8, 8, 3, -5,
			-5, 5, 5, 8, 8, 5, 5, -5,
			-6, -5, -5, -5, -5, -5, -5, -6,
		},
		board.Rook: {
			0, 3, 3, 3, 3, 3, 3, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 2, 2, 2, 1, 0,
			3, 5, 8, 8, 8, 8, 5, 3,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Queen: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 5, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.King: {
			5, 5, 8, 0, 0, -5, 10, 10,
			0, 0, 0, 0, 0, 0, 5, 5,
			0, 0, 0, -5, -5, 0, 0, 0,
			0, 0, -5, -10, -10, -5, 0, 0,
			0, -5, -10, -10, -10, -10, -5, 0,
			-5, -10, -10, -15, -15, -10, -10, -5,
			-20, -20, -20, -20, -20, -20, -20, -20,
			-20, -20, -20, -20, -20, -20, -20, -20,
		},
	},
	board.Black: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			36, 36, 40, 40, 40, 40, 36, 36,
			20, 24, 24, 32, 32, 24, 24, 20,
			5, 8, 16, 20, 20, 16, 8, 5,
			3, 4, 12, 12, 12, 8, 4, 3,
			6, 2, 3, 4, 4, 3, 2, 8,
			0, 0, 0, -4, -4, 4, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Knight: {
			-10, -4, -4, -4, -4, -4, -4, -10,
			-4, 0, 5, 3, 3, 5, 0, -4,
			-4, 5, 12, 12, 12, 12, 5, -4,
			-4, 0, 8, 10, 10, 8, 0, -4,
			-6, 0, 8, 10, 10, 8, 0, -6,
			-6, 0, 8, 4, 4, 10, 0, -6,
			-6, 0, 0, 3, 3, 0, 0, -6,
			-10, -6, -6, -6, -6, -6, -6, -10,
		},
		board.Bishop: {
			-6, -5, -5, -5, -5, -5, -5, -6,
			-5, 5, 5, 8, 8, 5, 5, -5,
			-5, 5, 8, 8, 8, 8, 5, -5,
			-5, 3, 10, 5, 5, 10, 3, -5,
			-5, 5, 10, 5, 5, 10, 5, -5,
			-5, 3, 3, 5, 5, 3, 3, -5,
			-5, 10, 5, 8, 8, 5, 10, -5,
			-6, -5, -5, -5, -5, -5, -5, -6,
		},
		board.Rook: {
			0, 0, 0, 0, 0, 0, 0, 0,
			3, 5, 8, 8, 8, 8, 5, 3,
			0, 1, 2, 2, 2, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 3, 3, 3, 3, 3, 3, 0,
		},
		board.Queen: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 5, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.King: {
			-20, -20, -20, -20, -20, -20, -20, -20,
			-20, -20, -20, -20, -20, -20, -20, -20,
			-5, -10, -10, -15, -15, -10, -10, -5,
			0, -5, -10, -10, -10, -10, -5, 0,
			0, 0, -5, -10, -10, -5, 0, 0,
			0, 0, 0, -5, -5, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 5, 5,
			5, 5, 8, 0, 0, -5, 10, 10,
		},
	},
}

// squareValueEndgame mirrors squareValue for the endgame regime. The black
// king table here is transcribed whole and rank-mirrored correctly; the
// original source dropped a comma between its first two rows, which folded
// two adjacent entries into one via unary-minus token pasting and shifted
// every later square in the table off by one index. We do not reproduce that:
// spec.md only asks us to substitute technique, not carry forward a parser
// accident, so both kings below are plain rank-reflections of each other.
var squareValueEndgame = [board.NumColors][board.NumPieces][64]Pawns{
	board.White: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			-10, -10, -10, -10, -10, -10, -10, -10,
			0, 0, 0, 0, 0, 0, 0, 0,
			10, 10, 10, 10, 10, 10, 10, 10,
			20, 20, 20, 20, 20, 20, 20, 20,
			40, 40, 40, 40, 40, 40, 40, 40,
			80, 80, 80, 80, 80, 80, 80, 80,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Knight: {
			-10, -5, -5, -5, -5, -5, -5, -10,
			-8, 0, 0, 3, 3, 0, 0, -8,
			-8, 0, 10, 8, 8, 10, 0, -8,
			-8, 0, 8, 10, 10, 8, 0, -8,
			-8, 0, 8, 10, 10, 8, 0, -8,
			-8, 0, 12, 12, 12, 12, 0, -8,
			-8, 0, 9, 3, 3, 9, 0, -8,
			-10, -5, -5, -5, -5, -5, -5, -10,
		},
		board.Bishop: {
			-8, -5, -5, -5, -5, -5, -5, -8,
			-5, 3, 5, 5, 5, 5, 3, -5,
			-5, 5, 5, 8, 8, 5, 5, -5,
			-5, 5, 10, 10, 10, 10, 5, -5,
			-5, 5, 10, 10, 10, 10, 5, -5,
			-5, 3, 8, 8, 8, 8, 3, -5,
			-5, 3, 5, 8, 8, 5, 3, -5,
			-8, -5, -5, -5, -5, -5, -5, -8,
		},
		board.Rook: {
			0, 3, 3, 5, 5, 3, 3, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 2, 2, 2, 1, 0,
			1, 3, 5, 5, 5, 5, 3, 1,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Queen: {},
		board.King: {
			-25, -15, -10, -10, -10, -10, -15, -25,
			-15, -5, 0, 0, 0, 0, -5, -15,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-10, 0, 10, 15, 15, 10, 0, -10,
			-5, 5, 15, 20, 20, 15, 5, -5,
			0, 10, 20, 20, 20, 15, 10, 0,
			-15, 0, 5, 5, 5, 5, 0, -15,
			-25, -15, -10, -10, -10, -10, -15, -25,
		},
	},
	board.Black: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			80, 80, 80, 80, 80, 80, 80, 80,
			40, 40, 40, 40, 40, 40, 40, 40,
			20, 20, 20, 20, 20, 20, 20, 20,
			10, 10, 10, 10, 10, 10, 10, 10,
			0, 0, 0, 0, 0, 0, 0, 0,
			-10, -10, -10, -10, -10, -10, -10, -10,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Knight: {
			-10, -5, -5, -5, -5, -5, -5, -10,
			-8, 0, 9, 3, 3, 9, 0, -8,
			-8, 0, 12, 12, 12, 12, 0, -8,
			-8, 0, 8, 10, 10, 8, 0, -8,
			-8, 0, 8, 10, 10, 8, 0, -8,
			-8, 0, 10, 8, 8, 10, 0, -8,
			-8, 0, 0, 3, 3, 0, 0, -8,
			-10, -5, -5, -5, -5, -5, -5, -10,
		},
		board.Bishop: {
			-8, -5, -5, -5, -5, -5, -5, -8,
			-5, 3, 5, 8, 8, 5, 3, -5,
			-5, 3, 8, 8, 8, 8, 3, -5,
			-5, 5, 10, 10, 10, 10, 5, -5,
			-5, 5, 10, 10, 10, 10, 5, -5,
			-5, 5, 5, 8, 8, 5, 5, -5,
			-5, 3, 5, 5, 5, 5, 3, -5,
			-8, -5, -5, -5, -5, -5, -5, -8,
		},
		board.Rook: {
			0, 0, 0, 0, 0, 0, 0, 0,
			1, 3, 5, 5, 5, 5, 3, 1,
			0, 1, 2, 2, 2, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 1, 2, 3, 3, 2, 1, 0,
			0, 3, 3, 5, 5, 3, 3, 0,
		},
		board.Queen: {},
		board.King: {
			-25, -15, -10, -10, -10, -10, -15, -25,
			-15, 0, 5, 5, 5, 5, 0, -15,
			0, 10, 20, 20, 20, 15, 10, 0,
			-5, 5, 15, 20, 20, 15, 5, -5,
			-10, 0, 10, 15, 15, 10, 0, -10,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-15, -5, 0, 0, 0, 0, -5, -15,
			-25, -15, -10, -10, -10, -10, -15, -25,
		},
	},
}

// pawnCoverRank2/3 score the count of shielding pawns found one and two ranks
// in front of a castled king, indexed 0..3.
var pawnCoverRank2 = [4]Pawns{-24, -8, 0, 4}
var pawnCoverRank3 = [4]Pawns{-8, 0, 4, 8}

const (
	bishopPairBonus   = 15
	knightPairPenalty = -8
	rookOpenFile      = 10
	rookOpenFileMult  = 2
	rookRank7Mult     = 4 // bonus doubles per additional rook/queen on the 7th: 4<<n
	outpostBonus      = 8
	blockedPawn       = -25
	castleBonus       = 20
	kingFileOpen      = -16
	adjacentFileOpen  = -8

	endgameLimit       = 1600
	endgameLimitNoQueen = 2000
)
