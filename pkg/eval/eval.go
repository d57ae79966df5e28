// Package eval implements the static position evaluator (spec.md §4.7):
// piece-square tables, king safety, pawn structure, and endgame special
// cases, returned from the side-to-move's perspective.
package eval

import (
	"context"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/mathx"
)

// Evaluator is a static position evaluator, kept as an interface the way the
// teacher's pkg/eval does so the searcher can be tested against a stub.
type Evaluator interface {
	// Evaluate returns the position score in centipawns for the side to move.
	Evaluate(ctx context.Context, pos *board.Position) Pawns
	// Lazy returns the material-only fast path (spec.md §4.7).
	Lazy(ctx context.Context, pos *board.Position) Pawns
}

// Full is the complete evaluator: piece-square tables, king safety, pawn
// structure (cached), and the endgame regime.
type Full struct {
	pawns *PawnStructureCache
}

// NewFull builds an evaluator with a pawn-structure cache of the given size.
func NewFull(pawnCacheBuckets int) *Full {
	return &Full{pawns: NewPawnStructureCache(pawnCacheBuckets)}
}

func (f *Full) Lazy(ctx context.Context, pos *board.Position) Pawns {
	endgame := IsEndgame(pos)
	white := materialSum(pos, board.White, endgame)
	black := materialSum(pos, board.Black, endgame)
	if pos.SideToMove() == board.White {
		return white - black
	}
	return black - white
}

func materialSum(pos *board.Position, c board.Color, endgame bool) Pawns {
	var sum Pawns
	for k := board.ZeroPiece; k < board.NumPieces; k++ {
		sum += NominalValue(k, endgame) * Pawns(pos.Pieces(c, k).PopCount())
	}
	return sum
}

// IsEndgame reports whether either side's non-pawn, non-king material has
// dropped to the endgame threshold or below (the threshold is higher when
// neither side has a queen).
func IsEndgame(pos *board.Position) bool {
	limit := Pawns(endgameLimit)
	if pos.Pieces(board.White, board.Queen) == 0 && pos.Pieces(board.Black, board.Queen) == 0 {
		limit = endgameLimitNoQueen
	}
	return nonPawnMaterial(pos, board.White) <= limit || nonPawnMaterial(pos, board.Black) <= limit
}

func nonPawnMaterial(pos *board.Position, c board.Color) Pawns {
	var sum Pawns
	for k := board.Knight; k <= board.Queen; k++ {
		sum += pieceValue[k] * Pawns(pos.Pieces(c, k).PopCount())
	}
	return sum
}

func (f *Full) Evaluate(ctx context.Context, pos *board.Position) Pawns {
	if IsEndgame(pos) {
		return f.evaluateEndgame(pos)
	}
	return f.evaluateMiddlegame(pos)
}

func (f *Full) evaluateMiddlegame(pos *board.Position) Pawns {
	var scoreWhite, scoreBlack Pawns
	var ksafetyWhite, ksafetyBlack Pawns

	kingSq := [board.NumColors]board.Square{
		board.White: pos.Pieces(board.White, board.King).LastPopSquare(),
		board.Black: pos.Pieces(board.Black, board.King).LastPopSquare(),
	}

	for _, c := range []board.Color{board.White, board.Black} {
		opp := c.Opponent()
		score := &scoreWhite
		oppKsafety := &ksafetyBlack
		if c == board.Black {
			score = &scoreBlack
			oppKsafety = &ksafetyWhite
		}

		for k := board.Knight; k <= board.Queen; k++ {
			for bb := pos.Pieces(c, k); bb != 0; {
				var sq board.Square
				sq, bb = bb.PopSquare()
				*score += squareValue[c][k][sq]
				*oppKsafety -= tropism(sq, kingSq[opp], k)

				if k == board.Rook {
					if pos.Pieces(c, board.Pawn)&board.BitFile(sq.File()) == 0 {
						*score += rookOpenFile
					}
					*score += rookOpenFileMult * Pawns(columnMobility(pos, sq))
				}
			}
		}
		*score += squareValue[c][board.King][kingSq[c]]

		if pos.Pieces(c, board.Bishop).PopCount() > 1 {
			*score += bishopPairBonus
		}
		if pos.Pieces(c, board.Knight).PopCount() > 1 {
			*score += knightPairPenalty
		}
	}

	pawnWhite, holesWhite := f.pawns.Evaluate(pos, board.White)
	pawnBlack, holesBlack := f.pawns.Evaluate(pos, board.Black)
	scoreWhite += pawnWhite
	scoreBlack += pawnBlack

	whiteOutposts := holesBlack & board.PawnCaptureboard(board.White, pos.Pieces(board.White, board.Pawn)) &
		(pos.Pieces(board.White, board.Knight) | pos.Pieces(board.White, board.Bishop)) &^
		(board.BitFile(board.FileA) | board.BitFile(board.FileH))
	scoreWhite += outpostBonus * Pawns(whiteOutposts.PopCount())

	blackOutposts := holesWhite & board.PawnCaptureboard(board.Black, pos.Pieces(board.Black, board.Pawn)) &
		(pos.Pieces(board.Black, board.Knight) | pos.Pieces(board.Black, board.Bishop)) &^
		(board.BitFile(board.FileA) | board.BitFile(board.FileH))
	scoreBlack += outpostBonus * Pawns(blackOutposts.PopCount())

	scoreWhite += blockedPawnPenalty(pos, board.White)
	scoreBlack += blockedPawnPenalty(pos, board.Black)

	whiteHeavies := (pos.Pieces(board.White, board.Rook) | pos.Pieces(board.White, board.Queen)) & board.BitRank(board.Rank7)
	scoreWhite += rookRank7Mult << uint(whiteHeavies.PopCount())
	blackHeavies := (pos.Pieces(board.Black, board.Rook) | pos.Pieces(board.Black, board.Queen)) & board.BitRank(board.Rank2)
	scoreBlack += rookRank7Mult << uint(blackHeavies.PopCount())

	scoreWhite += Pawns(int(kingSafety(pos, board.White, kingSq[board.White], ksafetyWhite)) * int(materialSum(pos, board.Black, false)) / 3100)
	scoreBlack += Pawns(int(kingSafety(pos, board.Black, kingSq[board.Black], ksafetyBlack)) * int(materialSum(pos, board.White, false)) / 3100)

	materialWhite := materialSum(pos, board.White, false)
	materialBlack := materialSum(pos, board.Black, false)

	if pos.SideToMove() == board.White {
		return (scoreWhite + materialWhite) - (scoreBlack + materialBlack)
	}
	return (scoreBlack + materialBlack) - (scoreWhite + materialWhite)
}

// kingSafety folds in the pawn-shield and open-file terms; the multiplicative
// material scaling is applied by the caller since it needs the opponent's
// material sum computed once per side.
func kingSafety(pos *board.Position, c board.Color, kingSq board.Square, base Pawns) Pawns {
	k := base
	if pos.HasCastled(c) {
		k += castleBonus

		shieldRank := board.Rank2
		pushRank := board.Rank3
		if c == board.Black {
			shieldRank, pushRank = board.Rank7, board.Rank6
		}
		near := board.KingAttackboard(kingSq) & pos.Pieces(c, board.Pawn) & board.BitRank(shieldRank)
		k += pawnCoverRank2[clampIdx(near.PopCount(), 3)]

		var pushSq board.Square
		if c == board.White {
			pushSq = board.Square(int(kingSq) + 8)
		} else {
			pushSq = board.Square(int(kingSq) - 8)
		}
		if pushSq.IsValid() {
			far := board.KingAttackboard(pushSq) & pos.Pieces(c, board.Pawn) & board.BitRank(pushRank)
			k += pawnCoverRank3[clampIdx(far.PopCount(), 3)]
		}
	}

	file := kingSq.File()
	if pos.Pieces(c, board.Pawn)&board.BitFile(file) == 0 {
		k += kingFileOpen
	}
	var adjFile board.File
	switch file {
	case board.FileA, board.FileE, board.FileF, board.FileG:
		adjFile = file + 1
	default:
		adjFile = file - 1
	}
	if pos.Pieces(c, board.Pawn)&board.BitFile(adjFile) == 0 {
		k += adjacentFileOpen
	}
	return k
}

func clampIdx(n, max int) int {
	if n > max {
		return max
	}
	return n
}

// columnMobility counts squares reachable along sq's file alone, the
// "how far can we see" term the source engine adds on top of the open-file
// bonus.
func columnMobility(pos *board.Position, sq board.Square) int {
	full := board.RookAttackboard(pos.Occupied(), pos.OccupiedR90(), sq)
	return (full &^ board.BitRank(sq.Rank())).PopCount()
}

// tropism scores how close a piece is to the opposing king: closer and
// heavier pieces score higher, on a geometric falloff.
var tropismShift = [15]uint{0, 0, 0, 1, 1, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5}
var tropismPieceShift = [board.NumPieces]uint{3, 2, 2, 1, 0, 0}

const tropismMax = 192

func tropism(a, b board.Square, piece board.Piece) Pawns {
	rowDist := absInt(int(a.Rank()) - int(b.Rank()))
	colDist := absInt(int(a.File()) - int(b.File()))
	return Pawns(tropismMax>>tropismShift[rowDist+colDist]) >> tropismPieceShift[piece]
}

func absInt(v int) int {
	return mathx.Max(v, -v)
}

func blockedPawnPenalty(pos *board.Position, c board.Color) Pawns {
	var penalty Pawns
	rank2, rank3 := board.Rank2, board.Rank3
	cFile, dFile, eFile := board.FileC, board.FileD, board.FileE
	if c == board.Black {
		rank2, rank3 = board.Rank7, board.Rank6
	}

	dSq2, dSq3 := board.NewSquare(dFile, rank2), board.NewSquare(dFile, rank3)
	eSq2, eSq3 := board.NewSquare(eFile, rank2), board.NewSquare(eFile, rank3)
	if pos.Pieces(c, board.Pawn)&board.BitMask(dSq2) != 0 && !pos.IsEmpty(dSq3) {
		if _, k, ok := pos.PieceAt(dSq3); ok && k != board.Pawn {
			penalty += blockedPawn
		}
	}
	if pos.Pieces(c, board.Pawn)&board.BitMask(eSq2) != 0 && !pos.IsEmpty(eSq3) {
		if _, k, ok := pos.PieceAt(eSq3); ok && k != board.Pawn {
			penalty += blockedPawn
		}
	}

	closedRank := board.Rank4
	knightRank := board.Rank3
	pawnC, pawnD, pawnE := board.Rank2, board.Rank4, board.Rank4
	if c == board.Black {
		closedRank = board.Rank5
		knightRank = board.Rank6
		pawnC, pawnD, pawnE = board.Rank7, board.Rank5, board.Rank5
	}
	knightSq := board.NewSquare(cFile, knightRank)
	cPawnSq := board.NewSquare(cFile, pawnC)
	dPawnSq := board.NewSquare(dFile, pawnD)
	ePawnSq := board.NewSquare(eFile, pawnE)
	_ = closedRank
	if pos.Pieces(c, board.Knight)&board.BitMask(knightSq) != 0 &&
		pos.Pieces(c, board.Pawn)&board.BitMask(cPawnSq) != 0 &&
		pos.Pieces(c, board.Pawn)&board.BitMask(dPawnSq) != 0 &&
		pos.Pieces(c, board.Pawn)&board.BitMask(ePawnSq) == 0 {
		penalty += blockedPawn
	}
	return penalty
}

// evaluateEndgame handles the drawn-material special cases and the endgame
// piece-square regime: when neither side has pawns, any material difference
// under 400 and KNN vs K score as draws; KB + wrong rook pawn vs K, and KP vs K
// opposition/rook-pawn draws, ported from the source's four drawn-material
// branches.
func (f *Full) evaluateEndgame(pos *board.Position) Pawns {
	materialWhite := materialSum(pos, board.White, true)
	materialBlack := materialSum(pos, board.Black, true)

	if pos.Pieces(board.White, board.Pawn) == 0 && pos.Pieces(board.Black, board.Pawn) == 0 {
		diff := materialWhite - materialBlack
		if diff < 0 {
			diff = -diff
		}
		if diff < 400 {
			return 0
		}
		if isBareKNNvsK(pos) {
			return 0
		}
	} else if isKBWrongRookPawnDraw(pos, board.White) || isKBWrongRookPawnDraw(pos, board.Black) {
		return 0
	} else if isKPvsKDraw(pos, board.White) || isKPvsKDraw(pos, board.Black) {
		return 0
	}

	var scoreWhite, scoreBlack Pawns
	for _, c := range []board.Color{board.White, board.Black} {
		score := &scoreWhite
		if c == board.Black {
			score = &scoreBlack
		}
		for k := board.ZeroPiece; k < board.NumPieces; k++ {
			for bb := pos.Pieces(c, k); bb != 0; {
				var sq board.Square
				sq, bb = bb.PopSquare()
				*score += squareValueEndgame[c][k][sq]
			}
		}
	}

	if pos.SideToMove() == board.White {
		return (scoreWhite + materialWhite) - (scoreBlack + materialBlack)
	}
	return (scoreBlack + materialBlack) - (scoreWhite + materialWhite)
}

func isBareKNNvsK(pos *board.Position) bool {
	whiteKNN := pos.Pieces(board.White, board.Knight).PopCount() == 2 &&
		pos.OccupiedBy(board.White) == (pos.Pieces(board.White, board.King)|pos.Pieces(board.White, board.Knight))
	blackBare := pos.OccupiedBy(board.Black) == pos.Pieces(board.Black, board.King)
	if whiteKNN && blackBare {
		return true
	}
	blackKNN := pos.Pieces(board.Black, board.Knight).PopCount() == 2 &&
		pos.OccupiedBy(board.Black) == (pos.Pieces(board.Black, board.King)|pos.Pieces(board.Black, board.Knight))
	whiteBare := pos.OccupiedBy(board.White) == pos.Pieces(board.White, board.King)
	return blackKNN && whiteBare
}

// isKBWrongRookPawnDraw detects a lone bishop plus a rook pawn against a bare
// king where the bishop doesn't control the pawn's promotion square: once
// the defending king reaches that corner, the attacker cannot force mate.
func isKBWrongRookPawnDraw(pos *board.Position, c board.Color) bool {
	opp := c.Opponent()
	if pos.OccupiedBy(opp) != pos.Pieces(opp, board.King) {
		return false
	}
	if pos.Pieces(c, board.Bishop).PopCount() != 1 || pos.Pieces(c, board.Pawn).PopCount() != 1 {
		return false
	}
	if pos.OccupiedBy(c) != pos.Pieces(c, board.King)|pos.Pieces(c, board.Bishop)|pos.Pieces(c, board.Pawn) {
		return false
	}
	rookPawns := pos.Pieces(c, board.Pawn) & (board.BitFile(board.FileA) | board.BitFile(board.FileH))
	if rookPawns == 0 {
		return false
	}

	pawnSq, _ := rookPawns.PopSquare()
	bishopSq, _ := pos.Pieces(c, board.Bishop).PopSquare()
	promoRank := board.Rank8
	if c == board.Black {
		promoRank = board.Rank1
	}
	promoSq := board.NewSquare(pawnSq.File(), promoRank)

	if squareParity(bishopSq) == squareParity(promoSq) {
		return false
	}
	oppKingSq, _ := pos.Pieces(opp, board.King).PopSquare()
	return board.KingAttackboard(oppKingSq)&board.BitMask(promoSq) != 0
}

func squareParity(sq board.Square) int {
	return (int(sq.File()) + int(sq.Rank())) & 1
}

// isKPvsKDraw detects the two King+pawn-vs-King draws the source hardcodes
// rather than leaving to search: the defending king already in front of a
// rook pawn (a draw regardless of the side to move), and the defending king
// in opposition with the attacker's king trapped behind its own pawn
// (zugzwang). White and Black are mirror images of each other along the
// rank axis, so they are coded as separate blocks rather than unified with
// a sign trick, matching the source's own two-block layout.
func isKPvsKDraw(pos *board.Position, c board.Color) bool {
	if c == board.White {
		return isKPvsKDrawWhite(pos)
	}
	return isKPvsKDrawBlack(pos)
}

func isKPvsKDrawWhite(pos *board.Position) bool {
	if pos.OccupiedBy(board.Black) != pos.Pieces(board.Black, board.King) {
		return false
	}
	if pos.Pieces(board.White, board.Pawn).PopCount() != 1 ||
		pos.OccupiedBy(board.White) != (pos.Pieces(board.White, board.King)|pos.Pieces(board.White, board.Pawn)) {
		return false
	}

	whiteKingSq, _ := pos.Pieces(board.White, board.King).PopSquare()
	blackKingSq, _ := pos.Pieces(board.Black, board.King).PopSquare()
	pawnSq, _ := pos.Pieces(board.White, board.Pawn).PopSquare()
	whiteKing, blackKing, pawn := int(whiteKingSq), int(blackKingSq), int(pawnSq)
	pawnCol := pawnSq.File()

	if pawnCol == board.FileA || pawnCol == board.FileH {
		if blackKingSq.File() == pawnCol && blackKing > pawn {
			return true
		}
		if whiteKingSq.File() == pawnCol {
			if pawnCol == board.FileA && blackKing-whiteKing == 2 {
				return true
			}
			if pawnCol == board.FileH && whiteKing-blackKing == 2 {
				return true
			}
		}
	}

	if blackKing-whiteKing == 16 && blackKingSq.Rank() != board.Rank8 {
		if pawn-whiteKing == 8 {
			return true
		}
		if whiteKing-pawn == 8 && pos.SideToMove() == board.White {
			return true
		}
	}
	return false
}

func isKPvsKDrawBlack(pos *board.Position) bool {
	if pos.OccupiedBy(board.White) != pos.Pieces(board.White, board.King) {
		return false
	}
	if pos.Pieces(board.Black, board.Pawn).PopCount() != 1 ||
		pos.OccupiedBy(board.Black) != (pos.Pieces(board.Black, board.King)|pos.Pieces(board.Black, board.Pawn)) {
		return false
	}

	whiteKingSq, _ := pos.Pieces(board.White, board.King).PopSquare()
	blackKingSq, _ := pos.Pieces(board.Black, board.King).PopSquare()
	pawnSq, _ := pos.Pieces(board.Black, board.Pawn).PopSquare()
	whiteKing, blackKing, pawn := int(whiteKingSq), int(blackKingSq), int(pawnSq)
	pawnCol := pawnSq.File()

	if pawnCol == board.FileA || pawnCol == board.FileH {
		if whiteKingSq.File() == pawnCol && whiteKing < pawn {
			return true
		}
		if blackKingSq.File() == pawnCol {
			if pawnCol == board.FileA && whiteKing-blackKing == 2 {
				return true
			}
			if pawnCol == board.FileH && blackKing-whiteKing == 2 {
				return true
			}
		}
	}

	if blackKing-whiteKing == 16 && whiteKingSq.Rank() != board.Rank1 {
		if blackKing-pawn == 8 {
			return true
		}
		if pawn-blackKing == 8 && pos.SideToMove() == board.Black {
			return true
		}
	}
	return false
}
