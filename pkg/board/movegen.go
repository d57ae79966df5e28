package board

// This file generates pseudo-legal moves (spec.md §4.4): every move obeys
// piece-movement rules and does not land on a friendly-occupied square, but
// may leave the mover's own king in check. Callers (search, perft) filter
// illegal moves by applying the move and checking IsChecked for the side that
// just moved -- the same two-phase split the teacher's movegen.go uses.

// GenerateMoves appends every pseudo-legal move for the side to move to dst
// and returns the extended slice.
func (p *Position) GenerateMoves(dst []Move) []Move {
	c := p.sideToMove
	dst = p.generatePawnMoves(dst, c, false)
	dst = p.generatePieceMoves(dst, c, Knight)
	dst = p.generatePieceMoves(dst, c, Bishop)
	dst = p.generatePieceMoves(dst, c, Rook)
	dst = p.generatePieceMoves(dst, c, Queen)
	dst = p.generateKingMoves(dst, c)
	return dst
}

// GenerateCaptures appends pseudo-legal captures, en-passant captures, and
// promotions (including quiet promoting pushes) for the side to move -- the
// move set used by quiescence search (spec.md §4.10). When inCheck is true it
// instead falls back to the full pseudo-legal move set, since standing pat
// while in check is unsound and bistromath's quiescent.c widens the net to
// every evasion in that case.
func (p *Position) GenerateCaptures(dst []Move, inCheck bool) []Move {
	if inCheck {
		return p.GenerateMoves(dst)
	}
	c := p.sideToMove
	dst = p.generatePawnMoves(dst, c, true)
	dst = p.generatePieceCaptures(dst, c, Knight)
	dst = p.generatePieceCaptures(dst, c, Bishop)
	dst = p.generatePieceCaptures(dst, c, Rook)
	dst = p.generatePieceCaptures(dst, c, Queen)
	dst = p.generateKingCaptures(dst, c)
	return dst
}

func (p *Position) generatePawnMoves(dst []Move, c Color, capturesOnly bool) []Move {
	pawns := p.pieces[c][Pawn]
	opp := c.Opponent()
	promoRank := Rank8
	startRank := Rank2
	if c == Black {
		promoRank = Rank1
		startRank = Rank7
	}

	for bb := pawns; bb != 0; {
		var from Square
		from, bb = bb.PopSquare()

		if !capturesOnly {
			push := PawnPushboard(c, from)
			if push&p.occupied == 0 {
				dst = p.appendPawnAdvance(dst, from, push.LastPopSquare(), c, promoRank)

				if from.Rank() == startRank {
					doublePush := pawnDoublePushTarget(c, from)
					if BitMask(doublePush)&p.occupied == 0 {
						dst = append(dst, NewMove(from, doublePush, c, Pawn))
					}
				}
			}
		} else if from.Rank() == relativeRank(c, Rank7) {
			// A quiet promoting push is still worth searching in quiescence
			// (spec.md §4.10): material can swing a full queen on the very
			// next ply even with no capture involved.
			push := PawnPushboard(c, from)
			if push&p.occupied == 0 {
				dst = p.appendPawnAdvance(dst, from, push.LastPopSquare(), c, promoRank)
			}
		}

		targets := PawnAttackboard(c, from) & p.occupiedBy[opp]
		for targets != 0 {
			var to Square
			to, targets = targets.PopSquare()
			_, capt, _ := p.PieceAt(to)
			dst = p.appendPawnCapture(dst, from, to, c, capt, promoRank)
		}

		if ep, ok := p.EnPassant(); ok {
			if PawnAttackboard(c, from)&BitMask(ep) != 0 {
				dst = append(dst, NewMove(from, ep, c, Pawn).WithEnPassant().WithCapture(Pawn))
			}
		}
	}
	return dst
}

func (p *Position) appendPawnAdvance(dst []Move, from, to Square, c Color, promoRank Rank) []Move {
	if to.Rank() == promoRank {
		for _, promo := range []Piece{Queen, Rook, Bishop, Knight} {
			dst = append(dst, NewMove(from, to, c, Pawn).WithPromotion(promo))
		}
		return dst
	}
	return append(dst, NewMove(from, to, c, Pawn))
}

func (p *Position) appendPawnCapture(dst []Move, from, to Square, c Color, capt Piece, promoRank Rank) []Move {
	base := NewMove(from, to, c, Pawn).WithCapture(capt)
	if to.Rank() == promoRank {
		for _, promo := range []Piece{Queen, Rook, Bishop, Knight} {
			dst = append(dst, base.WithPromotion(promo))
		}
		return dst
	}
	return append(dst, base)
}

func relativeRank(c Color, r Rank) Rank {
	if c == White {
		return r
	}
	return Rank(7 - int(r))
}

func pawnDoublePushTarget(c Color, from Square) Square {
	if c == White {
		return NewSquare(from.File(), from.Rank()+2)
	}
	return NewSquare(from.File(), from.Rank()-2)
}

func (p *Position) generatePieceMoves(dst []Move, c Color, k Piece) []Move {
	opp := c.Opponent()
	for bb := p.pieces[c][k]; bb != 0; {
		var from Square
		from, bb = bb.PopSquare()
		targets := p.AttacksFrom(from, k, c) &^ p.occupiedBy[c]
		if k == King {
			// spec.md §4.4: king moves exclude attacked squares at generation
			// time rather than relying solely on the post-hoc IsLegal filter.
			targets &^= p.attackedBy[opp]
		}
		for targets != 0 {
			var to Square
			to, targets = targets.PopSquare()
			mv := NewMove(from, to, c, k)
			if p.occupiedBy[opp]&BitMask(to) != 0 {
				_, capt, _ := p.PieceAt(to)
				mv = mv.WithCapture(capt)
			}
			dst = append(dst, mv)
		}
	}
	return dst
}

func (p *Position) generatePieceCaptures(dst []Move, c Color, k Piece) []Move {
	opp := c.Opponent()
	for bb := p.pieces[c][k]; bb != 0; {
		var from Square
		from, bb = bb.PopSquare()
		targets := p.AttacksFrom(from, k, c) & p.occupiedBy[opp]
		if k == King {
			targets &^= p.attackedBy[opp]
		}
		for targets != 0 {
			var to Square
			to, targets = targets.PopSquare()
			_, capt, _ := p.PieceAt(to)
			dst = append(dst, NewMove(from, to, c, k).WithCapture(capt))
		}
	}
	return dst
}

func (p *Position) generateKingMoves(dst []Move, c Color) []Move {
	dst = p.generatePieceMoves(dst, c, King)
	return p.generateCastles(dst, c)
}

func (p *Position) generateKingCaptures(dst []Move, c Color) []Move {
	return p.generatePieceCaptures(dst, c, King)
}

// generateCastles appends pseudo-legal castling moves: both the king's and
// rook's home squares must still hold them, the squares between must be
// empty, and the king may not start, pass through, or land on an attacked
// square (spec.md §4.4's "suicide-king" style filter applied inline, since
// castling legality can't be deferred to the generic post-hoc king-safety
// check the other move kinds use).
func (p *Position) generateCastles(dst []Move, c Color) []Move {
	if p.IsChecked(c) {
		return dst
	}
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	kingSq := NewSquare(FileE, rank)
	if p.pieces[c][King]&BitMask(kingSq) == 0 {
		return dst
	}
	opp := c.Opponent()

	if p.castling.IsAllowed(Right(c, KingSide)) {
		f, g, h := NewSquare(FileF, rank), NewSquare(FileG, rank), NewSquare(FileH, rank)
		if p.pieces[c][Rook]&BitMask(h) != 0 &&
			p.IsEmpty(f) && p.IsEmpty(g) &&
			!p.IsAttacked(opp, f) && !p.IsAttacked(opp, g) {
			dst = append(dst, NewMove(kingSq, g, c, King).WithCastle())
		}
	}
	if p.castling.IsAllowed(Right(c, QueenSide)) {
		d, cSq, b, a := NewSquare(FileD, rank), NewSquare(FileC, rank), NewSquare(FileB, rank), NewSquare(FileA, rank)
		if p.pieces[c][Rook]&BitMask(a) != 0 &&
			p.IsEmpty(d) && p.IsEmpty(cSq) && p.IsEmpty(b) &&
			!p.IsAttacked(opp, d) && !p.IsAttacked(opp, cSq) {
			dst = append(dst, NewMove(kingSq, cSq, c, King).WithCastle())
		}
	}
	return dst
}

// IsLegal applies mv and checks the mover's own king is safe, then unmakes --
// the standard pseudo-legal-then-filter approach (spec.md §4.4's note that
// legality is not checked at generation time).
func (p *Position) IsLegal(mv Move) bool {
	c := mv.Color()
	p.Apply(mv)
	legal := !p.IsChecked(c)
	p.Unmake()
	return legal
}

// LegalMoves returns only the moves of GenerateMoves that don't leave the
// mover's own king in check.
func (p *Position) LegalMoves() []Move {
	pseudo := p.GenerateMoves(make([]Move, 0, 48))
	legal := pseudo[:0:0]
	for _, mv := range pseudo {
		if p.IsLegal(mv) {
			legal = append(legal, mv)
		}
	}
	return legal
}
