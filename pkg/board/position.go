package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotochess/rotochess/internal/assert"
)

// maxUndoDepth bounds the undo stack, per spec.md §3/§5 ("bounded stack size,
// treat as >= 2048 plies; exceeding it is undefined in the source and should be
// diagnosed"). We diagnose it with an assertion rather than silently growing.
const maxUndoDepth = 2048

// undo is one entry of the make/unmake history, pushed by Apply and popped by
// Unmake. It carries everything Apply mutates that isn't trivially reversible
// from the move bits alone (spec.md §3 "Undo record").
type undo struct {
	move         Move
	hash         ZobristHash
	attackedBy   [NumColors]Bitboard
	castling     Castling
	epSquare     Square
	halfmove     uint8
	repetitions  uint8
	material     [NumColors]int16
}

// Position is the mutable game state: piece-location bitboards, the four
// occupancy views, side to move, castling rights, en-passant square,
// halfmove/fullmove clocks, a repetition counter, a Zobrist hash, and a
// move-history stack for unmake (spec.md §3).
type Position struct {
	zt *ZobristTable

	pieces     [NumColors][NumPieces]Bitboard
	occupiedBy [NumColors]Bitboard
	attackedBy [NumColors]Bitboard

	occupied    Bitboard
	occupiedR90 Bitboard
	occupiedR45 Bitboard
	occupiedR315 Bitboard

	hash ZobristHash

	epSquare Square
	castling Castling
	hasCastled [NumColors]bool

	sideToMove Color

	halfmoveClock   uint8
	fullmoveCounter int
	repetitions     int

	material [NumColors]int16

	history []undo

	attackCache AttackCache
}

// AttackCache memoizes both sides' attacked_by bitboards by position hash
// (spec.md §4.6 step 12), so a position reached a second time through a
// transposing move order can reuse the previous computation instead of
// regenerating from scratch. Position consults it itself inside Apply,
// before doing any of the underlying work, so installing one actually saves
// the computation rather than just recording it afterward.
type AttackCache interface {
	Get(hash ZobristHash) (white, black Bitboard, ok bool)
	Put(hash ZobristHash, white, black Bitboard)
}

// SetAttackCache installs the cache Apply consults before recomputing
// attacked_by from scratch. A nil cache (the zero value) disables
// memoization entirely; Position still works, just without the speedup.
func (p *Position) SetAttackCache(c AttackCache) {
	p.attackCache = c
}

// NewPosition builds the standard starting position.
func NewPosition(zt *ZobristTable) *Position {
	InitAttackTables()
	p := &Position{zt: zt, history: make([]undo, 0, maxUndoDepth)}

	place := func(c Color, k Piece, squares ...Square) {
		for _, sq := range squares {
			p.place(sq, c, k)
		}
	}
	backrank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := ZeroFile; f < NumFiles; f++ {
		place(White, backrank[f], NewSquare(f, Rank1))
		place(White, Pawn, NewSquare(f, Rank2))
		place(Black, Pawn, NewSquare(f, Rank7))
		place(Black, backrank[f], NewSquare(f, Rank8))
	}

	p.castling = FullCastling
	p.sideToMove = White
	p.regenerateAttacks(White)
	p.regenerateAttacks(Black)
	p.hash = zt.Generate(p)
	return p
}

// NewEmptyPosition returns a Position with no pieces placed, for test
// fixtures built up via the *ForSetup methods below and finished with
// FinishSetup. It is never used by the search/protocol core, only by FEN
// decoding tooling.
func NewEmptyPosition(zt *ZobristTable) *Position {
	InitAttackTables()
	return &Position{zt: zt, sideToMove: White, castling: ZeroCastling, history: make([]undo, 0, maxUndoDepth)}
}

// PlaceForSetup places a piece outside of the normal make/unmake flow.
func (p *Position) PlaceForSetup(sq Square, c Color, k Piece) { p.place(sq, c, k) }

func (p *Position) SetSideToMoveForSetup(c Color)        { p.sideToMove = c }
func (p *Position) SetCastlingForSetup(c Castling)       { p.castling = c }
func (p *Position) SetEnPassantForSetup(sq Square)       { p.epSquare = sq }
func (p *Position) SetHalfmoveClockForSetup(n uint8)     { p.halfmoveClock = n }
func (p *Position) SetFullmoveCounterForSetup(n int)     { p.fullmoveCounter = n }

// FinishSetup regenerates attack sets and the Zobrist hash once piece
// placement is complete; callers building a Position via the *ForSetup
// methods must call this before using it.
func (p *Position) FinishSetup() {
	p.regenerateAttacks(White)
	p.regenerateAttacks(Black)
	p.hash = p.zt.Generate(p)
}

func (p *Position) place(sq Square, c Color, k Piece) {
	mask := BitMask(sq)
	p.pieces[c][k] |= mask
	p.occupiedBy[c] |= mask
	p.occupied |= mask
	p.occupiedR90 |= Bitboard(1) << uint(rotIndex90(sq))
	p.occupiedR45 |= Bitboard(1) << uint(rotIndex45(sq))
	p.occupiedR315 |= Bitboard(1) << uint(rotIndex315(sq))
	p.material[c] += materialValue(k)
}

func (p *Position) remove(sq Square, c Color, k Piece) {
	mask := BitMask(sq)
	p.pieces[c][k] &^= mask
	p.occupiedBy[c] &^= mask
	p.occupied &^= mask
	p.occupiedR90 &^= Bitboard(1) << uint(rotIndex90(sq))
	p.occupiedR45 &^= Bitboard(1) << uint(rotIndex45(sq))
	p.occupiedR315 &^= Bitboard(1) << uint(rotIndex315(sq))
	p.material[c] -= materialValue(k)
}

func (p *Position) move(from, to Square, c Color, k Piece) {
	p.remove(from, c, k)
	p.place(to, c, k)
}

// Accessors

func (p *Position) SideToMove() Color       { return p.sideToMove }
func (p *Position) Hash() ZobristHash       { return p.hash }
func (p *Position) Castling() Castling      { return p.castling }
func (p *Position) HasCastled(c Color) bool { return p.hasCastled[c] }
func (p *Position) HalfmoveClock() int      { return int(p.halfmoveClock) }
func (p *Position) FullmoveCounter() int    { return p.fullmoveCounter }
func (p *Position) Repetitions() int        { return p.repetitions }
func (p *Position) Material(c Color) int    { return int(p.material[c]) }
func (p *Position) Occupied() Bitboard      { return p.occupied }
func (p *Position) OccupiedR90() Bitboard   { return p.occupiedR90 }
func (p *Position) OccupiedR45() Bitboard   { return p.occupiedR45 }
func (p *Position) OccupiedR315() Bitboard  { return p.occupiedR315 }
func (p *Position) OccupiedBy(c Color) Bitboard { return p.occupiedBy[c] }
func (p *Position) Pieces(c Color, k Piece) Bitboard { return p.pieces[c][k] }
func (p *Position) AttackedBy(c Color) Bitboard { return p.attackedBy[c] }

// AttackedByBoth returns both sides' attack bitboards, for callers that want
// to memoize them against an external attack-regeneration cache.
func (p *Position) AttackedByBoth() (white, black Bitboard) {
	return p.attackedBy[White], p.attackedBy[Black]
}

// SetAttackedBy overrides both sides' attack bitboards directly, bypassing
// from-scratch regeneration, for callers holding a hash-keyed cache of
// previously computed attack sets. Nothing in this repository calls it: Apply
// consults the cache installed with SetAttackCache itself. The caller is
// responsible for only supplying values that are actually
// correct for the current occupancy.
func (p *Position) SetAttackedBy(white, black Bitboard) {
	p.attackedBy[White] = white
	p.attackedBy[Black] = black
}

// EnPassant returns the ep square and whether one is set (0 means none).
func (p *Position) EnPassant() (Square, bool) {
	return p.epSquare, p.epSquare != ZeroSquare
}

// PieceAt returns the piece occupying sq, if any.
func (p *Position) PieceAt(sq Square) (Color, Piece, bool) {
	mask := BitMask(sq)
	if p.occupied&mask == 0 {
		return 0, 0, false
	}
	c := White
	if p.occupiedBy[Black]&mask != 0 {
		c = Black
	}
	for k := ZeroPiece; k < NumPieces; k++ {
		if p.pieces[c][k]&mask != 0 {
			return c, k, true
		}
	}
	return 0, 0, false
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.occupied&BitMask(sq) == 0
}

// AttacksFrom returns the attack bitboard for a piece of kind k at sq under the
// current occupancy, without filtering friendly pieces (spec.md §4.1).
func (p *Position) AttacksFrom(sq Square, k Piece, c Color) Bitboard {
	switch k {
	case Pawn:
		return PawnAttackboard(c, sq)
	case Knight:
		return KnightAttackboard(sq)
	case Bishop:
		return BishopAttackboard(p.occupiedR45, p.occupiedR315, sq)
	case Rook:
		return RookAttackboard(p.occupied, p.occupiedR90, sq)
	case Queen:
		return RookAttackboard(p.occupied, p.occupiedR90, sq) | BishopAttackboard(p.occupiedR45, p.occupiedR315, sq)
	case King:
		return KingAttackboard(sq)
	default:
		return 0
	}
}

// attackSetForColor computes the union of attack sets emitted by every piece of
// color c under the current occupancy (spec.md invariant 6), from scratch.
func (p *Position) attackSetForColor(c Color) Bitboard {
	var bb Bitboard
	for k := ZeroPiece; k < NumPieces; k++ {
		pieces := p.pieces[c][k]
		for pieces != 0 {
			var sq Square
			sq, pieces = pieces.PopSquare()
			bb |= p.AttacksFrom(sq, k, c)
		}
	}
	return bb
}

// regenerateAttacks recomputes attackedBy[c] from scratch, with no cache
// consultation. Used only before p.hash itself has been (re)established --
// NewPosition and FinishSetup -- since the cache is keyed by hash.
func (p *Position) regenerateAttacks(c Color) {
	p.attackedBy[c] = p.attackSetForColor(c)
}

// regenerateAttacksBoth recomputes both sides' attacked_by, consulting
// p.attackCache (if installed) first and populating it on a miss. Called
// from Apply once p.hash reflects the position after the move, which is
// exactly the key a later transposition into this same position will look
// up.
func (p *Position) regenerateAttacksBoth() {
	if p.attackCache != nil {
		if white, black, ok := p.attackCache.Get(p.hash); ok {
			p.attackedBy[White] = white
			p.attackedBy[Black] = black
			return
		}
	}
	p.attackedBy[White] = p.attackSetForColor(White)
	p.attackedBy[Black] = p.attackSetForColor(Black)
	if p.attackCache != nil {
		p.attackCache.Put(p.hash, p.attackedBy[White], p.attackedBy[Black])
	}
}

// IsAttacked reports whether sq is attacked by color c (not the side occupying
// it -- the caller passes the attacking color).
func (p *Position) IsAttacked(by Color, sq Square) bool {
	return p.attackedBy[by]&BitMask(sq) != 0
}

// IsChecked reports whether c's king is attacked by the opponent.
func (p *Position) IsChecked(c Color) bool {
	kingSq := p.pieces[c][King].LastPopSquare()
	return p.IsAttacked(c.Opponent(), kingSq)
}

func (p *Position) String() string {
	var sb strings.Builder
	for r := int(Rank8); r >= int(Rank1); r-- {
		for f := ZeroFile; f < NumFiles; f++ {
			sq := NewSquare(f, Rank(r))
			if c, k, ok := p.PieceAt(sq); ok {
				sb.WriteString(printPiece(c, k))
			} else {
				sb.WriteRune('-')
			}
		}
		if r != int(Rank1) {
			sb.WriteRune('/')
		}
	}
	ep := "-"
	if sq, ok := p.EnPassant(); ok {
		ep = sq.String()
	}
	return fmt.Sprintf("%v %v %v(%v)", sb.String(), p.sideToMove, p.castling, ep)
}

func printPiece(c Color, p Piece) string {
	if c == White {
		return strings.ToUpper(p.String())
	}
	return p.String()
}

// checkInvariants checks the color boards are disjoint and unite to the
// occupancy, each color's piece boards unite to its color board, each side has
// exactly one king, attackedBy matches a fresh computation, and the hash
// matches a from-scratch generation. It does not check the rotated occupancy
// views or that a color's piece boards are pairwise disjoint, and nothing in
// the repository calls it. It halts via assert.That on failure since a
// violated invariant here means the board state is corrupt.
func (p *Position) checkInvariants(ctx context.Context) {
	assert.That(ctx, p.occupiedBy[White]&p.occupiedBy[Black] == 0, "occupiedBy disjoint")
	assert.That(ctx, p.occupiedBy[White]|p.occupiedBy[Black] == p.occupied, "occupiedBy union == occupied")

	for c := ZeroColor; c < NumColors; c++ {
		var union Bitboard
		for k := ZeroPiece; k < NumPieces; k++ {
			union |= p.pieces[c][k]
		}
		assert.That(ctx, union == p.occupiedBy[c], "piece bitboards union == occupiedBy")
		assert.That(ctx, p.pieces[c][King].PopCount() == 1, "exactly one king")
	}

	assert.That(ctx, p.attackedBy[White] == p.attackSetForColor(White), "attackedBy[white] fresh")
	assert.That(ctx, p.attackedBy[Black] == p.attackSetForColor(Black), "attackedBy[black] fresh")
	assert.That(ctx, p.zt.Generate(p) == p.hash, "zobrist hash matches from-scratch generation")
}

// Apply makes move mv on the position, pushing an undo record. The caller is
// responsible for generating mv against this exact position (src/dest/color/
// piece from the generator) -- Apply trusts the move's flags and does not
// re-derive them (spec.md §4.6).
func (p *Position) Apply(mv Move) {
	assert.That(context.Background(), len(p.history) < maxUndoDepth, "undo stack overflow")

	u := undo{
		move:        mv,
		hash:        p.hash,
		attackedBy:  p.attackedBy,
		castling:    p.castling,
		epSquare:    p.epSquare,
		halfmove:    p.halfmoveClock,
		repetitions: uint8(p.repetitions),
		material:    p.material,
	}
	p.history = append(p.history, u)

	c := mv.Color()
	opp := c.Opponent()
	piece := mv.Piece()
	from, to := mv.Src(), mv.Dest()

	p.hash ^= p.zt.EnPassant(p.epSquare)
	p.hash ^= p.zt.Castle(p.castling)

	// 1. Remove a captured piece (including the en-passant victim) before
	// moving the mover, so a rook capturing on its own vacated square (never
	// happens) or similar adjacency quirks can't double-count bits.
	if mv.IsEnPassant() {
		victimSq := NewSquare(to.File(), from.Rank())
		p.remove(victimSq, opp, Pawn)
		p.hash ^= p.zt.Piece(opp, Pawn, victimSq)
	} else if mv.IsCapture() {
		capt := mv.CapturedPiece()
		p.remove(to, opp, capt)
		p.hash ^= p.zt.Piece(opp, capt, to)
	}

	// 2. Move the piece itself (or place the promoted piece at the
	// destination instead of the pawn).
	p.remove(from, c, piece)
	p.hash ^= p.zt.Piece(c, piece, from)
	if mv.IsPromotion() {
		promo := mv.PromotedPiece()
		p.place(to, c, promo)
		p.hash ^= p.zt.Piece(c, promo, to)
	} else {
		p.place(to, c, piece)
		p.hash ^= p.zt.Piece(c, piece, to)
	}

	// 3. Castling also relocates the rook.
	if mv.IsCastle() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if to.File() == FileG {
			rookFrom, rookTo = NewSquare(FileH, rank), NewSquare(FileF, rank)
		} else {
			rookFrom, rookTo = NewSquare(FileA, rank), NewSquare(FileD, rank)
		}
		p.remove(rookFrom, c, Rook)
		p.place(rookTo, c, Rook)
		p.hash ^= p.zt.Piece(c, Rook, rookFrom)
		p.hash ^= p.zt.Piece(c, Rook, rookTo)
		p.hasCastled[c] = true
	}

	// 4. Update castling rights: king moves clear both of the mover's rights;
	// rook moves (or captures) from a home square clear that one right.
	p.castling &^= castlingLoss(c, piece, from)
	if mv.IsCapture() {
		p.castling &^= castlingLoss(opp, mv.CapturedPiece(), to)
	}

	// 5. New en-passant square: only a pawn double push sets one.
	p.epSquare = ZeroSquare
	if piece == Pawn {
		fromR, toR := int(from.Rank()), int(to.Rank())
		if toR-fromR == 2 || fromR-toR == 2 {
			p.epSquare = NewSquare(from.File(), Rank((fromR+toR)/2))
		}
	}

	// 6. Halfmove clock: reset on pawn move or capture, else increment.
	if piece == Pawn || mv.IsCapture() || mv.IsEnPassant() {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	// 7. Fullmove counter is a monotonically increasing ply count, advanced
	// on every move regardless of color (spec.md §3).
	p.fullmoveCounter++

	// 8. Side to move flips.
	p.sideToMove = opp

	p.hash ^= p.zt.EnPassant(p.epSquare)
	p.hash ^= p.zt.Castle(p.castling)
	p.hash ^= p.zt.Turn(true) // turn token toggles either way: XOR is its own inverse

	// 9. Repetition count: how many times this exact hash has occurred before
	// in the still-live history (a cheap O(history) scan, matching the
	// teacher's node-chain walk in spirit).
	p.repetitions = p.countRepetitions()

	// 10-12. Regenerate both sides' attack sets, consulting the
	// attack-regeneration cache first. A fully incremental update (only
	// touching squares whose line-of-sight changed) is the obvious next
	// optimization but the spec only requires that attackedBy stay correct,
	// not that it be updated the cheapest way.
	p.regenerateAttacksBoth()
}

// ApplyNull makes the null move: side to move flips, the ep square is
// cleared, and the halfmove/fullmove clocks advance as normal, but no piece
// moves and attackedBy is untouched since occupancy didn't change (spec.md
// §4.6 step 2). Used only by null-move pruning.
func (p *Position) ApplyNull() {
	assert.That(context.Background(), len(p.history) < maxUndoDepth, "undo stack overflow")

	u := undo{
		move:        NullMove,
		hash:        p.hash,
		attackedBy:  p.attackedBy,
		castling:    p.castling,
		epSquare:    p.epSquare,
		halfmove:    p.halfmoveClock,
		repetitions: uint8(p.repetitions),
		material:    p.material,
	}
	p.history = append(p.history, u)

	p.hash ^= p.zt.EnPassant(p.epSquare)
	p.epSquare = ZeroSquare
	p.hash ^= p.zt.EnPassant(p.epSquare)
	p.hash ^= p.zt.Turn(true)

	p.fullmoveCounter++
	p.halfmoveClock++
	p.repetitions = 0
	p.sideToMove = p.sideToMove.Opponent()
}

// UnmakeNull reverses the most recent ApplyNull.
func (p *Position) UnmakeNull() {
	n := len(p.history)
	assert.That(context.Background(), n > 0, "unmake-null with empty history")
	u := p.history[n-1]
	p.history = p.history[:n-1]

	p.fullmoveCounter--
	p.hash = u.hash
	p.epSquare = u.epSquare
	p.halfmoveClock = u.halfmove
	p.repetitions = int(u.repetitions)
	p.sideToMove = p.sideToMove.Opponent()
}

// Unmake reverses the most recent Apply. Calling it without a matching Apply
// is a programming error.
func (p *Position) Unmake() {
	n := len(p.history)
	assert.That(context.Background(), n > 0, "unmake with empty history")
	u := p.history[n-1]
	p.history = p.history[:n-1]

	mv := u.move
	c := mv.Color()
	opp := c.Opponent()
	piece := mv.Piece()
	from, to := mv.Src(), mv.Dest()

	if mv.IsCastle() {
		rank := from.Rank()
		var rookFrom, rookTo Square
		if to.File() == FileG {
			rookFrom, rookTo = NewSquare(FileH, rank), NewSquare(FileF, rank)
		} else {
			rookFrom, rookTo = NewSquare(FileA, rank), NewSquare(FileD, rank)
		}
		p.remove(rookTo, c, Rook)
		p.place(rookFrom, c, Rook)
	}

	if mv.IsPromotion() {
		p.remove(to, c, mv.PromotedPiece())
		p.place(from, c, piece)
	} else {
		p.remove(to, c, piece)
		p.place(from, c, piece)
	}

	if mv.IsEnPassant() {
		victimSq := NewSquare(to.File(), from.Rank())
		p.place(victimSq, opp, Pawn)
	} else if mv.IsCapture() {
		p.place(to, opp, mv.CapturedPiece())
	}

	p.hash = u.hash
	p.attackedBy = u.attackedBy
	p.castling = u.castling
	p.epSquare = u.epSquare
	p.halfmoveClock = u.halfmove
	p.repetitions = int(u.repetitions)
	p.material = u.material

	p.fullmoveCounter--
	p.sideToMove = c
}

// countRepetitions scans the live undo stack for prior occurrences of the
// current hash, per spec.md's threefold-repetition bookkeeping.
func (p *Position) countRepetitions() int {
	count := 0
	for i := len(p.history) - 1; i >= 0; i-- {
		if p.history[i].hash == p.hash {
			count++
		}
	}
	return count
}

// castlingLoss returns the castling rights that a move of piece from sq
// revokes: a king move revokes both of that color's rights; a rook move (or
// capture) from its home square revokes the matching single right.
func castlingLoss(c Color, piece Piece, sq Square) Castling {
	homeRank := Rank1
	if c == Black {
		homeRank = Rank8
	}
	if piece == King {
		return Right(c, KingSide) | Right(c, QueenSide)
	}
	if piece == Rook && sq.Rank() == homeRank {
		switch sq.File() {
		case FileA:
			return Right(c, QueenSide)
		case FileH:
			return Right(c, KingSide)
		}
	}
	return ZeroCastling
}

func materialValue(k Piece) int16 {
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
