package search

import "github.com/rotochess/rotochess/pkg/board"

// killerSlots is how many killer moves are remembered per ply (spec.md §4.9,
// "K (typ. 3)").
const killerSlots = 3

// maxPly bounds the killer table and the per-ply bookkeeping the node
// function needs; a search ceiling of 63 plus headroom for check extensions
// and null-move lines comfortably fits under it.
const maxPly = 128

// KillerTable stores, per ply, a small fixed set of quiet moves that recently
// produced a beta cutoff -- tried early on sibling nodes at the same ply
// since a move that refutes one line often refutes another.
type KillerTable struct {
	moves [maxPly][killerSlots]board.Move
}

// NewKillerTable returns an empty table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Moves returns the killer moves stored at ply.
func (k *KillerTable) Moves(ply int) [killerSlots]board.Move {
	return k.moves[ply]
}

// Store inserts mv as a killer at ply: into the first empty slot, or
// replacing the last slot if all are full.
func (k *KillerTable) Store(ply int, mv board.Move) {
	slots := &k.moves[ply]
	for i := range slots {
		if slots[i].IsNull() {
			slots[i] = mv
			return
		}
		if slots[i].Equals(mv) {
			return
		}
	}
	slots[killerSlots-1] = mv
}

// Clear empties the killer slots at ply (spec.md §4.9 step 8: the node
// function clears ply+1 after its move loop, since killers from an
// abandoned deeper line shouldn't leak into a sibling branch).
func (k *KillerTable) Clear(ply int) {
	if ply >= 0 && ply < maxPly {
		k.moves[ply] = [killerSlots]board.Move{}
	}
}

// IsPseudoLegal verifies a killer move is still playable in pos: the
// recorded moving piece must still occupy the source square, the destination
// must be empty (killers are quiet, non-castle moves by construction), and
// for sliding pieces the path between must be clear.
func IsPseudoLegal(pos *board.Position, mv board.Move) bool {
	if mv.IsNull() {
		return false
	}
	c, piece, ok := pos.PieceAt(mv.Src())
	if !ok || c != pos.SideToMove() || piece != mv.Piece() {
		return false
	}
	if !pos.IsEmpty(mv.Dest()) {
		return false
	}
	if piece == board.Pawn {
		return board.PawnPushboard(c, mv.Src())&board.BitMask(mv.Dest()) != 0
	}
	return pos.AttacksFrom(mv.Src(), piece, c)&board.BitMask(mv.Dest()) != 0
}
