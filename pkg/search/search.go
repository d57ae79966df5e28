package search

import (
	"context"
	"fmt"
	"time"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

const (
	mateScore    = eval.Pawns(30000)
	drawScore    = eval.Pawns(0)
	minDepth     = 4
	maxDepth     = 63
	quiesceDepth = 8

	aspirationWindow1 = eval.Pawns(25)
	aspirationWindow2 = eval.Pawns(75)

	lmrThresholdPV   = 16
	lmrThresholdCut  = 8
	nullMoveMinDepth = 3
)

// nodeType classifies a node for heuristic thresholds only (spec.md §4.9);
// it never changes correctness.
type nodeType uint8

const (
	pvNode nodeType = iota
	cutNode
	allNode
)

// childType is the lookup table of spec.md §4.9 step 7d.
var childType = map[nodeType][2]nodeType{
	pvNode:  {pvNode, cutNode},
	cutNode: {allNode, cutNode},
	allNode: {cutNode, cutNode},
}

// PV is the principal variation produced by one completed iteration, kept
// under the teacher's naming (search.PV) even though its fields now carry
// this engine's own per-iteration stats rather than the teacher's channel-fed
// equivalent.
type PV struct {
	Move  board.Move
	Score eval.Pawns
	Depth int
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v move=%v", p.Depth, p.Score, p.Nodes, p.Time, p.Move)
}

// Engine bundles the process-lifetime state a search needs: the
// transposition table, the pawn-structure and attack-regeneration caches, and
// the evaluator. One Engine is reused across an entire process's games
// (spec.md §3's "process lifetime, never cleared" caches).
type Engine struct {
	TT      *TranspositionTable
	Attacks *AttackCache
	Eval    eval.Evaluator

	killers    *KillerTable
	nodes      uint64
	timeUp     bool
	deadline   time.Time
	rootDepth  int
	depthLimit lang.Optional[uint]

	// rootMove is set by alphaBeta when it runs the ply-0 node, so the root
	// search shares the exact same TT-move-first, killer, and bucketed
	// move-ordering path every other node uses (spec.md §4.9) instead of a
	// separate unordered loop.
	rootMove board.Move
}

// SetDepthLimit caps iterative deepening at the given ply depth, mirroring
// the teacher's per-search depth override. An unset Optional (the zero
// value) means no limit, the default.
func (e *Engine) SetDepthLimit(limit lang.Optional[uint]) {
	e.depthLimit = limit
}

// NewEngine wires together a fresh transposition table, attack cache, and
// full evaluator sized for a single long-running process.
func NewEngine(ttEntries, attackBuckets, pawnBuckets int) *Engine {
	return &Engine{
		TT:      NewTranspositionTable(ttEntries),
		Attacks: NewAttackCache(attackBuckets),
		Eval:    eval.NewFull(pawnBuckets),
		killers: NewKillerTable(),
	}
}

// Search runs iterative deepening from minDepth up to maxDepth (or until
// budget elapses), returning the last fully completed iteration's PV
// (spec.md §4.9). A partially completed iteration is always discarded.
func (e *Engine) Search(ctx context.Context, pos *board.Position, budget time.Duration) PV {
	e.timeUp = false
	e.deadline = time.Now().Add(budget)
	e.rootDepth = pos.FullmoveCounter()
	pos.SetAttackCache(e.Attacks)

	var best PV
	prevScore := eval.Pawns(0)

	limit := maxDepth
	if v, ok := e.depthLimit.V(); ok && int(v) < limit {
		limit = int(v)
	}

	first := minDepth
	if limit < first {
		first = limit
	}
	for depth := first; depth <= limit; depth++ {
		start := time.Now()
		e.nodes = 0

		move, score, ok := e.searchRoot(ctx, pos, depth, prevScore)
		if !ok {
			break // time expired mid-iteration: discard and keep the prior best.
		}

		best = PV{Move: move, Score: score, Depth: depth, Nodes: e.nodes, Time: time.Since(start)}
		prevScore = score
		logw.Debugf(ctx, "iteration complete: %v", best)

		if e.checkTime(ctx) {
			break
		}
	}
	return best
}

// searchRoot runs the aspiration-window sequence for one iterative-deepening
// depth (spec.md §4.9 "Aspiration sequence at the root").
func (e *Engine) searchRoot(ctx context.Context, pos *board.Position, depth int, prevScore eval.Pawns) (board.Move, eval.Pawns, bool) {
	if depth == minDepth {
		return e.searchRootWindow(ctx, pos, depth, -mateScore, mateScore)
	}

	for _, w := range []eval.Pawns{aspirationWindow1, aspirationWindow2} {
		alpha, beta := prevScore-w, prevScore+w
		move, score, ok := e.searchRootWindow(ctx, pos, depth, alpha, beta)
		if !ok {
			return board.NullMove, 0, false
		}
		if score > alpha && score < beta {
			return move, score, true
		}
	}
	return e.searchRootWindow(ctx, pos, depth, -mateScore, mateScore)
}

// searchRootWindow runs one node of alphaBeta at ply 0, the same TT probe,
// killer-table, and bucketed-MoveList-ordered node function every other ply
// uses; alphaBeta records the move it settled on into e.rootMove since its
// own return value is the score alone.
func (e *Engine) searchRootWindow(ctx context.Context, pos *board.Position, depth int, alpha, beta eval.Pawns) (board.Move, eval.Pawns, bool) {
	if e.checkTime(ctx) {
		return board.NullMove, 0, false
	}

	e.rootMove = board.NullMove
	score := e.alphaBeta(ctx, pos, alpha, beta, depth, 0, board.NullMove, 0, false, pvNode)
	if e.timeUp {
		return board.NullMove, 0, false
	}
	return e.rootMove, score, true
}

// checkTime polls the wall-clock deadline and the caller's context, the only
// cancellation mechanisms in the core (spec.md §5): no channels, no
// goroutines of its own, a single flag checked at node entry and after
// every child.
func (e *Engine) checkTime(ctx context.Context) bool {
	if e.timeUp {
		return true
	}
	if time.Now().After(e.deadline) || contextx.IsCancelled(ctx) {
		e.timeUp = true
	}
	return e.timeUp
}

func mateIn(ply int) eval.Pawns {
	return -(mateScore - eval.Pawns(ply))
}
