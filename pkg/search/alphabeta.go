package search

import (
	"context"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
)

// alphaBeta is the fail-soft negamax node function of spec.md §4.9.
func (e *Engine) alphaBeta(ctx context.Context, pos *board.Position, alpha, beta eval.Pawns, depth, ply int, prevMove board.Move, nChecks int, nullExtended bool, nt nodeType) eval.Pawns {
	e.nodes++
	if e.checkTime(ctx) {
		return 0
	}

	// 2. Draw check, ahead of any table probe.
	if pos.HalfmoveClock() >= 100 || pos.Repetitions() >= 2 {
		return drawScore
	}

	origAlpha := alpha
	var ttMove board.Move

	// 3. Transposition probe.
	if entry, ok := e.TT.Probe(pos.Hash()); ok {
		ttMove = entry.Move
		if int(entry.SearchDepth) >= depth && int(entry.Reps) >= pos.Repetitions() {
			switch entry.Bound {
			case ExactBound:
				if ply > 0 {
					return entry.Value
				}
			case LowerBound:
				if entry.Value >= beta {
					return entry.Value
				}
				if entry.Value > alpha {
					alpha = entry.Value
				}
			case UpperBound:
				if entry.Value <= alpha {
					return entry.Value
				}
				if entry.Value < beta {
					beta = entry.Value
				}
			}
		}
	}

	inCheck := pos.IsChecked(pos.SideToMove())

	// 4. Horizon: drop into quiescence.
	if depth <= 0 {
		score := e.quiescence(ctx, pos, alpha, beta, quiesceDepth)
		if e.timeUp {
			return 0
		}
		if _, ok := e.TT.Probe(pos.Hash()); !ok {
			e.TT.Store(e.rootDepth, Entry{
				Hash: pos.Hash(), Reps: uint8(pos.Repetitions()), Value: score,
				GameDepth: uint8(pos.FullmoveCounter()), SearchDepth: 0, Bound: ExactBound, Valid: true,
			})
		}
		return score
	}

	lazy := e.Eval.Lazy(ctx, pos)

	// 5. Futility pruning.
	if depth <= 2 && !inCheck && !prevMove.IsCapture() {
		margin := eval.Pawns(120 * depth)
		if lazy-margin >= beta || lazy+margin <= alpha {
			return e.quiescence(ctx, pos, alpha, beta, quiesceDepth)
		}
	}

	// 6. Null-move pruning.
	if nt != pvNode && depth > nullMoveMinDepth && !inCheck && !eval.IsEndgame(pos) && lazy >= beta {
		r := 2
		if depth > 6 {
			r = 3
		}
		pos.ApplyNull()
		score := -e.alphaBeta(ctx, pos, -beta, -beta+1, depth-1-r, ply+1, board.NullMove, nChecks, nullExtended, opposite(nt))
		pos.UnmakeNull()

		if e.timeUp {
			return 0
		}
		if score >= beta {
			return score
		}
		if score <= mateIn(maxPly-1) && !nullExtended {
			depth++
			nullExtended = true
		}
	}

	// 7. Move loop: TT move, then killers, then the bucketed list.
	bestScore := -mateScore - 1
	var bestMove board.Move
	flag := UpperBound
	searched := 0

	tried := make(map[board.Move]bool, 48)
	tryMove := func(mv board.Move) (eval.Pawns, bool) {
		if mv.IsNull() || tried[mv] {
			return 0, false
		}
		tried[mv] = true

		pos.Apply(mv)
		if pos.IsChecked(mv.Color()) {
			pos.Unmake()
			return 0, false
		}

		gives := pos.IsChecked(pos.SideToMove())
		childDepth := depth - 1
		extend := 0
		if gives && nChecks == 0 {
			extend = 1
		}

		threshold := lmrThresholdCut
		if nt == pvNode {
			threshold = lmrThresholdPV
		}
		score := e.searchChild(ctx, pos, alpha, beta, depth, childDepth+extend, ply, searched, threshold, mv, prevMove, nChecks+extend, nullExtended, nt)

		pos.Unmake()
		searched++
		return score, true
	}

	if score, ok := tryMove(ttMove); ok {
		bestScore, bestMove = score, ttMove
		if score > alpha {
			alpha = score
		}
	}

	if alpha < beta {
		for _, k := range e.killers.Moves(ply) {
			if k.IsNull() || !IsPseudoLegal(pos, k) {
				continue
			}
			if score, ok := tryMove(k); ok {
				if score > bestScore {
					bestScore, bestMove = score, k
				}
				if score > alpha {
					alpha = score
				}
				if alpha >= beta {
					break
				}
			}
		}
	}

	if alpha < beta {
		moves := pos.GenerateMoves(make([]board.Move, 0, 48))
		list := board.NewMoveList()
		list.Load(pos, moves)

		for {
			mv, ok := list.Next()
			if !ok {
				break
			}
			score, applied := tryMove(mv)
			if !applied {
				continue
			}
			if score > bestScore {
				bestScore, bestMove = score, mv
			}
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				if !mv.IsCapture() && !mv.IsCastle() {
					e.killers.Store(ply, mv)
				}
				break
			}
		}
	}

	// 8. Clear killers one ply deeper than this node.
	e.killers.Clear(ply + 1)

	if e.timeUp {
		return 0
	}

	// 9. No child searched successfully.
	if searched == 0 {
		if inCheck {
			return mateIn(ply)
		}
		return drawScore
	}

	if alpha >= beta {
		flag = LowerBound
	} else if bestScore > origAlpha {
		flag = ExactBound
	}

	// 10. Store, unless the result is mate/draw (state-dependent, not reusable).
	if bestScore != drawScore && bestScore > -mateScore+eval.Pawns(maxPly) && bestScore < mateScore-eval.Pawns(maxPly) {
		e.TT.Store(e.rootDepth, Entry{
			Hash: pos.Hash(), Move: bestMove, Reps: uint8(pos.Repetitions()), Value: bestScore,
			GameDepth: uint8(pos.FullmoveCounter()), SearchDepth: uint8(depth), Bound: flag, Valid: true,
		})
	}

	if ply == 0 {
		e.rootMove = bestMove
	}
	return bestScore
}

// searchChild applies late-move reduction once the threshold move count is
// exceeded for quiet, non-check-extended moves (spec.md §4.9 step 7c),
// otherwise recurses at the standard depth with the node-type table of step
// 7d.
func (e *Engine) searchChild(ctx context.Context, pos *board.Position, alpha, beta eval.Pawns, parentDepth, childDepth, ply, moveIndex, lmrThreshold int, mv, prevMove board.Move, nChecks int, nullExtended bool, nt nodeType) eval.Pawns {
	child := childType[nt][boolIndex(moveIndex > 0)]

	if moveIndex >= lmrThreshold && parentDepth > 3 && childDepth == parentDepth-1 && !mv.IsCapture() && !prevMove.IsCapture() {
		reduced := -e.alphaBeta(ctx, pos, -beta, -alpha, childDepth-2, ply+1, mv, nChecks, nullExtended, child)
		if e.timeUp || reduced <= alpha {
			return reduced
		}
		return -e.alphaBeta(ctx, pos, -beta, -alpha, childDepth-1, ply+1, mv, nChecks, nullExtended, child)
	}
	return -e.alphaBeta(ctx, pos, -beta, -alpha, childDepth, ply+1, mv, nChecks, nullExtended, child)
}

func opposite(nt nodeType) nodeType {
	switch nt {
	case cutNode:
		return allNode
	case allNode:
		return cutNode
	default:
		return pvNode
	}
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
