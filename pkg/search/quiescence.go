package search

import (
	"context"

	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/eval"
)

// qLazyMargin gates the stand-pat score behind the material-only Lazy
// evaluator before paying for the full evaluator, the same lazy-eval
// discipline alphabeta.go's futility pruning applies (spec.md §4.10
// "computes a stand-pat score via eval (lazy-gated)").
const qLazyMargin = eval.Pawns(120)

// quiescence is the captures-only negamax of spec.md §4.10: fail-soft with a
// stand-pat cutoff, never probing or writing the transposition table.
func (e *Engine) quiescence(ctx context.Context, pos *board.Position, alpha, beta eval.Pawns, depth int) eval.Pawns {
	e.nodes++
	if e.checkTime(ctx) {
		return 0
	}

	inCheck := pos.IsChecked(pos.SideToMove())

	var standPat eval.Pawns
	if inCheck {
		standPat = e.Eval.Evaluate(ctx, pos)
	} else {
		lazy := e.Eval.Lazy(ctx, pos)
		if lazy-qLazyMargin >= beta {
			standPat = lazy
		} else {
			standPat = e.Eval.Evaluate(ctx, pos)
		}
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if depth <= 0 && !inCheck {
		return standPat
	}

	captures := pos.GenerateCaptures(make([]board.Move, 0, 24), inCheck)
	list := board.NewMoveList()
	list.Load(pos, captures)

	best := standPat
	searched := 0

	for {
		mv, ok := list.Next()
		if !ok {
			break
		}
		pos.Apply(mv)
		if pos.IsChecked(mv.Color()) {
			pos.Unmake()
			continue
		}
		searched++
		score := -e.quiescence(ctx, pos, -beta, -alpha, depth-1)
		pos.Unmake()

		if e.timeUp {
			return 0
		}
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	if searched == 0 && inCheck {
		return mateIn(0)
	}
	return best
}
