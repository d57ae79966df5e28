// Package protocol adapts the synchronous search core to the line-oriented
// text protocol of spec.md §6. Core itself never blocks or suspends; only
// the channel-fed Driver built on top of it (grounded on the teacher's
// pkg/engine/console.Driver) is allowed to wait on I/O.
package protocol

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rotochess/rotochess/internal/fen"
	"github.com/rotochess/rotochess/pkg/book"
	"github.com/rotochess/rotochess/pkg/board"
	"github.com/rotochess/rotochess/pkg/search"
	"github.com/seekerror/logw"
)

// moveNumberThreshold is where the time-budget heuristic switches regimes
// (spec.md §6).
const moveNumberThreshold = 20

// Status reports the outcome of check_game_over.
type Status int

const (
	InProgress Status = iota
	Checkmate
	Stalemate
	DrawThreefold
	DrawFifty
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawThreefold:
		return "draw_threefold"
	case DrawFifty:
		return "draw_fifty"
	default:
		return "unknown"
	}
}

// GameStatus is the full result of check_game_over: Status plus, for
// checkmate/stalemate, the color to move in the terminal position.
type GameStatus struct {
	Status Status
	Color  board.Color
}

// Core holds everything the protocol primitives of spec.md §6 need: the live
// Position, the search engine, the opening book, and the clock inputs. It
// exposes synchronous calls only -- new_game, submit_move, request_move,
// set_clock, check_game_over -- and never starts a goroutine of its own.
type Core struct {
	zt     *board.ZobristTable
	pos    *board.Position
	engine *search.Engine
	book   *book.Book
	rng    *rand.Rand

	played []string

	remaining time.Duration
	increment time.Duration
}

// NewCore wires a fresh Core around an already-built Engine and an optional
// Book (nil disables book lookups).
func NewCore(ctx context.Context, zt *board.ZobristTable, engine *search.Engine, bk *book.Book, rng *rand.Rand) *Core {
	c := &Core{zt: zt, engine: engine, book: bk, rng: rng}
	c.NewGame(ctx)
	return c
}

// NewGame discards the current Position and starts a new one at the standard
// starting array.
func (c *Core) NewGame(ctx context.Context) {
	c.pos = board.NewPosition(c.zt)
	c.played = nil
	logw.Infof(ctx, "new game: %v", c.FEN())
}

// Position exposes the live Position for read-only inspection (FEN emission,
// board printing).
func (c *Core) Position() *board.Position { return c.pos }

// SubmitMove parses and legality-checks str; on success it mutates the
// Position and reports applied=true.
func (c *Core) SubmitMove(ctx context.Context, str string) (applied, illegal bool) {
	candidate := board.ParseMove(str)
	if candidate.IsNull() {
		logw.Errorf(ctx, "submit_move: %q does not parse as a move", str)
		return false, true
	}
	for _, mv := range c.pos.LegalMoves() {
		if mv.Src() == candidate.Src() && mv.Dest() == candidate.Dest() &&
			(!candidate.IsPromotion() || (mv.IsPromotion() && mv.PromotedPiece() == candidate.PromotedPiece())) {
			c.pos.Apply(mv)
			c.played = append(c.played, str)
			logw.Infof(ctx, "submit_move: applied %v", str)
			return true, false
		}
	}
	logw.Errorf(ctx, "submit_move: %q is not legal in %v", str, c.FEN())
	return false, true
}

// RequestMove chooses a move -- from the book if it has one to say and that
// move is legal, otherwise from a timed search -- applies it, and returns its
// text form.
func (c *Core) RequestMove(ctx context.Context) string {
	if c.book != nil {
		if suggestion := c.book.Find(ctx, c.played, c.rng); suggestion != "" {
			if mv, ok := book.ValidateAgainstPosition(c.pos, suggestion); ok {
				c.pos.Apply(mv)
				c.played = append(c.played, mv.String())
				logw.Infof(ctx, "request_move: book move %v", mv)
				return mv.String()
			}
		}
	}

	budget := c.computeBudget()
	logw.Infof(ctx, "request_move: search start, budget=%v", budget)
	pv := c.engine.Search(ctx, c.pos, budget)
	logw.Infof(ctx, "request_move: search stop, %v", pv)
	c.pos.Apply(pv.Move)
	c.played = append(c.played, pv.Move.String())
	return pv.Move.String()
}

// SetClock updates the budget inputs consulted by computeBudget.
func (c *Core) SetClock(ctx context.Context, remaining, increment time.Duration) {
	c.remaining = remaining
	c.increment = increment
	logw.Infof(ctx, "set_clock: remaining=%v increment=%v", remaining, increment)
}

// computeBudget implements spec.md §6's time-budget heuristic: past move 20,
// spend (increment + remaining/30) - 1 seconds; before that, remaining/60;
// clamped to at least one second either way.
func (c *Core) computeBudget() time.Duration {
	moveNumber := (c.pos.FullmoveCounter() + 1) / 2

	var secs float64
	if moveNumber > moveNumberThreshold {
		secs = c.increment.Seconds() + c.remaining.Seconds()/30 - 1
	} else {
		secs = c.remaining.Seconds() / 60
	}
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs * float64(time.Second))
}

// CheckGameOver performs exhaustive pseudo-legal generation followed by
// apply/check/unmake for each move: the game is over iff none is legal.
// Checkmate is distinguished from stalemate by whether the side to move is
// in check; threefold and fifty-move draws are reported separately since
// they may need to be claimed rather than being forced.
func (c *Core) CheckGameOver(ctx context.Context) GameStatus {
	side := c.pos.SideToMove()
	status := c.statusOf(side)
	if status.Status != InProgress {
		logw.Infof(ctx, "check_game_over: %v", status)
	}
	return status
}

func (c *Core) statusOf(side board.Color) GameStatus {
	if len(c.pos.LegalMoves()) == 0 {
		if c.pos.IsChecked(side) {
			return GameStatus{Status: Checkmate, Color: side}
		}
		return GameStatus{Status: Stalemate, Color: side}
	}
	if c.pos.Repetitions() >= 2 {
		return GameStatus{Status: DrawThreefold}
	}
	if c.pos.HalfmoveClock() >= 100 {
		return GameStatus{Status: DrawFifty}
	}
	return GameStatus{Status: InProgress}
}

// FEN renders the live Position in Forsyth-Edwards Notation.
func (c *Core) FEN() string { return fen.Encode(c.pos) }

func (g GameStatus) String() string {
	if g.Status == Checkmate || g.Status == Stalemate {
		return fmt.Sprintf("%v(%v)", g.Status, g.Color)
	}
	return g.Status.String()
}
