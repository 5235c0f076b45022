// Package driver implements the game driver of spec §6: it owns the
// authoritative Board, alternates between the two sides' Strategy
// implementations, and adjudicates the game once a side has no legal
// moves. Grounded on the teacher's engine.Engine (morlock pkg/engine/
// engine.go) -- the mutex-guarded Board shape is the same, adapted
// from FEN-string reset/move parsing (out of scope, spec §1/§6) to this
// engine's Move/Board types directly.
package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/mcts"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/rules"
	"github.com/herohde/hyperchess/pkg/search"
	"github.com/seekerror/logw"
)

// Outcome classifies how a game ended.
type Outcome int

const (
	InProgress Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "in-progress"
	}
}

// Strategy selects the next move for a side to move. A search-backed
// strategy and a human (externally supplied) strategy both implement it.
type Strategy interface {
	SelectMove(ctx context.Context, b *board.Board) (board.Move, error)
}

// SearchStrategy drives a Launcher to a fixed depth (or time budget) and
// plays its principal variation's first move.
type SearchStrategy struct {
	Launcher search.Launcher
	Options  search.Options
}

func (s SearchStrategy) SelectMove(ctx context.Context, b *board.Board) (board.Move, error) {
	handle, out := s.Launcher.Launch(ctx, b.Fork(), s.Options)
	var last search.PV
	for pv := range out {
		last = pv
	}
	handle.Halt()
	if len(last.Moves) == 0 {
		return board.Move{}, fmt.Errorf("driver: search produced no move")
	}
	return last.Moves[0], nil
}

// MCTSStrategy drives mcts.RootParallelSearch instead of the negamax
// Launcher, selected when config.MCTSConfig.Enabled is set (spec
// §4.6.1/§4.7: MCTS is not only a leaf evaluator but an alternate,
// directly selectable search mode with its own root parallelization).
type MCTSStrategy struct {
	TT         search.TranspositionTable
	Workers    int
	Iterations int
}

func (s MCTSStrategy) SelectMove(ctx context.Context, b *board.Board) (board.Move, error) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	m := mcts.RootParallelSearch(ctx, b.Fork(), s.TT, workers, s.Iterations, make(chan struct{}))
	if !m.Equals(board.Move{}) {
		return m, nil
	}
	return board.Move{}, fmt.Errorf("driver: MCTS produced no move")
}

// HumanStrategy is satisfied by any externally driven move source (a UI, a
// CLI prompt, a test fixture); this package only defines the seam.
type HumanStrategy struct {
	Next func(ctx context.Context, b *board.Board) (board.Move, error)
}

func (h HumanStrategy) SelectMove(ctx context.Context, b *board.Board) (board.Move, error) {
	return h.Next(ctx, b)
}

// Driver owns the authoritative Board and the two sides' Strategy, and
// plays moves one at a time via PerformNextMove.
type Driver struct {
	mu   sync.Mutex
	b    *board.Board
	side [piece.NumPlayers]Strategy

	outcome Outcome
}

// New starts a Driver at b with the given per-side strategies.
func New(b *board.Board, white, black Strategy) *Driver {
	return &Driver{b: b, side: [piece.NumPlayers]Strategy{piece.White: white, piece.Black: black}}
}

// Board returns an independent fork of the current position.
func (d *Driver) Board() *board.Board {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.b.Fork()
}

// Outcome reports how the game ended, or InProgress.
func (d *Driver) Outcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

// PerformNextMove asks the side to move's Strategy for a move, validates it
// against the legal move list, applies it, and adjudicates the resulting
// position. Returns the move played and the outcome after it (InProgress if
// the game continues).
func (d *Driver) PerformNextMove(ctx context.Context) (board.Move, Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.outcome != InProgress {
		return board.Move{}, d.outcome, fmt.Errorf("driver: game already over (%v)", d.outcome)
	}

	mover := d.b.Turn()
	strategy := d.side[mover]
	if strategy == nil {
		return board.Move{}, d.outcome, fmt.Errorf("driver: no strategy registered for %v", mover)
	}

	candidate, err := strategy.SelectMove(ctx, d.b.Fork())
	if err != nil {
		return board.Move{}, d.outcome, err
	}

	legal := rules.LegalMoves(d.b)
	played := false
	for _, m := range legal {
		if m.Equals(candidate) {
			if _, err := d.b.ApplyMove(m); err != nil {
				return board.Move{}, d.outcome, err
			}
			played = true
			candidate = m
			break
		}
	}
	if !played {
		return board.Move{}, d.outcome, fmt.Errorf("driver: illegal move %v", candidate)
	}

	logw.Infof(ctx, "Played %v: %v", candidate, d.b)

	if len(rules.LegalMoves(d.b)) == 0 {
		if rules.IsInCheck(d.b, d.b.Turn()) {
			d.outcome = Checkmate
		} else {
			d.outcome = Stalemate
		}
	}
	return candidate, d.outcome, nil
}
