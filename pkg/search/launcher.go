// Package search implements the parallel search engine of spec §5:
// iterative-deepening negamax with alpha-beta pruning, a lock-free shared
// transposition table, and a Lazy SMP launcher coordinating multiple
// workers over independently forked boards.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/seekerror/stdlib/pkg/lang"
)

// ErrHalted indicates the search was stopped by its Handle before
// completing a depth.
var ErrHalted = errors.New("search: halted")

// PV is the principal variation reported for one completed depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	var sb strings.Builder
	for i, m := range p.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, sb.String())
}

// Options holds dynamic, per-search parameters (spec §5, §6). Grounded on
// the teacher's searchctl.Options (morlock pkg/search/searchctl/
// launcher.go), including its lang.Optional fields rather than nil-checked
// pointers.
type Options struct {
	// DepthLimit, if set, caps the iterative-deepening loop.
	DepthLimit lang.Optional[int]
	// TimeControl, if set, caps search wall-clock time.
	TimeControl lang.Optional[TimeControl]
	// Workers is the number of Lazy SMP worker goroutines (>=1).
	Workers int
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	parts = append(parts, fmt.Sprintf("workers=%v", o.Workers))
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// Searcher searches the game tree to a fixed depth, honoring quit.
type Searcher interface {
	Search(ctx context.Context, b *board.Board, depth int, quit <-chan struct{}) (uint64, eval.Score, []board.Move, error)
}

// Launcher starts a new search from a position, returning a Handle to stop
// it and a channel of progressively deeper PVs (spec §5).
type Launcher interface {
	Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV)
}

// Handle lets the caller halt a running search and retrieve its best PV so
// far. Halt is idempotent.
type Handle interface {
	Halt() PV
}
