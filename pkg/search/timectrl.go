package search

import (
	"fmt"
	"time"

	"github.com/herohde/hyperchess/pkg/piece"
)

// TimeControl holds each side's remaining clock and the moves-to-go
// assumption used to derive soft/hard per-move budgets, grounded on the
// teacher's TimeControl (morlock pkg/search/searchctl/timectrl.go).
type TimeControl struct {
	White, Black time.Duration
	Moves        int // 0 == rest of game
}

// Limits returns the soft and hard deadlines for a move by the given side.
// After the soft limit, iterative deepening does not start a new depth;
// the hard limit forcibly halts the in-flight search.
func (t TimeControl) Limits(p piece.Player) (soft, hard time.Duration) {
	remainder := t.White
	if p == piece.Black {
		remainder = t.Black
	}

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft = remainder / (2 * moves)
	hard = 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}
