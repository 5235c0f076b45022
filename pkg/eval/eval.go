// Package eval implements static position evaluation. A Score is always
// expressed from White's perspective; the search package negates it per
// side to move (negamax convention), grounded on the teacher's eval.Score
// (morlock pkg/eval/score.go).
package eval

import (
	"fmt"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/piece"
)

// Score is a signed centipawn value, positive favors White. Mate scores are
// encoded far outside any realistic material sum so they always compare
// above/below them.
type Score int32

const (
	Zero     Score = 0
	Mate     Score = 1_000_000
	Inf      Score = Mate + 1_000
	NegInf         = -Inf
	Invalid  Score = NegInf - 1
)

func (s Score) Negate() Score { return -s }

func (s Score) Less(o Score) bool { return s < o }

func (s Score) IsInvalid() bool { return s == Invalid }

// IsMate reports whether s represents a forced mate (for either side).
func (s Score) IsMate() bool {
	return s > Mate-10000 || s < -Mate+10000
}

func (s Score) String() string {
	if s.IsMate() {
		return fmt.Sprintf("mate(%v)", s)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// MateIn encodes a forced mate found `ply` plies from the current node, from
// the perspective of the side to move at that node (always a winning score).
func MateIn(ply int) Score {
	return Mate - Score(ply)
}

// IncrementMateDistance adjusts a mate score by one ply as it propagates up
// the tree, so shorter mates are preferred over longer ones.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > Mate-10000:
		return s - 1
	case s < -Mate+10000:
		return s + 1
	default:
		return s
	}
}

// Value is the canonical material weight of a piece kind, in centipawns.
func Value(k piece.Kind) Score {
	switch k {
	case piece.Pawn:
		return 100
	case piece.Knight:
		return 320
	case piece.Bishop:
		return 330
	case piece.Rook:
		return 500
	case piece.Queen:
		return 900
	case piece.King:
		return 20000
	default:
		return 0
	}
}

// Evaluator scores a position from White's perspective.
type Evaluator interface {
	Evaluate(b *board.Board) Score
}

// Material is the simplest Evaluator: the sum of White's piece values minus
// Black's, with no positional terms. Generalizes unchanged to any (N, S),
// since it only depends on piece kind and owner, never coordinates.
type Material struct{}

func (Material) Evaluate(b *board.Board) Score {
	var sum Score
	n, s := b.Dim(), b.Side()
	for idx := 0; idx < coord.NumCells(s, n); idx++ {
		p, ok := b.GetPieceAt(idx)
		if !ok {
			continue
		}
		v := Value(p.Kind)
		if p.Player == piece.Black {
			v = -v
		}
		sum += v
	}
	return sum
}
