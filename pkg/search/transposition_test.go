package search_test

import (
	"context"
	"testing"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/search"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTableMiss(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)
	_, _, _, _, ok := tt.Read(zobrist.Hash(1234))
	assert.False(t, ok)
}

func TestTranspositionTableWriteRead(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)

	h := zobrist.Hash(42)
	m := board.Move{From: coord.New(1, 4), To: coord.New(3, 4)}
	tt.Write(h, search.ExactBound, 3, eval.Score(150), m)

	bound, depth, score, move, ok := tt.Read(h)
	require.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 3, depth)
	assert.Equal(t, eval.Score(150), score)
	assert.True(t, move.Equals(m))
}

// TestTranspositionTableUnconditionalReplace checks that a write for an
// unrelated hash landing on the same slot always evicts whatever was there
// before, regardless of relative depth (spec §4.5, "unconditional
// replace").
func TestTranspositionTableUnconditionalReplace(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 64) // smallest: one slot

	h1 := zobrist.Hash(1)
	h2 := zobrist.Hash(2)
	m := board.Move{From: coord.New(0, 0), To: coord.New(1, 0)}

	tt.Write(h1, search.ExactBound, 10, eval.Score(1), m)
	tt.Write(h2, search.ExactBound, 2, eval.Score(2), m)

	_, _, _, _, ok := tt.Read(h1)
	assert.False(t, ok, "h1's entry should be evicted by the later write for h2, even though h1 was deeper")

	_, depth, _, _, ok := tt.Read(h2)
	require.True(t, ok)
	assert.Equal(t, 2, depth)
}

func TestTranspositionTableUsedFraction(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<16)
	assert.Equal(t, float64(0), tt.Used())

	m := board.Move{From: coord.New(0, 0), To: coord.New(1, 0)}
	tt.Write(zobrist.Hash(7), search.ExactBound, 1, eval.Zero, m)
	assert.Greater(t, tt.Used(), float64(0))
}
