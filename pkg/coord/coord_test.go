package coord_test

import (
	"testing"

	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/stretchr/testify/assert"
)

func TestIndexRoundTrip(t *testing.T) {
	for _, tt := range []struct{ s, n int }{
		{4, 2}, {8, 2}, {8, 3}, {4, 5}, {3, 6},
	} {
		total := coord.NumCells(tt.s, tt.n)
		for idx := 0; idx < total; idx++ {
			c := coord.ToCoordinate(idx, tt.s, tt.n)
			assert.Equal(t, tt.n, c.Dim())
			assert.True(t, c.InBounds(tt.s))
			assert.Equal(t, idx, c.Index(tt.s), "s=%v n=%v idx=%v", tt.s, tt.n, idx)
		}
	}
}

func TestEqual(t *testing.T) {
	a := coord.New(1, 2, 3)
	b := coord.New(1, 2, 3)
	c := coord.New(1, 2, 4)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	a := coord.New(0, 0, 0, 0, 0) // N=5, forces the slice-backed path
	b := a.With(2, 9)

	assert.Equal(t, 0, a.At(2))
	assert.Equal(t, 9, b.At(2))
}

func TestAdd(t *testing.T) {
	a := coord.New(1, 1)
	b := a.Add([]int{2, -1})

	assert.Equal(t, 3, b.At(0))
	assert.Equal(t, 0, b.At(1))
}

func TestInBounds(t *testing.T) {
	assert.True(t, coord.New(0, 7).InBounds(8))
	assert.False(t, coord.New(0, 8).InBounds(8))
	assert.False(t, coord.New(-1, 0).InBounds(8))
}
