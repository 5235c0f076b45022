package geometry_test

import (
	"testing"

	"github.com/herohde/hyperchess/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestRookDirectionCount(t *testing.T) {
	assert.Len(t, geometry.RookDirections(2), 4)
	assert.Len(t, geometry.RookDirections(5), 10)
}

func TestBishopDirectionsForbidOddNonzero(t *testing.T) {
	// 3-D: a bishop direction can never change all three coordinates at
	// once, since 3 is odd (spec §8 boundary behavior).
	for _, v := range geometry.BishopDirections(3) {
		nz := 0
		for _, x := range v {
			if x != 0 {
				nz++
			}
		}
		assert.NotEqual(t, 3, nz)
		assert.True(t, nz == 2)
	}
}

func TestKnightOffsetCount(t *testing.T) {
	// 4*N*(N-1)
	assert.Len(t, geometry.KnightOffsets(2), 8)
	assert.Len(t, geometry.KnightOffsets(5), 4*5*4)
}

func TestKnightOffsetDeltaMultiset(t *testing.T) {
	// 5-D knight: every offset changes exactly two coordinates, with
	// |delta| multiset {1,2} (spec §8 boundary behavior).
	for _, v := range geometry.KnightOffsets(5) {
		var deltas []int
		nz := 0
		for _, x := range v {
			if x != 0 {
				nz++
				if x < 0 {
					x = -x
				}
				deltas = append(deltas, x)
			}
		}
		assert.Equal(t, 2, nz)
		assert.ElementsMatch(t, []int{1, 2}, deltas)
	}
}

func TestKingOffsetCount(t *testing.T) {
	assert.Len(t, geometry.KingOffsets(2), 8)
	assert.Len(t, geometry.KingOffsets(3), 26)
}

func TestPawnCaptureInverseOffsetCount(t *testing.T) {
	// one other axis (of N-1 non-rank axes) x 2 signs
	assert.Len(t, geometry.PawnCaptureInverseOffsets(3, 1), 4)
}

func TestMemoizationIsStable(t *testing.T) {
	a := geometry.KingOffsets(4)
	b := geometry.KingOffsets(4)
	assert.Equal(t, a, b)
}
