package bitboard_test

import (
	"testing"

	"github.com/herohde/hyperchess/pkg/bitboard"
	"github.com/stretchr/testify/assert"
)

func TestSetThenClearRestoresEmpty(t *testing.T) {
	assert.Equal(t, bitboard.New(16).Indices(), bitboard.New(16).Set(0).Clear(0).Indices())
}

func TestSetClearTest(t *testing.T) {
	for _, n := range []int{16, 128, 1000} {
		b := bitboard.New(n)
		assert.False(t, b.Test(5))

		b = b.Set(5)
		assert.True(t, b.Test(5))
		assert.Equal(t, 1, b.PopCount())

		b = b.Clear(5)
		assert.False(t, b.Test(5))
		assert.True(t, b.IsEmpty())
	}
}

func TestIterAscending(t *testing.T) {
	for _, n := range []int{32, 128, 500} {
		b := bitboard.New(n)
		b = b.Set(3).Set(70 % n).Set(n - 1)

		var got []int
		next := b.Iter()
		for {
			i, ok := next()
			if !ok {
				break
			}
			got = append(got, i)
		}
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i])
		}
	}
}

func TestOrWithPreservesTier(t *testing.T) {
	a := bitboard.New(200).Set(1)
	b := bitboard.New(200).Set(2)

	or := a.OrWith(b)
	assert.True(t, or.Test(1))
	assert.True(t, or.Test(2))
}

func TestOrWithMismatchedTierPanics(t *testing.T) {
	a := bitboard.New(16)
	b := bitboard.New(500)

	assert.Panics(t, func() {
		a.OrWith(b)
	})
}
