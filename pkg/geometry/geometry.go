// Package geometry is the "geometry oracle" of spec §4.2: pure, dimension-
// generic enumerations of direction/offset vectors for every piece kind, in
// any number of dimensions N. Results depend only on (kind, N) and are
// memoized at first use per the "Deterministic geometry memoization" design
// note in §9.
package geometry

import (
	"sync"

	"github.com/herohde/hyperchess/pkg/piece"
)

// Vector is a per-axis offset, one entry per dimension.
type Vector []int

var (
	mu    sync.Mutex
	cache = map[cacheKey][]Vector{}
)

type cacheKey struct {
	kind piece.Kind
	n    int
	fwd  int // only used by the pawn inverse-capture cache; zero otherwise
}

func memoize(kind piece.Kind, n int, build func() []Vector) []Vector {
	return memoizeFwd(kind, n, 0, build)
}

func memoizeFwd(kind piece.Kind, n, fwd int, build func() []Vector) []Vector {
	mu.Lock()
	defer mu.Unlock()

	key := cacheKey{kind, n, fwd}
	if v, ok := cache[key]; ok {
		return v
	}
	v := build()
	cache[key] = v
	return v
}

// RookDirections returns the 2N unit vectors with exactly one axis at +-1
// and all others zero.
func RookDirections(n int) []Vector {
	return memoize(piece.Rook, n, func() []Vector {
		var ret []Vector
		for axis := 0; axis < n; axis++ {
			for _, sign := range []int{-1, 1} {
				ret = append(ret, unit(n, axis, sign))
			}
		}
		return ret
	})
}

// BishopDirections returns every vector in {-1,0,+1}^n whose nonzero-count
// is even and >=2 (preserves color-parity in any N, per §4.2's rationale).
func BishopDirections(n int) []Vector {
	return memoize(piece.Bishop, n, func() []Vector {
		var ret []Vector
		enumerateTernary(n, func(v Vector) {
			nz := nonzeroCount(v)
			if nz >= 2 && nz%2 == 0 {
				ret = append(ret, append(Vector(nil), v...))
			}
		})
		return ret
	})
}

// QueenDirections is the union of rook and bishop directions.
func QueenDirections(n int) []Vector {
	return memoize(piece.Queen, n, func() []Vector {
		return append(append([]Vector{}, RookDirections(n)...), BishopDirections(n)...)
	})
}

// KnightOffsets returns, for each ordered pair (i,j) of distinct axes and
// each sign pair (+-2 on i, +-1 on j), one offset: 4*N*(N-1) offsets total.
func KnightOffsets(n int) []Vector {
	return memoize(piece.Knight, n, func() []Vector {
		var ret []Vector
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				for _, si := range []int{-2, 2} {
					for _, sj := range []int{-1, 1} {
						v := make(Vector, n)
						v[i] = si
						v[j] = sj
						ret = append(ret, v)
					}
				}
			}
		}
		return ret
	})
}

// KingOffsets returns every vector in {-1,0,+1}^n except the zero vector:
// 3^n-1 total.
func KingOffsets(n int) []Vector {
	return memoize(piece.King, n, func() []Vector {
		var ret []Vector
		enumerateTernary(n, func(v Vector) {
			if nonzeroCount(v) > 0 {
				ret = append(ret, append(Vector(nil), v...))
			}
		})
		return ret
	})
}

// PawnCaptureInverseOffsets returns the offsets used to query whether a
// pawn of the given mover attacks a square, walked from the defender's
// square with the direction sign inverted: axis 0 (Rank) set to -fwd,
// exactly one other axis c != 0 (File included) at +-1. fwd is +1 for
// White, -1 for Black.
func PawnCaptureInverseOffsets(n int, fwd int) []Vector {
	return memoizeFwd(piece.Pawn, n, fwd, func() []Vector {
		var ret []Vector
		for axis := 1; axis < n; axis++ {
			for _, sign := range []int{-1, 1} {
				v := make(Vector, n)
				v[Rank] = -fwd
				v[axis] = sign
				ret = append(ret, v)
			}
		}
		return ret
	})
}

const Rank = 0

func unit(n, axis, sign int) Vector {
	v := make(Vector, n)
	v[axis] = sign
	return v
}

func nonzeroCount(v Vector) int {
	n := 0
	for _, x := range v {
		if x != 0 {
			n++
		}
	}
	return n
}

// enumerateTernary calls fn with every vector in {-1,0,1}^n, including the
// zero vector; fn must not retain the slice (it is reused between calls).
func enumerateTernary(n int, fn func(Vector)) {
	v := make(Vector, n)
	var rec func(axis int)
	rec = func(axis int) {
		if axis == n {
			fn(v)
			return
		}
		for _, x := range []int{-1, 0, 1} {
			v[axis] = x
			rec(axis + 1)
		}
	}
	rec(0)
}
