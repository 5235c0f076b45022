// Package bitboard implements the dense, tiered cell-index sets used
// throughout the engine (spec §3, §4.1, and the "Dynamic-dimension generic
// code" design note in §9). A Bitboard's encoding is chosen once, from the
// total number of cells on the lattice (S^N), and never changes: Small for
// <=32 cells (one uint32 word), Medium for <=128 cells (a 128-bit pair of
// uint64 words) and Large otherwise (a slice of 64-bit words). All
// operations run in O(word-count), using hardware trailing-zero/popcount
// support via math/bits.
package bitboard

import "math/bits"

// Tier identifies the chosen word-layout for a Bitboard. It is fixed at
// construction time and preserved by every operation -- mixing tiers (e.g.
// Or-ing a Small with a Large) is a programming error and panics.
type Tier uint8

const (
	Small Tier = iota
	Medium
	Large
)

const (
	mediumCells = 128
	smallCells  = 32
)

// Bitboard is a set of cell indices in [0, numCells).
type Bitboard struct {
	tier  Tier
	small uint32
	med   [2]uint64 // med[0] holds bits [0,64), med[1] holds bits [64,128)
	large []uint64
}

// New returns an empty Bitboard sized to hold numCells cell indices, using
// the smallest tier that fits (§4.1).
func New(numCells int) Bitboard {
	switch {
	case numCells <= smallCells:
		return Bitboard{tier: Small}
	case numCells <= mediumCells:
		return Bitboard{tier: Medium}
	default:
		return Bitboard{tier: Large, large: make([]uint64, (numCells+63)/64)}
	}
}

func (b Bitboard) checkTier(o Bitboard) {
	if b.tier != o.tier {
		panic("bitboard: mismatched size tier")
	}
}

// Set returns a copy of b with idx added to the set.
func (b Bitboard) Set(idx int) Bitboard {
	switch b.tier {
	case Small:
		b.small |= 1 << uint(idx)
	case Medium:
		b.med[idx/64] |= 1 << uint(idx%64)
	default:
		ret := append([]uint64(nil), b.large...)
		ret[idx/64] |= 1 << uint(idx%64)
		b.large = ret
	}
	return b
}

// Clear returns a copy of b with idx removed from the set.
func (b Bitboard) Clear(idx int) Bitboard {
	switch b.tier {
	case Small:
		b.small &^= 1 << uint(idx)
	case Medium:
		b.med[idx/64] &^= 1 << uint(idx%64)
	default:
		ret := append([]uint64(nil), b.large...)
		ret[idx/64] &^= 1 << uint(idx%64)
		b.large = ret
	}
	return b
}

// Test reports whether idx is a member of the set.
func (b Bitboard) Test(idx int) bool {
	switch b.tier {
	case Small:
		return b.small&(1<<uint(idx)) != 0
	case Medium:
		return b.med[idx/64]&(1<<uint(idx%64)) != 0
	default:
		return b.large[idx/64]&(1<<uint(idx%64)) != 0
	}
}

// PopCount returns the number of members in the set.
func (b Bitboard) PopCount() int {
	switch b.tier {
	case Small:
		return bits.OnesCount32(b.small)
	case Medium:
		return bits.OnesCount64(b.med[0]) + bits.OnesCount64(b.med[1])
	default:
		n := 0
		for _, w := range b.large {
			n += bits.OnesCount64(w)
		}
		return n
	}
}

// IsEmpty reports whether the set has no members.
func (b Bitboard) IsEmpty() bool {
	return b.PopCount() == 0
}

// OrWith returns the elementwise union of b and o. Preserves the size tier;
// panics if o has a different tier (a programming error, per §4.1).
func (b Bitboard) OrWith(o Bitboard) Bitboard {
	b.checkTier(o)
	switch b.tier {
	case Small:
		b.small |= o.small
	case Medium:
		b.med[0] |= o.med[0]
		b.med[1] |= o.med[1]
	default:
		ret := append([]uint64(nil), b.large...)
		for i, w := range o.large {
			ret[i] |= w
		}
		b.large = ret
	}
	return b
}

// Iter returns the ascending, lazily-produced sequence of set indices as a
// func that yields the next index and true, or (_, false) once exhausted.
// Uses hardware trailing-zero count to skip directly to each set bit.
func (b Bitboard) Iter() func() (int, bool) {
	switch b.tier {
	case Small:
		rem := b.small
		return func() (int, bool) {
			if rem == 0 {
				return 0, false
			}
			i := bits.TrailingZeros32(rem)
			rem &^= 1 << uint(i)
			return i, true
		}
	case Medium:
		rem := b.med
		word := 0
		return func() (int, bool) {
			for word < 2 && rem[word] == 0 {
				word++
			}
			if word == 2 {
				return 0, false
			}
			i := bits.TrailingZeros64(rem[word])
			rem[word] &^= 1 << uint(i)
			return word*64 + i, true
		}
	default:
		rem := append([]uint64(nil), b.large...)
		word := 0
		return func() (int, bool) {
			for word < len(rem) && rem[word] == 0 {
				word++
			}
			if word == len(rem) {
				return 0, false
			}
			i := bits.TrailingZeros64(rem[word])
			rem[word] &^= 1 << uint(i)
			return word*64 + i, true
		}
	}
}

// Indices materializes Iter into a slice, for callers that want a plain
// ascending list of set indices.
func (b Bitboard) Indices() []int {
	var ret []int
	next := b.Iter()
	for {
		i, ok := next()
		if !ok {
			return ret
		}
		ret = append(ret, i)
	}
}
