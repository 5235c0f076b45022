package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable is a lock-free, shared position cache, read and
// written concurrently by every Lazy SMP worker (spec §5, "Shared
// transposition table"). Grounded on the teacher's atomic-CAS table
// (morlock pkg/search/transposition.go), adapted to the board package's
// own Move and zobrist.Hash types.
type TranspositionTable interface {
	Read(hash zobrist.Hash) (Bound, int, eval.Score, board.Move, bool)
	Write(hash zobrist.Hash, bound Bound, depth int, score eval.Score, move board.Move)

	Size() uint64
	Used() float64
}

// entry packs a single slot's worth of node metadata. Pointer-swapped as a
// whole, so a reader never observes a torn write.
type entry struct {
	hash  zobrist.Hash
	score eval.Score
	bound Bound
	depth uint16
	move  board.Move
}

type table struct {
	slots []unsafe.Pointer // *entry
	mask  uint64
	used  int64
}

// NewTranspositionTable allocates a table sized to the largest power of two
// number of entries that fits in `size` bytes, counting a nominal 48 bytes
// per entry. The memory actually used per entry (the slot pointer plus the
// heap-allocated entry, whose Move holds two Coordinates) is larger.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	const entrySize = 48
	n := uint64(1)
	if size >= entrySize {
		n = uint64(1) << (63 - bits.LeadingZeros64(size/entrySize))
	}
	logw.Infof(ctx, "Allocating %vMB transposition table with %v entries", size>>20, n)

	return &table{
		slots: make([]unsafe.Pointer, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots)) * 48
}

func (t *table) Used() float64 {
	return float64(atomic.LoadInt64(&t.used)) / float64(len(t.slots))
}

func (t *table) Read(hash zobrist.Hash) (Bound, int, eval.Score, board.Move, bool) {
	key := uint64(hash) & t.mask
	ptr := (*entry)(atomic.LoadPointer(&t.slots[key]))
	if ptr == nil || ptr.hash != hash {
		return 0, 0, eval.Invalid, board.Move{}, false
	}
	return ptr.bound, int(ptr.depth), ptr.score, ptr.move, true
}

// Write unconditionally replaces the slot's prior occupant (spec §4.5,
// "unconditional replace"), regardless of the existing entry's depth or
// hash.
func (t *table) Write(hash zobrist.Hash, bound Bound, depth int, score eval.Score, move board.Move) {
	key := uint64(hash) & t.mask
	fresh := &entry{hash: hash, score: score, bound: bound, depth: uint16(depth), move: move}

	for {
		old := (*entry)(atomic.LoadPointer(&t.slots[key]))
		if atomic.CompareAndSwapPointer(&t.slots[key], unsafe.Pointer(old), unsafe.Pointer(fresh)) {
			if old == nil {
				atomic.AddInt64(&t.used, 1)
			}
			return
		}
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}
