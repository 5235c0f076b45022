package search

import (
	"container/heap"

	"github.com/herohde/hyperchess/pkg/board"
)

// Priority represents the move order priority: higher is searched first.
type Priority int32

// MoveList is a move priority queue for move ordering, grounded on the
// teacher's container/heap-based list (morlock pkg/search/movelist.go).
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a MoveList over moves, ranked by fn.
func NewMoveList(moves []board.Move, fn func(board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the highest-priority remaining move.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.h.Len() == 0 {
		return board.Move{}, false
	}
	return heap.Pop(&ml.h).(elm).m, true
}

// TTFirst ranks the transposition table's recorded best move first, and
// everything else by the captured piece's kind (higher kinds first, quiet
// moves last); the attacking piece is not considered.
func TTFirst(best board.Move, hasBest bool, b *board.Board) func(board.Move) Priority {
	return func(m board.Move) Priority {
		if hasBest && m.Equals(best) {
			return 1 << 20
		}
		if victim, ok := b.GetPiece(m.To); ok {
			return Priority(victim.Kind) * 10
		}
		return 0
	}
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(elm)) }
func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ret := old[n-1]
	*h = old[:n-1]
	return ret
}
