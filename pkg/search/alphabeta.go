package search

import (
	"context"
	"math/rand"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/rules"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// AlphaBeta implements negamax search with alpha-beta pruning (spec §5,
// "Iterative-deepening negamax with alpha-beta pruning"). Pseudo-code:
//
//	function negamax(node, depth, alpha, beta, color) is
//	    if depth = 0 or node is terminal then
//	        return color * evaluate(node)
//	    value := -inf
//	    for each child of node do
//	        value := max(value, -negamax(child, depth-1, -beta, -alpha, -color))
//	        alpha := max(alpha, value)
//	        if alpha >= beta then
//	            break
//	    return value
//
// Grounded on the teacher's alpha-beta searcher (morlock pkg/search/
// alphabeta.go), adapted from morlock's immutable-position PushMove/PopMove
// pattern to this engine's make/unmake protocol, and from 2-D board.Move
// generation to pkg/rules.LegalMoves.
type AlphaBeta struct {
	Eval eval.Evaluator
	TT   TranspositionTable
}

// quit is polled between nodes; when closed, or when ctx is cancelled,
// Search returns ErrHalted.
func (ab AlphaBeta) Search(ctx context.Context, b *board.Board, depth int, quit <-chan struct{}) (uint64, eval.Score, []board.Move, error) {
	ev := ab.Eval
	if ev == nil {
		ev = eval.Material{}
	}
	r := &run{ctx: ctx, eval: ev, tt: ab.TT, quit: quit}

	score, pv := r.search(b, depth, eval.NegInf, eval.Inf)
	if r.halted() {
		return r.nodes, eval.Invalid, nil, ErrHalted
	}
	return r.nodes, score, pv, nil
}

type run struct {
	ctx   context.Context
	eval  eval.Evaluator
	tt    TranspositionTable
	quit  <-chan struct{}
	nodes uint64
}

// halted reports whether the search should stop: either quit was closed by
// its Handle, or the caller's context was cancelled. Grounded on the
// teacher's combined quit/contextx.IsCancelled checks (morlock pkg/search/
// alphabeta.go).
func (r *run) halted() bool {
	return isClosed(r.quit) || contextx.IsCancelled(r.ctx)
}

// search returns the score from the perspective of the side to move at b,
// and the principal variation leading to it.
func (r *run) search(b *board.Board, depth int, alpha, beta eval.Score) (eval.Score, []board.Move) {
	if r.halted() {
		return eval.Invalid, nil
	}

	var best board.Move
	hasBest := false
	if r.tt != nil {
		if bound, d, score, move, ok := r.tt.Read(b.Hash()); ok {
			best, hasBest = move, true
			if d >= depth && bound == ExactBound {
				return score, nil
			}
		}
	}

	legal := rules.LegalMoves(b)
	if len(legal) == 0 {
		if rules.IsInCheck(b, b.Turn()) {
			return -eval.MateIn(0), nil
		}
		return eval.Zero, nil // stalemate
	}

	if depth == 0 {
		r.nodes++
		score := r.perspective(b)
		if r.tt != nil {
			r.tt.Write(b.Hash(), ExactBound, 0, score, board.Move{})
		}
		return score, nil
	}

	r.nodes++
	ordered := NewMoveList(legal, TTFirst(best, hasBest, b))

	bound := UpperBound
	var pv []board.Move
	for {
		m, ok := ordered.Next()
		if !ok {
			break
		}
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		score, rem := r.search(b, depth-1, beta.Negate(), alpha.Negate())
		_ = b.UnmakeMove(m, info)

		if score.IsInvalid() {
			return eval.Invalid, nil // propagate halt
		}
		score = eval.IncrementMateDistance(score.Negate())

		if alpha.Less(score) {
			alpha = score
			pv = append([]board.Move{m}, rem...)
			bound = ExactBound
		}
		if !alpha.Less(beta) {
			bound = LowerBound
			break // beta cutoff
		}
	}

	if r.tt != nil && len(pv) > 0 {
		r.tt.Write(b.Hash(), bound, depth, alpha, pv[0])
	}
	return alpha, pv
}

// searchRootShuffled is search's depth>0 root ply, but with the move order
// randomly shuffled (by rng) instead of TT/MVV-LVA ranked, so that sibling
// Lazy SMP workers diverge at the root and explore different subtrees
// first (spec §5).
func (r *run) searchRootShuffled(b *board.Board, depth int, rng *rand.Rand) (uint64, eval.Score, []board.Move, error) {
	legal := rules.LegalMoves(b)
	if len(legal) == 0 {
		if rules.IsInCheck(b, b.Turn()) {
			return r.nodes, -eval.MateIn(0), nil, nil
		}
		return r.nodes, eval.Zero, nil, nil
	}
	rng.Shuffle(len(legal), func(i, j int) { legal[i], legal[j] = legal[j], legal[i] })

	r.nodes++
	alpha, beta := eval.NegInf, eval.Inf
	bound := UpperBound
	var pv []board.Move

	for _, m := range legal {
		if r.halted() {
			return r.nodes, eval.Invalid, nil, ErrHalted
		}
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		score, rem := r.search(b, depth-1, beta.Negate(), alpha.Negate())
		_ = b.UnmakeMove(m, info)

		if score.IsInvalid() {
			return r.nodes, eval.Invalid, nil, ErrHalted
		}
		score = eval.IncrementMateDistance(score.Negate())

		if alpha.Less(score) {
			alpha = score
			pv = append([]board.Move{m}, rem...)
			bound = ExactBound
		}
		if !alpha.Less(beta) {
			bound = LowerBound
			break
		}
	}

	if r.tt != nil && len(pv) > 0 {
		r.tt.Write(b.Hash(), bound, depth, alpha, pv[0])
	}
	return r.nodes, alpha, pv, nil
}

// perspective evaluates b and flips the sign to the side-to-move's
// viewpoint (negamax convention: White's material score negated for Black).
func (r *run) perspective(b *board.Board) eval.Score {
	s := r.eval.Evaluate(b)
	if b.Turn().Unit() < 0 {
		return s.Negate()
	}
	return s
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
