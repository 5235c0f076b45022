// Package mcts implements the optional Monte Carlo tree search leaf
// evaluator and root-parallel search mode of spec §5 ("optional MCTS leaf
// evaluator with root parallelization"). No corpus example implements UCT
// search; this package follows AlphaBeta's general shape (Board.Fork per
// worker, shared TranspositionTable for rollout early-termination, a quit
// channel as the stop signal) rather than any specific teacher file -- see
// DESIGN.md.
package mcts

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/rules"
	"github.com/herohde/hyperchess/pkg/search"
)

// defaultExplorationConstant is the standard UCT C = sqrt(2) (spec §4.7
// step 1), used when Tree.Explore is left at its zero value.
const defaultExplorationConstant = math.Sqrt2

// defaultRolloutDepth caps a simulate() playout when Tree.RolloutDepth is
// left at its zero value.
const defaultRolloutDepth = 200

// node is one arena slot. Children are referenced by index into the Tree's
// flat slice, not by pointer, so the whole tree lives in one allocation and
// can be rewound (truncated) by Rewind.
type node struct {
	parent   int // -1 for the root
	children []int
	move     board.Move // move that led from parent to this node
	untried  []board.Move

	visits int
	score  float64 // sum of simulation outcomes, from the node's own side-to-move perspective

	terminal bool
	result   float64 // only meaningful if terminal: 1 win / 0.5 draw / 0 loss, for the side to move at this node
}

// Tree is an arena-indexed game tree for one UCT search.
type Tree struct {
	nodes []node
	root  *board.Board // the position the root node represents
	tt    search.TranspositionTable
	rng   *rand.Rand

	// Explore is the UCT exploration constant C (spec §4.7 step 1).
	// Configurable via config.MCTSConfig.ExplorationConstant; zero means
	// defaultExplorationConstant.
	Explore float64
	// RolloutDepth caps a simulate() playout's ply count before it is
	// scored as a draw. Configurable via config.MCTSConfig.RolloutDepth;
	// zero means defaultRolloutDepth.
	RolloutDepth int
}

// NewTree starts a fresh single-node tree rooted at b. Search drives every
// rollout by applying and unmaking moves directly on b, so b ends each
// iteration (and each Search call) in exactly the position it started in;
// callers running several trees concurrently should still pass a Fork per
// tree so workers don't share one board.
func NewTree(b *board.Board, tt search.TranspositionTable, seed int64) *Tree {
	t := &Tree{root: b, tt: tt, rng: rand.New(rand.NewSource(seed))}
	t.nodes = append(t.nodes, node{parent: -1, untried: rules.LegalMoves(b)})
	return t
}

func (t *Tree) explorationConstant() float64 {
	if t.Explore > 0 {
		return t.Explore
	}
	return defaultExplorationConstant
}

func (t *Tree) rolloutDepth() int {
	if t.RolloutDepth > 0 {
		return t.RolloutDepth
	}
	return defaultRolloutDepth
}

// Rewind truncates the arena back to just the root, discarding all
// exploration, so the same Tree can be searched afresh.
func (t *Tree) Rewind() {
	t.nodes = t.nodes[:1]
	t.nodes[0] = node{parent: -1, untried: rules.LegalMoves(t.root)}
}

// Search runs `iterations` selection/expansion/simulation/backpropagation
// cycles and returns the most-visited root child's move (the standard
// robust-child policy, more stable under noisy rollouts than max-score).
func (t *Tree) Search(ctx context.Context, iterations int, quit <-chan struct{}) board.Move {
	for i := 0; i < iterations; i++ {
		select {
		case <-quit:
			return t.bestMove()
		default:
		}
		t.iterate()
	}
	return t.bestMove()
}

// iterate runs one selection/expansion/simulation/backpropagation cycle
// in place on t.root: every move taken by selection, expansion, and
// rollout is applied directly to the shared board and unmade again before
// returning, rather than operating on a per-iteration Board.Fork (spec §1,
// "in-place rollouts"; §4.7 step 6 and the §9 design note call out
// make/unmake + rewind on one shared mutable board to avoid per-iteration
// clones).
func (t *Tree) iterate() {
	b := t.root
	path := []int{0}
	var moves []board.Move
	var infos []board.UnmakeInfo

	cur := 0
	for {
		n := &t.nodes[cur]
		if n.terminal {
			t.backpropagate(path, n.result)
			unmakeAll(b, moves, infos)
			return
		}
		if len(n.untried) > 0 {
			childIdx, m, info, applied := t.expand(cur, b)
			if applied {
				moves = append(moves, m)
				infos = append(infos, info)
			}
			cur = childIdx
			path = append(path, cur)
			break
		}
		if len(n.children) == 0 {
			break // no legal moves: terminal, but not yet flagged
		}
		childIdx, m, info := t.selectChild(cur, b)
		moves = append(moves, m)
		infos = append(infos, info)
		cur = childIdx
		path = append(path, cur)
	}

	outcome, simMoves, simInfos := t.simulate(b)
	t.backpropagate(path, outcome)

	unmakeAll(b, simMoves, simInfos)
	unmakeAll(b, moves, infos)
}

// unmakeAll reverses moves (and their paired UnmakeInfo) on b in the
// opposite order they were applied.
func unmakeAll(b *board.Board, moves []board.Move, infos []board.UnmakeInfo) {
	for i := len(moves) - 1; i >= 0; i-- {
		_ = b.UnmakeMove(moves[i], infos[i])
	}
}

// expand applies one untried move from n onto b, creating and returning
// the index of the new child node, the move applied, its UnmakeInfo, and
// whether it was actually applied (false if the move was rejected --
// should not happen for a pseudo-legal-filtered move).
func (t *Tree) expand(idx int, b *board.Board) (childIdx int, m board.Move, info board.UnmakeInfo, applied bool) {
	n := &t.nodes[idx]
	i := t.rng.Intn(len(n.untried))
	m = n.untried[i]
	n.untried = append(n.untried[:i], n.untried[i+1:]...)

	info, err := b.ApplyMove(m)
	if err != nil {
		return idx, board.Move{}, board.UnmakeInfo{}, false
	}

	child := node{parent: idx, move: m, untried: rules.LegalMoves(b)}
	if len(child.untried) == 0 {
		child.terminal = true
		if rules.IsInCheck(b, b.Turn()) {
			child.result = 0 // side to move at this node has been checkmated
		} else {
			child.result = 0.5 // stalemate
		}
	}

	childIdx = len(t.nodes)
	t.nodes = append(t.nodes, child)
	t.nodes[idx].children = append(t.nodes[idx].children, childIdx)
	return childIdx, m, info, true
}

// selectChild applies the UCT-maximizing child's move to b and returns its
// index, the move applied, and its UnmakeInfo.
func (t *Tree) selectChild(idx int, b *board.Board) (int, board.Move, board.UnmakeInfo) {
	n := &t.nodes[idx]
	best, bestUCT := n.children[0], math.Inf(-1)
	for _, c := range n.children {
		if uct := t.uct(idx, c); uct > bestUCT {
			best, bestUCT = c, uct
		}
	}
	m := t.nodes[best].move
	info, _ := b.ApplyMove(m)
	return best, m, info
}

func (t *Tree) uct(parent, child int) float64 {
	p, c := &t.nodes[parent], &t.nodes[child]
	if c.visits == 0 {
		return math.Inf(1)
	}
	// c.score is accumulated from the perspective of whoever is to move AT
	// c (backpropagate's alternating convention); parent selects by its own
	// mover's perspective, the complement of the child's.
	exploit := 1 - c.score/float64(c.visits)
	explore := t.explorationConstant() * math.Sqrt(math.Log(float64(p.visits))/float64(c.visits))
	return exploit + explore
}

// simulate plays uniformly random legal moves on b until a terminal
// position or a depth cap, using the shared transposition table (if set)
// to short-circuit a rollout that lands on an already-scored position. It
// returns every move it applied (and the UnmakeInfo needed to reverse
// each) so the caller can restore b afterward.
func (t *Tree) simulate(b *board.Board) (outcome float64, moves []board.Move, infos []board.UnmakeInfo) {
	maxPly := t.rolloutDepth()
	mover := b.Turn()

	for ply := 0; ply < maxPly; ply++ {
		if t.tt != nil {
			if _, _, score, _, ok := t.tt.Read(b.Hash()); ok {
				return scoreToOutcome(score, mover), moves, infos
			}
		}

		legal := rules.LegalMoves(b)
		if len(legal) == 0 {
			if rules.IsInCheck(b, b.Turn()) {
				if b.Turn() == mover {
					return 0, moves, infos
				}
				return 1, moves, infos
			}
			return 0.5, moves, infos
		}

		m := legal[t.rng.Intn(len(legal))]
		info, err := b.ApplyMove(m)
		if err != nil {
			return 0.5, moves, infos
		}
		moves = append(moves, m)
		infos = append(infos, info)
	}
	return 0.5, moves, infos // depth cap: treat as a draw
}

func scoreToOutcome(s eval.Score, mover interface{ Unit() int }) float64 {
	switch {
	case s > 0:
		if mover.Unit() > 0 {
			return 1
		}
		return 0
	case s < 0:
		if mover.Unit() > 0 {
			return 0
		}
		return 1
	default:
		return 0.5
	}
}

func (t *Tree) backpropagate(path []int, outcome float64) {
	flip := outcome
	for i := len(path) - 1; i >= 0; i-- {
		n := &t.nodes[path[i]]
		n.visits++
		n.score += flip
		flip = 1 - flip // alternate perspective moving up the tree
	}
}

func (t *Tree) bestMove() board.Move {
	root := &t.nodes[0]
	best, bestVisits := -1, -1
	for _, c := range root.children {
		if v := t.nodes[c].visits; v > bestVisits {
			best, bestVisits = c, v
		}
	}
	if best == -1 {
		return board.Move{}
	}
	return t.nodes[best].move
}

// RootParallelSearch runs `workers` independent Trees for `iterations` each
// and merges their root-level visit/score sums before picking the most
// visited move overall (spec §5, "root parallelization").
func RootParallelSearch(ctx context.Context, b *board.Board, tt search.TranspositionTable, workers, iterations int, quit <-chan struct{}) board.Move {
	type agg struct {
		move   board.Move
		visits int
		score  float64
	}
	// Keyed by Move.String(): a Move holds Coordinates, which contain a
	// slice and so cannot be used as a map key themselves.
	sums := make(map[string]*agg)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			tree := NewTree(b.Fork(), tt, seed)
			tree.Search(ctx, iterations, quit)

			mu.Lock()
			defer mu.Unlock()
			root := &tree.nodes[0]
			for _, c := range root.children {
				child := tree.nodes[c]
				key := child.move.String()
				a, ok := sums[key]
				if !ok {
					a = &agg{move: child.move}
					sums[key] = a
				}
				a.visits += child.visits
				a.score += child.score
			}
		}(int64(w + 1))
	}
	wg.Wait()

	var best board.Move
	bestVisits := -1
	for _, a := range sums {
		if a.visits > bestVisits {
			best, bestVisits = a.move, a.visits
		}
	}
	return best
}

// LeafEvaluator implements eval.Evaluator as the spec's "MCTS-leaf" leaf
// evaluation mode (§4.6.1): it runs a serial (single-worker, non-root-
// parallel) UCT search from the position for Iterations rollouts, then
// maps the root's win rate w (the probability of a win for the side to
// move, from the accumulated root score/visits) to a centipawn score via
// (w-0.5)*2*20000, sign-flipped for Black to match eval.Score's
// White-relative convention. Wired in by AlphaBeta.Eval whenever
// config.MCTSConfig.UseAsLeafEvaluator is set.
type LeafEvaluator struct {
	TT                  search.TranspositionTable
	Iterations          int
	ExplorationConstant float64
	RolloutDepth        int
	Seed                int64
}

func (e LeafEvaluator) Evaluate(b *board.Board) eval.Score {
	iterations := e.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	// b is left exactly as found: NewTree's rollouts make/unmake every move
	// they try, so no Fork is needed even though Evaluate runs at a leaf
	// inside someone else's in-progress search.
	tree := NewTree(b, e.TT, e.Seed)
	tree.Explore = e.ExplorationConstant
	tree.RolloutDepth = e.RolloutDepth
	tree.Search(context.Background(), iterations, nil)

	root := &tree.nodes[0]
	w := 0.5
	if root.visits > 0 {
		w = root.score / float64(root.visits)
	}

	raw := eval.Score((w - 0.5) * 2 * 20000)
	if b.Turn() == piece.Black {
		return raw.Negate()
	}
	return raw
}
