package search

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// LazySMP is a Launcher that runs several independent AlphaBeta workers
// concurrently against one shared TranspositionTable, each on its own
// Board.Fork and each shuffling its root move order differently, so they
// explore the tree from different angles and cross-pollinate through the
// table (spec §5, "Lazy SMP"). Worker concurrency is bounded by a weighted
// semaphore, grounded on the teacher's use of golang.org/x/sync/semaphore
// to gate concurrent search access (FrankyGo search/search.go).
type LazySMP struct {
	TT      TranspositionTable
	Eval    eval.Evaluator
	Workers int
}

func (l LazySMP) Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV) {
	workers := l.Workers
	if opt.Workers > 0 {
		workers = opt.Workers
	}
	if workers < 1 {
		workers = 1
	}

	out := make(chan PV, 1)
	h := &smpHandle{quit: make(chan struct{}), init: make(chan struct{})}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		seed := int64(i + 1)
		go func(seed int64) {
			defer wg.Done()
			_ = sem.Acquire(ctx, 1)
			defer sem.Release(1)

			l.runWorker(ctx, seed, b.Fork(), opt, h, out)
		}(seed)
	}

	go func() {
		wg.Wait()
		h.markInitialized()
		close(out)
	}()

	return h, out
}

// runWorker drives one Lazy SMP worker through iterative deepening,
// perturbing move order by `seed` so sibling workers diverge (spec §5).
func (l LazySMP) runWorker(ctx context.Context, seed int64, b *board.Board, opt Options, h *smpHandle, out chan PV) {
	rng := rand.New(rand.NewSource(seed))
	ab := AlphaBeta{Eval: l.Eval, TT: l.TT}

	soft, useSoft := enforceTimeControl(h, opt.TimeControl, b.Turn())
	limit, hasLimit := opt.DepthLimit.V()

	depth := 1
	for !h.done.Load() {
		start := time.Now()

		nodes, score, moves, err := ab.searchShuffled(ctx, b, depth, h.quit, rng)
		if err != nil {
			if err == ErrHalted {
				return
			}
			logw.Errorf(ctx, "Lazy SMP worker %v failed on %v at depth=%v: %v", seed, b, depth, err)
			return
		}

		pv := PV{Depth: depth, Nodes: nodes, Score: score, Moves: moves, Time: time.Since(start)}

		h.mu.Lock()
		// Deeper always wins; on a depth tie -- the common case, since every
		// worker runs the same ladder -- the driver picks the higher score
		// (spec §4.6, "highest returned score across workers").
		better := len(h.pv.Moves) == 0 || h.pv.Depth < pv.Depth ||
			(h.pv.Depth == pv.Depth && h.pv.Score.Less(pv.Score))
		if better {
			h.pv = pv
		}
		h.mu.Unlock()

		if better {
			select {
			case <-out:
			default:
			}
			out <- pv
		}

		h.markInitialized()
		if hasLimit && depth == limit {
			return
		}
		if score.IsMate() {
			return
		}
		if useSoft && soft < time.Since(start) {
			return
		}
		depth++
	}
}

// searchShuffled is AlphaBeta.Search with the root move list given a
// worker-specific random shuffle before descending, the standard Lazy SMP
// technique for making sibling workers explore different subtrees first.
func (ab AlphaBeta) searchShuffled(ctx context.Context, b *board.Board, depth int, quit <-chan struct{}, rng *rand.Rand) (uint64, eval.Score, []board.Move, error) {
	if depth <= 1 || rng == nil {
		return ab.Search(ctx, b, depth, quit)
	}

	ev := ab.Eval
	if ev == nil {
		ev = eval.Material{}
	}
	return (&run{ctx: ctx, eval: ev, tt: ab.TT, quit: quit}).searchRootShuffled(b, depth, rng)
}

type smpHandle struct {
	init, quit        chan struct{}
	initialized, done atomic.Bool

	pv PV
	mu sync.Mutex
}

func (h *smpHandle) Halt() PV {
	<-h.init
	if h.done.CAS(false, true) {
		close(h.quit)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *smpHandle) markInitialized() {
	if h.initialized.CAS(false, true) {
		close(h.init)
	}
}
