package search

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// Iterative is a single-worker iterative-deepening search harness, grounded
// on the teacher's handle/process pattern (morlock pkg/search/iterative.go
// and searchctl/iterative.go), adapted to this engine's Board/Searcher.
type Iterative struct {
	Search Searcher
}

func NewIterative(s Searcher) Launcher {
	return &Iterative{Search: s}
}

func (it *Iterative) Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{init: make(chan struct{}), quit: make(chan struct{})}
	go h.process(ctx, it.Search, b, opt, out)
	return h, out
}

type handle struct {
	init, quit        chan struct{}
	initialized, done atomic.Bool

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, s Searcher, b *board.Board, opt Options, out chan PV) {
	defer h.markInitialized()
	defer close(out)

	soft, useSoft := enforceTimeControl(h, opt.TimeControl, b.Turn())
	limit, hasLimit := opt.DepthLimit.V()

	depth := 1
	for !h.done.Load() {
		start := time.Now()

		nodes, score, moves, err := s.Search(ctx, b, depth, h.quit)
		if err != nil {
			if err == ErrHalted {
				return
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		pv := PV{Depth: depth, Nodes: nodes, Score: score, Moves: moves, Time: time.Since(start)}
		logw.Debugf(ctx, "Searched %v: %v", b, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.markInitialized()
		if hasLimit && depth == limit {
			return
		}
		if score.IsMate() {
			return // a forced mate at full search width is an exact result
		}
		if useSoft && soft < time.Since(start) {
			return
		}
		depth++
	}
}

func (h *handle) Halt() PV {
	<-h.init
	if h.done.CAS(false, true) {
		close(h.quit)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *handle) markInitialized() {
	if h.initialized.CAS(false, true) {
		close(h.init)
	}
}

// enforceTimeControl arms the hard-limit timer (forcing Halt) and returns
// the soft limit the caller should stop issuing new depths after. Grounded
// on the teacher's EnforceTimeControl (morlock pkg/search/searchctl/
// timectrl.go).
func enforceTimeControl(h Handle, tc lang.Optional[TimeControl], turn piece.Player) (soft time.Duration, ok bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}
	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() { h.Halt() })
	return soft, true
}
