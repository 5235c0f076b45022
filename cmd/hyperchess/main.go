// Command hyperchess plays HyperChess, the N-dimensional generalization of
// chess, from the command line (spec §6). Positional arguments, all
// optional: dimension player_mode depth, defaulting to 2, "hc", 4.
// player_mode is "hh" (human/human), "hc" (human/computer) or "cc"
// (computer/computer). Grounded on the teacher's flag-based CLI (morlock
// cmd/morlock/main.go), adapted from its UCI/console protocol switch --
// out of scope here (spec §1/§6) -- to a direct stdin move-entry loop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/config"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/driver"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/mcts"
	"github.com/herohde/hyperchess/pkg/rules"
	"github.com/herohde/hyperchess/pkg/search"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

var (
	configFile = flag.String("config", "", "Path to a TOML configuration file")
	hashSizeMB = flag.Int("hash", 64, "Transposition table size in MB")
	workers    = flag.Int("workers", 1, "Lazy SMP worker count")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: hyperchess [options] [dimension [player_mode [depth]]]

HYPERCHESS generalizes chess to an N-dimensional hypercubic lattice.
player_mode is one of: hh, hc, cc (default hc).
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logw.Exitf(ctx, "Failed to load config: %v", err)
	}

	n, mode, depth := parsePositional(flag.Args(), cfg)

	keys := zobrist.New(1, coord.NumCells(8, n))
	b, err := board.StandardSetup(n, 8, keys)
	if err != nil {
		logw.Exitf(ctx, "Failed to set up board: %v", err)
	}

	tt := search.NewTranspositionTable(ctx, uint64(*hashSizeMB)<<20)

	var leaf eval.Evaluator = eval.Material{}
	if cfg.MCTS.UseAsLeafEvaluator {
		leaf = mcts.LeafEvaluator{
			TT:                  tt,
			Iterations:          cfg.MCTS.Iterations,
			ExplorationConstant: cfg.MCTS.ExplorationConstant,
			RolloutDepth:        cfg.MCTS.RolloutDepth,
			Seed:                1,
		}
	}

	ab := search.AlphaBeta{Eval: leaf, TT: tt}
	var launcher search.Launcher
	if *workers > 1 {
		launcher = search.LazySMP{TT: tt, Eval: leaf, Workers: *workers}
	} else {
		launcher = search.NewIterative(ab)
	}

	opt := search.Options{DepthLimit: lang.Some(depth), Workers: *workers}
	var computer driver.Strategy = driver.SearchStrategy{Launcher: launcher, Options: opt}
	if cfg.MCTS.Enabled {
		computer = driver.MCTSStrategy{TT: tt, Workers: *workers, Iterations: cfg.MCTS.Iterations}
	}
	human := driver.HumanStrategy{Next: readHumanMove}

	var white, black driver.Strategy
	switch mode {
	case "hh":
		white, black = human, human
	case "cc":
		white, black = computer, computer
	default: // "hc"
		white, black = human, computer
	}

	g := driver.New(b, white, black)
	logw.Infof(ctx, "Starting HyperChess %v, %vD, mode=%v, depth=%v", version, n, mode, depth)

	for {
		m, outcome, err := g.PerformNextMove(ctx)
		if err != nil {
			logw.Exitf(ctx, "Move failed: %v", err)
		}
		fmt.Printf("%v\n", m)
		if outcome != driver.InProgress {
			fmt.Printf("Game over: %v\n", outcome)
			return
		}
	}
}

func parsePositional(args []string, cfg config.Config) (dimension int, mode string, depth int) {
	dimension, mode, depth = cfg.Lattice.Dimension, "hc", cfg.Search.MaxDepth
	if len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			dimension = v
		}
	}
	if len(args) > 1 {
		mode = args[1]
	}
	if len(args) > 2 {
		if v, err := strconv.Atoi(args[2]); err == nil {
			depth = v
		}
	}
	return
}

// readHumanMove reads a "from-to" coordinate pair from stdin, e.g.
// "1,4 3,4", and validates it against the current legal move list.
func readHumanMove(ctx context.Context, b *board.Board) (board.Move, error) {
	fmt.Print("move (from to, comma-separated axes)> ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return board.Move{}, err
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return board.Move{}, fmt.Errorf("expected two coordinates, got %q", line)
	}
	from, err := parseCoordinate(fields[0], b.Dim())
	if err != nil {
		return board.Move{}, err
	}
	to, err := parseCoordinate(fields[1], b.Dim())
	if err != nil {
		return board.Move{}, err
	}

	candidate := board.Move{From: from, To: to}
	for _, m := range rules.LegalMoves(b) {
		if m.From.Equal(from) && m.To.Equal(to) {
			return m, nil
		}
	}
	return board.Move{}, fmt.Errorf("illegal move %v", candidate)
}

func parseCoordinate(s string, n int) (coord.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return coord.Coordinate{}, fmt.Errorf("expected %v axes, got %q", n, s)
	}
	values := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return coord.Coordinate{}, fmt.Errorf("invalid axis value %q: %w", p, err)
		}
		values[i] = v
	}
	return coord.New(values...), nil
}
