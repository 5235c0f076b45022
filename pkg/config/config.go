// Package config holds the engine's tunable parameters: lattice shape,
// search depth/time budget, transposition table size, worker count and the
// optional MCTS leaf-evaluator settings (spec §5, §6). Grounded on the
// teacher corpus's BurntSushi/toml-based configuration loader (FrankyGo
// internal/config/config.go); morlock itself has no file-based config, so
// this package follows FrankyGo's TOML convention instead.
package config

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
)

// Config is the full set of engine parameters, loadable from a TOML file
// and falling back to Defaults for anything the file omits.
type Config struct {
	Lattice LatticeConfig
	Search  SearchConfig
	MCTS    MCTSConfig
}

// LatticeConfig fixes the board's dimension N and side length S for a run;
// both are immutable for the lifetime of the engine (spec §3).
type LatticeConfig struct {
	Dimension int `toml:"dimension"`
	Side      int `toml:"side"`
}

// SearchConfig tunes the negamax/Lazy SMP engine.
type SearchConfig struct {
	MaxDepth   int `toml:"max_depth"`
	HashSizeMB int `toml:"hash_size_mb"`
	Workers    int `toml:"workers"`
	SoftTimeMS int `toml:"soft_time_ms"` // 0 == no time control, use MaxDepth only
}

// MCTSConfig tunes the optional Monte Carlo tree search mode (spec
// §4.6.1/§4.7): either a selectable alternate search strategy in its own
// right (Enabled), or a per-leaf evaluator consulted by the negamax engine
// (UseAsLeafEvaluator).
type MCTSConfig struct {
	Enabled             bool    `toml:"enabled"`
	Iterations          int     `toml:"iterations"`
	Workers             int     `toml:"workers"`
	ExplorationConstant float64 `toml:"exploration_constant"`
	RolloutDepth        int     `toml:"rollout_depth"`
	UseAsLeafEvaluator  bool    `toml:"use_as_leaf_evaluator"`
}

// Defaults mirrors the CLI defaults of spec §6: 2 dimensions, side 8, depth
// 4, a single worker, no MCTS.
func Defaults() Config {
	return Config{
		Lattice: LatticeConfig{Dimension: 2, Side: 8},
		Search:  SearchConfig{MaxDepth: 4, HashSizeMB: 64, Workers: 1},
		MCTS: MCTSConfig{
			Enabled:             false,
			Iterations:          10000,
			Workers:             1,
			ExplorationConstant: math.Sqrt2,
			RolloutDepth:        200,
			UseAsLeafEvaluator:  false,
		},
	}
}

// Load reads a TOML file at path into a copy of Defaults, leaving any
// field the file doesn't set at its default value. An empty path is not an
// error -- callers proceed on defaults alone -- but a non-empty path that
// cannot be decoded (missing file, bad syntax) is.
func Load(path string) (Config, error) {
	c := Defaults()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: decoding %v: %w", path, err)
	}
	return c, nil
}

func (c Config) String() string {
	return fmt.Sprintf("lattice=(n=%v,s=%v) depth=%v hash=%vMB workers=%v mcts=%v",
		c.Lattice.Dimension, c.Lattice.Side, c.Search.MaxDepth, c.Search.HashSizeMB, c.Search.Workers, c.MCTS.Enabled)
}
