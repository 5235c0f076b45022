package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/herohde/hyperchess/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := config.Defaults()
	assert.Equal(t, 2, d.Lattice.Dimension)
	assert.Equal(t, 8, d.Lattice.Side)
	assert.Equal(t, 4, d.Search.MaxDepth)
	assert.Equal(t, 1, d.Search.Workers)
	assert.False(t, d.MCTS.Enabled)
	assert.False(t, d.MCTS.UseAsLeafEvaluator)
	assert.Equal(t, math.Sqrt2, d.MCTS.ExplorationConstant)
	assert.Equal(t, 200, d.MCTS.RolloutDepth)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), c)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyperchess.toml")
	contents := `
[lattice]
dimension = 4
side = 6

[search]
max_depth = 6
workers = 8

[mcts]
enabled = true
iterations = 500
exploration_constant = 1.0
rollout_depth = 50
use_as_leaf_evaluator = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, c.Lattice.Dimension)
	assert.Equal(t, 6, c.Lattice.Side)
	assert.Equal(t, 6, c.Search.MaxDepth)
	assert.Equal(t, 8, c.Search.Workers)
	assert.True(t, c.MCTS.Enabled)
	assert.Equal(t, 500, c.MCTS.Iterations)
	assert.Equal(t, 1.0, c.MCTS.ExplorationConstant)
	assert.Equal(t, 50, c.MCTS.RolloutDepth)
	assert.True(t, c.MCTS.UseAsLeafEvaluator)
	// HashSizeMB was not set in the file, so it keeps its default.
	assert.Equal(t, config.Defaults().Search.HashSizeMB, c.Search.HashSizeMB)
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}
