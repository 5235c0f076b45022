package mcts_test

import (
	"context"
	"testing"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/mcts"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/rules"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStandardBoard(t *testing.T, seed int64) *board.Board {
	t.Helper()
	keys := zobrist.New(seed, coord.NumCells(8, 2))
	b, err := board.StandardSetup(2, 8, keys)
	require.NoError(t, err)
	return b
}

// TestTreeSearchReturnsLegalMove checks that a short UCT search from the
// standard starting position returns one of White's legal root moves.
func TestTreeSearchReturnsLegalMove(t *testing.T) {
	b := newStandardBoard(t, 21)
	legal := rules.LegalMoves(b)
	require.NotEmpty(t, legal)

	tree := mcts.NewTree(b.Fork(), nil, 1)
	m := tree.Search(context.Background(), 200, make(chan struct{}))

	found := false
	for _, l := range legal {
		if l.Equals(m) {
			found = true
		}
	}
	assert.True(t, found, "search should return one of the root's legal moves")
}

// TestTreeSearchWithSingleLegalMoveIsForced pins White down to exactly one
// legal move (a cornered king with its other two neighbors covered by
// knights) so the result is deterministic regardless of UCT's random
// rollout order -- there is nothing else the tree could return.
func TestTreeSearchWithSingleLegalMoveIsForced(t *testing.T) {
	keys := zobrist.New(22, coord.NumCells(8, 2))
	b := board.New(2, 8, keys)
	require.NoError(t, b.SetPiece(coord.New(0, 0), piece.Piece{Kind: piece.King, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(3, 1), piece.Piece{Kind: piece.Knight, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(3, 2), piece.Piece{Kind: piece.Knight, Player: piece.Black}))

	legal := rules.LegalMoves(b)
	require.Len(t, legal, 1)
	require.True(t, legal[0].To.Equal(coord.New(0, 1)))

	tree := mcts.NewTree(b.Fork(), nil, 7)
	m := tree.Search(context.Background(), 50, make(chan struct{}))
	assert.True(t, m.Equals(legal[0]))
}

// TestTreeRewindResetsExploration checks that Rewind truncates the arena
// back to a fresh single-node root, discarding prior exploration.
func TestTreeRewindResetsExploration(t *testing.T) {
	b := newStandardBoard(t, 23)
	tree := mcts.NewTree(b.Fork(), nil, 2)
	_ = tree.Search(context.Background(), 50, make(chan struct{}))

	tree.Rewind()
	m := tree.Search(context.Background(), 50, make(chan struct{}))

	legal := rules.LegalMoves(b)
	found := false
	for _, l := range legal {
		if l.Equals(m) {
			found = true
		}
	}
	assert.True(t, found)
}

// TestLeafEvaluatorLeavesBoardUnchanged checks that LeafEvaluator, which
// runs its own serial UCT search at a leaf inside someone else's in-progress
// search, returns the board in exactly the position it received.
func TestLeafEvaluatorLeavesBoardUnchanged(t *testing.T) {
	b := newStandardBoard(t, 25)
	before := b.Hash()

	e := mcts.LeafEvaluator{Iterations: 25, Seed: 9}
	_ = e.Evaluate(b)

	assert.Equal(t, before, b.Hash(), "Evaluate must make/unmake every rollout move, leaving the board as found")
}

// TestLeafEvaluatorScoresForcedMateAsWinning gives White, to move, a
// back-rank mate in one (rook a4-a8 against a king boxed in by its own
// pawns), so the search should find White winning and report a positive
// White-relative score.
func TestLeafEvaluatorScoresForcedMateAsWinning(t *testing.T) {
	keys := zobrist.New(26, coord.NumCells(8, 2))
	b := board.New(2, 8, keys)
	require.NoError(t, b.SetPiece(coord.New(0, 0), piece.Piece{Kind: piece.King, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(3, 0), piece.Piece{Kind: piece.Rook, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(7, 6), piece.Piece{Kind: piece.King, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 5), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 6), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 7), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))
	b.SetTurn(piece.White)

	e := mcts.LeafEvaluator{Iterations: 100, RolloutDepth: 4, Seed: 11}
	s := e.Evaluate(b)
	assert.Greater(t, int(s), 0, "White is one move from a forced mate, so the leaf score should favor White")
}

// TestRootParallelSearchReturnsLegalMove is a smoke test for the
// multi-worker merge path.
func TestRootParallelSearchReturnsLegalMove(t *testing.T) {
	b := newStandardBoard(t, 24)
	legal := rules.LegalMoves(b)

	m := mcts.RootParallelSearch(context.Background(), b, nil, 4, 100, make(chan struct{}))

	found := false
	for _, l := range legal {
		if l.Equals(m) {
			found = true
		}
	}
	assert.True(t, found)
}
