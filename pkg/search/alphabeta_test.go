package search_test

import (
	"context"
	"testing"

	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/eval"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/search"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T, n, s int, seed int64) *board.Board {
	t.Helper()
	keys := zobrist.New(seed, coord.NumCells(s, n))
	return board.New(n, s, keys)
}

// TestAlphaBetaFindsMateInOne sets up a back-rank mate for White to move
// (White rook slides up the open a-file to deliver check on the rank the
// black king cannot leave, its own pawns blocking every other escape) and
// checks the searcher finds the mating move with a mate score.
func TestAlphaBetaFindsMateInOne(t *testing.T) {
	b := newBoard(t, 2, 8, 1)
	require.NoError(t, b.SetPiece(coord.New(0, 0), piece.Piece{Kind: piece.King, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(3, 0), piece.Piece{Kind: piece.Rook, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(7, 6), piece.Piece{Kind: piece.King, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 5), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 6), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(6, 7), piece.Piece{Kind: piece.Pawn, Player: piece.Black}))

	ab := search.AlphaBeta{Eval: eval.Material{}}
	_, score, pv, err := ab.Search(context.Background(), b, 2, make(chan struct{}))
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.True(t, score.IsMate())
	assert.True(t, pv[0].From.Equal(coord.New(3, 0)))
	assert.True(t, pv[0].To.Equal(coord.New(7, 0)))
}

// TestAlphaBetaCapturesHangingQueen checks that a one-ply search prefers
// taking a free queen over any quiet move.
func TestAlphaBetaCapturesHangingQueen(t *testing.T) {
	b := newBoard(t, 2, 8, 2)
	require.NoError(t, b.SetPiece(coord.New(0, 0), piece.Piece{Kind: piece.King, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(3, 3), piece.Piece{Kind: piece.Rook, Player: piece.White}))
	require.NoError(t, b.SetPiece(coord.New(3, 6), piece.Piece{Kind: piece.Queen, Player: piece.Black}))
	require.NoError(t, b.SetPiece(coord.New(7, 7), piece.Piece{Kind: piece.King, Player: piece.Black}))

	ab := search.AlphaBeta{Eval: eval.Material{}}
	_, _, pv, err := ab.Search(context.Background(), b, 1, make(chan struct{}))
	require.NoError(t, err)
	require.NotEmpty(t, pv)
	assert.True(t, pv[0].From.Equal(coord.New(3, 3)))
	assert.True(t, pv[0].To.Equal(coord.New(3, 6)))
}

func TestAlphaBetaHaltsOnClosedQuit(t *testing.T) {
	b := newBoard(t, 2, 8, 3)
	standard, err := board.StandardSetup(2, 8, b.Keys())
	require.NoError(t, err)

	quit := make(chan struct{})
	close(quit)

	ab := search.AlphaBeta{Eval: eval.Material{}}
	_, _, _, err = ab.Search(context.Background(), standard, 6, quit)
	assert.ErrorIs(t, err, search.ErrHalted)
}

// TestAlphaBetaUsesTranspositionTable checks that a TT-backed search writes
// an entry for the root position reachable at the searched depth.
func TestAlphaBetaUsesTranspositionTable(t *testing.T) {
	keys := zobrist.New(4, coord.NumCells(8, 2))
	b, err := board.StandardSetup(2, 8, keys)
	require.NoError(t, err)

	tt := search.NewTranspositionTable(context.Background(), 1<<20)
	ab := search.AlphaBeta{Eval: eval.Material{}, TT: tt}

	_, _, pv, err := ab.Search(context.Background(), b, 2, make(chan struct{}))
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	_, depth, _, move, ok := tt.Read(b.Hash())
	require.True(t, ok)
	assert.Equal(t, 2, depth)
	assert.True(t, move.Equals(pv[0]))
}
