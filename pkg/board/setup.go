package board

import (
	"fmt"

	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/zobrist"
)

// backRank is the standard file-order of non-pawn pieces, unchanged by
// dimension: rook, knight, bishop, queen, king, bishop, knight, rook.
var backRank = [8]piece.Kind{piece.Rook, piece.Knight, piece.Bishop, piece.Queen, piece.King, piece.Bishop, piece.Knight, piece.Rook}

// StandardSetup returns a fresh Board of dimension n and side length s,
// populated with the standard chess starting position on the hyperplane
// where every axis beyond Rank/File is zero -- so the well-known rook
// squares used elsewhere line up for N>2 the same way they do for N=2
// (spec §3, Lifecycle). Requires S=8: the back-rank piece
// order is only defined for eight files.
func StandardSetup(n, s int, keys *zobrist.Keys) (*Board, error) {
	if s != 8 {
		return nil, fmt.Errorf("board: standard setup requires side length 8, got %v", s)
	}

	b := New(n, s, keys)

	extra := make([]int, n-2)
	at := func(rank, file int) coord.Coordinate {
		values := append([]int{rank, file}, extra...)
		return coord.New(values...)
	}

	for file := 0; file < 8; file++ {
		if err := b.SetPiece(at(0, file), piece.Piece{Kind: backRank[file], Player: piece.White}); err != nil {
			return nil, err
		}
		if err := b.SetPiece(at(1, file), piece.Piece{Kind: piece.Pawn, Player: piece.White}); err != nil {
			return nil, err
		}
		if err := b.SetPiece(at(s-2, file), piece.Piece{Kind: piece.Pawn, Player: piece.Black}); err != nil {
			return nil, err
		}
		if err := b.SetPiece(at(s-1, file), piece.Piece{Kind: backRank[file], Player: piece.Black}); err != nil {
			return nil, err
		}
	}

	b.SetCastling(FullRights)
	b.SetTurn(piece.White)
	b.history = nil // the initial position has no prior ply

	return b, nil
}
