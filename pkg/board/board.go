// Package board implements the N-dimensional board representation of
// spec §3/§4.3: dense bit-packed piece placement, a Zobrist hash
// recomputed from scratch after every edit and move, en-passant and
// castling metadata, and the
// make/unmake protocol the rules and search engines build on.
package board

import (
	"errors"
	"fmt"

	"github.com/herohde/hyperchess/pkg/bitboard"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/zobrist"
)

// ErrInvalidMove indicates from/to out of range, an empty source square, or
// a move/state inconsistency. apply_move returns it without mutating the
// board (spec §7).
var ErrInvalidMove = errors.New("board: invalid move")

// kindOrder fixes the order piece kinds are tested in get/place/remove, so
// that identical positions always hash and print identically regardless of
// move path (spec §4.3, "Bit-exact determinism").
var kindOrder = [6]piece.Kind{piece.Pawn, piece.Knight, piece.Bishop, piece.Rook, piece.Queen, piece.King}

// EnPassant holds the target/victim cell pair of spec §3, or is the zero
// value (Valid=false) when the previous move was not a qualifying double
// push.
type EnPassant struct {
	Target, Victim int
	Valid          bool
}

// Board is the aggregate of spec §3: piece placement, hash, history,
// en-passant and castling metadata for a fixed (N, S). Not thread-safe --
// each search worker operates on its own Fork.
type Board struct {
	n, s int
	keys *zobrist.Keys

	occupancy [piece.NumPlayers]bitboard.Bitboard
	kinds     [7]bitboard.Bitboard // indexed by piece.Kind; kinds[NoKind] unused

	turn     piece.Player
	hash     zobrist.Hash
	history  []zobrist.Hash
	ep       EnPassant
	castling Rights
}

// New returns an empty board (no pieces, no castling rights) of the given
// dimension and side length, sharing the given (immutable) Zobrist keys.
func New(n, s int, keys *zobrist.Keys) *Board {
	b := &Board{n: n, s: s, keys: keys, turn: piece.White}
	numCells := coord.NumCells(s, n)
	for p := piece.ZeroPlayer; p < piece.NumPlayers; p++ {
		b.occupancy[p] = bitboard.New(numCells)
	}
	for _, k := range kindOrder {
		b.kinds[k] = bitboard.New(numCells)
	}
	b.recomputeHash()
	return b
}

// Dim and Side return the board's fixed dimension N and side length S.
func (b *Board) Dim() int  { return b.n }
func (b *Board) Side() int { return b.s }

// Turn returns the side to move.
func (b *Board) Turn() piece.Player { return b.turn }

// SetTurn overwrites the side to move and recomputes the hash. An edit
// primitive for setup and tests, alongside SetPiece.
func (b *Board) SetTurn(p piece.Player) {
	b.turn = p
	b.recomputeHash()
}

// SetCastling overwrites the castling rights and recomputes the hash. An
// edit primitive for setup and tests.
func (b *Board) SetCastling(r Rights) {
	b.castling = r
	b.recomputeHash()
}

// Hash returns the current Zobrist hash, valid for the side-to-move
// position (spec §3 invariant).
func (b *Board) Hash() zobrist.Hash { return b.hash }

// Castling returns the current castling rights.
func (b *Board) Castling() Rights { return b.castling }

// EnPassant returns the current en-passant state, if any.
func (b *Board) EnPassant() (EnPassant, bool) { return b.ep, b.ep.Valid }

// Keys returns the shared Zobrist key table.
func (b *Board) Keys() *zobrist.Keys { return b.keys }

func (b *Board) index(c coord.Coordinate) (int, bool) {
	if !c.InBounds(b.s) || c.Dim() != b.n {
		return 0, false
	}
	return c.Index(b.s), true
}

// GetPiece returns the piece occupying c, if any.
func (b *Board) GetPiece(c coord.Coordinate) (piece.Piece, bool) {
	idx, ok := b.index(c)
	if !ok {
		return piece.Piece{}, false
	}
	return b.GetPieceAt(idx)
}

// GetPieceAt returns the piece occupying the given linear index, if any.
// Tests piece kinds in the fixed kindOrder for deterministic results.
func (b *Board) GetPieceAt(idx int) (piece.Piece, bool) {
	var owner piece.Player
	switch {
	case b.occupancy[piece.White].Test(idx):
		owner = piece.White
	case b.occupancy[piece.Black].Test(idx):
		owner = piece.Black
	default:
		return piece.Piece{}, false
	}
	for _, k := range kindOrder {
		if b.kinds[k].Test(idx) {
			return piece.Piece{Kind: k, Player: owner}, true
		}
	}
	return piece.Piece{}, false
}

// SetPiece overwrites the cell at c with the given piece, recomputing the
// full hash. An edit primitive for setup and tests (spec §4.3).
func (b *Board) SetPiece(c coord.Coordinate, p piece.Piece) error {
	idx, ok := b.index(c)
	if !ok {
		return fmt.Errorf("%w: out of range %v", ErrInvalidMove, c)
	}
	b.clearCell(idx)
	if p.Kind != piece.NoKind {
		b.placeCell(idx, p)
	}
	b.recomputeHash()
	return nil
}

func (b *Board) placeCell(idx int, p piece.Piece) {
	b.occupancy[p.Player] = b.occupancy[p.Player].Set(idx)
	b.kinds[p.Kind] = b.kinds[p.Kind].Set(idx)
}

func (b *Board) clearCell(idx int) {
	if old, ok := b.GetPieceAt(idx); ok {
		b.occupancy[old.Player] = b.occupancy[old.Player].Clear(idx)
		b.kinds[old.Kind] = b.kinds[old.Kind].Clear(idx)
	}
}

// KingCoordinate scans the king bitboard intersected with the player's
// occupancy and returns the first (lowest-index) match, if any.
func (b *Board) KingCoordinate(p piece.Player) (coord.Coordinate, bool) {
	next := b.occupancy[p].Iter()
	for {
		idx, ok := next()
		if !ok {
			return coord.Coordinate{}, false
		}
		if b.kinds[piece.King].Test(idx) {
			return coord.ToCoordinate(idx, b.s, b.n), true
		}
	}
}

// IsRepetition reports whether the current hash has appeared at least once
// in the history (spec §3/§4.3; deliberately not FIDE 3-fold, per §9).
func (b *Board) IsRepetition() bool {
	for _, h := range b.history {
		if h == b.hash {
			return true
		}
	}
	return false
}

// Fork returns an independent copy of the board, sharing only the
// immutable Zobrist keys, for handing to a search worker (spec §5).
func (b *Board) Fork() *Board {
	cp := *b
	cp.history = append([]zobrist.Hash(nil), b.history...)
	return &cp
}

func (b *Board) String() string {
	return fmt.Sprintf("board{n=%v s=%v turn=%v hash=%x castling=%v ep=%+v}", b.n, b.s, b.turn, uint64(b.hash), b.castling, b.ep)
}
