// Package rules implements the dimensional movement and legality engine of
// spec §4: pseudo-legal move generation from the geometry oracle, attack
// queries via reverse raycasting, and the generate-apply-filter-unmake
// legality pattern that turns pseudo-legal moves into legal ones.
package rules

import (
	"github.com/herohde/hyperchess/pkg/board"
	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/geometry"
	"github.com/herohde/hyperchess/pkg/piece"
)

// PseudoLegalMoves returns every move the side to move could play ignoring
// whether it leaves the mover's own king in check (spec §4.4). Castling
// moves are included, already filtered for path occupancy, for the king
// not presently being in check, and for the transit/destination squares
// not being attacked (spec §4.4.2).
func PseudoLegalMoves(b *board.Board) []board.Move {
	var moves []board.Move
	n, s := b.Dim(), b.Side()
	mover := b.Turn()

	for idx := 0; idx < coord.NumCells(s, n); idx++ {
		p, ok := b.GetPieceAt(idx)
		if !ok || p.Player != mover {
			continue
		}
		from := coord.ToCoordinate(idx, s, n)
		switch p.Kind {
		case piece.Pawn:
			moves = appendPawnMoves(moves, b, from, mover)
		case piece.Knight:
			moves = appendLeaperMoves(moves, b, from, mover, geometry.KnightOffsets(n))
		case piece.King:
			moves = appendLeaperMoves(moves, b, from, mover, geometry.KingOffsets(n))
		case piece.Bishop:
			moves = appendSliderMoves(moves, b, from, mover, geometry.BishopDirections(n))
		case piece.Rook:
			moves = appendSliderMoves(moves, b, from, mover, geometry.RookDirections(n))
		case piece.Queen:
			moves = appendSliderMoves(moves, b, from, mover, geometry.QueenDirections(n))
		}
	}

	moves = append(moves, castlingMoves(b, mover)...)
	return moves
}

// LegalMoves filters PseudoLegalMoves down to those that do not leave the
// mover's own king attacked afterwards (spec §4.4, "Legality filter").
// Implemented via the generate-apply-check-unmake pattern: each candidate
// is tried on the board itself (not a copy) and immediately reverted.
func LegalMoves(b *board.Board) []board.Move {
	mover := b.Turn()
	candidates := PseudoLegalMoves(b)

	var legal []board.Move
	for _, m := range candidates {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		king, ok := b.KingCoordinate(mover)
		safe := !ok || !IsSquareAttacked(b, king, mover.Opponent())
		_ = b.UnmakeMove(m, info)
		if safe {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsInCheck reports whether the given player's king is presently attacked.
func IsInCheck(b *board.Board, p piece.Player) bool {
	king, ok := b.KingCoordinate(p)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, p.Opponent())
}

// IsSquareAttacked reports whether any piece belonging to `by` attacks
// cell c, using reverse raycasting: for each piece kind, walk the oracle's
// direction/offset set outward from c and ask whether an attacker of that
// kind sits at the far end, with nothing blocking in between for sliders
// (spec §4.4, "is_square_attacked").
func IsSquareAttacked(b *board.Board, c coord.Coordinate, by piece.Player) bool {
	n, s := b.Dim(), b.Side()

	for _, off := range geometry.KnightOffsets(n) {
		if hasPieceAt(b, c.Add(off), s, by, piece.Knight) {
			return true
		}
	}
	for _, off := range geometry.KingOffsets(n) {
		if hasPieceAt(b, c.Add(off), s, by, piece.King) {
			return true
		}
	}
	if slideAttacks(b, c, s, by, geometry.RookDirections(n), piece.Rook, piece.Queen) {
		return true
	}
	if slideAttacks(b, c, s, by, geometry.BishopDirections(n), piece.Bishop, piece.Queen) {
		return true
	}

	fwd := by.Unit()
	for _, off := range geometry.PawnCaptureInverseOffsets(n, fwd) {
		if hasPieceAt(b, c.Add(off), s, by, piece.Pawn) {
			return true
		}
	}
	return false
}

func hasPieceAt(b *board.Board, c coord.Coordinate, s int, owner piece.Player, kind piece.Kind) bool {
	if !c.InBounds(s) {
		return false
	}
	p, ok := b.GetPiece(c)
	return ok && p.Player == owner && p.Kind == kind
}

// slideAttacks walks each direction from c until it leaves the board or
// hits an occupied cell, reporting true iff that cell holds an attacker of
// owner and one of the accepted kinds (a slider or the queen).
func slideAttacks(b *board.Board, c coord.Coordinate, s int, owner piece.Player, dirs []geometry.Vector, kinds ...piece.Kind) bool {
	for _, dir := range dirs {
		cur := c
		for {
			cur = cur.Add(dir)
			if !cur.InBounds(s) {
				break
			}
			p, ok := b.GetPiece(cur)
			if !ok {
				continue
			}
			if p.Player == owner {
				for _, k := range kinds {
					if p.Kind == k {
						return true
					}
				}
			}
			break
		}
	}
	return false
}

func appendLeaperMoves(moves []board.Move, b *board.Board, from coord.Coordinate, mover piece.Player, offsets []geometry.Vector) []board.Move {
	s := b.Side()
	for _, off := range offsets {
		to := from.Add(off)
		if !to.InBounds(s) {
			continue
		}
		if target, ok := b.GetPiece(to); ok && target.Player == mover {
			continue
		}
		moves = append(moves, board.Move{From: from, To: to})
	}
	return moves
}

func appendSliderMoves(moves []board.Move, b *board.Board, from coord.Coordinate, mover piece.Player, dirs []geometry.Vector) []board.Move {
	s := b.Side()
	for _, dir := range dirs {
		cur := from
		for {
			cur = cur.Add(dir)
			if !cur.InBounds(s) {
				break
			}
			target, ok := b.GetPiece(cur)
			if !ok {
				moves = append(moves, board.Move{From: from, To: cur})
				continue
			}
			if target.Player != mover {
				moves = append(moves, board.Move{From: from, To: cur})
			}
			break
		}
	}
	return moves
}

// appendPawnMoves generates the generalized "super-pawn" moves of spec
// §4.4.1: a single step forward along any axis except File, a double step
// from that axis's home rank (also setting up en-passant via Board itself),
// and diagonal-style captures along the Rank axis crossed with any other
// axis. Promotion is offered, in PromotionKinds order, whenever every axis
// of the destination except File is at the far edge from the mover. For
// N=2 that is just the last rank; for N>=3 the extra axes must be at the
// far edge too, so many paths through the lattice never reach promotion.
func appendPawnMoves(moves []board.Move, b *board.Board, from coord.Coordinate, mover piece.Player) []board.Move {
	n, s := b.Dim(), b.Side()
	fwd := mover.Unit()
	farEdge := 0
	if mover == piece.White {
		farEdge = s - 1
	}

	promotes := func(to coord.Coordinate) bool {
		for axis := 0; axis < n; axis++ {
			if axis != coord.File && to.At(axis) != farEdge {
				return false
			}
		}
		return true
	}

	withPromotions := func(from, to coord.Coordinate) []board.Move {
		if promotes(to) {
			out := make([]board.Move, 0, len(piece.PromotionKinds))
			for _, k := range piece.PromotionKinds {
				out = append(out, board.Move{From: from, To: to, Promotion: k})
			}
			return out
		}
		return []board.Move{{From: from, To: to}}
	}

	// Forward pushes, one axis at a time: every non-File axis m supports
	// both a single push and, from the player's start rank on that same
	// axis m, a double push (spec §4.4.1, "for each legal movement axis
	// m"), not just the Rank axis.
	for axis := 0; axis < n; axis++ {
		if axis == coord.File {
			continue
		}
		off := make(geometry.Vector, n)
		off[axis] = fwd
		one := from.Add(off)
		if !one.InBounds(s) {
			continue
		}
		if _, occupied := b.GetPiece(one); occupied {
			continue
		}
		moves = append(moves, withPromotions(from, one)...)

		if isPawnHomeCoordinate(from.At(axis), s, mover) {
			off2 := make(geometry.Vector, n)
			off2[axis] = 2 * fwd
			two := from.Add(off2)
			if two.InBounds(s) {
				if _, occupied := b.GetPiece(two); !occupied {
					moves = append(moves, withPromotions(from, two)...)
				}
			}
		}
	}

	// Captures: Rank axis moves by fwd, one axis in [1,n) (File or beyond)
	// moves by +-1; the traditional diagonal capture is the File case.
	for _, off := range captureOffsets(n, fwd) {
		to := from.Add(off)
		if !to.InBounds(s) {
			continue
		}
		ep, hasEP := b.EnPassant()
		if hasEP && to.Index(s) == ep.Target {
			moves = append(moves, board.Move{From: from, To: to})
			continue
		}
		target, ok := b.GetPiece(to)
		if ok && target.Player != mover {
			moves = append(moves, withPromotions(from, to)...)
		}
	}

	return moves
}

// captureOffsets returns the forward-capture vectors: Rank axis at +fwd and
// exactly one axis in [1,n) at +-1. PawnCaptureInverseOffsets(n, -fwd)
// already sets the Rank component to -(-fwd) = fwd; the per-axis sign
// already ranges over both +-1, so no further adjustment is needed.
func captureOffsets(n, fwd int) []geometry.Vector {
	return geometry.PawnCaptureInverseOffsets(n, -fwd)
}

// isPawnHomeCoordinate reports whether v is the player's start value on
// some movement axis m (1 for White, S-2 for Black), regardless of which
// axis m actually is (spec §4.4.1).
func isPawnHomeCoordinate(v, s int, mover piece.Player) bool {
	if mover == piece.White {
		return v == 1
	}
	return v == s-2
}

// castlingMoves generates the (at most two) pseudo-legal castling moves for
// the side to move, gated on S=8 (spec §4.4.2): the king and corresponding
// rook must still hold rights, every square between them must be empty, and
// the king's start/transit/destination squares must not be attacked.
func castlingMoves(b *board.Board, mover piece.Player) []board.Move {
	if b.Side() != 8 {
		return nil
	}
	king, ok := b.KingCoordinate(mover)
	if !ok {
		return nil
	}
	if IsSquareAttacked(b, king, mover.Opponent()) {
		return nil
	}

	type side struct {
		right        board.Rights
		rookFile     int
		kingToFile   int
		transitFiles []int
		emptyFiles   []int
	}
	var sides []side
	rights := b.Castling()
	if mover == piece.White {
		if rights&board.WhiteKingSide != 0 {
			sides = append(sides, side{board.WhiteKingSide, 7, 6, []int{5, 6}, []int{5, 6}})
		}
		if rights&board.WhiteQueenSide != 0 {
			sides = append(sides, side{board.WhiteQueenSide, 0, 2, []int{2, 3}, []int{1, 2, 3}})
		}
	} else {
		if rights&board.BlackKingSide != 0 {
			sides = append(sides, side{board.BlackKingSide, 7, 6, []int{5, 6}, []int{5, 6}})
		}
		if rights&board.BlackQueenSide != 0 {
			sides = append(sides, side{board.BlackQueenSide, 0, 2, []int{2, 3}, []int{1, 2, 3}})
		}
	}

	var moves []board.Move
	for _, sd := range sides {
		rookCoord := king.With(coord.File, sd.rookFile)
		rook, ok := b.GetPiece(rookCoord)
		if !ok || rook.Kind != piece.Rook || rook.Player != mover {
			continue
		}

		blocked := false
		for _, f := range sd.emptyFiles {
			if _, occ := b.GetPiece(king.With(coord.File, f)); occ {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		attacked := false
		for _, f := range sd.transitFiles {
			if IsSquareAttacked(b, king.With(coord.File, f), mover.Opponent()) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		moves = append(moves, board.Move{From: king, To: king.With(coord.File, sd.kingToFile)})
	}
	return moves
}
