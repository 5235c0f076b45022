package board

import (
	"fmt"

	"github.com/herohde/hyperchess/pkg/coord"
	"github.com/herohde/hyperchess/pkg/piece"
)

// Move is the tuple (from, to, promotion) of spec §3. Equality is
// structural (From/To/Promotion all equal).
type Move struct {
	From, To  coord.Coordinate
	Promotion piece.Kind // piece.NoKind if not a promotion
}

func (m Move) Equals(o Move) bool {
	return m.From.Equal(o.From) && m.To.Equal(o.To) && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.Promotion != piece.NoKind {
		return fmt.Sprintf("%v%v=%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// UnmakeInfo is the minimal record needed to reverse an ApplyMove without
// replaying history (spec §3/§9, "UnmakeInfo").
type UnmakeInfo struct {
	MoverKind   piece.Kind
	MoverPlayer piece.Player

	HasCapture bool
	Captured   piece.Piece
	CapturedAt int

	PrevEP       EnPassant
	PrevCastling Rights

	IsCastling      bool
	RookFrom, RookTo int
}

// ApplyMove mutates the board per the ordered side effects of spec §4.3,
// returning the information needed to invert it. Fails with ErrInvalidMove
// -- and leaves the board unchanged -- when `from` is empty or either
// coordinate is out of range.
func (b *Board) ApplyMove(m Move) (UnmakeInfo, error) {
	fromIdx, ok := b.index(m.From)
	if !ok {
		return UnmakeInfo{}, fmt.Errorf("%w: from out of range %v", ErrInvalidMove, m.From)
	}
	toIdx, ok := b.index(m.To)
	if !ok {
		return UnmakeInfo{}, fmt.Errorf("%w: to out of range %v", ErrInvalidMove, m.To)
	}
	mover, ok := b.GetPieceAt(fromIdx)
	if !ok {
		return UnmakeInfo{}, fmt.Errorf("%w: no piece at %v", ErrInvalidMove, m.From)
	}

	info := UnmakeInfo{
		MoverKind:    mover.Kind,
		MoverPlayer:  mover.Player,
		PrevEP:       b.ep,
		PrevCastling: b.castling,
	}

	// (1) Push current hash onto history.
	b.history = append(b.history, b.hash)

	priorEP := b.ep

	// (2) En-passant capture: victim is not at `to`.
	if mover.Kind == piece.Pawn && priorEP.Valid && toIdx == priorEP.Target {
		if captured, ok := b.GetPieceAt(priorEP.Victim); ok {
			info.HasCapture = true
			info.Captured = captured
			info.CapturedAt = priorEP.Victim
		}
		b.clearCell(priorEP.Victim)
	}

	// (3) Clear EP state unconditionally (may be re-set in (4)).
	b.ep = EnPassant{}

	// (4) Pawn double push sets new EP state.
	if mover.Kind == piece.Pawn {
		if axis, delta, ok := singleAxisDelta(m.From, m.To); ok && axis != coord.File && abs(delta) == 2 {
			mid := m.From.At(axis) + delta/2
			target := m.From.With(axis, mid)
			if idx, ok := b.index(target); ok {
				b.ep = EnPassant{Target: idx, Victim: toIdx, Valid: true}
			}
		}
	}

	// (5) Castling-rights bookkeeping.
	if mover.Kind == piece.King {
		switch mover.Player {
		case piece.White:
			b.castling &^= WhiteKingSide | WhiteQueenSide
		case piece.Black:
			b.castling &^= BlackKingSide | BlackQueenSide
		}
	}
	if r, ok := rookHomeRight(m.From, b.s, b.n); ok {
		b.castling &^= r
	}
	if r, ok := rookHomeRight(m.To, b.s, b.n); ok {
		b.castling &^= r
	}

	// (6) Detect castling and move the corresponding rook.
	if mover.Kind == piece.King {
		if axis, delta, ok := singleAxisDelta(m.From, m.To); ok && axis == coord.File && abs(delta) == 2 {
			rank := m.From.At(coord.Rank)
			queenside := delta < 0

			rookFromFile, rookToFile := b.s-1, b.s-2
			if queenside {
				rookFromFile, rookToFile = 0, 3
			}
			rookFrom := m.From.With(coord.File, rookFromFile)
			rookTo := m.From.With(coord.File, rookToFile)

			if rfIdx, ok1 := b.index(rookFrom); ok1 {
				if rtIdx, ok2 := b.index(rookTo); ok2 {
					info.IsCastling = true
					info.RookFrom, info.RookTo = rfIdx, rtIdx
					_ = rank
				}
			}
		}
	}

	// (7) Remove/place pieces.
	if !info.HasCapture { // normal capture (EP already handled above)
		if captured, ok := b.GetPieceAt(toIdx); ok {
			info.HasCapture = true
			info.Captured = captured
			info.CapturedAt = toIdx
		}
	}
	b.clearCell(toIdx)
	b.clearCell(fromIdx)

	placedKind := mover.Kind
	if m.Promotion != piece.NoKind {
		placedKind = m.Promotion
	}
	b.placeCell(toIdx, piece.Piece{Kind: placedKind, Player: mover.Player})

	if info.IsCastling {
		rook, _ := b.GetPieceAt(info.RookFrom)
		b.clearCell(info.RookFrom)
		b.placeCell(info.RookTo, rook)
	}

	// (8) Recompute hash for the opponent to move.
	b.turn = b.turn.Opponent()
	b.recomputeHash()

	return info, nil
}

// UnmakeMove inverts ApplyMove exactly, restoring the board -- all
// bitboards, hash, history, EP and castling state -- bit-for-bit to its
// pre-move value.
func (b *Board) UnmakeMove(m Move, info UnmakeInfo) error {
	if len(b.history) == 0 {
		return fmt.Errorf("%w: empty history", ErrInvalidMove)
	}

	b.turn = b.turn.Opponent()

	toIdx, _ := b.index(m.To)
	fromIdx, _ := b.index(m.From)

	if info.IsCastling {
		rook, _ := b.GetPieceAt(info.RookTo)
		b.clearCell(info.RookTo)
		b.placeCell(info.RookFrom, rook)
	}

	b.clearCell(toIdx)
	b.placeCell(fromIdx, piece.Piece{Kind: info.MoverKind, Player: info.MoverPlayer})

	if info.HasCapture {
		b.placeCell(info.CapturedAt, info.Captured)
	}

	b.ep = info.PrevEP
	b.castling = info.PrevCastling

	n := len(b.history)
	b.hash = b.history[n-1]
	b.history = b.history[:n-1]

	return nil
}

// singleAxisDelta reports the single axis on which from/to differ, along
// with the signed delta, iff exactly one axis differs.
func singleAxisDelta(from, to coord.Coordinate) (axis, delta int, ok bool) {
	found := -1
	d := 0
	for i := 0; i < from.Dim(); i++ {
		if diff := to.At(i) - from.At(i); diff != 0 {
			if found != -1 {
				return 0, 0, false
			}
			found = i
			d = diff
		}
	}
	if found == -1 {
		return 0, 0, false
	}
	return found, d, true
}

// rookHomeRight reports the castling right associated with the given
// cell, if it is one of the four well-known rook squares: rank 0/S-1,
// file 0/S-1, with every axis beyond Rank/File at its initial value (0).
func rookHomeRight(c coord.Coordinate, s, n int) (Rights, bool) {
	for axis := 2; axis < n; axis++ {
		if c.At(axis) != 0 {
			return 0, false
		}
	}
	rank, file := c.At(coord.Rank), c.At(coord.File)
	switch {
	case rank == 0 && file == 0:
		return WhiteQueenSide, true
	case rank == 0 && file == s-1:
		return WhiteKingSide, true
	case rank == s-1 && file == 0:
		return BlackQueenSide, true
	case rank == s-1 && file == s-1:
		return BlackKingSide, true
	default:
		return 0, false
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
