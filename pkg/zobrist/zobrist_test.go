package zobrist_test

import (
	"testing"

	"github.com/herohde/hyperchess/pkg/piece"
	"github.com/herohde/hyperchess/pkg/zobrist"
	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministicForSameSeed(t *testing.T) {
	a := zobrist.New(7, 64)
	b := zobrist.New(7, 64)

	assert.Equal(t, a.Piece(piece.Pawn, piece.White, 12), b.Piece(piece.Pawn, piece.White, 12))
	assert.Equal(t, a.BlackToMove(), b.BlackToMove())
	assert.Equal(t, a.EnPassant(5), b.EnPassant(5))
	assert.Equal(t, a.Castling(0xA), b.Castling(0xA))
}

func TestNewDiffersAcrossSeeds(t *testing.T) {
	a := zobrist.New(1, 64)
	b := zobrist.New(2, 64)
	assert.NotEqual(t, a.Piece(piece.Queen, piece.Black, 3), b.Piece(piece.Queen, piece.Black, 3))
}

// TestKeysAreDistinctPerCellAndKind exercises the common (not guaranteed,
// but practically certain for a 64-bit PRNG stream) expectation that
// distinct (kind, player, cell) triples get distinct keys.
func TestKeysAreDistinctPerCellAndKind(t *testing.T) {
	k := zobrist.New(99, 64)

	seen := make(map[uint64]bool)
	for _, kind := range []piece.Kind{piece.Pawn, piece.Knight, piece.Bishop, piece.Rook, piece.Queen, piece.King} {
		for _, p := range []piece.Player{piece.White, piece.Black} {
			for cell := 0; cell < 64; cell++ {
				key := k.Piece(kind, p, cell)
				assert.False(t, seen[key], "collision at kind=%v player=%v cell=%v", kind, p, cell)
				seen[key] = true
			}
		}
	}
}

func TestCastlingMasksTo4Bits(t *testing.T) {
	k := zobrist.New(5, 64)
	assert.Equal(t, k.Castling(0xF), k.Castling(0x1F))
}
