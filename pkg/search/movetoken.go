// Package search contains the parallel iterative-deepening alpha-beta
// search, its transposition table and its thread orchestration.
package search

import (
	"github.com/rsarvar1a/hivemind/pkg/hive"
)

// MoveToken is a move packed into 32 bits for transposition table entries.
// The zero token means "no move".
//
// Bits:
//
//	00 - 04: piece
//	05 - 05: piece validity
//	06 - 0A: reference piece
//	0B - 1A: reference direction
//	1B - 1B: reference direction validity
//	1C - 1C: reference validity
//	1D - 1E: move type [pass, move, place]
//	1F - 1F: token validity
type MoveToken uint32

const (
	tokenOffsetPiece        = 0x0
	tokenOffsetPieceOpt     = 0x5
	tokenOffsetRefPiece     = 0x6
	tokenOffsetRefDirection = 0xB
	tokenOffsetRefDirOpt    = 0x1B
	tokenOffsetRefOpt       = 0x1C
	tokenOffsetType         = 0x1D
	tokenOffsetMoveOpt      = 0x1F

	tokenExtentPiece     = 0x1F
	tokenExtentDirection = 0xFFFF
	tokenExtentType      = 0x3

	tokenTypePass  = 0x0
	tokenTypeMove  = 0x1
	tokenTypePlace = 0x2
)

// PackMove packs a move into a token.
func PackMove(m hive.Move) MoveToken {
	t := MoveToken(1) << tokenOffsetMoveOpt

	switch m.Type {
	case hive.PassMove:
		t |= tokenTypePass << tokenOffsetType
	case hive.PieceMove:
		t |= tokenTypeMove << tokenOffsetType
	default:
		t |= tokenTypePlace << tokenOffsetType
	}

	if m.Type != hive.PassMove {
		t |= MoveToken(m.Piece.Index()) << tokenOffsetPiece
		t |= 1 << tokenOffsetPieceOpt
	}
	if m.HasRef {
		t |= MoveToken(m.Ref.Piece.Index()) << tokenOffsetRefPiece
		t |= 1 << tokenOffsetRefOpt
		if m.Ref.HasDirection {
			t |= MoveToken(m.Ref.Direction) << tokenOffsetRefDirection
			t |= 1 << tokenOffsetRefDirOpt
		}
	}
	return t
}

// IsSome reports whether the token encodes a move at all.
func (t MoveToken) IsSome() bool {
	return t>>tokenOffsetMoveOpt&1 == 1
}

// Unpack decodes the token back into a move.
func (t MoveToken) Unpack() (hive.Move, bool) {
	if !t.IsSome() {
		return hive.Move{}, false
	}

	var m hive.Move
	switch t >> tokenOffsetType & tokenExtentType {
	case tokenTypePass:
		return hive.Pass, true
	case tokenTypeMove:
		m.Type = hive.PieceMove
	default:
		m.Type = hive.PlaceMove
	}

	m.Piece = hive.PieceFromIndex(uint8(t >> tokenOffsetPiece & tokenExtentPiece))
	if t>>tokenOffsetRefOpt&1 == 1 {
		m.HasRef = true
		m.Ref.Piece = hive.PieceFromIndex(uint8(t >> tokenOffsetRefPiece & tokenExtentPiece))
		if t>>tokenOffsetRefDirOpt&1 == 1 {
			m.Ref.Direction = hive.Direction(t >> tokenOffsetRefDirection & tokenExtentDirection)
			m.Ref.HasDirection = true
		}
	}
	return m, true
}
