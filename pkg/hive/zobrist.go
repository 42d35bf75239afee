package hive

import (
	"fmt"
	"math/bits"
	"math/rand"
	"sync"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Key is a 128-bit position hash.
//
// Bits:
//
//	00 - 3F: 64-bit XOR-fold of the (piece, hex, height) bitstrings
//	40 - 4F: immune hex (pillbug immunity)
//	50 - 5F: stunned hex
//	60 - 60: player to move
//	61 - 61: immune hex validity
//	62 - 62: stunned hex validity
type Key struct {
	Lo, Hi uint64
}

const (
	keyOffsetImmune      = 0  // bit 0x40 of the 128-bit key
	keyOffsetStunned     = 16 // bit 0x50
	keyOffsetPlayer      = 32 // bit 0x60
	keyOffsetImmuneOpt   = 33 // bit 0x61
	keyOffsetStunnedOpt  = 34 // bit 0x62
	keyExtentHex         = uint64(0xFFFF)
)

func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.Hi, k.Lo)
}

// Mod reduces the key modulo the given capacity.
func (k Key) Mod(capacity uint64) uint64 {
	return bits.Rem64(k.Hi%capacity, k.Lo, capacity)
}

// ToMove extracts the player to move from a key.
func ToMove(k Key) Player {
	return Player(k.Hi >> keyOffsetPlayer & 1)
}

const numBitstrings = HeightRange * int(Size) * NumPieces

var (
	bitstringsOnce sync.Once
	bitstrings     []uint64
)

// zobristBitstrings returns the process-wide table of random words, one per
// (height, hex, piece) triple. Seeded deterministically; initialized once.
func zobristBitstrings() []uint64 {
	bitstringsOnce.Do(func() {
		r := rand.New(rand.NewSource(0x5eedbee5))
		bitstrings = make([]uint64, numBitstrings)
		for i := range bitstrings {
			bitstrings[i] = r.Uint64()
		}
	})
	return bitstrings
}

// zobrist maintains an incrementally-updated position key.
type zobrist struct {
	current Key
}

// Key returns the key for the current state.
func (z *zobrist) Key() Key {
	return z.current
}

// Hash flips a piece into or out of a hex at a height. The operation is
// symmetric.
func (z *zobrist) Hash(p Piece, at Hex, height uint8) {
	index := int(height)*int(Size)*NumPieces + int(at)*NumPieces + int(p.Index())
	z.current.Lo ^= zobristBitstrings()[index]
}

// Last records the destination of the most recent move to track pillbug
// immunity.
func (z *zobrist) Last(to lang.Optional[Hex]) {
	z.setHexField(to, keyOffsetImmune, keyOffsetImmuneOpt)
}

// Stun records the stunned hex: the destination of the most recent piece
// movement, if the last move was one.
func (z *zobrist) Stun(to lang.Optional[Hex]) {
	z.setHexField(to, keyOffsetStunned, keyOffsetStunnedOpt)
}

// Next advances to the next player to move.
func (z *zobrist) Next() {
	z.current.Hi ^= 1 << keyOffsetPlayer
}

// Prev reverses to the previous player to move.
func (z *zobrist) Prev() {
	z.Next()
}

func (z *zobrist) setHexField(to lang.Optional[Hex], offset, validOffset uint) {
	z.current.Hi &^= keyExtentHex << offset
	z.current.Hi &^= 1 << validOffset
	if h, ok := to.V(); ok {
		z.current.Hi |= uint64(h) << offset
		z.current.Hi |= 1 << validOffset
	}
}
