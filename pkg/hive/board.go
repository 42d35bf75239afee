package hive

import (
	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/seekerror/stdlib/pkg/lang"
)

// hexNone marks a piece that is still in hand.
const hexNone Hex = 0xFFFF

// Board is the full position state: the stack grid, the piece index, the
// occupancy field, pins, pillbug immunity markers, the incremental hash
// and the move history. Not thread-safe; searches clone a board per worker.
type Board struct {
	field   *Field
	history History
	immune  lang.Optional[Hex]
	options Options
	pieces  [NumPieces]Hex
	pinned  Collection
	pouch   Pouch
	stacks  [Size]Stack
	stunned lang.Optional[Hex]
	zobrist zobrist
}

// NewBoard creates an unstarted board with the given options.
func NewBoard(options Options) *Board {
	b := &Board{
		field:   NewField(),
		options: options,
		pouch:   NewPouch(options),
	}
	for i := range b.pieces {
		b.pieces[i] = hexNone
	}
	return b
}

// Clone deep-copies the board.
func (b *Board) Clone() *Board {
	clone := *b
	clone.field = b.field.Clone()
	clone.history = b.history.Clone()
	return &clone
}

// Field returns the occupancy field of this hive.
func (b *Board) Field() *Field {
	return b.field
}

// History returns the move history of this game.
func (b *Board) History() *History {
	return &b.history
}

// Options returns the options configured for this game.
func (b *Board) Options() Options {
	return b.options
}

// Pouch returns the in-hand reserve.
func (b *Board) Pouch() *Pouch {
	return &b.pouch
}

// Immune returns the hex immune to the pillbug, if one exists. A hex is
// immune when it was moved or placed on the previous turn.
func (b *Board) Immune() lang.Optional[Hex] {
	return b.immune
}

// Stunned returns the hex stunned by the directly preceding move, if any.
func (b *Board) Stunned() lang.Optional[Hex] {
	return b.stunned
}

// Zobrist returns the key corresponding to this board.
func (b *Board) Zobrist() Key {
	return b.zobrist.Key()
}

// Turn returns the number of moves already played.
func (b *Board) Turn() uint8 {
	return b.history.Turn()
}

// ToMove returns the player that plays the next move.
func (b *Board) ToMove() Player {
	return TurnFromPly(b.Turn()).Player
}

// Occupied reports whether any piece is at this hex.
func (b *Board) Occupied(hex Hex) bool {
	return !b.stacks[hex].Empty()
}

// Top returns the piece visible at the top of the given stack.
func (b *Board) Top(hex Hex) (Piece, bool) {
	return b.stacks[hex].Top().Piece()
}

// Stack returns the stack at the given hex.
func (b *Board) Stack(hex Hex) Stack {
	return b.stacks[hex]
}

// Location returns the hex this piece is on, if any.
func (b *Board) Location(piece Piece) (Hex, bool) {
	h := b.pieces[piece.Index()]
	return h, h != hexNone
}

// Placed reports whether the piece is already in the hive.
func (b *Board) Placed(piece Piece) bool {
	return b.pieces[piece.Index()] != hexNone
}

// OnTop reports whether the piece is in the hive and at the top of its
// stack.
func (b *Board) OnTop(piece Piece) bool {
	hex, ok := b.Location(piece)
	if !ok {
		return false
	}
	return b.stacks[hex].Top() == MakeToken(piece)
}

// Stacked reports whether the piece sits in a stack taller than one.
func (b *Board) Stacked(piece Piece) bool {
	hex, ok := b.Location(piece)
	if !ok {
		return false
	}
	return b.stacks[hex].Height() > 1
}

// Queen returns the queen's hex for the given player, if placed.
func (b *Board) Queen(player Player) (Hex, bool) {
	return b.Location(Piece{Player: player, Kind: Queen, Num: 1})
}

// NeighbourPieces returns the pieces on top of the stacks neighbouring the
// given hex.
func (b *Board) NeighbourPieces(hex Hex) []Piece {
	var ret []Piece
	for _, n := range Neighbours(hex) {
		if p, ok := b.Top(n); ok {
			ret = append(ret, p)
		}
	}
	return ret
}

// IsPinned reports whether the piece cannot move: it is covered by another
// piece, or it is an articulation point of the hive.
func (b *Board) IsPinned(piece Piece) bool {
	hex, ok := b.Location(piece)
	if !ok {
		return false
	}
	if b.stacks[hex].Top() != MakeToken(piece) {
		return true
	}
	if b.stacks[hex].Height() > 1 {
		return false
	}
	return b.pinned.Contains(hex)
}

// PinnedPieces returns the placed pieces of the given player that are
// pinned.
func (b *Board) PinnedPieces(player Player) []Piece {
	var ret []Piece
	for i, hex := range b.pieces {
		if hex == hexNone {
			continue
		}
		piece := PieceFromIndex(uint8(i))
		if piece.Player == player && b.IsPinned(piece) {
			ret = append(ret, piece)
		}
	}
	return ret
}

// PinnedHexes returns the set of pinned hexes.
func (b *Board) PinnedHexes() Collection {
	return b.pinned
}

// IsBlockedCrawler reports whether a height-1 piece is unable to vacate its
// hex at ground level: it is pinned, or its open neighbours do not include
// two adjacent hexes to slide through.
func (b *Board) IsBlockedCrawler(hex Hex) bool {
	if b.stacks[hex].Height() != 1 {
		return false
	}
	if b.pinned.Contains(hex) {
		return true
	}

	var open []Hex
	for _, n := range Neighbours(hex) {
		if !b.Occupied(n) {
			open = append(open, n)
		}
	}
	if len(open) < 2 {
		return true
	}
	for i, a := range open {
		for _, c := range open[i+1:] {
			if _, ok := DirectionTo(a, c); ok {
				return false
			}
		}
	}
	return true
}

// State returns the observable state of the game, determined by whether
// each placed queen is surrounded on all six neighbours.
func (b *Board) State() GameState {
	if b.Turn() == 0 {
		return NotStarted
	}

	surrounded := func(player Player) bool {
		hex, ok := b.Queen(player)
		if !ok {
			return false
		}
		for _, n := range Neighbours(hex) {
			if !b.field.Contains(n) {
				return false
			}
		}
		return true
	}

	white, black := surrounded(White), surrounded(Black)
	switch {
	case white && black:
		return Draw
	case white:
		return BlackWins
	case black:
		return WhiteWins
	default:
		return InProgress
	}
}

// Check ensures a move is valid in the current position, or returns an
// error explaining why it is not.
func (b *Board) Check(m Move) error {
	switch m.Type {
	case PlaceMove:
		hex, err := b.resolveRef(m)
		if err != nil {
			return fault.Chain(err, fault.Newf(fault.InvalidMove, "Cannot place %v.", m.Piece))
		}
		return b.canPlace(m.Piece, hex)
	case PieceMove:
		hex, err := b.resolveRef(m)
		if err != nil {
			return fault.Chain(err, fault.Newf(fault.InvalidMove, "Cannot move %v.", m.Piece))
		}
		return b.canMove(m.Piece, hex)
	default:
		return nil
	}
}

// Play plays the given move on the board, if legal. Returns the key of the
// new position.
func (b *Board) Play(m Move) (Key, error) {
	if err := b.Check(m); err != nil {
		return Key{}, err
	}
	return b.PlayUnchecked(m), nil
}

// PlayUnchecked plays the move onto the board. Assumes Check passed.
func (b *Board) PlayUnchecked(m Move) Key {
	entry := Entry{
		Move:        m,
		PrevStunned: b.stunned,
	}
	if patch, ok := b.patchFrom(m); ok {
		entry.Patch = patch
		entry.HasPatch = true
	}

	switch m.Type {
	case PlaceMove:
		hex, _ := b.resolveRef(m)
		b.insertUnchecked(m.Piece, hex)

		// The last piece touched is immune to the pillbug next turn.
		b.setImmune(lang.Some(hex))
		b.setStun(lang.Optional[Hex]{})

	case PieceMove:
		b.removeUnchecked(m.Piece)

		hex, _ := b.resolveRef(m)
		b.insertUnchecked(m.Piece, hex)

		b.setImmune(lang.Some(hex))
		b.setStun(lang.Some(hex))

	default:
		b.setImmune(lang.Optional[Hex]{})
		b.setStun(lang.Optional[Hex]{})
	}

	b.pinned = b.field.FindPins()
	b.history.Play(entry)
	b.zobrist.Next()

	return b.zobrist.Key()
}

// Undo undoes a number of moves, if possible.
func (b *Board) Undo(n uint8) (Key, error) {
	if int(n) > b.history.Len() {
		return Key{}, fault.Newf(fault.TooManyUndos, "Asked for %v undos, but only %v turns have been played on this board.", n, b.history.Len())
	}
	for i := uint8(0); i < n; i++ {
		if err := b.undoOne(); err != nil {
			base := fault.New(fault.InternalError, "Failed to undo last move.")
			return Key{}, fault.Critical(fault.Chain(err, base))
		}
	}
	return b.zobrist.Key(), nil
}

// Redo replays the next move in this line, if one exists.
func (b *Board) Redo() (Key, error) {
	entry, ok := b.history.Next()
	if !ok {
		return Key{}, fault.New(fault.InvalidMove, "No move to redo.")
	}
	return b.PlayUnchecked(entry.Move), nil
}

// undoOne restores the inverse of the most recent move. The move passed a
// Check when it was played, so restoration is unchecked; a failure here is
// a broken invariant.
func (b *Board) undoOne() error {
	entry, ok := b.history.Prev()
	if !ok {
		return fault.New(fault.InternalError, "No move to undo.")
	}

	switch entry.Move.Type {
	case PlaceMove:
		b.removeUnchecked(entry.Move.Piece)
	case PieceMove:
		b.removeUnchecked(entry.Move.Piece)
		from, ok := entry.Patch.From.V()
		if !ok {
			return fault.New(fault.InternalError, "Move entry has no source hex.")
		}
		b.insertUnchecked(entry.Move.Piece, from)
	}

	b.pinned = b.field.FindPins()
	b.history.Undo()

	// The immune hex is the destination of the new tail; the stun state
	// rolls back to what it was before the undone move.
	if tail, ok := b.history.Prev(); ok && tail.HasPatch {
		b.setImmune(lang.Some(tail.Patch.To))
	} else {
		b.setImmune(lang.Optional[Hex]{})
	}
	b.setStun(entry.PrevStunned)

	b.zobrist.Prev()
	return nil
}

// resolveRef resolves a move's relative reference into a grid coordinate.
// The first placement of the game resolves to Root.
func (b *Board) resolveRef(m Move) (Hex, error) {
	if !m.HasRef {
		return Root, nil
	}
	loc, ok := b.Location(m.Ref.Piece)
	if !ok {
		return 0, fault.Newf(fault.InvalidMove, "Reference piece %v is not in the hive.", m.Ref.Piece)
	}
	if m.Ref.HasDirection {
		return loc.Add(m.Ref.Direction), nil
	}
	return loc, nil
}

// reference "unresolves" a hex into a NextTo usable in a move string.
func (b *Board) reference(moving Piece, hex Hex) (NextTo, bool) {
	// Climbing onto a stack references the piece underneath.
	if top, ok := b.Top(hex); ok {
		return NextTo{Piece: top}, true
	}

	for _, d := range Directions() {
		loc := hex.Sub(d)
		top, ok := b.Top(loc)
		if !ok || top == moving {
			continue
		}
		return NextTo{Piece: top, Direction: d, HasDirection: true}, true
	}
	return NextTo{}, false
}

func (b *Board) patchFrom(m Move) (Patch, bool) {
	if m.Type == PassMove {
		return Patch{}, false
	}
	to, _ := b.resolveRef(m)
	return Patch{Piece: m.Piece, From: b.history.LastHex(m.Piece), To: to}, true
}

// insertUnchecked puts a piece into the hive and updates the hash.
func (b *Board) insertUnchecked(piece Piece, hex Hex) {
	b.pouch.Take(piece.Player, piece.Kind)

	b.pieces[piece.Index()] = hex
	b.field.Push(hex)
	b.stacks[hex].Push(MakeToken(piece))

	b.zobrist.Hash(piece, hex, b.stacks[hex].Height())
}

// removeUnchecked takes a piece out of the hive, back into the pouch.
func (b *Board) removeUnchecked(piece Piece) {
	hex := b.pieces[piece.Index()]
	height := b.stacks[hex].Height()

	b.zobrist.Hash(piece, hex, height)

	b.stacks[hex].Pop()
	b.pieces[piece.Index()] = hexNone
	b.field.Pop(hex)
	b.pouch.Put(piece)
}

func (b *Board) setImmune(hex lang.Optional[Hex]) {
	b.immune = hex
	b.zobrist.Last(hex)
}

func (b *Board) setStun(hex lang.Optional[Hex]) {
	b.stunned = hex
	b.zobrist.Stun(hex)
}
