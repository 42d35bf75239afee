package hive

import (
	"github.com/rsarvar1a/hivemind/pkg/fault"
)

// canPlace ensures a piece can be placed into the hive.
//
// A piece can be placed if:
//
//  1. the queen-placement constraints for this turn allow its species;
//  2. it belongs to the player to move;
//  3. it is still in the pouch, with the lowest unused discriminator;
//  4. its target hex is unoccupied; and
//  5. it has at least one friendly neighbour and no uncovered opposing
//     neighbour (relaxed during the opening turns).
func (b *Board) canPlace(piece Piece, hex Hex) error {
	base := fault.Newf(fault.InvalidMove, "Cannot place %v at hex %v.", piece, ToAxial(hex))

	if err := b.ensureQueenPlacement(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureCorrectPlayer(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureUnplaced(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureLowestDiscriminator(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureNoStack(hex); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureDrop(piece, hex); err != nil {
		return fault.Chain(err, base)
	}
	return nil
}

// canMove ensures a piece can be moved to the given hex.
//
// A piece can be moved if:
//
//  1. the mover's queen is already in the hive;
//  2. the piece is placed, on top of its stack, and not stunned;
//  3. removing it does not split the hive; and
//  4. either it moves by its own species' rules on the mover's turn, or an
//     adjacent friendly pillbug (or mosquito acting as one) throws it.
func (b *Board) canMove(piece Piece, hex Hex) error {
	base := fault.Newf(fault.InvalidMove, "Cannot move %v to %v.", piece, ToAxial(hex))

	if err := b.ensurePiecesCanMove(); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensurePlaced(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureOnTop(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureActive(piece); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureOneHive(piece); err != nil {
		return fault.Chain(err, base)
	}

	from, _ := b.Location(piece)

	motionErr := func() error {
		if err := b.ensureCorrectPlayer(piece); err != nil {
			return err
		}
		return b.checkMotion(piece, hex)
	}()
	if motionErr == nil {
		return nil
	}

	// Not a self move. The movement is still legal if a pillbug throw
	// explains it.
	if throwErr := b.checkThrow(from, hex); throwErr != nil {
		return fault.Chain(throwErr, fault.Chain(motionErr, base))
	}
	return nil
}

// ensureActive ensures the piece is not stunned.
func (b *Board) ensureActive(piece Piece) error {
	hex, _ := b.Location(piece)
	if stunned, ok := b.stunned.V(); ok && stunned == hex {
		return fault.Newf(fault.InvalidState, "Piece %v was stunned by a Pillbug.", piece)
	}
	return nil
}

// ensureCorrectPlayer ensures a played piece belongs to the player moving
// this turn.
func (b *Board) ensureCorrectPlayer(piece Piece) error {
	toMove := b.ToMove()
	if piece.Player != toMove {
		return fault.Newf(fault.InvalidState, "Cannot place or directly move a %v bug on %v's turn.", piece.Player, toMove)
	}
	return nil
}

// ensureDrop ensures the piece can be dropped at this hex: next to a
// friendly piece and away from enemy pieces, except during the first two
// placements.
func (b *Board) ensureDrop(piece Piece, hex Hex) error {
	switch {
	case b.field.Len() >= 2:
		neighbours := b.NeighbourPieces(hex)

		friendly := false
		for _, n := range neighbours {
			if n.Player == piece.Player {
				friendly = true
				break
			}
		}
		if !friendly {
			return fault.Newf(fault.InvalidState, "Hex %v does not neighbour a friendly piece.", ToAxial(hex))
		}
		for _, n := range neighbours {
			if n.Player != piece.Player {
				return fault.Newf(fault.InvalidState, "Hex %v neighbours opposing piece %v.", ToAxial(hex), n)
			}
		}
		return nil

	case b.field.Len() == 1:
		for _, n := range Neighbours(Root) {
			if n == hex {
				return nil
			}
		}
		return fault.New(fault.InvalidState, "Must neighbour the starting piece.")

	default:
		return nil
	}
}

// ensureLowestDiscriminator ensures the piece being played has a lower
// discriminator than any other unplayed piece of its species.
func (b *Board) ensureLowestDiscriminator(piece Piece) error {
	num, ok := b.pouch.Peek(piece.Player, piece.Kind)
	if !ok {
		return fault.Newf(fault.InvalidState, "There are no more %vs to play.", piece.Kind.Long())
	}
	if num != piece.Num {
		next := Piece{Player: piece.Player, Kind: piece.Kind, Num: num}
		return fault.Newf(fault.MismatchError, "The next %v to place is %v, but tried to place %v.", piece.Kind.Long(), next, piece)
	}
	return nil
}

// ensureNoStack ensures the destination hex is empty.
func (b *Board) ensureNoStack(hex Hex) error {
	if top, ok := b.Top(hex); ok {
		return fault.Newf(fault.InvalidState, "Hex %v is already occupied by the stack ending in %v.", ToAxial(hex), top)
	}
	return nil
}

// ensureOnTop ensures the piece is on top of its stack.
func (b *Board) ensureOnTop(piece Piece) error {
	if !b.OnTop(piece) {
		return fault.Newf(fault.InvalidState, "Piece %v is not on the top of its stack.", piece)
	}
	return nil
}

// ensureOneHive ensures removing the piece leaves the hive connected.
func (b *Board) ensureOneHive(piece Piece) error {
	hex, ok := b.Location(piece)
	if !ok {
		return nil
	}
	if b.stacks[hex].Height() > 1 {
		// A stacked piece never splits the hive when lifted.
		return nil
	}
	if !b.pinned.Contains(hex) {
		return nil
	}
	return fault.Newf(fault.OneHivePrinciple, "Piece %v started at hex %v and is pinned by the one hive principle.", piece, ToAxial(hex))
}

// ensurePiecesCanMove ensures the mover's queen is already in the hive.
func (b *Board) ensurePiecesCanMove() error {
	if _, ok := b.Queen(b.ToMove()); !ok {
		return fault.New(fault.InvalidState, "Pieces cannot move before the queen is placed.")
	}
	return nil
}

// ensurePlaced ensures the piece is in the hive.
func (b *Board) ensurePlaced(piece Piece) error {
	if !b.Placed(piece) {
		return fault.Newf(fault.InvalidState, "Piece %v is not in the Hive.", piece)
	}
	return nil
}

// ensureQueenPlacement enforces the constraints on when a queen can enter
// the hive: never on a player's first turn, and no later than the end of
// their fourth.
func (b *Board) ensureQueenPlacement(piece Piece) error {
	turn := TurnFromPly(b.Turn())
	if turn.Number == 1 && piece.Kind == Queen {
		return fault.New(fault.InvalidState, "The queen cannot be placed on the 1st turn.")
	}
	if turn.Number == 4 && piece.Kind != Queen {
		if _, ok := b.Queen(turn.Player); !ok {
			return fault.New(fault.InvalidState, "The queen must be placed by the end of the 4th turn.")
		}
	}
	return nil
}

// ensureUnplaced ensures the piece is not already in the hive.
func (b *Board) ensureUnplaced(piece Piece) error {
	if hex, ok := b.Location(piece); ok {
		return fault.Newf(fault.InvalidState, "Piece %v is already in the hive at hex %v.", piece, ToAxial(hex))
	}
	return nil
}
