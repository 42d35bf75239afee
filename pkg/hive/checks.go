package hive

import (
	"github.com/rsarvar1a/hivemind/pkg/fault"
)

// checkMotion checks whether the piece can move to the target as itself.
func (b *Board) checkMotion(piece Piece, to Hex) error {
	from, _ := b.Location(piece)
	return b.checkMotionAs(piece.Kind, from, to)
}

// checkMotionAs checks a movement as if performed by the given species.
// Extracted so the mosquito can borrow its neighbours' movement without
// repeating the one-hive work.
func (b *Board) checkMotionAs(kind Bug, from, to Hex) error {
	var err error
	switch kind {
	case Ant:
		err = b.checkAnt(from, to)
	case Beetle:
		err = b.checkBeetle(from, to)
	case Grasshopper:
		err = b.checkGrasshopper(from, to)
	case Ladybug:
		err = b.checkLadybug(from, to)
	case Mosquito:
		err = b.checkMosquito(from, to)
	case Pillbug:
		err = b.checkPillbug(from, to)
	case Queen:
		err = b.checkQueen(from, to)
	default:
		err = b.checkSpider(from, to)
	}
	if err != nil {
		return fault.Chain(err, fault.Newf(fault.LogicError, "This is not a valid %v move.", kind.Long()))
	}
	return nil
}

// CanThrowAnother determines whether the given piece can act as a pillbug
// this turn: it is the mover's unstunned pillbug, or their mosquito
// neighbouring a pillbug.
func (b *Board) CanThrowAnother(piece Piece) bool {
	hex, ok := b.Location(piece)
	if !ok {
		return false
	}
	if stunned, sok := b.stunned.V(); sok && stunned == hex {
		return false
	}
	if piece.Player != b.ToMove() {
		return false
	}

	switch piece.Kind {
	case Pillbug:
		return true
	case Mosquito:
		for _, n := range b.NeighbourPieces(hex) {
			if n.Kind == Pillbug {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// checkThrow checks whether the movement can be explained by a pillbug
// ability of any neighbouring piece.
func (b *Board) checkThrow(from, to Hex) error {
	base := fault.New(fault.LogicError, "This movement was not caused by a Pillbug ability.")

	if immune, ok := b.immune.V(); ok && immune == from {
		err := fault.Newf(fault.ImmuneToPillbug, "Hex %v is immune to the Pillbug ability this turn.", ToAxial(from))
		return fault.Chain(err, base)
	}

	for _, via := range b.NeighbourPieces(from) {
		if b.CanThrowAnother(via) && b.CheckThrowVia(from, via, to) == nil {
			return nil
		}
	}
	return fault.Chain(fault.New(fault.LogicError, "None of this piece's neighbours can throw it."), base)
}

// CheckThrowVia checks whether the movement is a valid throw when the given
// piece does the throwing: the thrown piece crawls up onto the thrower and
// down into the destination.
func (b *Board) CheckThrowVia(from Hex, via Piece, to Hex) error {
	base := fault.Newf(fault.InvalidMove, "Piece %v cannot execute this throw.", via)

	intermediate, _ := b.Location(via)
	if err := b.ensureGroundMovement(from, to); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureCrawl(from, intermediate, false); err != nil {
		return fault.Chain(err, base)
	}
	if err := b.ensureCrawl(intermediate, to, true); err != nil {
		return fault.Chain(err, base)
	}
	return nil
}

// ensureCrawl ensures a bug can crawl one hex.
func (b *Board) ensureCrawl(from, to Hex, ghosting bool) error {
	if err := b.field.EnsureConstantContact(from, to, ghosting); err != nil {
		return err
	}
	return b.field.EnsureFreedomToMove(from, to, ghosting)
}

// ensureGroundMovement ensures the movement both starts and ends at ground
// level, but makes no other guarantee.
func (b *Board) ensureGroundMovement(from, to Hex) error {
	base := fault.New(fault.LogicError, "This movement is required to start and end on the ground.")

	heightF := b.field.heightOr(from, 0)
	heightT := b.field.heightOr(to, 0) + 1

	if heightF > 1 {
		return fault.Chain(fault.Newf(fault.LogicError, "Starting stack is %v bugs tall.", heightF), base)
	}
	if heightT > 1 {
		return fault.Chain(fault.Newf(fault.LogicError, "Ending stack height would be %v.", heightT), base)
	}
	return nil
}

func (b *Board) checkAnt(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}
	return b.field.EnsurePerimeterCrawl(from, to, 0)
}

func (b *Board) checkBeetle(from, to Hex) error {
	return b.ensureCrawl(from, to, false)
}

func (b *Board) checkGrasshopper(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}

	// Try every direction with a neighbour: jump over the contiguous run
	// of occupied hexes and see where we land.
	for _, d := range Directions() {
		hex := from.Add(d)
		if !b.Occupied(hex) {
			continue
		}
		for b.Occupied(hex) {
			hex = hex.Add(d)
		}
		if hex == to {
			return nil
		}
	}
	return fault.New(fault.LogicError, "Could not complete this jump in any direction.")
}

func (b *Board) checkLadybug(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}

	// Two steps on top of the hive, then one step down into the target.
	// The starting hex is excluded: its own stack was never removed.
	for _, onto := range b.field.Neighbours(from) {
		if b.ensureCrawl(from, onto, false) != nil {
			continue
		}
		for _, ontop := range b.field.Neighbours(onto) {
			if ontop == from {
				continue
			}
			if b.ensureCrawl(onto, ontop, true) != nil {
				continue
			}
			if b.ensureCrawl(ontop, to, true) == nil {
				return nil
			}
		}
	}
	return fault.New(fault.LogicError, "Conducted an exhaustive search for paths, but failed.")
}

func (b *Board) checkMosquito(from, to Hex) error {
	if h, _ := b.field.Height(from); h > 1 {
		// Stacked on the hive, the mosquito moves as a beetle.
		return b.checkMotionAs(Beetle, from, to)
	}

	for _, n := range b.NeighbourPieces(from) {
		// The mosquito cannot borrow from a neighbouring mosquito.
		if n.Kind == Mosquito {
			continue
		}
		if b.checkMotionAs(n.Kind, from, to) == nil {
			return nil
		}
	}
	return fault.New(fault.LogicError, "Could not move as any neighbouring bug.")
}

func (b *Board) checkPillbug(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}
	return b.ensureCrawl(from, to, false)
}

func (b *Board) checkQueen(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}
	return b.ensureCrawl(from, to, false)
}

func (b *Board) checkSpider(from, to Hex) error {
	if err := b.ensureGroundMovement(from, to); err != nil {
		return err
	}
	return b.field.EnsurePerimeterCrawl(from, to, 3)
}
