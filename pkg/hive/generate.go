package hive

import "sort"

// GenerateMoves generates all valid moves in the position, not including
// Pass. With standardPosition set, the second placement of the game is
// restricted to a single hex to cut symmetric openings.
func (b *Board) GenerateMoves(standardPosition bool) []Move {
	moves := b.generatePlacements(standardPosition, nil)
	moves = b.generateSelfMoves(moves)
	moves = b.generateThrows(moves)
	return moves
}

// GenerateTacticalMoves generates the reduced move set used by quiescence
// search to resolve horizon effects.
//
// A placement is a loss of pinning tempo, so it should yield power
// elsewhere: if our move two plies ago was a placement that did not drop
// directly onto the enemy queen, its extensions are tactical. If instead
// the opponent just placed a piece away from our queen, the full move set
// is tactical so the defence can answer. Anything else is quiet.
func (b *Board) GenerateTacticalMoves() []Move {
	// Don't waste time here in the opening.
	if b.Turn() < 8 {
		return nil
	}

	past := b.history.Past()
	ours, theirs := past[len(past)-2], past[len(past)-1]

	// A direct drop onto the enemy queen is sharp enough already; anything
	// quieter extends the placed piece and ends the tactical set there. Only
	// a direct drop falls through to the defensive case below.
	if ours.Move.Type == PlaceMove {
		if enemyQueen, ok := b.Queen(b.ToMove().Flip()); !ok || !adjacent(ours.Patch.To, enemyQueen) {
			return b.generateMovesFor(ours.Move.Piece, nil)
		}
	}

	if theirs.Move.Type == PlaceMove {
		if ourQueen, ok := b.Queen(b.ToMove()); !ok || !adjacent(theirs.Patch.To, ourQueen) {
			return b.GenerateMoves(false)
		}
	}
	return nil
}

func adjacent(a, to Hex) bool {
	_, ok := DirectionTo(a, to)
	return ok
}

// sortedHexes orders a reachability set so generation stays deterministic.
func sortedHexes(set map[Hex]struct{}) []Hex {
	ret := make([]Hex, 0, len(set))
	for h := range set {
		ret = append(ret, h)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// generatePlacements appends placements for the player to move.
func (b *Board) generatePlacements(standardPosition bool, moves []Move) []Move {
	toMove := b.ToMove()
	deploys := b.hexesForPlacements(standardPosition)

	var reserve []Piece
	if _, ok := b.Queen(toMove); !ok && b.Turn() >= 6 {
		// The queen must enter before the end of the fourth turn.
		reserve = []Piece{{Player: toMove, Kind: Queen, Num: 1}}
	} else {
		for _, kind := range Bugs() {
			// Species excluded by the expansion settings have no next piece.
			piece, ok := b.pouch.Next(toMove, kind)
			if !ok {
				continue
			}
			if b.Turn() < 2 && piece.Kind == Queen {
				continue
			}
			reserve = append(reserve, piece)
		}
	}

	for _, piece := range reserve {
		for _, hex := range deploys {
			if b.Turn() == 0 {
				moves = append(moves, NewFirstPlacement(piece))
				continue
			}
			if ref, ok := b.reference(piece, hex); ok {
				moves = append(moves, NewPlacement(piece, ref))
			}
		}
	}
	return moves
}

// generateSelfMoves appends true moves for the player to move, not
// including throws.
func (b *Board) generateSelfMoves(moves []Move) []Move {
	toMove := b.ToMove()
	if _, ok := b.Queen(toMove); !ok {
		// Pieces can't move until the queen is in the hive.
		return moves
	}

	for i, hex := range b.pieces {
		if hex == hexNone {
			continue
		}
		piece := PieceFromIndex(uint8(i))
		if piece.Player != toMove || b.IsPinned(piece) {
			continue
		}
		if stunned, ok := b.stunned.V(); ok && stunned == hex {
			continue
		}
		moves = b.generateMovesFor(piece, moves)
	}
	return moves
}

// generateThrows appends every legal pillbug throw for the player to move.
func (b *Board) generateThrows(moves []Move) []Move {
	toMove := b.ToMove()
	if _, ok := b.Queen(toMove); !ok {
		return moves
	}

	throwers := [2]Piece{
		{Player: toMove, Kind: Mosquito, Num: 1},
		{Player: toMove, Kind: Pillbug, Num: 1},
	}

	for _, thrower := range throwers {
		if !b.CanThrowAnother(thrower) {
			continue
		}

		intermediate, _ := b.Location(thrower)
		neighbours := Neighbours(intermediate)

		for _, from := range neighbours {
			moving, ok := b.Top(from)
			if !ok || b.ensureOneHive(moving) != nil {
				continue
			}
			for _, to := range neighbours {
				if b.checkThrow(from, to) != nil {
					continue
				}
				if ref, ok := b.reference(moving, to); ok {
					moves = append(moves, NewMovement(moving, ref))
				}
			}
		}
	}
	return moves
}

// hexesForPlacements returns all the hexes the current player can drop a
// piece into.
func (b *Board) hexesForPlacements(standardPosition bool) []Hex {
	switch b.Turn() {
	case 0:
		return []Hex{Root}
	case 1:
		if standardPosition {
			return []Hex{Root.Add(East)}
		}
		n := Neighbours(Root)
		return n[:]
	default:
		toMove := b.ToMove()
		var seen Collection
		var ret []Hex
		for _, hex := range b.pieces {
			if hex == hexNone {
				continue
			}
			top, ok := b.Top(hex)
			if !ok || top.Player != toMove {
				continue
			}
			for _, n := range Neighbours(hex) {
				if seen.Contains(n) || b.Occupied(n) {
					continue
				}
				seen.Insert(n)

				hostile := false
				for _, p := range b.NeighbourPieces(n) {
					if p.Player != toMove {
						hostile = true
						break
					}
				}
				if !hostile {
					ret = append(ret, n)
				}
			}
		}
		return ret
	}
}

// generateMovesFor finds all the ways this piece can move as itself.
func (b *Board) generateMovesFor(piece Piece, moves []Move) []Move {
	return b.generateMovesForKind(piece, piece.Kind, moves)
}

// generateMovesForKind generates moves for the piece as if it were the
// given species. The indirection lets the mosquito recurse on its
// neighbours' species.
func (b *Board) generateMovesForKind(piece Piece, kind Bug, moves []Move) []Move {
	switch kind {
	case Ant:
		return b.generateAnt(piece, moves)
	case Beetle:
		return b.generateBeetle(piece, moves)
	case Grasshopper:
		return b.generateGrasshopper(piece, moves)
	case Ladybug:
		return b.generateLadybug(piece, moves)
	case Mosquito:
		return b.generateMosquito(piece, moves)
	case Pillbug, Queen:
		return b.generateGroundCrawls(piece, moves)
	default:
		return b.generateSpider(piece, moves)
	}
}

// generateGroundCrawls generates single-step ground crawls.
func (b *Board) generateGroundCrawls(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	for _, to := range Neighbours(from) {
		if b.Occupied(to) || !b.connectedWithout(piece, to) {
			continue
		}
		if b.ensureGroundMovement(from, to) != nil || b.ensureCrawl(from, to, false) != nil {
			continue
		}
		if ref, ok := b.reference(piece, to); ok {
			moves = append(moves, NewMovement(piece, ref))
		}
	}
	return moves
}

func (b *Board) generateAnt(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	for _, to := range sortedHexes(b.field.FindCrawls(from, 0)) {
		if to == from {
			continue
		}
		if ref, ok := b.reference(piece, to); ok {
			moves = append(moves, NewMovement(piece, ref))
		}
	}
	return moves
}

func (b *Board) generateBeetle(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	for _, to := range Neighbours(from) {
		if !b.connectedWithout(piece, to) {
			continue
		}
		if b.ensureCrawl(from, to, false) != nil {
			continue
		}
		if ref, ok := b.reference(piece, to); ok {
			moves = append(moves, NewMovement(piece, ref))
		}
	}
	return moves
}

func (b *Board) generateGrasshopper(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	for _, d := range Directions() {
		to := from.Add(d)
		if !b.Occupied(to) {
			// No neighbour here, so no jump to start.
			continue
		}
		for b.Occupied(to) {
			to = to.Add(d)
		}
		if ref, ok := b.reference(piece, to); ok {
			moves = append(moves, NewMovement(piece, ref))
		}
	}
	return moves
}

func (b *Board) generateLadybug(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)

	var targets Collection
	for _, onto := range b.field.Neighbours(from) {
		if b.ensureCrawl(from, onto, false) != nil {
			continue
		}
		for _, ontop := range b.field.Neighbours(onto) {
			if ontop == from || b.ensureCrawl(onto, ontop, true) != nil {
				continue
			}
			for _, to := range Neighbours(ontop) {
				if to == from || to == onto || targets.Contains(to) {
					continue
				}
				if b.ensureGroundMovement(from, to) != nil {
					continue
				}
				if b.ensureCrawl(ontop, to, true) != nil {
					continue
				}
				targets.Insert(to)
				if ref, ok := b.reference(piece, to); ok {
					moves = append(moves, NewMovement(piece, ref))
				}
			}
		}
	}
	return moves
}

func (b *Board) generateMosquito(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	if b.stacks[from].Height() > 1 {
		return b.generateBeetle(piece, moves)
	}

	var borrowed [8]bool
	for _, n := range b.NeighbourPieces(from) {
		// The mosquito cannot move through the ability stolen by a
		// neighbouring mosquito.
		if n.Kind == Mosquito || borrowed[n.Kind] {
			continue
		}
		borrowed[n.Kind] = true
		moves = b.generateMovesForKind(piece, n.Kind, moves)
	}
	return moves
}

func (b *Board) generateSpider(piece Piece, moves []Move) []Move {
	from, _ := b.Location(piece)
	for _, to := range sortedHexes(b.field.FindCrawls(from, 3)) {
		if to == from {
			continue
		}
		if ref, ok := b.reference(piece, to); ok {
			moves = append(moves, NewMovement(piece, ref))
		}
	}
	return moves
}

// connectedWithout reports whether the target hex still touches the hive
// when the moving piece is discounted.
func (b *Board) connectedWithout(piece Piece, to Hex) bool {
	for _, adj := range b.NeighbourPieces(to) {
		if adj != piece {
			return true
		}
	}
	return false
}
