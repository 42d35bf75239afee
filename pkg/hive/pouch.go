package hive

// Pouch holds the pieces that have not yet entered play.
type Pouch struct {
	pieces [2][8]uint8
	totals [8]uint8
}

// NewPouch creates a pouch with the optional species determined by the
// game options.
func NewPouch(options Options) Pouch {
	extents := pouchExtents(options)
	return Pouch{
		pieces: [2][8]uint8{extents, extents},
		totals: extents,
	}
}

// Extents returns the starting number of each species per player.
func (p *Pouch) Extents() [8]uint8 {
	return p.totals
}

// Hand returns how many pieces of each species are left in a player's hand.
func (p *Pouch) Hand(player Player) [8]uint8 {
	return p.pieces[player]
}

// Peek returns the lowest unused discriminator left for the given species.
func (p *Pouch) Peek(player Player, kind Bug) (uint8, bool) {
	remaining := p.pieces[player][kind]
	if remaining == 0 {
		return 0, false
	}
	return 1 + p.totals[kind] - remaining, true
}

// Next returns the next piece of the given species to be placed.
func (p *Pouch) Next(player Player, kind Bug) (Piece, bool) {
	num, ok := p.Peek(player, kind)
	if !ok {
		return Piece{}, false
	}
	return Piece{Player: player, Kind: kind, Num: num}, true
}

// Take removes the next piece of the given species from the pouch.
func (p *Pouch) Take(player Player, kind Bug) (Piece, bool) {
	next, ok := p.Next(player, kind)
	if !ok {
		return Piece{}, false
	}
	p.pieces[player][kind]--
	return next, true
}

// Put returns a piece to the pouch. The discriminator is unchecked; use
// Peek to obtain the correct one before placing.
func (p *Pouch) Put(piece Piece) {
	p.pieces[piece.Player][piece.Kind]++
}

func pouchExtents(options Options) [8]uint8 {
	extents := [8]uint8{Ant: 3, Beetle: 2, Grasshopper: 3, Queen: 1, Spider: 2}
	if options.Expansions.Ladybug {
		extents[Ladybug] = 1
	}
	if options.Expansions.Mosquito {
		extents[Mosquito] = 1
	}
	if options.Expansions.Pillbug {
		extents[Pillbug] = 1
	}
	return extents
}
