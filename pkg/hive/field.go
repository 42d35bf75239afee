package hive

import (
	"sort"

	"github.com/rsarvar1a/hivemind/pkg/fault"
)

// Collection is a dense bitset of hexes. It is a drop-in replacement for a
// hash set where the caller only needs membership tests.
type Collection [Size / 64]uint64

// Contains reports whether the hex is in the set.
func (c *Collection) Contains(h Hex) bool {
	return c[h>>6]>>(h&63)&1 != 0
}

// Insert adds the hex to the set.
func (c *Collection) Insert(h Hex) {
	c[h>>6] |= 1 << (h & 63)
}

// Remove deletes the hex from the set.
func (c *Collection) Remove(h Hex) {
	c[h>>6] &^= 1 << (h & 63)
}

// Field is a multiset of occupied hexes keyed by stack height, used for
// reachability and movement-rule calculations.
type Field struct {
	heights map[Hex]uint8
}

// NewField returns an empty field.
func NewField() *Field {
	return &Field{heights: make(map[Hex]uint8)}
}

// Clone deep-copies the field.
func (f *Field) Clone() *Field {
	heights := make(map[Hex]uint8, len(f.heights))
	for h, n := range f.heights {
		heights[h] = n
	}
	return &Field{heights: heights}
}

// Contains reports whether the hex is occupied.
func (f *Field) Contains(h Hex) bool {
	_, ok := f.heights[h]
	return ok
}

// Height returns the stack height at the hex, if occupied.
func (f *Field) Height(h Hex) (uint8, bool) {
	n, ok := f.heights[h]
	return n, ok
}

// Len returns the number of occupied hexes.
func (f *Field) Len() int {
	return len(f.heights)
}

// IsEmpty reports whether the hive is empty.
func (f *Field) IsEmpty() bool {
	return len(f.heights) == 0
}

// Hexes returns the occupied hexes in hex order. The fixed order keeps
// move generation and evaluation deterministic.
func (f *Field) Hexes() []Hex {
	ret := make([]Hex, 0, len(f.heights))
	for h := range f.heights {
		ret = append(ret, h)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Push adds one piece to the hex.
func (f *Field) Push(h Hex) {
	f.heights[h]++
}

// Pop removes one piece from the hex.
func (f *Field) Pop(h Hex) {
	n, ok := f.heights[h]
	if !ok {
		return
	}
	if n <= 1 {
		delete(f.heights, h)
	} else {
		f.heights[h] = n - 1
	}
}

// Neighbours returns the occupied neighbours of the given hex.
func (f *Field) Neighbours(h Hex) []Hex {
	var ret []Hex
	for _, n := range Neighbours(h) {
		if f.Contains(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

// IsGated reports whether the hex is locked behind a gate: five or more
// occupied neighbours make a hex inaccessible to any crawl.
func (f *Field) IsGated(h Hex) bool {
	return len(f.Neighbours(h)) >= 5
}

func (f *Field) ensureCommonNeighbours(from, to Hex) (Hex, Hex, error) {
	cw, ccw, ok := CommonNeighbours(from, to)
	if !ok {
		return 0, 0, fault.Newf(fault.InvalidState, "Hex %v and hex %v are not neighbours.", ToAxial(from), ToAxial(to))
	}
	return cw, ccw, nil
}

// EnsureConstantContact checks the constant contact rule for a single-step
// movement. The rule holds when the hexes are neighbours and either a
// common neighbour is occupied or one end is elevated.
//
// If the from-hex is not in the hive, the check assumes a piece at ground
// level there. Passing ghosting=true assumes a piece one higher instead.
func (f *Field) EnsureConstantContact(from, to Hex, ghosting bool) error {
	base := fault.Newf(fault.ConstantContact, "Moving from hex %v to hex %v violates the constant contact principle.", ToAxial(from), ToAxial(to))

	cw, ccw, err := f.ensureCommonNeighbours(from, to)
	if err != nil {
		return fault.Chain(err, base)
	}

	// The from-height is correct as-is: the moving piece has not been
	// removed from its stack yet. The to-height counts the piece as
	// already landed.
	heightF := f.heightOr(from, 1)
	if ghosting {
		heightF++
	}
	heightT := f.heightOr(to, 0) + 1

	if heightF > 1 || heightT > 1 {
		// Either stack has a bug underneath sharing an edge with the path.
		return nil
	}
	if !f.Contains(cw) && !f.Contains(ccw) {
		err := fault.Newf(fault.InvalidState, "Neither common neighbour, %v or %v, is in the hive.", ToAxial(cw), ToAxial(ccw))
		return fault.Chain(err, base)
	}
	return nil
}

// EnsureFreedomToMove checks the freedom to move rule for a single-step
// movement: if both common neighbours are occupied, the shorter of their
// stacks must be strictly lower than the path height, else the movement is
// gated.
//
// Ghosting has the same meaning as for EnsureConstantContact.
func (f *Field) EnsureFreedomToMove(from, to Hex, ghosting bool) error {
	base := fault.Newf(fault.FreedomToMove, "Moving from hex %v to hex %v violates the freedom to move principle.", ToAxial(from), ToAxial(to))

	cw, ccw, err := f.ensureCommonNeighbours(from, to)
	if err != nil {
		return fault.Chain(err, base)
	}

	if !f.Contains(cw) || !f.Contains(ccw) {
		return nil
	}

	heightCW := f.heightOr(cw, 0)
	heightCCW := f.heightOr(ccw, 0)

	heightF := f.heightOr(from, 1)
	if ghosting {
		heightF++
	}
	heightT := f.heightOr(to, 0) + 1

	heightPath := max(heightF, heightT)
	heightGate := min(heightCW, heightCCW)

	if heightGate >= heightPath {
		err := fault.Newf(fault.InvalidState, "Neighbouring hexes form a gate at least %v bugs tall, which gates the movement at height %v.", heightGate, heightPath)
		return fault.Chain(err, base)
	}
	return nil
}

// EnsurePerimeterCrawl checks that a crawl from one hex to another is
// possible along the perimeter. A positive distance requires a path of
// exactly that many steps; distance 0 allows any length.
func (f *Field) EnsurePerimeterCrawl(from, to Hex, distance int) error {
	if _, ok := f.FindCrawls(from, distance)[to]; ok {
		return nil
	}
	if distance > 0 {
		return fault.Newf(fault.LogicError, "Hex %v is not reachable in exactly %v steps.", ToAxial(to), distance)
	}
	return fault.Newf(fault.LogicError, "Hex %v is not reachable.", ToAxial(to))
}

// FindCrawls returns all ground hexes reachable by crawling from the given
// hex: at exactly the given distance when positive, or anywhere on the
// perimeter when distance is 0.
func (f *Field) FindCrawls(from Hex, distance int) map[Hex]struct{} {
	perimeter := f.Perimeter(from)
	if distance > 0 {
		return perimeter.ExactDistance(from, distance)
	}
	return perimeter.Reachable(from)
}

func (f *Field) heightOr(h Hex, def uint8) uint8 {
	if n, ok := f.heights[h]; ok {
		return n
	}
	return def
}

// hexStats tracks Hopcroft-Tarjan DFS numbers per visited hex.
type hexStats struct {
	num, low uint8
}

type descentRecord struct {
	visited map[Hex]hexStats
	pinned  Collection
	count   uint8
}

// FindPins returns every hex whose removal would disconnect the occupied
// subgraph. A root vertex is pinned iff it has two or more DFS children;
// any other vertex is pinned iff some child c has low[c] >= num[v].
func (f *Field) FindPins() Collection {
	state := descentRecord{
		visited: make(map[Hex]hexStats, len(f.heights)),
		count:   1,
	}
	for start := range f.heights {
		f.findPinsRecurse(start, start, true, &state)
		break
	}
	return state.pinned
}

func (f *Field) findPinsRecurse(hex, parent Hex, isRoot bool, state *descentRecord) {
	state.visited[hex] = hexStats{num: state.count, low: state.count}
	state.count++

	children := 0
	for _, neighbour := range f.Neighbours(hex) {
		if !isRoot && neighbour == parent {
			continue
		}

		prev := state.visited[hex]
		if stats, seen := state.visited[neighbour]; seen {
			prev.low = min(prev.low, stats.num)
			state.visited[hex] = prev
			continue
		}

		f.findPinsRecurse(neighbour, hex, false, state)
		children++

		stats := state.visited[neighbour]
		prev.low = min(prev.low, stats.low)
		state.visited[hex] = prev

		if !isRoot && stats.low >= prev.num {
			state.pinned.Insert(hex)
		}
	}

	if isRoot && children > 1 {
		state.pinned.Insert(hex)
	}
}

// Perimeter is the set of unoccupied hexes bordering the hive that are not
// gate-locked, paired with the field it was computed from. It contains
// every hex that is unoccupied, has at least one occupied neighbour, and
// has fewer than five occupied neighbours.
type Perimeter struct {
	perim *Field
	base  *Field
}

// Perimeter computes the perimeter of the field as if the given hex held
// one piece fewer.
func (f *Field) Perimeter(asIfWithout Hex) Perimeter {
	base := f.Clone()
	base.Pop(asIfWithout)

	perim := NewField()
	for h := range base.heights {
		for _, n := range Neighbours(h) {
			if !base.Contains(n) && !base.IsGated(n) && !perim.Contains(n) {
				perim.Push(n)
			}
		}
	}
	return Perimeter{perim: perim, base: base}
}

type pathRecord struct {
	visited map[Hex]struct{}
	reached map[Hex]struct{}
	depth   int
}

// ExactDistance returns all perimeter hexes reachable using a
// non-backtracking path of exactly the given length.
func (p Perimeter) ExactDistance(from Hex, length int) map[Hex]struct{} {
	state := pathRecord{
		visited: map[Hex]struct{}{from: {}},
		reached: make(map[Hex]struct{}),
		depth:   length,
	}
	if p.perim.Contains(from) {
		p.exactDistanceRecurse(from, &state)
	}
	return state.reached
}

func (p Perimeter) exactDistanceRecurse(hex Hex, state *pathRecord) {
	if state.depth == 0 {
		state.reached[hex] = struct{}{}
		return
	}
	for _, neighbour := range p.perim.Neighbours(hex) {
		if _, seen := state.visited[neighbour]; seen {
			continue
		}
		if p.base.EnsureFreedomToMove(hex, neighbour, false) != nil || p.base.EnsureConstantContact(hex, neighbour, false) != nil {
			// The underlying field forms a gate here.
			continue
		}

		state.depth--
		state.visited[neighbour] = struct{}{}
		p.exactDistanceRecurse(neighbour, state)
		delete(state.visited, neighbour)
		state.depth++
	}
}

// Reachable returns the set of perimeter hexes reachable from the given
// starting hex by crawling.
func (p Perimeter) Reachable(from Hex) map[Hex]struct{} {
	state := pathRecord{visited: make(map[Hex]struct{})}
	if p.perim.Contains(from) {
		p.reachableRecurse(from, &state)
	}
	return state.visited
}

func (p Perimeter) reachableRecurse(from Hex, state *pathRecord) {
	state.visited[from] = struct{}{}
	for _, neighbour := range p.perim.Neighbours(from) {
		if _, seen := state.visited[neighbour]; seen {
			continue
		}
		if p.base.EnsureFreedomToMove(from, neighbour, false) == nil && p.base.EnsureConstantContact(from, neighbour, false) == nil {
			p.reachableRecurse(neighbour, state)
		}
	}
}
