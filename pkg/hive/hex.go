// Package hive contains the Hive board representation, movement rules and
// legal-move generation.
package hive

import (
	"github.com/rsarvar1a/hivemind/pkg/fault"
)

// Hex is a point on a hexagonal grid laid out as a wrapping torus. Wrapping
// keeps position deltas constant-time and branch-free; the board is large
// enough that no legal game can wrap back onto itself.
type Hex uint16

const (
	fact = 5

	// Rows is the side length of the torus.
	Rows Hex = 1 << fact
	// Size is the number of hexes on the torus.
	Size Hex = Rows * Rows
	// Mask reduces hex arithmetic modulo Size.
	Mask Hex = Size - 1

	// Root is the starting hex of the game, used instead of the origin.
	Root Hex = Rows / 2 * (Rows + 1)

	wrap = Rows/2 - 1
)

// Direction is one of the six unit offsets on the grid. The numeric values
// add modulo Size to a Hex.
type Direction uint16

const (
	East      Direction = 1
	Southeast Direction = Direction(Rows) + 1
	Southwest Direction = Direction(Rows)
	West      Direction = Direction(Size) - 1
	Northwest Direction = Direction(Size) - Direction(Rows) - 1
	Northeast Direction = Direction(Size) - Direction(Rows)
)

// Directions returns all six directions in clockwise order.
func Directions() [6]Direction {
	return [6]Direction{East, Southeast, Southwest, West, Northwest, Northeast}
}

// Clockwise returns the direction clockwise of this one.
func (d Direction) Clockwise() Direction {
	switch d {
	case East:
		return Southeast
	case Southeast:
		return Southwest
	case Southwest:
		return West
	case West:
		return Northwest
	case Northwest:
		return Northeast
	default:
		return East
	}
}

// Counterclockwise returns the direction counterclockwise of this one.
func (d Direction) Counterclockwise() Direction {
	switch d {
	case East:
		return Northeast
	case Northeast:
		return Northwest
	case Northwest:
		return West
	case West:
		return Southwest
	case Southwest:
		return Southeast
	default:
		return East
	}
}

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	switch d {
	case East:
		return West
	case Southeast:
		return Northwest
	case Southwest:
		return Northeast
	case West:
		return East
	case Northwest:
		return Southeast
	default:
		return Southwest
	}
}

// IsWest reports whether this is a west-side direction. West-side directions
// attach their notation glyph to the left of the reference piece.
func (d Direction) IsWest() bool {
	return d == West || d == Northwest || d == Southwest
}

// Long returns the name of this direction.
func (d Direction) Long() string {
	switch d {
	case East:
		return "east"
	case Southeast:
		return "southeast"
	case Southwest:
		return "southwest"
	case West:
		return "west"
	case Northwest:
		return "northwest"
	default:
		return "northeast"
	}
}

func (d Direction) String() string {
	switch d {
	case East, West:
		return "-"
	case Southeast, Northwest:
		return "\\"
	default:
		return "/"
	}
}

// ParseDirection parses a direction glyph. The side the glyph was attached
// on disambiguates the pair it encodes.
func ParseDirection(s string, onLeft bool) (Direction, error) {
	switch s {
	case "-":
		if onLeft {
			return West, nil
		}
		return East, nil
	case "/":
		if onLeft {
			return Southwest, nil
		}
		return Northeast, nil
	case "\\":
		if onLeft {
			return Northwest, nil
		}
		return Southeast, nil
	default:
		return East, fault.ForParse("Direction", s)
	}
}

// DirectionTo returns the direction from one hex to a neighbouring hex.
func DirectionTo(from, to Hex) (Direction, bool) {
	for _, d := range Directions() {
		if from.Add(d) == to {
			return d, true
		}
	}
	return East, false
}

// Add moves the hex one step in the given direction.
func (h Hex) Add(d Direction) Hex {
	return (h + Hex(d)) & Mask
}

// Sub moves the hex one step against the given direction.
func (h Hex) Sub(d Direction) Hex {
	return (h + Hex(d.Inverse())) & Mask
}

// Neighbours returns the six neighbours of this hex in clockwise order.
func Neighbours(h Hex) [6]Hex {
	var ret [6]Hex
	for i, d := range Directions() {
		ret[i] = h.Add(d)
	}
	return ret
}

// CommonNeighbours returns the two hexes adjacent to both arguments,
// provided the arguments are themselves adjacent.
func CommonNeighbours(a, b Hex) (Hex, Hex, bool) {
	d, ok := DirectionTo(a, b)
	if !ok {
		return 0, 0, false
	}
	return a.Add(d.Clockwise()), a.Add(d.Counterclockwise()), true
}

func (h Hex) String() string {
	return ToAxial(h).String()
}
