package hive

import (
	"fmt"
	"strconv"

	"github.com/rsarvar1a/hivemind/pkg/fault"
)

// Player is a side in a game of Hive.
type Player uint8

const (
	White Player = 0
	Black Player = 1
)

// Flip returns the other player.
func (p Player) Flip() Player {
	return p ^ 1
}

// Short returns the one-letter name used in piece notation.
func (p Player) Short() string {
	if p == White {
		return "w"
	}
	return "b"
}

func (p Player) String() string {
	if p == White {
		return "White"
	}
	return "Black"
}

// ParsePlayer parses a long or short player name.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "White", "w":
		return White, nil
	case "Black", "b":
		return Black, nil
	default:
		return White, fault.ForParse("Player", s)
	}
}

// Bug is a species of piece.
type Bug uint8

const (
	Ant         Bug = 0
	Beetle      Bug = 1
	Grasshopper Bug = 2
	Ladybug     Bug = 3
	Mosquito    Bug = 4
	Pillbug     Bug = 5
	Queen       Bug = 6
	Spider      Bug = 7
)

// Bugs returns the species in offset order.
func Bugs() [8]Bug {
	return [8]Bug{Ant, Beetle, Grasshopper, Ladybug, Mosquito, Pillbug, Queen, Spider}
}

// Extent is the per-player multiplicity of this species.
func (b Bug) Extent() uint8 {
	switch b {
	case Ant, Grasshopper:
		return 3
	case Beetle, Spider:
		return 2
	default:
		return 1
	}
}

// Offset is the index of this species' first discriminator within a
// player's piece range.
func (b Bug) Offset() uint8 {
	switch b {
	case Ant:
		return 0
	case Beetle:
		return 3
	case Grasshopper:
		return 5
	case Ladybug:
		return 8
	case Mosquito:
		return 9
	case Pillbug:
		return 10
	case Queen:
		return 11
	default:
		return 12
	}
}

// Unique reports whether a player holds only one piece of this species.
// Unique species omit the discriminator in notation.
func (b Bug) Unique() bool {
	switch b {
	case Ladybug, Mosquito, Pillbug, Queen:
		return true
	default:
		return false
	}
}

// Long returns the full species name.
func (b Bug) Long() string {
	switch b {
	case Ant:
		return "Ant"
	case Beetle:
		return "Beetle"
	case Grasshopper:
		return "Grasshopper"
	case Ladybug:
		return "Ladybug"
	case Mosquito:
		return "Mosquito"
	case Pillbug:
		return "Pillbug"
	case Queen:
		return "Queen"
	default:
		return "Spider"
	}
}

func (b Bug) String() string {
	return b.Long()[:1]
}

// ParseBug parses a one-letter species name.
func ParseBug(s string) (Bug, error) {
	switch s {
	case "A":
		return Ant, nil
	case "B":
		return Beetle, nil
	case "G":
		return Grasshopper, nil
	case "L":
		return Ladybug, nil
	case "M":
		return Mosquito, nil
	case "P":
		return Pillbug, nil
	case "Q":
		return Queen, nil
	case "S":
		return Spider, nil
	default:
		return Ant, fault.ForParse("Bug", s)
	}
}

func bugFromOffset(v uint8) Bug {
	bugs := Bugs()
	for i := len(bugs) - 1; i >= 0; i-- {
		if bugs[i].Offset() <= v {
			return bugs[i]
		}
	}
	return Ant
}

const (
	// PiecesPerPlayer is the number of pieces each player owns with every
	// expansion enabled.
	PiecesPerPlayer = 14
	// NumPieces is the total number of piece identities.
	NumPieces = 2 * PiecesPerPlayer
	// HeightRange is the number of representable stack heights.
	HeightRange = 8
)

// Piece is a piece identity: a player, a species and a discriminator. The
// third Ant in white's hand is wA3.
type Piece struct {
	Player Player
	Kind   Bug
	Num    uint8
}

// Index returns the stable 0-based index of this piece in player-major,
// species-major, discriminator-minor order.
func (p Piece) Index() uint8 {
	return PiecesPerPlayer*uint8(p.Player) + p.Kind.Offset() + p.Num - 1
}

// PieceFromIndex is the inverse of Index.
func PieceFromIndex(i uint8) Piece {
	player := White
	if i >= PiecesPerPlayer {
		player = Black
		i -= PiecesPerPlayer
	}
	kind := bugFromOffset(i)
	return Piece{Player: player, Kind: kind, Num: i - kind.Offset() + 1}
}

func (p Piece) String() string {
	if p.Kind.Unique() {
		return fmt.Sprintf("%v%v", p.Player.Short(), p.Kind)
	}
	return fmt.Sprintf("%v%v%v", p.Player.Short(), p.Kind, p.Num)
}

// ParsePiece parses piece notation such as wA1 or bQ.
func ParsePiece(s string) (Piece, error) {
	if len(s) < 2 || len(s) > 3 {
		err := fault.Newf(fault.ParseError, "Invalid length (expected 2 or 3, found %v).", len(s))
		return Piece{}, fault.ChainParse(err, "Piece", s)
	}

	player, err := ParsePlayer(s[0:1])
	if err != nil {
		return Piece{}, fault.ChainParse(err, "Piece", s)
	}
	kind, err := ParseBug(s[1:2])
	if err != nil {
		return Piece{}, fault.ChainParse(err, "Piece", s)
	}

	num := uint8(1)
	if kind.Unique() {
		if len(s) > 2 {
			err := fault.New(fault.ParseError, "Unique bugs should have no number.")
			return Piece{}, fault.ChainParse(err, "Piece", s)
		}
	} else {
		if len(s) < 3 {
			err := fault.New(fault.ParseError, "Non-unique bugs must have a number.")
			return Piece{}, fault.ChainParse(err, "Piece", s)
		}
		n, aerr := strconv.Atoi(s[2:3])
		if aerr != nil {
			return Piece{}, fault.ChainParse(fault.ForParse("number", s[2:3]), "Piece", s)
		}
		if n < 1 || n > int(kind.Extent()) {
			err := fault.Newf(fault.MismatchError, "Invalid number for %v (expected %v to %v, found %v).", kind.Long(), 1, kind.Extent(), n)
			return Piece{}, fault.ChainParse(err, "Piece", s)
		}
		num = uint8(n)
	}

	return Piece{Player: player, Kind: kind, Num: num}, nil
}
