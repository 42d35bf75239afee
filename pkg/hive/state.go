package hive

import "github.com/rsarvar1a/hivemind/pkg/fault"

// GameState is the observable state of a game.
type GameState uint8

const (
	NotStarted GameState = iota
	InProgress
	Draw
	WhiteWins
	BlackWins
)

func (s GameState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Draw:
		return "Draw"
	case WhiteWins:
		return "WhiteWins"
	default:
		return "BlackWins"
	}
}

// Over reports whether the game has ended.
func (s GameState) Over() bool {
	return s == Draw || s == WhiteWins || s == BlackWins
}

// ParseGameState parses a game state name.
func ParseGameState(s string) (GameState, error) {
	switch s {
	case "NotStarted":
		return NotStarted, nil
	case "InProgress":
		return InProgress, nil
	case "Draw":
		return Draw, nil
	case "WhiteWins":
		return WhiteWins, nil
	case "BlackWins":
		return BlackWins, nil
	default:
		return NotStarted, fault.ForParse("GameState", s)
	}
}

// Turn is a plied turn. The number increments only after both players have
// moved.
type Turn struct {
	Player Player
	Number uint8
}

// TurnFromPly converts a 0-based ply count into a turn.
func TurnFromPly(ply uint8) Turn {
	return Turn{Player: Player(ply & 1), Number: ply>>1 + 1}
}

// Ply converts the turn back into its 0-based ply count.
func (t Turn) Ply() uint8 {
	return (t.Number-1)<<1 | uint8(t.Player)
}
