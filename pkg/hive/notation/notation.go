// Package notation parses and emits the move-string, turn-string and
// game-string grammars of the UHP protocol.
package notation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/rsarvar1a/hivemind/pkg/hive"
)

var (
	moveRE   = regexp.MustCompile(`^(?P<src>(w|b)[A-Z][1-3]?)( (?P<dest>\S+))?$`)
	nextToRE = regexp.MustCompile(`^(?:(?P<dirl>[-/\\])(?P<piecel>[wb][A-Z][1-3]?))$|^(?:(?P<piecer>[wb][A-Z][1-3]?)(?P<dirr>[-/\\]))$|^(?P<piecen>[wb][A-Z][1-3]?)$`)
	turnRE   = regexp.MustCompile(`^(?P<player>White|Black)\[(?P<turn>[0-9]+)\]$`)
	typeRE   = regexp.MustCompile(`^Base(\+(?P<expansions>[LMP]{1,3}))?$`)
	gameRE   = regexp.MustCompile(`^(?P<type>Base(\+[LMP]{1,3})?);(?P<state>[A-Za-z]+);(?P<turn>(White|Black)\[[0-9]+\])(?P<moves>(;[a-zA-Z1-3 /\\-]+)*)$`)
)

// ParseNextTo parses a relative destination such as -wA1, bQ/ or wB2.
func ParseNextTo(s string) (hive.NextTo, error) {
	caps := match(nextToRE, s)
	if caps == nil {
		return hive.NextTo{}, fault.ForParse("NextTo", s)
	}

	if p := caps["piecen"]; p != "" {
		piece, err := hive.ParsePiece(p)
		if err != nil {
			return hive.NextTo{}, fault.ChainParse(err, "NextTo", s)
		}
		return hive.NextTo{Piece: piece}, nil
	}

	onLeft := caps["piecel"] != ""
	pieceStr, dirStr := caps["piecer"], caps["dirr"]
	if onLeft {
		pieceStr, dirStr = caps["piecel"], caps["dirl"]
	}

	piece, err := hive.ParsePiece(pieceStr)
	if err != nil {
		return hive.NextTo{}, fault.ChainParse(err, "NextTo", s)
	}
	direction, err := hive.ParseDirection(dirStr, onLeft)
	if err != nil {
		return hive.NextTo{}, fault.ChainParse(err, "NextTo", s)
	}
	return hive.NextTo{Piece: piece, Direction: direction, HasDirection: true}, nil
}

// ValidateMoveString checks a move string for syntactic validity. Semantic
// validity needs a board; see ParseMove.
func ValidateMoveString(s string) error {
	if s == "pass" {
		return nil
	}

	caps := match(moveRE, s)
	if caps == nil {
		return fault.ForParse("MoveString", s)
	}

	piece, err := hive.ParsePiece(caps["src"])
	if err != nil {
		return fault.ChainParse(err, "MoveString", s)
	}

	if dest := caps["dest"]; dest != "" {
		nextTo, err := ParseNextTo(dest)
		if err != nil {
			return fault.ChainParse(err, "MoveString", s)
		}
		if piece == nextTo.Piece {
			err := fault.Newf(fault.LogicError, "Source and destination pieces must not match (%v, %v).", piece, nextTo.Piece)
			return fault.ChainParse(err, "MoveString", s)
		}
	}
	return nil
}

// ParseMove disambiguates a move string into a move using a board context.
func ParseMove(s string, board *hive.Board) (hive.Move, error) {
	if err := ValidateMoveString(s); err != nil {
		return hive.Move{}, err
	}
	if s == "pass" {
		return hive.Pass, nil
	}

	parts := strings.SplitN(s, " ", 2)
	piece, _ := hive.ParsePiece(parts[0])

	var nextTo hive.NextTo
	hasRef := false
	if len(parts) > 1 {
		ref, err := ParseNextTo(parts[1])
		if err != nil {
			return hive.Move{}, fault.ChainParse(err, "Move", s)
		}
		nextTo, hasRef = ref, true
	}

	if hasRef && !board.Placed(nextTo.Piece) {
		err := fault.Newf(fault.InvalidMove, "Reference piece %v is not in the hive.", nextTo.Piece)
		return hive.Move{}, fault.ChainParse(err, "Move", s)
	}

	switch {
	case board.Placed(piece):
		if !hasRef {
			err := fault.New(fault.InvalidMove, "Moving a piece requires a destination.")
			return hive.Move{}, fault.ChainParse(err, "Move", s)
		}
		return hive.NewMovement(piece, nextTo), nil
	case hasRef:
		return hive.NewPlacement(piece, nextTo), nil
	case board.Turn() == 0:
		return hive.NewFirstPlacement(piece), nil
	default:
		err := fault.New(fault.InvalidMove, "Omitting the destination is only possible on the first turn.")
		return hive.Move{}, fault.ChainParse(err, "Move", s)
	}
}

// ParseTurn parses a turn string such as White[1].
func ParseTurn(s string) (hive.Turn, error) {
	caps := match(turnRE, s)
	if caps == nil {
		return hive.Turn{}, fault.ForParse("TurnString", s)
	}

	player, err := hive.ParsePlayer(caps["player"])
	if err != nil {
		return hive.Turn{}, fault.ChainParse(err, "TurnString", s)
	}
	number, err := strconv.Atoi(caps["turn"])
	if err != nil || number > 255 {
		return hive.Turn{}, fault.ChainParse(fault.ForParse("number", caps["turn"]), "TurnString", s)
	}
	if number == 0 {
		err := fault.New(fault.LogicError, "Turn number cannot be 0.")
		return hive.Turn{}, fault.ChainParse(err, "TurnString", s)
	}
	return hive.Turn{Player: player, Number: uint8(number)}, nil
}

// FormatTurn emits a turn string.
func FormatTurn(t hive.Turn) string {
	return fmt.Sprintf("%v[%v]", t.Player, t.Number)
}

// ParseGameType parses a game type string such as Base+MLP into expansion
// options.
func ParseGameType(s string) (hive.ExpansionOptions, error) {
	caps := match(typeRE, s)
	if caps == nil {
		return hive.ExpansionOptions{}, fault.ForParse("GameTypeString", s)
	}

	expansions := caps["expansions"]
	for _, ch := range "LMP" {
		if strings.Count(expansions, string(ch)) > 1 {
			err := fault.New(fault.ParseError, "should contain at most 1 of each expansion bug (L, M, or P)")
			return hive.ExpansionOptions{}, fault.ChainParse(err, "GameTypeString", s)
		}
	}

	return hive.ExpansionOptions{
		Ladybug:  strings.Contains(expansions, "L"),
		Mosquito: strings.Contains(expansions, "M"),
		Pillbug:  strings.Contains(expansions, "P"),
	}, nil
}

// FormatGameType emits a game type string.
func FormatGameType(e hive.ExpansionOptions) string {
	var sb strings.Builder
	sb.WriteString("Base")
	if e.Ladybug || e.Mosquito || e.Pillbug {
		sb.WriteString("+")
	}
	if e.Ladybug {
		sb.WriteString("L")
	}
	if e.Mosquito {
		sb.WriteString("M")
	}
	if e.Pillbug {
		sb.WriteString("P")
	}
	return sb.String()
}

// ParseGame replays a game string onto a fresh board. The declared state
// and turn are cross-checked against the computed ones.
func ParseGame(s string) (*hive.Board, error) {
	caps := match(gameRE, s)
	if caps == nil {
		return nil, fault.ForParse("GameString", s)
	}

	expansions, err := ParseGameType(caps["type"])
	if err != nil {
		return nil, fault.ChainParse(err, "GameString", s)
	}
	state, err := hive.ParseGameState(caps["state"])
	if err != nil {
		return nil, fault.ChainParse(err, "GameString", s)
	}
	turn, err := ParseTurn(caps["turn"])
	if err != nil {
		return nil, fault.ChainParse(err, "GameString", s)
	}

	board := hive.NewBoard(hive.Options{Expansions: expansions})
	for _, ms := range strings.Split(caps["moves"], ";") {
		if ms == "" {
			continue
		}
		mv, err := ParseMove(ms, board)
		if err != nil {
			return nil, fault.ChainParse(err, "GameString", s)
		}
		if _, err := board.Play(mv); err != nil {
			return nil, fault.ChainParse(fault.ChainParse(err, "MoveString", ms), "GameString", s)
		}
	}

	if actual := board.State(); actual != state {
		err := fault.Mismatch("GameState", state, actual)
		return nil, fault.ChainParse(err, "GameString", s)
	}
	if actual := hive.TurnFromPly(board.Turn()); actual != turn {
		err := fault.Mismatch("TurnString", FormatTurn(turn), FormatTurn(actual))
		return nil, fault.ChainParse(err, "GameString", s)
	}

	return board, nil
}

// FormatGame emits the game string for a board.
func FormatGame(b *hive.Board) string {
	var parts []string
	parts = append(parts, FormatGameType(b.Options().Expansions))
	parts = append(parts, b.State().String())
	parts = append(parts, FormatTurn(hive.TurnFromPly(b.Turn())))
	for _, entry := range b.History().Past() {
		parts = append(parts, entry.Move.String())
	}
	return strings.Join(parts, ";")
}

// match runs a regexp and returns the named captures, or nil on mismatch.
func match(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	caps := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && m[i] != "" {
			caps[name] = m[i]
		}
	}
	return caps
}
