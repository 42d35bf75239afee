// Package engine encapsulates game lifecycle, move application and
// best-move selection behind the UHP server.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/rsarvar1a/hivemind/pkg/hive/notation"
	"github.com/rsarvar1a/hivemind/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 3, 0)

// Config are engine creation options.
type Config struct {
	// TableMemory is the transposition table budget in GB.
	TableMemory float64
	// CacheMemory is the per-thread cache budget in GB.
	CacheMemory float64
	// NumThreads is the number of search threads; zero means one per
	// logical CPU.
	NumThreads int
	// Verbose enables per-search debug output.
	Verbose bool
}

func (c Config) String() string {
	return fmt.Sprintf("{table=%vGB, cache=%vGB, threads=%v}", c.TableMemory, c.CacheMemory, c.NumThreads)
}

// Engine owns the current game and the search agent.
type Engine struct {
	name  string
	agent *search.Strongest

	board *hive.Board
	mu    sync.Mutex
}

// New creates an engine with the given resource budget.
func New(ctx context.Context, name string, cfg Config) *Engine {
	e := &Engine{
		name: name,
		agent: search.NewStrongest(ctx, search.Config{
			TableMemory: cfg.TableMemory,
			CacheMemory: cfg.CacheMemory,
			NumThreads:  cfg.NumThreads,
			Verbose:     cfg.Verbose,
		}),
	}
	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), cfg)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v v%v", e.name, version)
}

// Capabilities returns the expansions this engine can play.
func (e *Engine) Capabilities() string {
	return strings.Join([]string{hive.Ladybug.Long(), hive.Mosquito.Long(), hive.Pillbug.Long()}, ";")
}

// NewGame starts a new game, optionally from a game string. Returns the
// resulting game string.
func (e *Engine) NewGame(ctx context.Context, gamestr string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gamestr == "" {
		e.board = hive.NewBoard(hive.AllOptions())
	} else {
		board, err := notation.ParseGame(gamestr)
		if err != nil {
			return "", err
		}
		e.board = board
	}

	logw.Infof(ctx, "New game: %v", notation.FormatGame(e.board))
	return notation.FormatGame(e.board), nil
}

// Play applies a move string to the current game and returns the new game
// string.
func (e *Engine) Play(ctx context.Context, movestr string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	board, err := e.ensureStarted()
	if err != nil {
		return "", err
	}

	mv, err := notation.ParseMove(movestr, board)
	if err != nil {
		return "", err
	}
	if _, err := board.Play(mv); err != nil {
		return "", err
	}

	logw.Infof(ctx, "Play %v: %v", mv, notation.FormatGame(board))
	return notation.FormatGame(board), nil
}

// Undo takes back a number of moves and returns the new game string.
func (e *Engine) Undo(ctx context.Context, n uint8) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	board, err := e.ensureStarted()
	if err != nil {
		return "", err
	}
	if _, err := board.Undo(n); err != nil {
		return "", err
	}

	logw.Infof(ctx, "Undo %v: %v", n, notation.FormatGame(board))
	return notation.FormatGame(board), nil
}

// ValidMoves returns the legal moves of the position as a ;-joined move
// string list, or "pass" if there are none.
func (e *Engine) ValidMoves(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	board, err := e.ensureStarted()
	if err != nil {
		return "", err
	}

	moves := board.GenerateMoves(false)
	if len(moves) == 0 {
		return "pass", nil
	}

	parts := make([]string, 0, len(moves))
	for _, mv := range moves {
		parts = append(parts, mv.String())
	}
	return strings.Join(parts, ";"), nil
}

// BestMove searches the current position within the given budget and
// returns the strongest move as a move string.
func (e *Engine) BestMove(ctx context.Context, args search.Args) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	board, err := e.ensureStarted()
	if err != nil {
		return "", err
	}

	logw.Infof(ctx, "Search %v on %v", args, notation.FormatGame(board))

	mv := e.agent.BestMove(ctx, board, args)
	return mv.String(), nil
}

// Board returns a clone of the current board, if a game is loaded.
func (e *Engine) Board() (*hive.Board, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	board, err := e.ensureStarted()
	if err != nil {
		return nil, err
	}
	return board.Clone(), nil
}

func (e *Engine) ensureStarted() (*hive.Board, error) {
	if e.board == nil {
		return nil, fault.New(fault.GameNotStarted, "")
	}
	return e.board, nil
}
