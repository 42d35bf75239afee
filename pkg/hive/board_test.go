package hive_test

import (
	"math/rand"
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/rsarvar1a/hivemind/pkg/hive/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drawGame = `Base;Draw;Black[8];wS1;bS1 wS1\;wQ -wS1;bQ /bS1;wG1 \wS1;bG1 bS1\;wB1 -wG1;bB1 bQ\;wA1 /wQ;bA1 /bQ;wS2 /wB1;bA1 wA1\;wG2 \wB1;bG2 bA1\;wG2 wQ\`

func TestEmptyGame(t *testing.T) {
	b, err := notation.ParseGame("Base;NotStarted;White[1]")
	require.NoError(t, err)

	assert.Equal(t, hive.NotStarted, b.State())
	assert.Equal(t, hive.White, b.ToMove())
	assert.Equal(t, "Base;NotStarted;White[1]", notation.FormatGame(b))

	// Any species but the queen may open.
	moves := b.GenerateMoves(false)
	assert.Len(t, moves, 4)
	for _, mv := range moves {
		assert.Equal(t, hive.PlaceMove, mv.Type)
		assert.NotEqual(t, hive.Queen, mv.Piece.Kind)
	}

	lmp, err := notation.ParseGame("Base+LMP;NotStarted;White[1]")
	require.NoError(t, err)
	assert.Len(t, lmp.GenerateMoves(false), 7)
}

func TestFirstMove(t *testing.T) {
	b, err := notation.ParseGame("Base;NotStarted;White[1]")
	require.NoError(t, err)

	mv, err := notation.ParseMove("wA1", b)
	require.NoError(t, err)
	_, err = b.Play(mv)
	require.NoError(t, err)

	assert.Equal(t, "Base;InProgress;Black[1];wA1", notation.FormatGame(b))
}

func TestQueenOnFirstTurnRejected(t *testing.T) {
	b, err := notation.ParseGame("Base;NotStarted;White[1]")
	require.NoError(t, err)

	before := b.Zobrist()

	mv, err := notation.ParseMove("wQ", b)
	require.NoError(t, err)
	_, err = b.Play(mv)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.InvalidState))

	// The board is unchanged.
	assert.Equal(t, before, b.Zobrist())
	assert.Equal(t, "Base;NotStarted;White[1]", notation.FormatGame(b))
}

func TestPlacedOnTopRejected(t *testing.T) {
	_, err := notation.ParseGame("Base;InProgress;White[2];wA1;bS1 wA1")
	require.Error(t, err)
}

func TestExpansionBugNeedsExpansion(t *testing.T) {
	_, err := notation.ParseGame("Base;InProgress;Black[1];wL")
	require.Error(t, err)
}

func TestDrawDetection(t *testing.T) {
	b, err := notation.ParseGame(drawGame)
	require.NoError(t, err)

	assert.Equal(t, hive.Draw, b.State())
	assert.Equal(t, drawGame, notation.FormatGame(b))
}

func TestGameStateMismatchRejected(t *testing.T) {
	_, err := notation.ParseGame("Base;WhiteWins;Black[1];wA1")
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.MismatchError))
}

func TestUndoRestores(t *testing.T) {
	b, err := notation.ParseGame("Base;InProgress;White[5];wS1;bS1 wS1\\;wQ -wS1;bQ /bS1;wG1 \\wS1;bG1 bS1\\;wB1 -wG1;bB1 bQ\\")
	require.NoError(t, err)

	before := b.Zobrist()
	game := notation.FormatGame(b)

	moves := b.GenerateMoves(false)
	require.NotEmpty(t, moves)

	_, err = b.Play(moves[0])
	require.NoError(t, err)
	_, err = b.Undo(1)
	require.NoError(t, err)

	assert.Equal(t, before, b.Zobrist())
	assert.Equal(t, game, notation.FormatGame(b))

	// Redo replays the line.
	_, err = b.Redo()
	require.NoError(t, err)
	_, err = b.Undo(1)
	require.NoError(t, err)
	assert.Equal(t, before, b.Zobrist())
}

func TestTooManyUndos(t *testing.T) {
	b, err := notation.ParseGame("Base;InProgress;Black[1];wA1")
	require.NoError(t, err)

	_, err = b.Undo(2)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.TooManyUndos))
}

// TestGeneratedMovesAreLegal plays seeded random games and checks that
// every generated move passes Check, that the board invariants hold after
// every ply, and that unwinding the whole game restores the initial
// position bit for bit.
func TestGeneratedMovesAreLegal(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		rnd := rand.New(rand.NewSource(seed))

		b := hive.NewBoard(hive.AllOptions())
		initial := b.Zobrist()

		plies := 0
		for ; plies < 30 && !b.State().Over(); plies++ {
			moves := b.GenerateMoves(false)

			for _, mv := range moves {
				assert.NoErrorf(t, b.Check(mv), "seed %v ply %v: generated move %v is illegal", seed, plies, mv)
			}

			mv := hive.Pass
			if len(moves) > 0 {
				mv = moves[rnd.Intn(len(moves))]
			}
			_, err := b.Play(mv)
			require.NoErrorf(t, err, "seed %v ply %v: %v", seed, plies, mv)

			assertBoardInvariants(t, b)
		}

		_, err := b.Undo(uint8(plies))
		require.NoError(t, err)
		assert.Equal(t, initial, b.Zobrist())
		assert.Equal(t, hive.NotStarted, b.State())
	}
}

// assertBoardInvariants cross-checks the piece index, the stacks and the
// field against each other.
func assertBoardInvariants(t *testing.T, b *hive.Board) {
	t.Helper()

	for i := uint8(0); i < hive.NumPieces; i++ {
		piece := hive.PieceFromIndex(i)
		hex, ok := b.Location(piece)
		if !ok {
			continue
		}

		height, occupied := b.Field().Height(hex)
		require.True(t, occupied)
		assert.Equal(t, b.Stack(hex).Height(), height)
		assert.True(t, b.Stack(hex).Contains(hive.MakeToken(piece)))
	}
}

func TestGateBlocksQueen(t *testing.T) {
	// Two height-2 stacks flank the white queen's east exit.
	b := hive.NewBoard(hive.AllOptions())

	wQ := hive.Piece{Player: hive.White, Kind: hive.Queen, Num: 1}
	wS1 := hive.Piece{Player: hive.White, Kind: hive.Spider, Num: 1}
	bQ := hive.Piece{Player: hive.Black, Kind: hive.Queen, Num: 1}
	bG1 := hive.Piece{Player: hive.Black, Kind: hive.Grasshopper, Num: 1}
	bG2 := hive.Piece{Player: hive.Black, Kind: hive.Grasshopper, Num: 2}
	bB1 := hive.Piece{Player: hive.Black, Kind: hive.Beetle, Num: 1}
	bB2 := hive.Piece{Player: hive.Black, Kind: hive.Beetle, Num: 2}
	bA1 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 1}
	bA2 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 2}
	bA3 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 3}

	play := func(mv hive.Move) { b.PlayUnchecked(mv) }
	at := func(p hive.Piece, d hive.Direction) hive.NextTo {
		return hive.NextTo{Piece: p, Direction: d, HasDirection: true}
	}

	play(hive.NewFirstPlacement(wQ))
	play(hive.NewPlacement(bG1, at(wQ, hive.Northeast)))
	play(hive.NewPlacement(bB1, at(bG1, hive.Northeast)))
	play(hive.NewMovement(bB1, hive.NextTo{Piece: bG1}))
	play(hive.NewPlacement(bG2, at(wQ, hive.Southeast)))
	play(hive.NewPlacement(bB2, at(bG2, hive.Southeast)))
	play(hive.NewMovement(bB2, hive.NextTo{Piece: bG2}))
	play(hive.NewPlacement(bQ, at(bG2, hive.Southwest)))
	play(hive.NewPlacement(wS1, at(wQ, hive.Northwest)))
	play(hive.NewPlacement(bA1, at(bG1, hive.East)))
	play(hive.NewPlacement(bA2, at(bA1, hive.Southeast)))
	play(hive.NewPlacement(bA3, at(bA2, hive.Southwest)))

	require.Equal(t, hive.White, b.ToMove())

	// The east slide is gated by the elevated beetles.
	gated := hive.NewMovement(wQ, at(bB2, hive.Northeast))
	err := b.Check(gated)
	require.Error(t, err)

	// The west slide is free.
	free := hive.NewMovement(wQ, at(wS1, hive.Southwest))
	assert.NoError(t, b.Check(free))

	// No generated queen move lands in the gated hex.
	for _, mv := range b.GenerateMoves(false) {
		if mv.Piece == wQ {
			assert.NoError(t, b.Check(mv))
			assert.NotEqual(t, gated, mv)
		}
	}
}

// TestTacticalMoves covers the quiescence move set: extensions after our
// own quiet placement, the full defensive set after the opponent's quiet
// placement (including when our own last placement dropped directly onto
// the enemy queen), and silence everywhere else.
func TestTacticalMoves(t *testing.T) {
	wQ := hive.Piece{Player: hive.White, Kind: hive.Queen, Num: 1}
	wS1 := hive.Piece{Player: hive.White, Kind: hive.Spider, Num: 1}
	wG1 := hive.Piece{Player: hive.White, Kind: hive.Grasshopper, Num: 1}
	wA1 := hive.Piece{Player: hive.White, Kind: hive.Ant, Num: 1}
	wB1 := hive.Piece{Player: hive.White, Kind: hive.Beetle, Num: 1}
	bQ := hive.Piece{Player: hive.Black, Kind: hive.Queen, Num: 1}
	bA1 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 1}
	bA2 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 2}
	bA3 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 3}
	bG1 := hive.Piece{Player: hive.Black, Kind: hive.Grasshopper, Num: 1}

	at := func(p hive.Piece, d hive.Direction) hive.NextTo {
		return hive.NextTo{Piece: p, Direction: d, HasDirection: true}
	}

	// Eight placements: both queens out, white to move, enough history
	// for the tactical window.
	base := func() *hive.Board {
		b := hive.NewBoard(hive.AllOptions())
		b.PlayUnchecked(hive.NewFirstPlacement(wQ))
		b.PlayUnchecked(hive.NewPlacement(bQ, at(wQ, hive.East)))
		b.PlayUnchecked(hive.NewPlacement(wS1, at(wQ, hive.West)))
		b.PlayUnchecked(hive.NewPlacement(bA1, at(bQ, hive.East)))
		b.PlayUnchecked(hive.NewPlacement(wG1, at(wQ, hive.Northwest)))
		b.PlayUnchecked(hive.NewPlacement(bA2, at(bQ, hive.Southeast)))
		b.PlayUnchecked(hive.NewPlacement(wA1, at(wS1, hive.West)))
		b.PlayUnchecked(hive.NewPlacement(bA3, at(bA2, hive.East)))
		return b
	}

	t.Run("opening is quiet", func(t *testing.T) {
		b, err := notation.ParseGame("Base;InProgress;White[2];wA1;bS1 /wA1")
		require.NoError(t, err)
		assert.Empty(t, b.GenerateTacticalMoves())
	})

	t.Run("our quiet placement extends the placed piece", func(t *testing.T) {
		b := base()
		b.PlayUnchecked(hive.NewPlacement(wB1, at(wA1, hive.West)))
		b.PlayUnchecked(hive.NewPlacement(bG1, at(bA1, hive.East)))
		require.Equal(t, hive.White, b.ToMove())

		moves := b.GenerateTacticalMoves()
		require.NotEmpty(t, moves)
		for _, mv := range moves {
			assert.Equal(t, wB1, mv.Piece)
		}
	})

	t.Run("their quiet placement opens the full defence", func(t *testing.T) {
		// Our last placement dropped directly next to the black queen, so
		// it earns no extensions; the opponent's quiet reply still does.
		b := base()
		b.PlayUnchecked(hive.NewPlacement(wB1, at(bQ, hive.Northeast)))
		b.PlayUnchecked(hive.NewPlacement(bG1, at(bA1, hive.East)))
		require.Equal(t, hive.White, b.ToMove())

		moves := b.GenerateTacticalMoves()
		require.NotEmpty(t, moves)
		assert.Equal(t, b.GenerateMoves(false), moves)
	})

	t.Run("their direct drop is quiet", func(t *testing.T) {
		b := base()
		b.PlayUnchecked(hive.NewPlacement(wB1, at(bQ, hive.Northeast)))
		b.PlayUnchecked(hive.NewPlacement(bG1, at(wQ, hive.Southwest)))
		require.Equal(t, hive.White, b.ToMove())

		assert.Empty(t, b.GenerateTacticalMoves())
	})

	t.Run("two piece moves are quiet", func(t *testing.T) {
		b := base()
		b.PlayUnchecked(hive.NewMovement(wG1, at(bQ, hive.Southwest)))
		b.PlayUnchecked(hive.NewMovement(bA3, at(bA2, hive.Southwest)))
		require.Equal(t, hive.White, b.ToMove())

		assert.Empty(t, b.GenerateTacticalMoves())
	})
}

func TestThrowImmunity(t *testing.T) {
	// A white pillbug may not throw the piece black just placed.
	b := hive.NewBoard(hive.AllOptions())

	wP := hive.Piece{Player: hive.White, Kind: hive.Pillbug, Num: 1}
	wQ := hive.Piece{Player: hive.White, Kind: hive.Queen, Num: 1}
	bQ := hive.Piece{Player: hive.Black, Kind: hive.Queen, Num: 1}
	bA1 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 1}

	at := func(p hive.Piece, d hive.Direction) hive.NextTo {
		return hive.NextTo{Piece: p, Direction: d, HasDirection: true}
	}

	b.PlayUnchecked(hive.NewFirstPlacement(wP))
	b.PlayUnchecked(hive.NewPlacement(wQ, at(wP, hive.East)))
	b.PlayUnchecked(hive.NewPlacement(bQ, at(wQ, hive.Northeast)))
	b.PlayUnchecked(hive.NewPlacement(bA1, at(wP, hive.West)))

	require.Equal(t, hive.White, b.ToMove())

	throw := hive.NewMovement(bA1, at(wP, hive.Northeast))
	err := b.Check(throw)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.ImmuneToPillbug))

	for _, mv := range b.GenerateMoves(false) {
		assert.NotEqual(t, bA1, mv.Piece)
	}

	// Two plies later the immunity has lapsed and the throw is legal.
	b.PlayUnchecked(hive.Pass)
	b.PlayUnchecked(hive.Pass)
	require.Equal(t, hive.White, b.ToMove())
	assert.NoError(t, b.Check(throw))
}
