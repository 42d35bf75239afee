package search_test

import (
	"context"
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/rsarvar1a/hivemind/pkg/hive/notation"
	"github.com/rsarvar1a/hivemind/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() search.Config {
	return search.Config{
		TableMemory: 0.001,
		CacheMemory: 0,
		NumThreads:  1,
	}
}

func TestParseArgs(t *testing.T) {
	args, err := search.ParseArgs([]string{"depth", "6"})
	require.NoError(t, err)
	d, ok := args.Depth.V()
	require.True(t, ok)
	assert.Equal(t, 6, d)

	args, err = search.ParseArgs([]string{"time", "00:01:30"})
	require.NoError(t, err)
	budget, ok := args.Time.V()
	require.True(t, ok)
	assert.EqualValues(t, 90, budget.Seconds())

	for _, bad := range [][]string{{}, {"depth"}, {"depth", "x"}, {"time", "90"}, {"nodes", "5"}} {
		_, err := search.ParseArgs(bad)
		assert.Errorf(t, err, "expected %v to fail", bad)
	}
}

func TestBestMoveOpening(t *testing.T) {
	ctx := context.Background()
	agent := search.NewStrongest(ctx, testConfig())

	b := hive.NewBoard(hive.AllOptions())
	mv := agent.BestMove(ctx, b, search.Args{Depth: lang.Some(2)})

	// The opening heuristic never leads with an ant or a spider.
	require.Equal(t, hive.PlaceMove, mv.Type)
	assert.NotEqual(t, hive.Ant, mv.Piece.Kind)
	assert.NotEqual(t, hive.Spider, mv.Piece.Kind)
	assert.NotEqual(t, hive.Queen, mv.Piece.Kind)

	_, err := b.Play(mv)
	assert.NoError(t, err)
}

func TestBestMoveFindsMateInOne(t *testing.T) {
	ctx := context.Background()
	agent := search.NewStrongest(ctx, testConfig())

	// The black queen has one open killspot; a white grasshopper two
	// hexes south can jump over the hive into it.
	b := hive.NewBoard(hive.AllOptions())

	bQ := hive.Piece{Player: hive.Black, Kind: hive.Queen, Num: 1}
	bA1 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 1}
	bA2 := hive.Piece{Player: hive.Black, Kind: hive.Ant, Num: 2}
	bG1 := hive.Piece{Player: hive.Black, Kind: hive.Grasshopper, Num: 1}
	bS1 := hive.Piece{Player: hive.Black, Kind: hive.Spider, Num: 1}
	wS1 := hive.Piece{Player: hive.White, Kind: hive.Spider, Num: 1}
	wG1 := hive.Piece{Player: hive.White, Kind: hive.Grasshopper, Num: 1}
	wQ := hive.Piece{Player: hive.White, Kind: hive.Queen, Num: 1}

	at := func(p hive.Piece, d hive.Direction) hive.NextTo {
		return hive.NextTo{Piece: p, Direction: d, HasDirection: true}
	}

	b.PlayUnchecked(hive.NewFirstPlacement(bQ))
	b.PlayUnchecked(hive.NewPlacement(bA1, at(bQ, hive.East)))
	b.PlayUnchecked(hive.NewPlacement(bG1, at(bQ, hive.Southeast)))
	b.PlayUnchecked(hive.NewPlacement(bS1, at(bQ, hive.Southwest)))
	b.PlayUnchecked(hive.NewPlacement(wS1, at(bQ, hive.West)))
	b.PlayUnchecked(hive.NewPlacement(bA2, at(bQ, hive.Northwest)))
	b.PlayUnchecked(hive.NewPlacement(wG1, at(bS1, hive.Southwest)))
	b.PlayUnchecked(hive.NewPlacement(wQ, at(wS1, hive.West)))

	require.Equal(t, hive.White, b.ToMove())
	require.Equal(t, hive.InProgress, b.State())

	mv := agent.BestMove(ctx, b, search.Args{Depth: lang.Some(1)})

	after := b.Clone()
	require.NoError(t, after.Check(mv))
	after.PlayUnchecked(mv)
	assert.Equal(t, hive.WhiteWins, after.State())
}

func TestBestMoveDeterministic(t *testing.T) {
	ctx := context.Background()

	const game = `Base;InProgress;White[5];wS1;bS1 wS1\;wQ -wS1;bQ /bS1;wG1 \wS1;bG1 bS1\;wB1 -wG1;bB1 bQ\`

	var moves []hive.Move
	for i := 0; i < 2; i++ {
		b, err := notation.ParseGame(game)
		require.NoError(t, err)

		agent := search.NewStrongest(ctx, testConfig())
		mv := agent.BestMove(ctx, b, search.Args{Depth: lang.Some(2)})

		require.NoError(t, b.Check(mv))
		moves = append(moves, mv)
	}

	assert.Equal(t, moves[0], moves[1])
}

func TestBestMoveRespectsDepthBudget(t *testing.T) {
	ctx := context.Background()

	b, err := notation.ParseGame(`Base;InProgress;White[5];wS1;bS1 wS1\;wQ -wS1;bQ /bS1;wG1 \wS1;bG1 bS1\;wB1 -wG1;bB1 bQ\`)
	require.NoError(t, err)

	agent := search.NewStrongest(ctx, testConfig())
	mv := agent.BestMove(ctx, b, search.Args{Depth: lang.Some(3)})

	require.NoError(t, b.Check(mv))
	_, err = b.Play(mv)
	assert.NoError(t, err)
}
