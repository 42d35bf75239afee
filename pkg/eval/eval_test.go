package eval_test

import (
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/rsarvar1a/hivemind/pkg/hive/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreNormalization(t *testing.T) {
	// Heuristic scores pass through untouched.
	assert.Equal(t, eval.Score(120), eval.Normalize(120))
	assert.Equal(t, eval.Score(-120), eval.Normalize(-120))
	assert.Equal(t, eval.Score(120), eval.Reconstruct(120))

	// A win at this node is a slightly lesser win for the parent, so
	// shorter mates dominate.
	win := eval.MinimumWin
	assert.Equal(t, win-1, eval.Normalize(win))
	assert.Less(t, eval.Normalize(eval.Normalize(win)), eval.Normalize(win))
	assert.Equal(t, win, eval.Reconstruct(eval.Normalize(win)))

	loss := eval.MinimumLoss
	assert.Equal(t, loss+1, eval.Normalize(loss))
	assert.Equal(t, loss, eval.Reconstruct(eval.Normalize(loss)))
}

func TestEvaluateNotStarted(t *testing.T) {
	b := hive.NewBoard(hive.AllOptions())
	assert.Equal(t, eval.Score(0), eval.Evaluate(b))
}

func TestEvaluateDraw(t *testing.T) {
	b, err := notation.ParseGame(`Base;Draw;Black[8];wS1;bS1 wS1\;wQ -wS1;bQ /bS1;wG1 \wS1;bG1 bS1\;wB1 -wG1;bB1 bQ\;wA1 /wQ;bA1 /bQ;wS2 /wB1;bA1 wA1\;wG2 \wB1;bG2 bA1\;wG2 wQ\`)
	require.NoError(t, err)
	assert.Equal(t, eval.Score(0), eval.Evaluate(b))
}

func TestEvaluateMaterial(t *testing.T) {
	// White has an ant (7) on the board against a spider (2); each side
	// has placed one piece, so the reserve term cancels, and no queens
	// are placed.
	b, err := notation.ParseGame("Base;InProgress;White[2];wA1;bS1 /wA1")
	require.NoError(t, err)

	assert.Equal(t, eval.Score(10), eval.Evaluate(b))
}

func TestEvaluateInsideTerminalBounds(t *testing.T) {
	b, err := notation.ParseGame(`Base;InProgress;White[5];wS1;bS1 wS1\;wQ -wS1;bQ /bS1;wG1 \wS1;bG1 bS1\;wB1 -wG1;bB1 bQ\`)
	require.NoError(t, err)

	score := eval.Evaluate(b)
	assert.Greater(t, score, -eval.MinimumWin)
	assert.Less(t, score, eval.MinimumWin)
}
