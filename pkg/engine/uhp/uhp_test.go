package uhp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/engine"
	"github.com/rsarvar1a/hivemind/pkg/engine/uhp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transcript feeds the driver a command script and collects the full
// response stream.
func transcript(t *testing.T, commands ...string) []string {
	t.Helper()
	ctx := context.Background()

	e := engine.New(ctx, "hivemind", engine.Config{TableMemory: 0.001, NumThreads: 1})

	in := make(chan string, len(commands))
	for _, cmd := range commands {
		in <- cmd
	}
	close(in)

	driver, out := uhp.NewDriver(ctx, e, in)

	var lines []string
	for line := range out {
		lines = append(lines, line)
	}
	<-driver.Closed()
	require.NoError(t, driver.Err())

	return lines
}

func TestInfo(t *testing.T) {
	lines := transcript(t, "info")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id hivemind v"))
	assert.Equal(t, "Ladybug;Mosquito;Pillbug", lines[1])
	assert.Equal(t, "ok", lines[2])
}

func TestNewGamePlayUndo(t *testing.T) {
	lines := transcript(t,
		"newgame",
		"play wG1",
		"validmoves",
		"undo",
	)

	require.Len(t, lines, 8)
	assert.Equal(t, "Base+LMP;NotStarted;White[1]", lines[0])
	assert.Equal(t, "ok", lines[1])
	assert.Equal(t, "Base+LMP;InProgress;Black[1];wG1", lines[2])
	assert.Equal(t, "ok", lines[3])
	assert.NotEmpty(t, lines[4])
	assert.Equal(t, "ok", lines[5])
	assert.Equal(t, "Base+LMP;NotStarted;White[1]", lines[6])
	assert.Equal(t, "ok", lines[7])
}

func TestNewGameFromGameString(t *testing.T) {
	lines := transcript(t, "newgame Base;InProgress;Black[1];wA1")
	require.Len(t, lines, 2)
	assert.Equal(t, "Base;InProgress;Black[1];wA1", lines[0])
	assert.Equal(t, "ok", lines[1])
}

func TestBestMoveCommand(t *testing.T) {
	lines := transcript(t,
		"newgame",
		"bestmove depth 1",
	)

	require.Len(t, lines, 4)
	assert.Equal(t, "ok", lines[1])
	assert.NotEmpty(t, lines[2])
	assert.NotEqual(t, "err", lines[2])
	assert.Equal(t, "ok", lines[3])
}

func TestRecoverableErrors(t *testing.T) {
	lines := transcript(t,
		"validmoves",
		"frobnicate",
		"newgame",
		"play wQ",
	)

	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "err"))
	assert.Equal(t, "ok", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "err"))
	assert.Contains(t, lines[2], "frobnicate")
	assert.Equal(t, "ok", lines[3])
	assert.Equal(t, "Base+LMP;NotStarted;White[1]", lines[4])
	assert.Equal(t, "ok", lines[5])
	// The rejected queen placement reports and the server continues.
	assert.True(t, strings.HasPrefix(lines[6], "err"))
	assert.Equal(t, "ok", lines[7])
}

func TestPassEquivalence(t *testing.T) {
	// pass is shorthand for play pass.
	lines := transcript(t, "newgame", "pass")
	require.Len(t, lines, 4)
	assert.Equal(t, "ok", lines[1])
	assert.Equal(t, "Base+LMP;InProgress;Black[1];pass", lines[2])
	assert.Equal(t, "ok", lines[3])
}
