package fault_test

import (
	"strings"
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	inner := fault.New(fault.FreedomToMove, "gated")
	mid := fault.Chain(inner, fault.New(fault.LogicError, "not a valid queen move"))
	outer := fault.Chain(mid, fault.New(fault.InvalidMove, "cannot move wQ"))

	// The outermost message names the context; the tail names the rule.
	msg := outer.Error()
	require.True(t, strings.HasPrefix(msg, "InvalidMove: cannot move wQ"))
	assert.Contains(t, msg, "due to LogicError")
	assert.Contains(t, msg, "due to FreedomToMove")

	kind, ok := fault.KindOf(outer)
	require.True(t, ok)
	assert.Equal(t, fault.InvalidMove, kind)

	assert.True(t, fault.IsKind(outer, fault.FreedomToMove))
	assert.True(t, fault.IsKind(outer, fault.LogicError))
	assert.False(t, fault.IsKind(outer, fault.ParseError))
}

func TestChainAppendsAtTail(t *testing.T) {
	base := fault.Chain(fault.New(fault.InvalidState, "wrong player"), fault.New(fault.InvalidMove, "cannot move"))
	combined := fault.Chain(fault.New(fault.ImmuneToPillbug, "immune"), base)

	assert.True(t, fault.IsKind(combined, fault.InvalidMove))
	assert.True(t, fault.IsKind(combined, fault.InvalidState))
	assert.True(t, fault.IsKind(combined, fault.ImmuneToPillbug))
}

func TestFatal(t *testing.T) {
	assert.False(t, fault.IsFatal(fault.New(fault.ParseError, "nope")))
	assert.False(t, fault.IsFatal(nil))
	assert.True(t, fault.IsFatal(fault.New(fault.IoError, "broken pipe")))
	assert.True(t, fault.IsFatal(fault.Critical(fault.New(fault.LogicError, "impossible"))))
}

func TestForParse(t *testing.T) {
	err := fault.ForParse("Piece", "wX9")
	assert.Equal(t, "ParseError: 'wX9' is not a valid Piece.", err.Error())
}
