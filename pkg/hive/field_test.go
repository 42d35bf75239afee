package hive_test

import (
	"testing"

	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMultiset(t *testing.T) {
	f := hive.NewField()
	assert.True(t, f.IsEmpty())

	f.Push(hive.Root)
	f.Push(hive.Root)
	h, ok := f.Height(hive.Root)
	require.True(t, ok)
	assert.EqualValues(t, 2, h)
	assert.Equal(t, 1, f.Len())

	f.Pop(hive.Root)
	h, ok = f.Height(hive.Root)
	require.True(t, ok)
	assert.EqualValues(t, 1, h)

	f.Pop(hive.Root)
	assert.False(t, f.Contains(hive.Root))
	assert.True(t, f.IsEmpty())
}

func TestFindPinsPath(t *testing.T) {
	// A three-hex path pins only the middle.
	a := hive.Root
	b := a.Add(hive.East)
	c := b.Add(hive.East)

	f := hive.NewField()
	f.Push(a)
	f.Push(b)
	f.Push(c)

	pins := f.FindPins()
	assert.False(t, pins.Contains(a))
	assert.True(t, pins.Contains(b))
	assert.False(t, pins.Contains(c))
}

func TestFindPinsTriangle(t *testing.T) {
	// A triangle has no articulation points.
	a := hive.Root
	b := a.Add(hive.East)
	c := a.Add(hive.Southeast)
	require.True(t, adjacent(b, c))

	f := hive.NewField()
	f.Push(a)
	f.Push(b)
	f.Push(c)

	pins := f.FindPins()
	for _, h := range []hive.Hex{a, b, c} {
		assert.False(t, pins.Contains(h))
	}
}

func TestConstantContact(t *testing.T) {
	// A lone piece at Root; a neighbour crawling around it keeps contact.
	f := hive.NewField()
	f.Push(hive.Root)

	from := hive.Root.Add(hive.East)
	f.Push(from)

	assert.NoError(t, f.EnsureConstantContact(from, hive.Root.Add(hive.Southeast), false))

	// Stepping away from the hive breaks contact.
	err := f.EnsureConstantContact(from, from.Add(hive.East), false)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.ConstantContact))
}

func TestFreedomToMoveGate(t *testing.T) {
	from := hive.Root
	to := from.Add(hive.East)
	cw := from.Add(hive.Southeast)
	ccw := from.Add(hive.Northeast)

	f := hive.NewField()
	f.Push(from)
	// Two stacks of height 2 on the common neighbours gate a ground move.
	f.Push(cw)
	f.Push(cw)
	f.Push(ccw)
	f.Push(ccw)

	err := f.EnsureFreedomToMove(from, to, false)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.FreedomToMove))

	// A height-1 wall still gates a ground move.
	f.Pop(cw)
	f.Pop(ccw)
	err = f.EnsureFreedomToMove(from, to, false)
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.FreedomToMove))

	// With one side open there is no gate.
	f.Pop(cw)
	assert.NoError(t, f.EnsureFreedomToMove(from, to, false))
}

func TestFindCrawlsAroundSinglePiece(t *testing.T) {
	// An ant next to a lone piece reaches the whole ring.
	f := hive.NewField()
	f.Push(hive.Root)

	from := hive.Root.Add(hive.East)
	f.Push(from)

	crawls := f.FindCrawls(from, 0)
	assert.Len(t, crawls, 6)
	for _, n := range hive.Neighbours(hive.Root) {
		_, ok := crawls[n]
		assert.True(t, ok)
	}
}

func TestFindCrawlsExactDistance(t *testing.T) {
	// A spider-style crawl of exactly 1 from a ring position reaches the
	// two adjacent ring hexes.
	f := hive.NewField()
	f.Push(hive.Root)

	from := hive.Root.Add(hive.East)
	f.Push(from)

	crawls := f.FindCrawls(from, 1)
	assert.Len(t, crawls, 2)
	_, ok := crawls[hive.Root.Add(hive.Southeast)]
	assert.True(t, ok)
	_, ok = crawls[hive.Root.Add(hive.Northeast)]
	assert.True(t, ok)
}

func adjacent(a, b hive.Hex) bool {
	_, ok := hive.DirectionTo(a, b)
	return ok
}
