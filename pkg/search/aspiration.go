package search

import (
	"github.com/rsarvar1a/hivemind/pkg/eval"
)

const (
	// aspirationWidth is the default half-width of the window guessed
	// around the previous depth's score.
	aspirationWidth eval.Score = 50
	// aspirationMaxFails opens the offending side to infinity after this
	// many consecutive fails.
	aspirationMaxFails = 4
	// aspirationMinDepth is the first depth that aspires at all.
	aspirationMinDepth = 2
)

// aspirationWindow is a bounded search window centred on the previous
// depth's score. A failed search widens the offending side by doubling
// until it gives up and opens to infinity.
type aspirationWindow struct {
	a, b           eval.Score
	aFails, bFails int
	mid            eval.Score
}

// unboundedWindow is the full search window.
func unboundedWindow() aspirationWindow {
	return aspirationWindow{a: -eval.Inf, b: eval.Inf}
}

// windowAround guesses a window for the next depth. A terminal previous
// score does not aspire: a found win is rarely forced through a narrow
// window, so the narrow search would fail anyway.
func windowAround(score eval.Score) aspirationWindow {
	if eval.IsTerminal(score) {
		return unboundedWindow()
	}
	return aspirationWindow{
		a:   score - aspirationWidth,
		b:   score + aspirationWidth,
		mid: score,
	}
}

// widenDown widens the window after a fail-low.
func (w *aspirationWindow) widenDown(score eval.Score) {
	w.mid = score
	w.aFails++
	if w.aFails >= aspirationMaxFails {
		w.a = -eval.Inf
		return
	}
	w.b = (w.a + w.b) / 2
	w.a = w.mid - aspirationWidth<<w.aFails
}

// widenUp widens the window after a fail-high.
func (w *aspirationWindow) widenUp(score eval.Score) {
	w.mid = score
	w.bFails++
	if w.bFails >= aspirationMaxFails {
		w.b = eval.Inf
		return
	}
	w.b = w.mid + aspirationWidth<<w.bFails
}
