package search

import (
	"strings"

	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
)

// ScoredMove is a move paired with its evaluation.
type ScoredMove struct {
	Move  hive.Move
	Score eval.Score
}

// Variation is a line taken by the search: a bounded continuation and its
// score. It is cleared and rebuilt at each ply.
type Variation struct {
	Moves []ScoredMove
	Score eval.Score
}

// Clear empties the variation.
func (v *Variation) Clear() {
	v.Moves = v.Moves[:0]
	v.Score = 0
}

// Load replaces the variation with a head move followed by the given
// continuation.
func (v *Variation) Load(mv ScoredMove, rest *Variation) {
	v.Moves = v.Moves[:0]
	v.Moves = append(v.Moves, mv)
	if n := eval.MaximumPly - 1; len(rest.Moves) > n {
		v.Moves = append(v.Moves, rest.Moves[:n]...)
	} else {
		v.Moves = append(v.Moves, rest.Moves...)
	}
}

// First returns the first move of the variation, if any.
func (v *Variation) First() (hive.Move, bool) {
	if len(v.Moves) == 0 {
		return hive.Move{}, false
	}
	return v.Moves[0].Move, true
}

func (v *Variation) String() string {
	var parts []string
	for _, m := range v.Moves {
		parts = append(parts, m.Move.String())
	}
	return strings.Join(parts, " ")
}
