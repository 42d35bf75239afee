package search

import (
	"github.com/rsarvar1a/hivemind/pkg/hive"
)

// PrioritizingMoveGenerator materializes the legal move list for a
// position. The search needs random access to reorder: the table move is
// rotated to the front, and root moves re-sort by their returned scores
// between iterations.
type PrioritizingMoveGenerator struct {
	moves []hive.Move
}

// NewPrioritizingMoveGenerator generates the move list for the current
// position. A position with no legal moves yields the single Pass move.
func NewPrioritizingMoveGenerator(board *hive.Board, standardPosition bool) *PrioritizingMoveGenerator {
	moves := board.GenerateMoves(standardPosition)
	if len(moves) == 0 {
		moves = append(moves, hive.Pass)
	}
	return &PrioritizingMoveGenerator{moves: moves}
}

// Moves returns the generated moves in priority order.
func (g *PrioritizingMoveGenerator) Moves() []hive.Move {
	return g.moves
}

// Stuck reports whether the side to move has no legal moves.
func (g *PrioritizingMoveGenerator) Stuck() bool {
	return len(g.moves) == 1 && g.moves[0] == hive.Pass
}

// Promote rotates the prefix ending at the given move one step right, so
// the move comes first and the rest keep their relative order.
func (g *PrioritizingMoveGenerator) Promote(move hive.Move) {
	promote(g.moves, move)
}

func promote(moves []hive.Move, move hive.Move) {
	for i, m := range moves {
		if m != move {
			continue
		}
		copy(moves[1:i+1], moves[:i])
		moves[0] = move
		return
	}
}
