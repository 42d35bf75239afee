package search

import (
	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
)

const (
	// nullMoveReduction is the depth reduction applied to the null-move
	// verification search.
	nullMoveReduction = 2
	// quiescenceDepth bounds the tactical extension at the leaves.
	quiescenceDepth = 2
)

// alphaBeta searches the thread's board to the given depth with a negamax
// window. Scores are from the side-to-move's perspective. The variation is
// cleared and rebuilt from the best move found, if any.
func alphaBeta(g *Global, td *ThreadData, alpha, beta eval.Score, depth, ply int, v *Variation) eval.Score {
	if g.ShouldStop() {
		return 0
	}

	v.Clear()

	if td.Board.State().Over() {
		return td.Evaluate()
	}
	if depth <= 0 || ply >= eval.MaximumPly {
		return quiescence(g, td, alpha, beta, quiescenceDepth, ply)
	}

	key := td.Board.Zobrist()
	var candidate MoveToken
	if score, ok := g.Transpositions.Check(key, depth, &candidate, &alpha, &beta); ok {
		return score
	}

	// Null move: if doing nothing for a ply still fails high on a reduced
	// search, a real move will too.
	if depth > nullMoveReduction {
		td.Board.PlayUnchecked(hive.Pass)
		score := -alphaBeta(g, td, -beta, -beta+1, depth-nullMoveReduction, ply+1, &td.lines[ply])
		undo(td.Board)
		if g.ShouldStop() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	gen := NewPrioritizingMoveGenerator(td.Board, false)
	if gen.Stuck() {
		// No legal moves: the mover is stuck and thus lost.
		return eval.MinimumLoss
	}
	moves := gen.Moves()

	// A forced reply deserves another ply.
	if len(moves) == 1 {
		depth++
	}

	if mv, ok := candidate.Unpack(); ok {
		gen.Promote(mv)
	}

	td.StemCount++

	best := -eval.Inf
	var bestMove MoveToken
	bound := UpperBound
	child := &td.lines[ply]

	for i, mv := range moves {
		if g.ShouldStop() {
			return 0
		}

		td.Board.PlayUnchecked(mv)

		var score eval.Score
		if i == 0 {
			score = -alphaBeta(g, td, -beta, -alpha, depth-1, ply+1, child)
		} else {
			// Principal variation search: probe siblings with a null
			// window, re-search on an inside result.
			score = -alphaBeta(g, td, -alpha-1, -alpha, depth-1, ply+1, child)
			if alpha < score && score < beta {
				score = -alphaBeta(g, td, -beta, -alpha, depth-1, ply+1, child)
			}
		}

		undo(td.Board)

		if score > best {
			best = score
			bestMove = PackMove(mv)
			v.Load(ScoredMove{Move: mv, Score: score}, child)
		}
		if score > alpha {
			alpha = score
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			break
		}
	}

	if g.ShouldStop() {
		return 0
	}

	g.Transpositions.Store(TTEntry{
		Key:   key,
		Move:  bestMove,
		Depth: int32(depth),
		Score: best,
		Bound: bound,
	})

	return eval.Normalize(best)
}

// quiescence resolves horizon effects by extending the search over
// tactical moves only.
func quiescence(g *Global, td *ThreadData, alpha, beta eval.Score, depth, ply int) eval.Score {
	if g.ShouldStop() {
		return 0
	}
	if td.Board.State().Over() || depth <= 0 || ply >= eval.MaximumPly {
		return td.Evaluate()
	}

	moves := td.Board.GenerateTacticalMoves()
	if len(moves) == 0 {
		return td.Evaluate()
	}

	td.StemCount++

	best := -eval.Inf
	for _, mv := range moves {
		if g.ShouldStop() {
			return 0
		}

		td.Board.PlayUnchecked(mv)
		score := -quiescence(g, td, -beta, -alpha, depth-1, ply+1)
		undo(td.Board)

		best = max(best, score)
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	return eval.Normalize(best)
}

// undo reverts the last play. The move came off a generator or passed a
// check, so failure here is a broken invariant.
func undo(b *hive.Board) {
	if _, err := b.Undo(1); err != nil {
		panic(err)
	}
}
