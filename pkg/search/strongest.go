package search

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// depthVariance staggers the starting depth across worker threads, so they
// cover different portions of the game tree. Work done early by deeper
// threads prepares the transposition table for the threads that start
// closer to the real position.
const depthVariance = 8

// Strongest is the full-strength agent: a parallel iterative-deepening
// alpha-beta search over a shared transposition table, with an opening
// heuristic and a mate-in-one shortcut in front of it.
type Strongest struct {
	cfg     Config
	global  *Global
	threads []*ThreadData
	rnd     *rand.Rand
}

// NewStrongest creates the agent with the given resource budget.
func NewStrongest(ctx context.Context, cfg Config) *Strongest {
	if cfg.NumThreads == 0 {
		cfg.NumThreads = runtime.NumCPU()
	}
	return &Strongest{
		cfg:    cfg,
		global: NewGlobal(ctx, cfg),
		rnd:    rand.New(rand.NewSource(0xbee5)),
	}
}

// BestMove returns the move judged strongest in the position, within the
// given budget.
func (s *Strongest) BestMove(ctx context.Context, board *hive.Board, args Args) hive.Move {
	// The first two plies per side are book territory.
	if board.Turn() < 4 {
		return s.saneOpening(board)
	}

	// Even in DTM-1 positions a depth-limited search can struggle, so
	// check directly.
	if mate, ok := s.mateInOne(board); ok {
		return mate
	}

	moves := NewPrioritizingMoveGenerator(board, true).Moves()
	if len(moves) == 1 {
		return moves[0]
	}

	return s.search(ctx, board, args)
}

// search runs the parallel iterative-deepening search and picks the best
// thread's line.
func (s *Strongest) search(ctx context.Context, board *hive.Board, args Args) hive.Move {
	s.createThreadData(ctx, board)
	defer s.closeThreadData()

	s.global.Prepare(args)

	if budget, ok := args.Time.V(); ok {
		timer := time.AfterFunc(budget, s.global.Signal)
		defer timer.Stop()
	}

	var wg sync.WaitGroup
	for i, td := range s.threads {
		wg.Add(1)
		go func(id int, td *ThreadData) {
			defer wg.Done()
			s.iterate(ctx, td, id == 0)
		}(i, td)
	}
	wg.Wait()

	var leafCount, stemCount uint64
	for _, td := range s.threads {
		leafCount += td.LeafCount
		stemCount += td.StemCount
	}
	elapsed := time.Since(s.global.StartTime)

	best := s.bestThread()
	mv, ok := best.Variation.First()
	if !ok {
		mv = NewPrioritizingMoveGenerator(board, true).Moves()[0]
	}

	logw.Debugf(ctx, "found %v: scored %v", mv, best.Variation.Score)
	logw.Debugf(ctx, "took %.1fs and reached depth %v", elapsed.Seconds(), s.global.MaxDepth.Load())
	logw.Debugf(ctx, "visited %v stems, %v leaves (%.0f N/s)", stemCount, leafCount, float64(stemCount+leafCount)/elapsed.Seconds())

	return mv
}

// iterate runs the iterative-deepening loop for one worker. Thread 0 is
// the main thread: when it exhausts its depth range it stops the others.
func (s *Strongest) iterate(ctx context.Context, td *ThreadData, isMain bool) {
	g := s.global

	var prev eval.Score
	havePrev := false

	limit := g.Args.DepthLimit()
	for depth := 1 + td.ID%depthVariance; depth <= limit; depth++ {
		if g.ShouldStop() || contextx.IsCancelled(ctx) {
			break
		}

		score, ok := s.aspirationSearch(td, depth, prev, havePrev)
		if !ok {
			break
		}

		td.Depth = depth
		td.Variation.Score = score
		g.ObserveDepth(depth)

		if g.Verbose {
			logw.Infof(ctx, "thread %v depth %v: scored %v, line %v", td.ID, depth, score, td.Variation.String())
		}

		if len(td.Variation.Moves) == 0 {
			g.Transpositions.PrincipalVariation(td.Board, &td.Variation)
		}

		// Better root moves first on the next iteration.
		sort.SliceStable(td.rootMoves, func(i, j int) bool {
			return td.rootMoves[i].Score > td.rootMoves[j].Score
		})

		prev, havePrev = score, true

		if eval.IsTerminal(score) {
			break
		}
	}

	if isMain {
		g.Signal()
	}
}

// aspirationSearch runs one depth iteration inside an aspiration window,
// widening and retrying on fails.
func (s *Strongest) aspirationSearch(td *ThreadData, depth int, prev eval.Score, havePrev bool) (eval.Score, bool) {
	g := s.global

	w := unboundedWindow()
	if havePrev && depth >= aspirationMinDepth {
		w = windowAround(prev)
	}

	for {
		score := s.searchRoot(td, w.a, w.b, depth)
		if g.ShouldStop() {
			return 0, false
		}
		if w.a != -eval.Inf && score <= w.a {
			w.widenDown(score)
			continue
		}
		if w.b != eval.Inf && score >= w.b {
			w.widenUp(score)
			continue
		}
		return score, true
	}
}

// searchRoot searches the root moves with the given window, recording each
// move's returned score for reordering.
func (s *Strongest) searchRoot(td *ThreadData, alpha, beta eval.Score, depth int) eval.Score {
	g := s.global

	if len(td.rootMoves) == 0 {
		for _, mv := range NewPrioritizingMoveGenerator(td.Board, true).Moves() {
			td.rootMoves = append(td.rootMoves, ScoredMove{Move: mv, Score: -eval.Inf})
		}
	}
	if len(td.rootMoves) == 1 && td.rootMoves[0].Move == hive.Pass {
		td.Variation.Load(ScoredMove{Move: hive.Pass, Score: eval.MinimumLoss}, &td.lines[0])
		return eval.MinimumLoss
	}

	key := td.Board.Zobrist()
	if hit, ok := g.Transpositions.Load(key); ok && hit.Key == key {
		if mv, ok := hit.Move.Unpack(); ok {
			promoteScored(td.rootMoves, mv)
		}
	}

	td.StemCount++

	best := -eval.Inf
	var bestMove MoveToken
	bound := UpperBound
	child := &td.lines[0]

	for i := range td.rootMoves {
		if g.ShouldStop() {
			return 0
		}

		mv := td.rootMoves[i].Move
		td.Board.PlayUnchecked(mv)

		var score eval.Score
		if i == 0 {
			score = -alphaBeta(g, td, -beta, -alpha, depth-1, 1, child)
		} else {
			score = -alphaBeta(g, td, -alpha-1, -alpha, depth-1, 1, child)
			if alpha < score && score < beta {
				score = -alphaBeta(g, td, -beta, -alpha, depth-1, 1, child)
			}
		}

		undo(td.Board)
		td.rootMoves[i].Score = score

		if score > best {
			best = score
			bestMove = PackMove(mv)
			td.Variation.Load(ScoredMove{Move: mv, Score: score}, child)
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

// bestThread picks the thread whose (completed depth, score) pair is
// strongest: deepest first, then highest score, except that any thread
// reporting a forced win wins on score alone.
func (s *Strongest) bestThread() *ThreadData {
	best := s.threads[0]
	for _, this := range s.threads[1:] {
		bestDepth, bestScore := best.Depth, best.Variation.Score
		thisDepth, thisScore := this.Depth, this.Variation.Score

		if ((thisDepth == bestDepth || thisScore > eval.MinimumWin-eval.MaximumPly) && thisScore > bestScore) ||
			(thisDepth > bestDepth && (thisScore > bestScore || bestScore < eval.MinimumWin-eval.MaximumPly)) {
			best = this
		}
	}
	return best
}

// saneOpening returns any opening placement that does not start with an
// ant or a spider. Queens and mosquitos come into consideration on the
// second turn per side.
func (s *Strongest) saneOpening(board *hive.Board) hive.Move {
	turn := board.Turn()
	okayOpeners := map[hive.Bug]bool{
		hive.Beetle:      true,
		hive.Grasshopper: true,
		hive.Ladybug:     true,
		hive.Pillbug:     true,
	}
	if turn >= 2 {
		okayOpeners[hive.Mosquito] = true
		okayOpeners[hive.Queen] = true
	}

	moves := NewPrioritizingMoveGenerator(board, true).Moves()
	s.rnd.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	for _, mv := range moves {
		if mv.Type == hive.PlaceMove && okayOpeners[mv.Piece.Kind] {
			return mv
		}
	}
	return moves[0]
}

// mateInOne reports a move that immediately wins for the side to move, if
// one exists.
func (s *Strongest) mateInOne(board *hive.Board) (hive.Move, bool) {
	expect := hive.WhiteWins
	if board.ToMove() == hive.Black {
		expect = hive.BlackWins
	}

	b := board.Clone()
	for _, mv := range NewPrioritizingMoveGenerator(b, true).Moves() {
		b.PlayUnchecked(mv)
		won := b.State() == expect
		undo(b)
		if won {
			return mv, true
		}
	}
	return hive.Move{}, false
}

// createThreadData clones the position into per-thread workspaces.
func (s *Strongest) createThreadData(ctx context.Context, board *hive.Board) {
	cacheBytes := int64(s.cfg.CacheMemory * 1e9 / float64(s.cfg.NumThreads))

	s.threads = s.threads[:0]
	for id := 0; id < s.cfg.NumThreads; id++ {
		td := NewThreadData(ctx, id, board, cacheBytes)
		td.Prepare()
		s.threads = append(s.threads, td)
	}
}

func (s *Strongest) closeThreadData() {
	for _, td := range s.threads {
		td.Close()
	}
}

func promoteScored(moves []ScoredMove, move hive.Move) {
	for i := range moves {
		if moves[i].Move != move {
			continue
		}
		promoted := moves[i]
		copy(moves[1:i+1], moves[:i])
		moves[0] = promoted
		return
	}
}
