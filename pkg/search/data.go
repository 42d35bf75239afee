package search

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	uatomic "go.uber.org/atomic"
)

// Config holds the resource budget of the search agent.
type Config struct {
	// TableMemory is the transposition table budget in GB.
	TableMemory float64
	// CacheMemory is the budget in GB for the per-thread leaf caches.
	CacheMemory float64
	// NumThreads is the number of worker threads; zero means one per
	// logical CPU.
	NumThreads int
	// Verbose enables per-depth search logging.
	Verbose bool
}

// Global is the state shared between worker threads. Immutable after
// Prepare except for the atomics.
type Global struct {
	Args           Args
	MaxDepth       uatomic.Uint64
	StartTime      time.Time
	Stopped        uatomic.Bool
	Transpositions *TranspositionTable
	Verbose        bool
}

// NewGlobal allocates the shared search state with the given budget.
func NewGlobal(ctx context.Context, cfg Config) *Global {
	tableBytes := uint64(cfg.TableMemory * 1e9)
	return &Global{
		Transpositions: NewTranspositionTable(ctx, tableBytes),
		Verbose:        cfg.Verbose,
	}
}

// Prepare sets up the global state for a fresh search.
func (g *Global) Prepare(args Args) {
	g.Args = args
	g.StartTime = time.Now()
	g.Stopped.Store(false)
	g.Transpositions.Increment()
}

// ShouldStop reports whether workers should abandon the current search.
func (g *Global) ShouldStop() bool {
	return g.Stopped.Load()
}

// Signal stops the search. Monotonic: the flag only transitions false to
// true within one search.
func (g *Global) Signal() {
	g.Stopped.Store(true)
}

// ObserveDepth publishes a completed depth. Relaxed maximum.
func (g *Global) ObserveDepth(depth int) {
	for {
		cur := g.MaxDepth.Load()
		if uint64(depth) <= cur || g.MaxDepth.CAS(cur, uint64(depth)) {
			return
		}
	}
}

// ThreadData is a worker's private state: a cloned board, its principal
// variation, node counters and a leaf-evaluation cache. No synchronization
// needed.
type ThreadData struct {
	ID        int
	Board     *hive.Board
	Variation Variation
	Depth     int
	LeafCount uint64
	StemCount uint64
	BestMove  lang.Optional[hive.Move]

	rootMoves []ScoredMove
	lines     [eval.MaximumPly + 4]Variation
	cache     *ristretto.Cache[uint64, eval.Score]
}

// evalCacheEntryCost approximates the in-memory footprint of one cached
// leaf evaluation.
const evalCacheEntryCost = 64

// NewThreadData creates a worker workspace seeded with a clone of the
// given board.
func NewThreadData(ctx context.Context, id int, board *hive.Board, cacheBytes int64) *ThreadData {
	td := &ThreadData{
		ID:    id,
		Board: board.Clone(),
	}

	if cacheBytes > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[uint64, eval.Score]{
			NumCounters: max(cacheBytes/evalCacheEntryCost*10, 10),
			MaxCost:     cacheBytes,
			BufferItems: 64,
		})
		if err != nil {
			logw.Warningf(ctx, "Leaf cache disabled for thread %v: %v", id, err)
		} else {
			td.cache = cache
		}
	}
	return td
}

// Prepare resets the per-search state.
func (td *ThreadData) Prepare() {
	td.Variation.Clear()
	td.Depth = 0
	td.LeafCount = 0
	td.StemCount = 0
	td.BestMove = lang.Optional[hive.Move]{}
	td.rootMoves = td.rootMoves[:0]
}

// Evaluate scores the thread's board, consulting the leaf cache first.
func (td *ThreadData) Evaluate() eval.Score {
	td.LeafCount++

	if td.cache == nil {
		return eval.Evaluate(td.Board)
	}

	key := td.Board.Zobrist()
	cacheKey := key.Lo ^ key.Hi
	if score, ok := td.cache.Get(cacheKey); ok {
		return score
	}
	score := eval.Evaluate(td.Board)
	td.cache.Set(cacheKey, score, evalCacheEntryCost)
	return score
}

// Close releases the thread's cache.
func (td *ThreadData) Close() {
	if td.cache != nil {
		td.cache.Close()
		td.cache = nil
	}
}
