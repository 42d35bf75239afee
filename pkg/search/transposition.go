package search

import (
	"context"
	"sync/atomic"

	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/hive"
	"github.com/seekerror/logw"
	uatomic "go.uber.org/atomic"
)

// Bound classifies a possibly-inexact stored score.
type Bound uint8

const (
	NoBound    Bound = 0
	UpperBound Bound = 1
	LowerBound Bound = 2
	ExactBound Bound = 3
)

func (b Bound) String() string {
	switch b {
	case UpperBound:
		return "Upper"
	case LowerBound:
		return "Lower"
	case ExactBound:
		return "Exact"
	default:
		return "None"
	}
}

// TTEntry is the data stored per position: the full key, the best move, the
// searched depth, the score and the aged bound. 32 bytes packed.
type TTEntry struct {
	Key   hive.Key
	Move  MoveToken
	Depth int32
	Score eval.Score
	Age   uint8
	Bound Bound
}

const ttEntrySize = 32

// ageExtent rolls the table age modulo 64.
const ageExtent = 0x3F

// TranspositionTable is a concurrent, bounded, direct-mapped cache of
// search results keyed by position hash. Reads never tear an entry; writes
// from parallel workers race benignly with last-writer-wins under the
// replacement policy.
type TranspositionTable struct {
	slots []atomic.Pointer[TTEntry]
	age   uatomic.Uint32
	cap   uint64
}

// NewTranspositionTable allocates a table bounded by the given memory
// budget in bytes.
func NewTranspositionTable(ctx context.Context, bytes uint64) *TranspositionTable {
	capacity := bytes / ttEntrySize
	if capacity == 0 {
		capacity = 1
	}
	logw.Infof(ctx, "Allocated a TranspositionTable with %v entries (%v bytes)", capacity, bytes)

	return &TranspositionTable{
		slots: make([]atomic.Pointer[TTEntry], capacity),
		cap:   capacity,
	}
}

// Capacity returns the number of slots.
func (t *TranspositionTable) Capacity() uint64 {
	return t.cap
}

// Age returns the current age counter.
func (t *TranspositionTable) Age() uint8 {
	return uint8(t.age.Load()) & ageExtent
}

// Increment bumps the age counter. Called once per search root so stale
// entries decay.
func (t *TranspositionTable) Increment() {
	t.age.Store(uint32(t.Age()+1) & ageExtent)
}

// Load returns the entry in the slot for the key, if the slot is occupied.
// The caller must verify the entry's key before trusting its contents
// beyond probe-ordering.
func (t *TranspositionTable) Load(key hive.Key) (TTEntry, bool) {
	ptr := t.slots[t.capacityHash(key)].Load()
	if ptr == nil {
		return TTEntry{}, false
	}
	return *ptr, true
}

// Check probes the table for the key. Any resident move is written into
// candidate for ordering. If the entry is for this key and was searched at
// at least the requested depth, its bound refines the window: an exact hit
// returns its score, a lower bound raises alpha, an upper bound lowers
// beta, and a produced cutoff returns the stored score.
func (t *TranspositionTable) Check(key hive.Key, depth int, candidate *MoveToken, alpha, beta *eval.Score) (eval.Score, bool) {
	hit, ok := t.Load(key)
	if !ok {
		return 0, false
	}

	*candidate = hit.Move

	if hit.Key != key || hit.Depth < int32(depth) {
		return 0, false
	}

	switch hit.Bound {
	case ExactBound:
		return hit.Score, true
	case LowerBound:
		*alpha = max(*alpha, hit.Score)
	case UpperBound:
		*beta = min(*beta, hit.Score)
	}

	if *alpha >= *beta {
		return hit.Score, true
	}
	return 0, false
}

// Store writes the entry into its slot, subject to the replacement policy:
// a different key, a newly-exact bound, or sufficient depth against the
// age-discounted resident always replace.
func (t *TranspositionTable) Store(entry TTEntry) {
	slot := &t.slots[t.capacityHash(entry.Key)]
	entry.Age = t.Age()

	prev := slot.Load()
	if prev == nil {
		slot.Store(&entry)
		return
	}

	// Keep the resident move if the new entry has none for this position.
	if !entry.Move.IsSome() && prev.Key == entry.Key {
		entry.Move = prev.Move
	}

	if prev.Key != entry.Key ||
		(entry.Bound == ExactBound && prev.Bound != ExactBound) ||
		t.shouldReplace(prev, &entry) {
		slot.Store(&entry)
	}
}

// shouldReplace weighs the depth of the incoming entry against the
// age-discounted depth of the resident one: older entries are cheaper to
// evict.
func (t *TranspositionTable) shouldReplace(prev, next *TTEntry) bool {
	aging := int32(t.Age()-prev.Age) & ageExtent
	agingTerm := aging * aging / 4
	return (next.Depth+boundBonus(next.Bound))*3+agingTerm >= (prev.Depth+boundBonus(prev.Bound))*2
}

func boundBonus(b Bound) int32 {
	return int32(b)
}

// PrincipalVariation walks the table from the current position, applying
// each stored legal move in turn, and loads the walked line into the
// variation. Key cycles and the ply cap bound the walk.
func (t *TranspositionTable) PrincipalVariation(board *hive.Board, v *Variation) {
	v.Clear()

	b := board.Clone()
	visited := map[hive.Key]struct{}{}

	for len(v.Moves) < eval.MaximumPly {
		key := b.Zobrist()
		hit, ok := t.Load(key)
		if !ok || hit.Key != key {
			break
		}

		mv, ok := hit.Move.Unpack()
		if !ok {
			mv = hive.Pass
		}
		if b.Check(mv) != nil {
			break
		}

		v.Moves = append(v.Moves, ScoredMove{Move: mv, Score: hit.Score})
		b.PlayUnchecked(mv)

		next := b.Zobrist()
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}
	}

	if len(v.Moves) > 0 {
		v.Score = v.Moves[0].Score
	}
}

// capacityHash reduces the key to its slot without allocating.
func (t *TranspositionTable) capacityHash(key hive.Key) uint64 {
	return key.Mod(t.cap)
}
