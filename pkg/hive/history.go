package hive

import (
	"fmt"

	"github.com/seekerror/stdlib/pkg/lang"
)

// Patch records where a move took a piece, so it can be reversed.
type Patch struct {
	Piece Piece
	From  lang.Optional[Hex]
	To    Hex
}

func (p Patch) String() string {
	from := "pouch"
	if h, ok := p.From.V(); ok {
		from = ToAxial(h).String()
	}
	return fmt.Sprintf("%v to %v, from %v", p.Piece, ToAxial(p.To), from)
}

// Entry is a move-patch pair for backward restoration. Pass moves carry no
// patch.
type Entry struct {
	Move        Move
	Patch       Patch
	HasPatch    bool
	PrevStunned lang.Optional[Hex]
}

// History is a linear move history: a past stack paired with a future
// stack. It can undo moves back to the start and redo them until a
// diverging move is played.
type History struct {
	past   []Entry
	future []Entry
}

// Len returns the number of past moves.
func (h *History) Len() int {
	return len(h.past)
}

// IsEmpty reports whether no move has been played.
func (h *History) IsEmpty() bool {
	return len(h.past) == 0
}

// Turn returns the number of moves already played. A new game is at turn 0,
// which maps to the turn string White[1].
func (h *History) Turn() uint8 {
	return uint8(len(h.past))
}

// Past returns the played entries oldest-first.
func (h *History) Past() []Entry {
	return h.past
}

// Prev returns the most recently played entry, if any.
func (h *History) Prev() (Entry, bool) {
	if len(h.past) == 0 {
		return Entry{}, false
	}
	return h.past[len(h.past)-1], true
}

// Next returns the next entry in the line, if a future exists.
func (h *History) Next() (Entry, bool) {
	if len(h.future) == 0 {
		return Entry{}, false
	}
	return h.future[len(h.future)-1], true
}

// LastHex returns the most recent destination of the given piece. Undoing
// a move needs to know where the piece previously stood, or that it was
// still in hand.
func (h *History) LastHex(piece Piece) lang.Optional[Hex] {
	for i := len(h.past) - 1; i >= 0; i-- {
		if h.past[i].HasPatch && h.past[i].Patch.Piece == piece {
			return lang.Some(h.past[i].Patch.To)
		}
	}
	return lang.Optional[Hex]{}
}

// Play records an entry. If it matches the head of the future the line is
// stepped forward as a redo; otherwise the future is cleared.
func (h *History) Play(entry Entry) {
	if next, ok := h.Next(); ok {
		if next == entry {
			h.Redo()
			return
		}
		h.future = h.future[:0]
	}
	h.past = append(h.past, entry)
}

// Undo steps backward in the history if possible.
func (h *History) Undo() {
	if n := len(h.past); n > 0 {
		h.future = append(h.future, h.past[n-1])
		h.past = h.past[:n-1]
	}
}

// Redo steps forward in the history if possible.
func (h *History) Redo() {
	if n := len(h.future); n > 0 {
		h.past = append(h.past, h.future[n-1])
		h.future = h.future[:n-1]
	}
}

// Clone deep-copies the history.
func (h *History) Clone() History {
	return History{
		past:   append([]Entry(nil), h.past...),
		future: append([]Entry(nil), h.future...),
	}
}
