package history

import (
	"sync"

	"github.com/google/uuid"
)

// History is an append-only, concurrently-written sequence of operations
// produced by a single test case. Writers append their own invocation and
// completion; the nemesis supervisor fans its events into every currently
// active History (see Register).
type History struct {
	// ID identifies this case's history for logging and persistence.
	ID uuid.UUID

	mu     sync.Mutex
	ops    []Op
	closed bool
}

// New creates a fresh, open History.
func New() *History {
	return &History{ID: uuid.New()}
}

// Append adds op to the history and returns it as recorded (unchanged
// except that Index is reset to -1, "not yet assigned"), so callers can
// log what was recorded without a second read under lock.
func (h *History) Append(op Op) Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	op.Index = -1
	h.ops = append(h.ops, op)
	return op
}

// Close marks the history as finished. Further appends still succeed (a
// straggling teardown write should never panic) but Close is the signal
// that indexing may now run.
func (h *History) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

// AssignIndices stamps every entry with a strictly increasing Index
// reflecting append order: 0..N-1 with no gaps.
func (h *History) AssignIndices() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.ops {
		h.ops[i].Index = i
	}
}

// Ops returns a snapshot copy of the recorded operations in append order.
func (h *History) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Op, len(h.ops))
	copy(out, h.ops)
	return out
}

// Len reports how many operations have been recorded so far.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ops)
}
