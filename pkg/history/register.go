package history

import "sync"

// Register tracks the set of histories currently accepting nemesis writes.
// Membership changes only at case boundaries (Add on case start, Remove on
// case end); Snapshot gives the nemesis supervisor a single consistent view
// to fan an event's invocation and completion into: the active set is read
// once per event, never recomputed between a nemesis invocation and its
// completion.
type Register struct {
	mu     sync.RWMutex
	active map[*History]struct{}
}

// NewRegister creates an empty active-histories set.
func NewRegister() *Register {
	return &Register{active: make(map[*History]struct{})}
}

// Add registers h as active.
func (r *Register) Add(h *History) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[h] = struct{}{}
}

// Remove unregisters h.
func (r *Register) Remove(h *History) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, h)
}

// Snapshot returns the histories active at the moment of the call. Callers
// that need to write both an invocation and a matching completion for the
// same logical event must call Snapshot once and reuse the result for both
// writes, rather than calling Snapshot twice.
func (r *Register) Snapshot() []*History {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*History, 0, len(r.active))
	for h := range r.active {
		out = append(out, h)
	}
	return out
}

// Len reports the number of currently active histories.
func (r *Register) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
