package orchestrator

import (
	"context"
	"sync"
)

// Barrier is a reusable N-way rendezvous: a call to Arrive blocks until N
// callers have arrived, then releases all of them, and is immediately
// ready for the next round. Workers use it twice per case: once after
// opening their client, once before closing it.
type Barrier interface {
	Arrive(ctx context.Context) error
}

// NewBarrier returns a Barrier that releases every N-th arrival. If n <= 0
// it returns a no-op sentinel whose Arrive succeeds immediately, so
// degenerate zero-node tests can still run.
func NewBarrier(n int) Barrier {
	if n <= 0 {
		return noBarrier{}
	}
	return &cyclicBarrier{n: n, release: make(chan struct{})}
}

type noBarrier struct{}

func (noBarrier) Arrive(context.Context) error { return nil }

// cyclicBarrier is a textbook counting barrier: the arrival that completes
// the round closes the current release channel and immediately swaps in a
// fresh one for the next round, so the same Barrier value can be used
// repeatedly without external reset logic.
type cyclicBarrier struct {
	n int

	mu      sync.Mutex
	count   int
	release chan struct{}
}

func (b *cyclicBarrier) Arrive(ctx context.Context) error {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		ch := b.release
		b.count = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return nil
	}
	ch := b.release
	b.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
