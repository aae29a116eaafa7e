package history

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendPreservesOrderAndReturnsOp(t *testing.T) {
	h := New()

	got := h.Append(Op{Process: 0, Type: Invoke, F: "read"})
	require.Equal(t, Invoke, got.Type)
	require.Equal(t, -1, got.Index)

	h.Append(Op{Process: 0, Type: Ok, F: "read"})
	require.Equal(t, 2, h.Len())

	ops := h.Ops()
	require.Equal(t, Invoke, ops[0].Type)
	require.Equal(t, Ok, ops[1].Type)
}

func TestAssignIndicesIsContiguous(t *testing.T) {
	h := New()
	for i := 0; i < 5; i++ {
		h.Append(Op{Process: Process(i), Type: Invoke, F: "read"})
	}
	h.Close()
	h.AssignIndices()

	ops := h.Ops()
	for i, op := range ops {
		require.Equal(t, i, op.Index)
	}
}

func TestConcurrentAppendIsSafe(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	const writers = 50
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(p int) {
			defer wg.Done()
			h.Append(Op{Process: Process(p), Type: Invoke, F: "write"})
		}(i)
	}
	wg.Wait()
	require.Equal(t, writers, h.Len())
}

func TestRegisterSnapshotIsStableAcrossMutation(t *testing.T) {
	r := NewRegister()
	h1, h2 := New(), New()
	r.Add(h1)
	r.Add(h2)

	snap := r.Snapshot()
	require.Len(t, snap, 2)

	r.Remove(h1)
	// The earlier snapshot must not reflect the later removal.
	require.Len(t, snap, 2)
	require.Equal(t, 1, r.Len())
}

func TestRetireFormula(t *testing.T) {
	require.Equal(t, Process(5), Retire(0, 5))
	require.Equal(t, Process(10), Retire(5, 5))
}
