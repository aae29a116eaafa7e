package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBarrierReleasesAllArrivalsTogether(t *testing.T) {
	const n = 5
	b := NewBarrier(n)

	var before, after int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			atomic.AddInt32(&before, 1)
			require.NoError(t, b.Arrive(context.Background()))
			atomic.AddInt32(&after, 1)
		}()
	}
	wg.Wait()
	require.EqualValues(t, n, after)
}

func TestBarrierIsReusableAcrossRounds(t *testing.T) {
	const n = 3
	b := NewBarrier(n)

	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				require.NoError(t, b.Arrive(context.Background()))
			}()
		}
		wg.Wait()
	}
}

func TestNoBarrierShortCircuits(t *testing.T) {
	b := NewBarrier(0)
	require.NoError(t, b.Arrive(context.Background()))
	require.NoError(t, b.Arrive(context.Background()))
}

func TestBarrierArriveRespectsContextCancellation(t *testing.T) {
	b := NewBarrier(2)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Arrive(ctx)
	require.Error(t, err)
}
