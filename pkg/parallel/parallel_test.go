package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoRunsEveryItem(t *testing.T) {
	var calls int32
	err := Do([]int{1, 2, 3, 4, 5}, func(int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, calls)
}

func TestDoReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Do([]int{1, 2, 3}, func(i int) error {
		if i == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestDoRunsEveryBranchDespiteFailure(t *testing.T) {
	var calls int32
	err := Do([]int{1, 2, 3}, func(i int) error {
		atomic.AddInt32(&calls, 1)
		if i == 1 {
			return errors.New("first item fails")
		}
		return nil
	})
	require.Error(t, err)
	require.EqualValues(t, 3, calls, "a failure must not stop the other branches")
}

func TestDoEmptyInput(t *testing.T) {
	err := Do([]int{}, func(int) error {
		t.Fatal("should not be called")
		return nil
	})
	require.NoError(t, err)
}
