package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorderIndependentRegistries(t *testing.T) {
	r1 := NewRecorder()
	r2 := NewRecorder()

	r1.ObserveOp("ok", false)
	r2.ObserveOp("fail", true)
	r1.ObserveNemesisEvent("crashed")
	r1.SetActiveHistories(1)

	require.NotNil(t, r1.Handler())
	require.NotNil(t, r2.Handler())
}
