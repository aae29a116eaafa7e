package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/stretchr/testify/require"
)

// Scenario 4: the nemesis throws on invoke. Every active history must
// receive a synthesized crash record, and the loop must keep going rather
// than stop.
func TestNemesisLoopCrashContinues(t *testing.T) {
	nemesis := &fakeNemesis{responses: []clientResponse{
		{err: errors.New("boom")},
	}}
	gen := newFakeGenerator().enqueue(history.Nemesis, history.Op{F: "partition"}, history.Op{F: "heal"})

	cfg := &Config{Nemesis: nemesis, Generator: gen}
	rt := &Runtime{Config: cfg, Start: time.Now()}

	active := history.NewRegister()
	h1 := history.New()
	h2 := history.New()
	active.Add(h1)
	active.Add(h2)

	err := runNemesisLoop(context.Background(), rt, active)
	require.NoError(t, err)

	for _, h := range []*history.History{h1, h2} {
		ops := h.Ops()
		require.Len(t, ops, 4) // partition invoke+crash, heal invoke+ok
		require.Equal(t, history.Info, ops[0].Type, "nemesis invocations are info records")
		require.Equal(t, "partition", ops[0].F)
		require.Equal(t, history.Nemesis, ops[0].Process)

		require.Equal(t, history.Info, ops[1].Type)
		require.Equal(t, "partition", ops[1].F)
		require.Contains(t, ops[1].Error, "crashed: ")

		require.Equal(t, history.Info, ops[2].Type)
		require.Equal(t, "heal", ops[2].F)

		require.Equal(t, history.Info, ops[3].Type)
		require.Equal(t, "heal", ops[3].F)
		require.Empty(t, ops[3].Error)
	}
}

func TestNemesisSupervisorEndsOnGeneratorExhaustion(t *testing.T) {
	nemesis := &fakeNemesis{}
	gen := newFakeGenerator()

	cfg := &Config{Nemesis: nemesis, Generator: gen}
	rt := &Runtime{Config: cfg, Start: time.Now()}
	active := history.NewRegister()

	sup := startNemesisSupervisor(context.Background(), rt, active)
	require.NoError(t, sup.Wait())
	require.Equal(t, 0, nemesis.setupCalls)
}
