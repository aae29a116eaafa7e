package kvdb

import (
	"context"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
)

// NoopOS is a reference orchestrator.OS that installs nothing: pkg/kvdb's
// register service needs no OS-level prerequisites beyond what Setup
// already does, so the OS stage has nothing real to do in the reference
// stack cmd/warren-jepsen wires by default.
type NoopOS struct{}

var _ orchestrator.OS = NoopOS{}

func (NoopOS) Setup(context.Context, *orchestrator.Config, string) error    { return nil }
func (NoopOS) Teardown(context.Context, *orchestrator.Config, string) error { return nil }

// NoopNemesis is a reference orchestrator.Nemesis that injects no faults.
// Paired with RegisterGenerator (which already returns end-of-stream for
// history.Nemesis), its Invoke is never actually called in that
// configuration; it still implements the full contract so a different
// generator can drive it.
type NoopNemesis struct{}

var _ orchestrator.Nemesis = NoopNemesis{}

func (NoopNemesis) Setup(context.Context, *orchestrator.Config) error    { return nil }
func (NoopNemesis) Teardown(context.Context, *orchestrator.Config) error { return nil }

func (NoopNemesis) Invoke(_ context.Context, _ *orchestrator.Config, op history.Op) (history.Op, error) {
	op.Type = history.Info
	return op, nil
}
