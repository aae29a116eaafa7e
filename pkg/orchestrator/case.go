package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/parallel"
	"github.com/cuemby/warren-jepsen/pkg/stage"
)

// RunCase runs one complete test case: nemesis setup, concurrency workers
// racing against the nemesis loop, nemesis teardown, and a normal
// end-of-case log snarf, returning the finished, closed History regardless
// of whether the case itself errored (a partial history is still worth
// returning to the caller, which persists and checks it). active is the
// case-spanning register the nemesis supervisor fans events through; this
// case's history is registered for the duration of the run and removed
// before returning.
func RunCase(ctx context.Context, rt *Runtime, active *history.Register) (*history.History, error) {
	h := history.New()
	active.Add(h)
	reportActiveHistories(rt, active)

	err := runCaseBody(ctx, rt, h, active)

	active.Remove(h)
	reportActiveHistories(rt, active)
	h.Close()

	return h, err
}

func runCaseBody(ctx context.Context, rt *Runtime, h *history.History, active *history.Register) error {
	logger := log.WithComponent("case").With().Str("history", h.ID.String()).Logger()

	if err := rt.Nemesis.Setup(ctx, rt.Config); err != nil {
		return fmt.Errorf("nemesis setup: %w", err)
	}

	sup := startNemesisSupervisor(ctx, rt, active)

	runErr := runWorkers(ctx, rt, h)

	supErr := sup.Wait()
	if supErr != nil {
		logger.Warn().Err(supErr).Msg("nemesis loop exited with an error")
	}

	if tErr := rt.Nemesis.Teardown(ctx, rt.Config); tErr != nil {
		logger.Warn().Err(tErr).Msg("nemesis teardown failed")
	}

	if runErr != nil {
		return runErr
	}

	snarfDir := filepath.Join(rt.snarfDir(), h.ID.String())
	if lister, ok := rt.Config.DB.(LogFileLister); ok {
		if err := stage.Snarf(ctx, rt.Config.Nodes, func(ctx context.Context, node string) ([]string, error) {
			return lister.LogFiles(ctx, rt.Config, node)
		}, rt.Sessions, snarfDir); err != nil {
			logger.Warn().Err(err).Msg("end-of-case log snarf failed")
		}
	}

	return nil
}

// runWorkers assigns process ids 0..concurrency-1 to nodes round-robin (or
// to no node at all in the zero-node dry-run), runs them against a barrier
// sized to concurrency, and waits for all of them. With an empty node list
// the barrier degrades to the no-op sentinel: a dry run has no client-open
// or client-close phase worth separating.
func runWorkers(ctx context.Context, rt *Runtime, h *history.History) error {
	concurrency := rt.resolvedConcurrency()
	if concurrency == 0 {
		return nil
	}

	barrier := NewBarrier(concurrency)
	if len(rt.Config.Nodes) == 0 {
		barrier = NewBarrier(0)
	}

	ids := make([]int, concurrency)
	for i := range ids {
		ids[i] = i
	}
	return parallel.Do(ids, func(i int) error {
		return runWorker(ctx, rt, h, barrier, nodeFor(rt.Config.Nodes, i), history.Process(i))
	})
}

// nodeFor picks the node a worker with the given index runs against,
// round-robin over the configured node list. Returns "" when there are no
// nodes at all.
func nodeFor(nodes []string, i int) string {
	if len(nodes) == 0 {
		return ""
	}
	return nodes[i%len(nodes)]
}

func reportActiveHistories(rt *Runtime, active *history.Register) {
	if rt.Config.Metrics == nil {
		return
	}
	rt.Config.Metrics.SetActiveHistories(active.Len())
}

func (r *Runtime) snarfDir() string {
	if r.Config.StorageDir == "" {
		return "."
	}
	return r.Config.StorageDir
}
