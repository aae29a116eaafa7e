package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/remote"
	"github.com/cuemby/warren-jepsen/pkg/session"
	"github.com/cuemby/warren-jepsen/pkg/stage"
)

// Summary is the human-readable result of one Run call: enough to print or
// log without re-walking the history.
type Summary struct {
	HistoryID string
	Ops       int
	Result    Result
	Duration  time.Duration
}

func (s Summary) String() string {
	status := "failed"
	if s.Result.Valid {
		status = "ok"
	}
	if s.Result.Error != "" {
		return fmt.Sprintf("history %s: %d ops, checker=%s (%s), took %s", s.HistoryID, s.Ops, status, s.Result.Error, s.Duration)
	}
	return fmt.Sprintf("history %s: %d ops, checker=%s, took %s", s.HistoryID, s.Ops, status, s.Duration)
}

// Run is the top-level runner: it stamps the start time, acquires the
// session pool, scopes the OS and DB stages around one case, indexes and
// checks the resulting history, persists both snapshots when cfg.Name is
// set, and always releases every resource it acquired, even when the case
// itself failed.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg.Log != nil {
		log.Init(*cfg.Log)
		if closer, ok := cfg.Log.Output.(io.Closer); ok {
			defer closer.Close()
		}
	}

	rt := &Runtime{Config: cfg, Start: time.Now()}
	active := history.NewRegister()

	open := cfg.Open
	if open == nil {
		open = remote.OpenLocal
	}

	var summary *Summary

	err := session.With(ctx, cfg.Nodes, open, func(sessions map[string]remote.Session) error {
		rt.Sessions = sessions

		return stage.WithOS(ctx, cfg.Nodes, osSetup(rt), osTeardown(rt), func() error {
			return stage.WithDB(ctx, cfg.Nodes, dbOps(rt), sessions, rt.snarfDir(), func() error {
				if g, ok := cfg.Generator.(ProcessAwareGenerator); ok {
					g.SetProcesses(KnownProcesses(cfg.resolvedConcurrency()))
				}

				h, caseErr := RunCase(ctx, rt, active)

				if err := persistSnapshot(rt.snarfDir(), cfg.Name, "save-1", h, nil); err != nil {
					log.WithComponent("runner").Warn().Err(err).Msg("persisting phase-1 snapshot failed")
				}

				h.AssignIndices()
				result := invokeChecker(ctx, rt, h)

				if err := persistSnapshot(rt.snarfDir(), cfg.Name, "save-2", h, &result); err != nil {
					log.WithComponent("runner").Warn().Err(err).Msg("persisting phase-2 snapshot failed")
				}

				summary = &Summary{
					HistoryID: h.ID.String(),
					Ops:       h.Len(),
					Result:    result,
					Duration:  time.Since(rt.Start),
				}

				return caseErr
			})
		})
	})

	return summary, err
}

// invokeChecker calls cfg.Checker.Check, converting a panic into a failed,
// non-crashing Result: a misbehaving checker must never take the runner
// down with it.
func invokeChecker(ctx context.Context, rt *Runtime, h *history.History) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Valid: false, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	res, err := rt.Config.Checker.Check(ctx, rt.Config, rt.Config.Model, h)
	if err != nil {
		return Result{Valid: false, Error: err.Error()}
	}
	return res
}

func osSetup(rt *Runtime) stage.NodeFunc {
	return func(ctx context.Context, node string) error {
		return rt.Config.OS.Setup(ctx, rt.Config, node)
	}
}

func osTeardown(rt *Runtime) stage.NodeFunc {
	return func(ctx context.Context, node string) error {
		return rt.Config.OS.Teardown(ctx, rt.Config, node)
	}
}

func dbOps(rt *Runtime) stage.DBOps {
	ops := stage.DBOps{
		Setup: func(ctx context.Context, node string) error {
			return rt.Config.DB.Setup(ctx, rt.Config, node)
		},
		Teardown: func(ctx context.Context, node string) error {
			return rt.Config.DB.Teardown(ctx, rt.Config, node)
		},
	}
	if primary, ok := rt.Config.DB.(PrimarySetupper); ok {
		ops.SetupPrimary = func(ctx context.Context, node string) error {
			return primary.SetupPrimary(ctx, rt.Config, node)
		}
	}
	if lister, ok := rt.Config.DB.(LogFileLister); ok {
		ops.LogFiles = func(ctx context.Context, node string) ([]string, error) {
			return lister.LogFiles(ctx, rt.Config, node)
		}
	}
	return ops
}
