package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/log"
)

// nemesisSupervisor runs the fault-injection loop in the background for the
// lifetime of one case. Its error, if any, is only observable through Wait.
type nemesisSupervisor struct {
	wg  sync.WaitGroup
	err error
}

// startNemesisSupervisor launches the nemesis loop and returns immediately.
// The caller must call Wait before tearing down the nemesis.
func startNemesisSupervisor(ctx context.Context, rt *Runtime, active *history.Register) *nemesisSupervisor {
	s := &nemesisSupervisor{}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.err = runNemesisLoop(ctx, rt, active)
	}()
	return s
}

func (s *nemesisSupervisor) Wait() error {
	s.wg.Wait()
	return s.err
}

// runNemesisLoop requests operations for history.Nemesis from the generator
// until it signals end-of-stream, fanning each invocation and completion
// into the histories active at the moment the invocation was minted. The
// active set is snapshotted once per event: the completion goes to exactly
// the histories that saw the invocation, even if the set changed in
// between. A failed or panicking invocation never halts the case: it is
// recorded as a crashed info completion and the loop continues.
func runNemesisLoop(ctx context.Context, rt *Runtime, active *history.Register) error {
	logger := log.WithComponent("nemesis")

	for {
		op, ok := rt.Generator.Next(ctx, rt.Config, history.Nemesis)
		if !ok {
			return nil
		}

		// Nemesis records carry type info on both ends: the actor neither
		// confirms nor denies its effects, so even its invocations are
		// indeterminate by construction.
		op.Process = history.Nemesis
		op.Type = history.Info
		op.Time = rt.Elapsed()

		targets := active.Snapshot()
		for _, h := range targets {
			h.Append(op)
		}

		completion, err := invokeNemesis(ctx, rt, op)
		if err == nil {
			if completion.Process != history.Nemesis || completion.F != op.F {
				err = fmt.Errorf("nemesis returned mismatched completion: process=%d f=%q, expected process=%d f=%q",
					completion.Process, completion.F, history.Nemesis, op.F)
			} else if completion.Type != history.Info {
				err = fmt.Errorf("nemesis returned invalid completion type %q for f=%q, want info", completion.Type, op.F)
			}
		}

		if err != nil {
			crash := history.Op{
				Process: history.Nemesis,
				Type:    history.Info,
				F:       op.F,
				Time:    rt.Elapsed(),
				Error:   "crashed: " + err.Error(),
			}
			for _, h := range targets {
				h.Append(crash)
			}
			recordNemesisEvent(rt, "crashed")
			logger.Warn().Err(err).Str("f", op.F).Msg("nemesis invoke failed; recording crash and continuing")
			continue
		}

		completion.Time = rt.Elapsed()
		for _, h := range targets {
			h.Append(completion)
		}
		recordNemesisEvent(rt, "ok")
	}
}

// invokeNemesis calls the nemesis's Invoke, converting a panic into an error
// so a misbehaving nemesis can never crash the case it is attached to.
func invokeNemesis(ctx context.Context, rt *Runtime, op history.Op) (completion history.Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rt.Nemesis.Invoke(ctx, rt.Config, op)
}

func recordNemesisEvent(rt *Runtime, outcome string) {
	if rt.Config.Metrics == nil {
		return
	}
	rt.Config.Metrics.ObserveNemesisEvent(outcome)
}
