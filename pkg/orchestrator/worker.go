package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/rs/zerolog"
)

// runWorker drives exactly one logical process through the generator: open
// a client, rendezvous with every other worker, run operations until the
// generator is exhausted, rendezvous again, close the client. It always
// arrives at both barrier phases (even if opening the client failed) so a
// single worker's failure can never deadlock its peers; any captured error
// is returned (and therefore rethrown by the caller) only after the
// teardown barrier and client close have both run.
func runWorker(ctx context.Context, rt *Runtime, h *history.History, barrier Barrier, node string, initial history.Process) error {
	logger := log.WithProcess(int(initial), node)

	var client Client
	var captured error

	opened, err := rt.Client.Open(ctx, rt.Config, node)
	if err != nil {
		captured = fmt.Errorf("open client on node %q: %w", node, err)
	} else {
		client = opened
	}

	if err := barrier.Arrive(ctx); err != nil && captured == nil {
		captured = err
	}

	if captured == nil {
		proc := initial
		captured = workerLoop(ctx, rt, h, node, &proc, &client, logger)
	}

	if err := barrier.Arrive(ctx); err != nil && captured == nil {
		captured = err
	}

	if client != nil {
		if err := client.Close(ctx, rt.Config); err != nil {
			logger.Warn().Err(err).Msg("client close failed")
		}
	}

	return captured
}

func workerLoop(ctx context.Context, rt *Runtime, h *history.History, node string, proc *history.Process, clientPtr *Client, logger zerolog.Logger) error {
	for {
		op, ok := rt.Generator.Next(ctx, rt.Config, *proc)
		if !ok {
			return nil
		}

		op.Process = *proc
		op.Type = history.Invoke
		op.Time = rt.Elapsed()
		h.Append(op)
		logger.Debug().Str("f", op.F).Interface("value", op.Value).Msg("invoke")

		completion, invokeErr := invokeClient(ctx, rt, *clientPtr, op)
		if invokeErr != nil {
			info := history.Op{
				Process: *proc,
				Type:    history.Info,
				F:       op.F,
				Time:    rt.Elapsed(),
				Error:   "indeterminate: " + invokeErr.Error(),
			}
			h.Append(info)
			recordOutcome(rt, info.Type, true)
			recordLatency(rt, info.Time-op.Time)
			logger.Warn().Err(invokeErr).Msg("client invoke failed; treating as indeterminate")
			if err := retireProcess(ctx, rt, clientPtr, proc, node, logger); err != nil {
				return err
			}
			continue
		}

		if completion.Process != *proc || completion.F != op.F {
			return fmt.Errorf("client returned mismatched completion: process=%d f=%q, expected process=%d f=%q",
				completion.Process, completion.F, *proc, op.F)
		}
		switch completion.Type {
		case history.Ok, history.Fail, history.Info:
		default:
			return fmt.Errorf("client returned invalid completion type %q for f=%q", completion.Type, op.F)
		}

		completion.Time = rt.Elapsed()
		h.Append(completion)
		recordOutcome(rt, completion.Type, false)
		recordLatency(rt, completion.Time-op.Time)

		if completion.Type == history.Info {
			if err := retireProcess(ctx, rt, clientPtr, proc, node, logger); err != nil {
				return err
			}
		}
	}
}

// invokeClient calls the client's Invoke, converting a panic into an error
// so it is handled exactly like a returned error: as an indeterminate
// outcome, never a crash of the case.
func invokeClient(ctx context.Context, rt *Runtime, client Client, op history.Op) (completion history.Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return client.Invoke(ctx, rt.Config, op)
}

// retireProcess implements the "process + concurrency" retirement rule: a
// fresh process id is minted, and a fresh client is opened against the same
// node to serve it. Clients that report Closable() == false keep serving
// the successor id with the old connection, a deprecated legacy path kept
// distinct from the normal one, loudly, rather than silently unified.
func retireProcess(ctx context.Context, rt *Runtime, clientPtr *Client, proc *history.Process, node string, logger zerolog.Logger) error {
	old := *proc
	*proc = history.Retire(old, rt.resolvedConcurrency())

	client := *clientPtr
	if !client.Closable() {
		logger.Warn().Int("old_process", int(old)).Int("new_process", int(*proc)).
			Msg("client is not closable; reusing it across a retired process id (deprecated)")
		return nil
	}

	if err := client.Close(ctx, rt.Config); err != nil {
		logger.Warn().Err(err).Msg("closing retired client failed")
	}
	fresh, err := rt.Client.Open(ctx, rt.Config, node)
	if err != nil {
		return fmt.Errorf("reopening client on node %q after indeterminate result: %w", node, err)
	}
	*clientPtr = fresh
	return nil
}

func recordOutcome(rt *Runtime, t history.Type, fromThrow bool) {
	if rt.Config.Metrics == nil {
		return
	}
	rt.Config.Metrics.ObserveOp(string(t), fromThrow)
}

func recordLatency(rt *Runtime, elapsedNanos int64) {
	if rt.Config.Metrics == nil {
		return
	}
	rt.Config.Metrics.ObserveOpLatency(time.Duration(elapsedNanos))
}
