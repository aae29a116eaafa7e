/*
Package metrics records the orchestrator's operational counters with
prometheus/client_golang: operation outcomes, operation latency, nemesis
events, and the size of the active-history set.

# Architecture

	┌──────────────────── METRICS ────────────────────┐
	│                                                  │
	│  Recorder (one per run, private Registry)        │
	│                                                  │
	│  jepsen_ops_total{type,from_throw}   counter     │
	│    type: ok | fail | info                        │
	│    from_throw: completion synthesized from a     │
	│                client error/panic                │
	│                                                  │
	│  jepsen_op_latency_seconds           histogram   │
	│    invocation-to-completion, both the normal     │
	│    and the synthesized-info paths                │
	│                                                  │
	│  jepsen_nemesis_events_total{outcome} counter    │
	│    outcome: ok | crashed                         │
	│                                                  │
	│  jepsen_active_histories             gauge       │
	│                                                  │
	└──────────────────────────────────────────────────┘

Each Recorder owns a private prometheus.Registry rather than registering
package-level collectors against the default one: tests construct several
orchestrator runs per process, and MustRegister against the default
registry would panic on the second.

# Usage

	rec := metrics.NewRecorder()
	cfg.Metrics = rec // workers and the nemesis supervisor report into it

	// Exposition is the embedding's choice, not the core's:
	http.Handle("/metrics", rec.Handler())

A nil Config.Metrics disables recording entirely; every call site checks
before reporting, so dry runs and unit tests pay nothing.

# Integration Points

This package integrates with:

  - pkg/orchestrator: the worker reports op outcomes and latency, the
    nemesis supervisor reports event outcomes, the case runner reports
    the active-history gauge
  - cmd/warren-jepsen: builds the Recorder and optionally serves its
    Handler for the run's duration
*/
package metrics
