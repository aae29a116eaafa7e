/*
Package session implements scoped acquisition of the per-node shell
sessions a test run holds: open every node's remote.Session in parallel,
roll back whatever already started if any open fails, and guarantee every
acquired session is closed on every exit path of the caller's body.

# Architecture

	┌────────────────────── SESSION POOL ──────────────────────┐
	│                                                           │
	│  With(ctx, nodes, open, body)                             │
	│                                                           │
	│  parallel: open(n1)   open(n2)   open(n3)                 │
	│               │          │          │                     │
	│               ▼          ▼          ▼                     │
	│            ┌─────────────────────────────┐                │
	│            │ any open failed?            │                │
	│            │  yes → stop the successes,  │                │
	│            │        return first error,  │                │
	│            │        body never runs      │                │
	│            │  no  → body(sessions)       │                │
	│            └──────────────┬──────────────┘                │
	│                           │                               │
	│                           ▼  (always, success or failure) │
	│            parallel: close every session                  │
	│                      [close errors logged, swallowed]     │
	│                                                           │
	└───────────────────────────────────────────────────────────┘

# Semantics

  - All opens run in parallel; the pool waits for every one to finish
    before deciding anything, so no open is abandoned mid-flight.
  - On partial failure the sessions that did start are stopped in
    parallel and the first open error (in node order) is returned.
  - The body receives a map keyed by node id, built once; callers treat
    it as read-only for the rest of the run.
  - Close failures are logged per node and swallowed: a dying session at
    teardown must never mask what the body actually returned.
  - Stop order is unspecified.
  - An empty node list invokes the body with a nil map, which is the
    zero-node dry-run path.

# Usage

	err := session.With(ctx, cfg.Nodes, remote.OpenLocal,
		func(sessions map[string]remote.Session) error {
			// sessions[node] is live for the duration of this body
			return runEverything(sessions)
		})

Any remote.Opener works; the orchestrator's runner defaults to
remote.OpenLocal when the configuration does not supply one.

# Integration Points

This package integrates with:

  - pkg/remote: the Session and Opener contracts
  - pkg/parallel: the open and close fan-outs
  - pkg/log: per-node close-failure warnings
  - pkg/orchestrator: Run wraps its entire OS/DB/case stack in one With

# Troubleshooting

Body never ran:
  - Symptom: With returned an error immediately
  - Cause: at least one node's open failed; the first failure (in node
    order) is returned
  - Note: sessions that did open were stopped before With returned, so
    nothing leaks

Sessions closed while the body still needed them:
  - Cannot happen from this package: close runs strictly after the body
    returns. A session that died mid-body surfaces as Exec/Download
    errors from pkg/remote, not as an early close here.

"session close failed" warnings at the end of a run:
  - Cause: a node went away (or a nemesis left it wedged) before
    teardown reached it
  - Note: these are logged and swallowed; the run's result is whatever
    the body returned
*/
package session
