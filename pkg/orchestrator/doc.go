/*
Package orchestrator is the test orchestration core: it drives a fleet of
single-threaded logical clients and a concurrent fault-injection actor
through a scripted workload, records every invocation and completion into
an append-only history, and hands that history to a pluggable checker.

The package owns the coordination problem only. What operations to run
(Generator), how to execute them (Client), which faults to inject
(Nemesis), how to prepare machines (OS, DB), and what "correct" means
(Checker) are all collaborator interfaces supplied by the caller.

# Architecture

One Run call composes the whole stack, innermost scope last:

	┌───────────────────────── TOP-LEVEL RUNNER ─────────────────────────┐
	│                                                                     │
	│  Run(ctx, cfg)                                                      │
	│    │                                                                │
	│    ├─ stamp start time, init logging                                │
	│    │                                                                │
	│    ├─ session.With ──── one remote.Session per node ──────────┐    │
	│    │    │                                                      │    │
	│    │    ├─ stage.WithOS ── OS setup on every node ────────┐   │    │
	│    │    │    │                                             │   │    │
	│    │    │    ├─ stage.WithDB ── cycle + primary setup ─┐  │   │    │
	│    │    │    │    │                                     │  │   │    │
	│    │    │    │    ├─ generator context (known procs)   │  │   │    │
	│    │    │    │    ├─ RunCase ──────────────┐           │  │   │    │
	│    │    │    │    │    │                    │           │  │   │    │
	│    │    │    │    │    │  nemesis setup     │           │  │   │    │
	│    │    │    │    │    │  ┌──────────────┐  │           │  │   │    │
	│    │    │    │    │    │  │ nemesis loop │  │ (parallel)│  │   │    │
	│    │    │    │    │    │  └──────────────┘  │           │  │   │    │
	│    │    │    │    │    │  ┌────┐┌────┐┌────┐│           │  │   │    │
	│    │    │    │    │    │  │ w0 ││ w1 ││ wN ││           │  │   │    │
	│    │    │    │    │    │  └────┘└────┘└────┘│           │  │   │    │
	│    │    │    │    │    │  nemesis teardown  │           │  │   │    │
	│    │    │    │    │    │  end-of-case snarf │           │  │   │    │
	│    │    │    │    │    └───────────────────┘            │  │   │    │
	│    │    │    │    ├─ persist save-1 (raw history)       │  │   │    │
	│    │    │    │    ├─ assign indices, invoke checker     │  │   │    │
	│    │    │    │    └─ persist save-2 (with verdict)      │  │   │    │
	│    │    │    │                                           │  │   │    │
	│    │    │    └─ emergency snarf + DB teardown ──────────┘  │   │    │
	│    │    └─ OS teardown ────────────────────────────────────┘   │    │
	│    └─ close every session ─────────────────────────────────────┘    │
	│                                                                     │
	└─────────────────────────────────────────────────────────────────────┘

Every scope releases its resources on every exit path; a failure inside a
scope still runs the teardown of every scope it is nested in.

# Workers and Processes

A worker is one goroutine driving one logical process: a single-threaded
client identity, distinct from any OS thread. Initial process ids are
0..concurrency-1, assigned to nodes round-robin. Each worker:

 1. Opens a client bound to its node.
 2. Arrives at the setup barrier, so no worker issues operations while
    another is still opening its client.
 3. Loops: ask the generator for the next op, append the invocation,
    invoke the client, append the completion.
 4. Arrives at the teardown barrier, closes its client, and only then
    surfaces any error it captured along the way.

Completion types and their consequences:

	ok    operation definitely happened        keep process id and client
	fail  operation definitely did not happen  keep process id and client
	info  outcome unknown (indeterminate)      retire the process id

An indeterminate outcome retires the process id: the worker mints
new = old + concurrency, which keeps the live id set equal to the
concurrency while every retired id stays globally unique. A closable
client is reopened for the successor id; a non-closable client keeps
serving it (a deprecated path, kept loudly distinct with a warning). A
client that returns an error or panics is handled the same way, with a
synthesized info completion whose error starts with "indeterminate: ".

# Nemesis

The nemesis is one extra logical actor with the reserved process id
history.Nemesis. Its setup runs before any worker starts, so its effects
are reproducible; its loop runs concurrently with the workers. Every
nemesis record, invocation and completion alike, has type info: the actor
neither confirms nor denies its own effects.

Each nemesis event snapshots the active-history set once and writes both
the invocation and the completion to exactly that set, even if the set
changes in between. A nemesis that returns an error or panics appends a
synthetic record with error "crashed: ..." to the same set and the loop
continues; fault injection is best-effort and never halts a case.

# Barrier

The barrier is a reusable N-way rendezvous sized to the concurrency. A
zero-node configuration degrades it to a no-op sentinel whose Arrive
returns immediately, which is what lets a dry run execute workers with no
nodes and no hosts touched.

# History Ordering Guarantees

  - Within one process id, the invocation append strictly precedes the
    completion append; no two operations of the same process overlap.
  - Operations of distinct processes interleave arbitrarily; the history
    records their real-time append order.
  - After a case, every entry receives a strictly increasing index,
    0..N-1 in append order with no gaps.

# Usage

Minimal run against caller-supplied collaborators:

	cfg := &orchestrator.Config{
		Nodes:       []string{"n1", "n2", "n3"},
		Concurrency: 6,
		OS:          myOS,
		DB:          myDB,
		Client:      myClient,
		Nemesis:     myNemesis,
		Generator:   myGenerator,
		Checker:     myChecker,
		Name:        "bank-transfer",
		StorageDir:  "/var/lib/jepsen/runs",
	}

	summary, err := orchestrator.Run(ctx, cfg)
	if err != nil {
		// setup failed, or a worker surfaced an error
	}
	fmt.Println(summary) // history id, op count, checker verdict, duration

Zero-node dry run (no hosts touched, generator and client still fully
exercised):

	cfg := &orchestrator.Config{
		Nodes:       nil,
		Concurrency: 3,
		...
	}

Optional collaborator capabilities, detected by type assertion:

	// DB with a primary-only bootstrap step
	type PrimarySetupper interface {
		SetupPrimary(ctx, cfg, primaryNode) error
	}

	// DB that can enumerate its log files for snarfing
	type LogFileLister interface {
		LogFiles(ctx, cfg, node) ([]string, error)
	}

	// Generator that wants the full process id set up front
	type ProcessAwareGenerator interface {
		SetProcesses(procs []history.Process)
	}

# Error Handling

	setup error (session/OS/DB)  teardown of started scopes, emergency
	                             snarf if the DB stage was entered, error
	                             rethrown; checker never runs
	worker logic error           captured, barriers and close still run,
	                             then surfaced so the case fails
	client invoke error/panic    indeterminate, not fatal: synthetic info
	                             completion, process retired, loop continues
	nemesis invoke error/panic   synthetic crash record, loop continues
	checker error/panic          converted to an invalid Result, never a
	                             runner crash
	teardown error               logged, never masks the primary error

# Concurrency Model

One goroutine per worker, one for the nemesis loop, plus the caller's
goroutine coordinating. Setup and teardown fan-outs run their per-node
steps in parallel. Blocking points are the collaborator calls themselves:
client and nemesis invocations, generator calls (which may coordinate
across processes), session acquisition, OS/DB lifecycle steps, log
downloads, and barrier arrivals.

Shared state is deliberately narrow:

  - History: append-only, many writers, atomic append.
  - Active-history set: mutated at case boundaries only.
  - Sessions map: built once before the OS stage, read-only after.
  - Config: read-only for the whole run.

The core imposes no per-operation timeouts; those belong in clients. The
ctx passed to Run flows into every collaborator call, so cancelling it is
how an embedding aborts a run early; barriers unblock on cancellation so
no worker deadlocks its peers on the way out.

# Persistence

When Config.Name is set, two snapshots are written under
Config.StorageDir: <name>-save-1.yaml immediately after the case (raw
history, no verdict) and <name>-save-2.yaml after analysis (with the
checker's Result). Runtime-only state never reaches the snapshot type.
The end-of-case snarf writes log files under a per-history directory,
<StorageDir>/<history id>/<node>; the emergency snarf of a failed DB
stage writes them straight under <StorageDir>/<node>.

# Integration Points

This package integrates with:

  - pkg/session: scoped acquisition of one remote.Session per node
  - pkg/stage: OS/DB setup-teardown scoping and log snarf
  - pkg/history: the op log, the process id rules, the active-set register
  - pkg/parallel: the fan-out used to spawn and await workers
  - pkg/metrics: optional op/nemesis/latency counters via Config.Metrics
  - pkg/log: component- and process-tagged structured logging

pkg/kvdb and pkg/checker are reference collaborators wired by
cmd/warren-jepsen and tested in their own packages; this package's tests
use in-package fakes. Production embeddings supply their own.

# Troubleshooting

Workers appear hung at case start:
  - Symptom: no operations recorded, all workers blocked
  - Cause: one worker's client Open is blocking; the setup barrier waits
    for every worker
  - Check: per-worker "open client" log lines; the stuck worker's node
  - Note: an Open that returns an error does not hang the barrier; only
    an Open that never returns does

History shorter than expected:
  - Symptom: fewer ops than the generator should have produced
  - Cause: the generator returned end-of-stream early for retired ids
  - Check: generators are keyed by process id; after an indeterminate
    outcome the worker asks for new = old + concurrency, which a
    per-process quota treats as a brand-new process

Run fails but DB teardown clearly ran:
  - Expected: teardown always runs; the error you see is the primary
    error from setup or the case body, never a teardown error
  - Check: warn-level lines for teardown failures that were swallowed

Checker reported valid:false with a panic message:
  - Cause: the checker panicked; the runner converts panics into invalid
    results instead of crashing
  - Check: the Result.Error field carries the panic value
*/
package orchestrator
