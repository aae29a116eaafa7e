/*
Package stage implements the OS and DB lifecycle scopes that bracket a
test case: setup on every node in parallel before a body runs, teardown on
every node in parallel after it regardless of outcome, and for the DB
stage a teardown-then-setup cycle, an optional primary-only bootstrap, and
log collection when things go wrong.

The package is deliberately independent of package orchestrator (the
top-level runner calls into this package, not the other way around):
stages are expressed as plain function values (NodeFunc, DBOps) rather
than the orchestrator's collaborator interfaces, so they can be exercised
and tested with nothing but closures.

# Architecture

	┌──────────────────────────── STAGES ────────────────────────────┐
	│                                                                 │
	│  WithOS(nodes, setup, teardown, body)                           │
	│  ┌───────────────────────────────────────────────────────────┐ │
	│  │  parallel: setup(n1) setup(n2) ... setup(nN)              │ │
	│  │      │                                                     │ │
	│  │      ▼  (only if every setup succeeded)                   │ │
	│  │  body()                                                    │ │
	│  │      │                                                     │ │
	│  │      ▼  (always, even on failure)                         │ │
	│  │  parallel: teardown(n1) ... teardown(nN)  [errors logged] │ │
	│  └───────────────────────────────────────────────────────────┘ │
	│                                                                 │
	│  WithDB(nodes, ops, sessions, snarfDir, body)                   │
	│  ┌───────────────────────────────────────────────────────────┐ │
	│  │  parallel: cycle(n) = teardown(n) then setup(n)           │ │
	│  │      │                                                     │ │
	│  │      ▼                                                     │ │
	│  │  ops.SetupPrimary(nodes[0])        [if advertised]        │ │
	│  │      │                                                     │ │
	│  │      ▼                                                     │ │
	│  │  body()                                                    │ │
	│  │      │                                                     │ │
	│  │      ▼  on any failure above                              │ │
	│  │  Snarf(...)  ── emergency log collection ──               │ │
	│  │      │                                                     │ │
	│  │      ▼  (always)                                           │ │
	│  │  parallel: teardown(n1) ... teardown(nN)  [errors logged] │ │
	│  └───────────────────────────────────────────────────────────┘ │
	│                                                                 │
	└─────────────────────────────────────────────────────────────────┘

# Error Priority

A body error is the primary error and always propagates. Teardown errors
are logged with a warning and never returned: a flaky teardown must not
mask what actually went wrong inside the scope. Setup errors skip the
body entirely but still run teardown for whatever may have started.

# Log Snarf

Snarf bulk-downloads the log files a DB advertises into per-node local
directories:

	destDir/
	├── n1/
	│   ├── raft-log.db
	│   └── node1__out.log
	└── n2/
	    └── node2__out.log

Each file's local name is its shortest unique suffix: the longest common
leading-directory prefix across that node's paths is stripped (never
consuming a file's own final component) and the remaining segments are
joined with "__", so deep, mostly-shared directory trees flatten into
short distinct names.

Two error classes are tolerated per file, logged and skipped: "pipe
closed" mid-copy and "no such file"/"does not exist" from losing a race
with log rotation or a nemesis deleting data files. Any other I/O error
aborts that node's snarf. Nodes are collected in parallel; files within
one node sequentially, so downloads over one session never interleave.

Snarf runs in two roles with identical semantics: the emergency snarf
inside WithDB when the cycle, primary setup, or body failed, and the
end-of-case snarf the case runner performs after a successful case.

# Usage

	ops := stage.DBOps{
		Setup:    func(ctx context.Context, node string) error { ... },
		Teardown: func(ctx context.Context, node string) error { ... },
		// nil when the DB has no primary bootstrap:
		SetupPrimary: func(ctx context.Context, primary string) error { ... },
		// nil when the DB cannot enumerate its logs:
		LogFiles: func(ctx context.Context, node string) ([]string, error) { ... },
	}

	err := stage.WithOS(ctx, nodes, osSetup, osTeardown, func() error {
		return stage.WithDB(ctx, nodes, ops, sessions, snarfDir, func() error {
			// run the case
			return nil
		})
	})

With an empty node list every fan-out is a no-op and the body still runs,
which is what makes zero-node dry runs work without special cases here.

# Integration Points

This package integrates with:

  - pkg/parallel: every per-node fan-out (setup, cycle, teardown, snarf)
  - pkg/remote: the Session used to download log files
  - pkg/log: per-component and per-node warning lines
  - pkg/orchestrator: the top-level runner adapts its DB/OS collaborators
    into NodeFunc/DBOps values and nests WithOS/WithDB around the case

# Troubleshooting

Body never ran:
  - Symptom: WithOS/WithDB returned an error and the case produced no ops
  - Cause: a setup (or cycle/primary-setup) step failed on some node
  - Check: the returned error names the node; teardown still ran on every
    node, so the hosts are clean

Snarf directory missing files:
  - Symptom: fewer files than the DB advertises
  - Cause: benign races (rotation, nemesis deletions) are tolerated and
    logged at warn level, not failed
  - Check: "log file vanished during snarf" lines name node and path

Snarf failed outright:
  - Symptom: "emergency log snarf failed" warning
  - Cause: listing log files failed, or a download hit a non-benign I/O
    error
  - Note: snarf failures never change the stage's returned error; the
    primary failure still propagates

Duplicate file names collide in destDir:
  - Cannot happen within one node: suffixes are computed per node from
    the full path set, so two files only share a local name if they share
    a full remote path
*/
package stage
