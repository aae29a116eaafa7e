/*
Package log provides structured logging for the test orchestrator using
zerolog: one process-wide logger configured per run, and child-logger
helpers tagged with the identities this domain cares about: component,
node, and logical process.

# Architecture

	┌───────────────────── LOGGING ─────────────────────┐
	│                                                    │
	│  Logger (global zerolog.Logger)                    │
	│    - zero value: discards everything               │
	│    - Init(cfg): configured for one run's lifetime  │
	│          │                                         │
	│          ├─ WithComponent("db-stage")              │
	│          ├─ WithNode("snarf", "n2")                │
	│          └─ WithProcess(3, "n1")                   │
	│                                                    │
	│  JSON line:                                        │
	│   {"level":"warn","component":"worker",            │
	│    "process":3,"node":"n1",                        │
	│    "time":"...","message":"client invoke failed"}  │
	│                                                    │
	│  Console line (RFC3339 time, fields sorted):       │
	│   2024-05-01T12:04:11Z WRN client invoke failed    │
	│            component=worker node=n1 process=3      │
	│                                                    │
	└────────────────────────────────────────────────────┘

The zero-value Logger writes nowhere, so packages (and tests) that never
call Init stay silent instead of panicking. The runner calls Init once at
the start of a run; when Config.Output is an io.Closer the runner closes
it on exit, which is how persistent run logs are flushed.

# Levels

Levels are spelled the way config files and flags spell them: "debug",
"info", "warn", "error". Unknown values fall back to info. Debug is where
per-operation invoke lines live; a long run at debug level produces one
line per operation per worker.

# Usage

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     runLogFile,
	})

	logger := log.WithComponent("nemesis")
	logger.Warn().Err(err).Str("f", op.F).
		Msg("nemesis invoke failed; recording crash and continuing")

	workerLog := log.WithProcess(3, "n1")
	workerLog.Debug().Str("f", "read").Msg("invoke")

# Integration Points

Every package in this module logs through here: the worker via
WithProcess, stages and snarf via WithComponent/WithNode, the session
pool via WithNode, the runner and case via WithComponent.
*/
package log
