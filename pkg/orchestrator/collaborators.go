package orchestrator

import (
	"context"

	"github.com/cuemby/warren-jepsen/pkg/history"
)

// Generator produces the operations for a given logical process. It
// must be safe under concurrent calls from every worker and the nemesis.
// Returning ok=false signals end-of-stream for that process.
type Generator interface {
	Next(ctx context.Context, cfg *Config, proc history.Process) (op history.Op, ok bool)
}

// ProcessAwareGenerator is an optional Generator capability: before any
// worker issues an operation, the runner hands over the full set of process
// identities the generator will be asked about (history.Nemesis plus
// 0..concurrency-1), so generators that coordinate across processes can
// size their internal state up front.
type ProcessAwareGenerator interface {
	SetProcesses(procs []history.Process)
}

// Client drives the system under test on behalf of one worker. Open binds a
// fresh Client to a node; Invoke executes one operation and returns its
// completion; Close releases any held connection. Closable reports whether
// a fresh Client should be opened after an indeterminate result; clients
// that report false keep serving the retired process id's successor.
// Deprecated: implement Closable() == true; the shared-client fallback
// exists only for clients that cannot reopen a connection.
type Client interface {
	Open(ctx context.Context, cfg *Config, node string) (Client, error)
	Invoke(ctx context.Context, cfg *Config, op history.Op) (history.Op, error)
	Close(ctx context.Context, cfg *Config) error
	Closable() bool
}

// Nemesis is the fault-injection actor. Setup/Teardown bracket the whole
// case; Invoke executes one nemesis operation and must return a completion
// whose Type is still history.Info.
type Nemesis interface {
	Setup(ctx context.Context, cfg *Config) error
	Invoke(ctx context.Context, cfg *Config, op history.Op) (history.Op, error)
	Teardown(ctx context.Context, cfg *Config) error
}

// OS installs and removes OS-level prerequisites on one node.
type OS interface {
	Setup(ctx context.Context, cfg *Config, node string) error
	Teardown(ctx context.Context, cfg *Config, node string) error
}

// DB installs and removes the database under test on one node.
type DB interface {
	Setup(ctx context.Context, cfg *Config, node string) error
	Teardown(ctx context.Context, cfg *Config, node string) error
}

// PrimarySetupper is an optional DB capability: a setup step that must run
// against exactly one node (the "primary"), after the regular per-node
// cycle. Detected at runtime via a type assertion.
type PrimarySetupper interface {
	SetupPrimary(ctx context.Context, cfg *Config, primaryNode string) error
}

// LogFileLister is an optional DB capability: enumerating the log file
// paths on a node, for emergency and end-of-case log collection.
type LogFileLister interface {
	LogFiles(ctx context.Context, cfg *Config, node string) ([]string, error)
}

// Checker analyzes a finished, indexed History against model and returns a
// verdict. The checker itself is pluggable; this is the contract it must
// satisfy.
type Checker interface {
	Check(ctx context.Context, cfg *Config, model any, h *history.History) (Result, error)
}

// Result is the checker's verdict.
type Result struct {
	Valid bool           `yaml:"valid"`
	Error string         `yaml:"error,omitempty"`
	Extra map[string]any `yaml:"extra,omitempty"`
}
