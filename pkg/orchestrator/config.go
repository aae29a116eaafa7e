package orchestrator

import (
	"time"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/metrics"
	"github.com/cuemby/warren-jepsen/pkg/remote"
)

// SSHCredentials names the remote-shell transport's identity. The
// transport itself is pluggable; this is only the piece of configuration
// the core needs to hand the transport's Opener.
type SSHCredentials struct {
	User           string
	PrivateKeyPath string
	Port           int
}

// Config is the immutable test configuration. It is built once by the
// caller and never mutated by the orchestrator.
type Config struct {
	// Nodes is the ordered list of node identifiers. An empty list drives
	// the zero-node dry-run mode: workers run with no node, and no OS/DB
	// fan-out touches any host.
	Nodes []string
	// Concurrency is the desired worker count. Zero is permitted and
	// produces zero workers. Defaults to len(Nodes) when negative.
	Concurrency int
	SSH         SSHCredentials

	OS        OS
	DB        DB
	Client    Client
	Nemesis   Nemesis
	Generator Generator
	Model     any
	Checker   Checker

	// Name, if non-empty, enables persistence of the two result snapshots.
	Name string
	// StorageDir is where log snarf output and result snapshots are
	// written. Defaults to the current directory if empty.
	StorageDir string

	// Open is how the Session Pool acquires a remote.Session per node.
	// Defaults to remote.OpenLocal when nil.
	Open remote.Opener

	// Metrics is optional; when set, workers and the nemesis supervisor
	// report op outcomes and nemesis events into it.
	Metrics *metrics.Recorder

	// Log configures the global logger for the run's lifetime. Nil leaves
	// whatever logger configuration the caller already set up untouched.
	Log *log.Config
}

// resolvedConcurrency returns cfg.Concurrency, defaulting to the node count
// when negative (the zero value, 0, is a deliberate, valid "no workers"
// configuration and must not be defaulted away).
func (c *Config) resolvedConcurrency() int {
	if c.Concurrency < 0 {
		return len(c.Nodes)
	}
	return c.Concurrency
}

// Runtime is the read-only view of a running test's built-up state that
// external collaborators (generators, in particular) may consult. State
// that must never survive into a persisted snapshot (the start time and
// the sessions) lives here rather than in Config, and the barrier and the
// in-progress history are locals of the case runner, so persistence never
// has to strip anything.
type Runtime struct {
	*Config
	Start time.Time

	// Sessions is the node-keyed remote shell handles acquired by the
	// Session Pool for this run's lifetime. Populated by the Top-Level
	// Runner before the OS stage begins; nil in the zero-node dry-run mode.
	Sessions map[string]remote.Session
}

// Elapsed returns nanoseconds since the test's start timestamp, the value
// every Op.Time is stamped with.
func (r *Runtime) Elapsed() int64 {
	return time.Since(r.Start).Nanoseconds()
}

// KnownProcesses returns the set of process identities a Generator may be
// asked about before any worker issues an operation: history.Nemesis plus
// 0..concurrency-1.
func KnownProcesses(concurrency int) []history.Process {
	out := make([]history.Process, 0, concurrency+1)
	out = append(out, history.Nemesis)
	for i := 0; i < concurrency; i++ {
		out = append(out, history.Process(i))
	}
	return out
}
