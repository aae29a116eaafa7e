package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger every component hangs its child
// loggers off. Its zero value discards everything, so packages that log
// before (or without) Init stay silent rather than panicking; the runner
// calls Init once at the start of a test run.
var Logger zerolog.Logger

// Level names a severity threshold the way config files and flags spell
// it. Unknown values fall back to info.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config selects the severity threshold, encoding, and destination of a
// test run's log stream.
type Config struct {
	Level Level
	// JSONOutput selects machine-readable lines; false renders a console
	// stream for a human watching a local dry run.
	JSONOutput bool
	// Output defaults to stdout. A run that persists its logs hands a
	// file here; Run closes it on exit when it is an io.Closer.
	Output io.Writer
}

// Init configures the global Logger for one run's lifetime.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(cfg.Level.zerologLevel())

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.JSONOutput {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithComponent returns a child logger tagged with the emitting component
// (case, nemesis, db-stage, snarf, runner, ...).
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithNode returns a component logger additionally tagged with the node a
// per-node operation runs against, so one node's setup, teardown, and
// snarf lines can be filtered out of an interleaved run log.
func WithNode(component, node string) zerolog.Logger {
	return Logger.With().Str("component", component).Str("node", node).Logger()
}

// WithProcess returns a worker logger carrying the logical process id and
// its assigned node, the two fields every worker line needs. The process
// id is the one the worker started with; retirements show up in the
// logged events, not in the logger's own tag.
func WithProcess(process int, node string) zerolog.Logger {
	return Logger.With().
		Str("component", "worker").
		Int("process", process).
		Str("node", node).
		Logger()
}
