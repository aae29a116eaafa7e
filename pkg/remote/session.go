package remote

import "context"

// Session is one remote (or local) shell handle bound to a single node.
// The Session Pool acquires one per node in the test's node list and
// guarantees every acquired Session is closed on every exit path.
type Session interface {
	// Node is the identifier this session is bound to.
	Node() string
	// Exec runs a command and returns its combined stdout+stderr.
	Exec(ctx context.Context, cmd string, args ...string) (string, error)
	// Download copies a remote file to a local path, for log snarf.
	Download(ctx context.Context, remotePath, localPath string) error
	// Close releases the session. Best-effort: callers log failures here
	// rather than propagate them.
	Close(ctx context.Context) error
}

// Opener opens a Session bound to node. The Session Pool calls one Opener
// per node in parallel.
type Opener func(ctx context.Context, node string) (Session, error)
