package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// LocalSession runs commands in-process via os/exec, for local dry runs and
// unit tests: one short-lived subprocess per Exec call, with every
// invocation's combined output kept in a mutex-guarded buffer readable
// later for debugging.
type LocalSession struct {
	node string

	mu   sync.Mutex
	logs []string
}

// OpenLocal is a remote.Opener that binds a LocalSession to node.
func OpenLocal(_ context.Context, node string) (Session, error) {
	return &LocalSession{node: node}, nil
}

func (s *LocalSession) Node() string { return s.node }

func (s *LocalSession) Exec(ctx context.Context, cmd string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	err := c.Run()

	s.mu.Lock()
	s.logs = append(s.logs, fmt.Sprintf("[%s] %s %v -> %s", time.Now().Format(time.RFC3339), cmd, args, buf.String()))
	s.mu.Unlock()

	if err != nil {
		return buf.String(), fmt.Errorf("exec %s on %s: %w", cmd, s.node, err)
	}
	return buf.String(), nil
}

// Download copies a local file into localPath, tolerating the benign races
// a real remote log snarf would also tolerate: the source file vanishing
// underneath us (log rotation) surfaces as a plain os.IsNotExist error that
// callers in pkg/stage know to swallow.
func (s *LocalSession) Download(_ context.Context, remotePath, localPath string) error {
	src, err := os.Open(remotePath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *LocalSession) Close(context.Context) error {
	return nil
}

// Logs returns every command this session has executed, for debugging.
func (s *LocalSession) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}
