//go:build darwin

package remote

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/lima-vm/lima/pkg/instance"
	"github.com/lima-vm/lima/pkg/store"
	"github.com/rs/zerolog"
)

// LimaSession runs commands inside a dedicated Lima VM, one instance per
// node identifier, using lima's own pkg/store and pkg/instance packages
// for instance lifecycle; each VM stands in for one real remote machine.
//
// Command execution shells out to the limactl CLI's "shell" subcommand
// rather than lima's internal SSH plumbing: lima does not export a stable
// library API for ad hoc command execution, and the CLI entrypoint is the
// documented way to script against a running instance.
type LimaSession struct {
	node         string
	instanceName string
	logger       zerolog.Logger

	mu      sync.Mutex
	started bool
}

// OpenLima is a remote.Opener that starts (if stopped) the existing Lima
// instance named after node, then binds a LimaSession to it. It does not
// create the instance; a missing instance is an error.
func OpenLima(ctx context.Context, node string) (Session, error) {
	s := &LimaSession{
		node:         node,
		instanceName: "jepsen-" + node,
		logger:       log.WithComponent("lima-session").With().Str("node", node).Logger(),
	}
	if err := s.ensureRunning(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LimaSession) Node() string { return s.node }

func (s *LimaSession) ensureRunning(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	inst, err := store.Inspect(s.instanceName)
	if err != nil {
		return fmt.Errorf("lima instance %s not found (create it with `limactl create` before running the test): %w", s.instanceName, err)
	}
	if inst.Status != store.StatusRunning {
		if err := instance.Start(ctx, inst, "", false); err != nil {
			return fmt.Errorf("starting lima instance %s: %w", s.instanceName, err)
		}
	}
	s.started = true
	s.logger.Info().Msg("lima instance ready")
	return nil
}

func (s *LimaSession) Exec(ctx context.Context, cmd string, args ...string) (string, error) {
	full := append([]string{"shell", s.instanceName, cmd}, args...)
	out, err := exec.CommandContext(ctx, "limactl", full...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("limactl shell %s %s: %w", s.instanceName, strings.Join(append([]string{cmd}, args...), " "), err)
	}
	return string(out), nil
}

func (s *LimaSession) Download(ctx context.Context, remotePath, localPath string) error {
	out, err := exec.CommandContext(ctx, "limactl", "copy", s.instanceName+":"+remotePath, localPath).CombinedOutput()
	if err != nil {
		return fmt.Errorf("limactl copy: %s: %w", out, err)
	}
	return nil
}

func (s *LimaSession) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	inst, err := store.Inspect(s.instanceName)
	if err != nil {
		return err
	}
	if err := instance.StopGracefully(ctx, inst, false); err != nil {
		s.logger.Warn().Err(err).Msg("graceful stop failed, forcing")
		instance.StopForcibly(inst)
	}
	s.started = false
	return nil
}
