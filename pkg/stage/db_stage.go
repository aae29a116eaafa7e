package stage

import (
	"context"
	"fmt"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/parallel"
	"github.com/cuemby/warren-jepsen/pkg/remote"
)

// DBOps is the set of lifecycle steps the DB stage needs. SetupPrimary and
// LogFiles are nil when the underlying DB does not advertise that optional
// capability; the orchestrator layer resolves the type assertion and
// passes nil through here rather than this package knowing about
// orchestrator's capability interfaces.
type DBOps struct {
	Setup        NodeFunc
	Teardown     NodeFunc
	SetupPrimary func(ctx context.Context, primaryNode string) error
	LogFiles     func(ctx context.Context, node string) ([]string, error)
}

// cycle tears down then sets up the database on one node, giving every
// case a clean slate no matter what a previous run left behind.
func (ops DBOps) cycle(ctx context.Context, node string) error {
	if err := ops.Teardown(ctx, node); err != nil {
		return fmt.Errorf("db cycle teardown on %q: %w", node, err)
	}
	if err := ops.Setup(ctx, node); err != nil {
		return fmt.Errorf("db cycle setup on %q: %w", node, err)
	}
	return nil
}

// WithDB runs the DB stage: a teardown-then-setup cycle on every node in
// parallel, then (if advertised) a primary-only setup step against
// nodes[0], then body. If body returns an error, an emergency log snarf
// runs before teardown so forensic evidence survives; teardown always runs
// on every node in parallel afterward.
func WithDB(ctx context.Context, nodes []string, ops DBOps, sessions map[string]remote.Session, snarfDir string, body func() error) error {
	logger := log.WithComponent("db-stage")

	cycleErr := parallel.Do(nodes, func(node string) error {
		return ops.cycle(ctx, node)
	})

	var bodyErr error
	if cycleErr == nil {
		if ops.SetupPrimary != nil && len(nodes) > 0 {
			if err := ops.SetupPrimary(ctx, nodes[0]); err != nil {
				cycleErr = fmt.Errorf("db primary setup on %q: %w", nodes[0], err)
			}
		}
	}

	if cycleErr == nil {
		bodyErr = body()
	}

	if (cycleErr != nil || bodyErr != nil) && ops.LogFiles != nil {
		if err := Snarf(ctx, nodes, ops.LogFiles, sessions, snarfDir); err != nil {
			logger.Warn().Err(err).Msg("emergency log snarf failed")
		}
	}

	if err := parallel.Do(nodes, func(node string) error {
		return ops.Teardown(ctx, node)
	}); err != nil {
		logger.Warn().Err(err).Msg("db teardown failed on one or more nodes")
	}

	if cycleErr != nil {
		return cycleErr
	}
	return bodyErr
}
