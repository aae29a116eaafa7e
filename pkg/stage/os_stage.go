package stage

import (
	"context"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/parallel"
)

// NodeFunc is one per-node lifecycle step.
type NodeFunc func(ctx context.Context, node string) error

// WithOS runs setup on every node in parallel, then body, then teardown on
// every node in parallel. Teardown always runs, even when setup or body
// failed, and its own failures are logged rather than propagated, so a
// flaky teardown can never mask the real outcome of the case.
func WithOS(ctx context.Context, nodes []string, setup, teardown NodeFunc, body func() error) error {
	logger := log.WithComponent("os-stage")

	setupErr := parallel.Do(nodes, func(node string) error {
		return setup(ctx, node)
	})

	var bodyErr error
	if setupErr == nil {
		bodyErr = body()
	}

	if err := parallel.Do(nodes, func(node string) error {
		return teardown(ctx, node)
	}); err != nil {
		logger.Warn().Err(err).Msg("os teardown failed on one or more nodes")
	}

	if setupErr != nil {
		return setupErr
	}
	return bodyErr
}
