package session

import (
	"context"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/parallel"
	"github.com/cuemby/warren-jepsen/pkg/remote"
)

// With acquires one session per node via open, running all opens in
// parallel, then invokes body with a map keyed by node id. Every session,
// whether or not the whole acquisition ultimately succeeded, is stopped in
// parallel before With returns. If any open fails, the sessions that did
// start are stopped immediately and the first open error is returned
// without invoking body. Order of stops is unspecified.
func With(ctx context.Context, nodes []string, open remote.Opener, body func(map[string]remote.Session) error) error {
	if len(nodes) == 0 {
		return body(nil)
	}

	idx := make([]int, len(nodes))
	for i := range idx {
		idx[i] = i
	}
	results := make([]remote.Session, len(nodes))
	openErr := parallel.Do(idx, func(i int) error {
		sess, err := open(ctx, nodes[i])
		if err != nil {
			return err
		}
		results[i] = sess
		return nil
	})

	sessions := make(map[string]remote.Session, len(nodes))
	for i, sess := range results {
		if sess != nil {
			sessions[nodes[i]] = sess
		}
	}

	if openErr != nil {
		stopAll(ctx, sessions)
		return openErr
	}

	defer stopAll(ctx, sessions)
	return body(sessions)
}

// stopAll closes every session in parallel, swallowing individual close
// errors: a failed teardown must never mask the body's real result.
func stopAll(ctx context.Context, sessions map[string]remote.Session) {
	all := make([]remote.Session, 0, len(sessions))
	for _, sess := range sessions {
		all = append(all, sess)
	}
	_ = parallel.Do(all, func(sess remote.Session) error {
		if err := sess.Close(ctx); err != nil {
			log.WithNode("session", sess.Node()).Warn().Err(err).Msg("session close failed")
		}
		return nil
	})
}
