package kvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
)

// applyTimeout bounds how long a single register operation waits for
// raft to commit it before the client treats the call as failed (which
// the worker then treats as an indeterminate result).
const applyTimeout = 2 * time.Second

// Client is a reference orchestrator.Client against a DB: Open binds it
// to one node's raft instance, Invoke submits the op through raft.Apply
// and translates the FSM's applyResult into a completion Op.
type Client struct {
	db   *DB
	node string
}

var _ orchestrator.Client = (*Client)(nil)

// NewClient returns the template Client workers call Open on; it is not
// itself bound to a node.
func NewClient(db *DB) *Client {
	return &Client{db: db}
}

// Open binds a fresh Client to node. This reference implementation has
// no connection to release, but still mints a distinct value so the
// retirement path exercises the same Open/Close call sequence a real
// network client would.
func (c *Client) Open(_ context.Context, _ *orchestrator.Config, node string) (orchestrator.Client, error) {
	return &Client{db: c.db, node: node}, nil
}

// Invoke submits op as a raft command against the bound node's raft
// instance and waits for it to commit. A raft error (not leader, apply
// timeout, shutting down) is returned as an error, wrapped with the node
// name, exactly the "invoke may throw to signal connection failure"
// contract, which the worker turns into an indeterminate completion.
func (c *Client) Invoke(_ context.Context, _ *orchestrator.Config, op history.Op) (history.Op, error) {
	reg, ok := op.Value.(RegisterOp)
	if !ok {
		return history.Op{}, fmt.Errorf("kvdb client: op value is %T, want kvdb.RegisterOp", op.Value)
	}

	c.db.mu.Lock()
	n, ok := c.db.nodes[c.node]
	c.db.mu.Unlock()
	if !ok {
		return history.Op{}, fmt.Errorf("kvdb client: no raft node running for %q", c.node)
	}

	data, err := json.Marshal(reg)
	if err != nil {
		return history.Op{}, fmt.Errorf("kvdb client: encoding op: %w", err)
	}

	future := n.raft.Apply(data, applyTimeout)
	if err := future.Error(); err != nil {
		return history.Op{}, fmt.Errorf("kvdb client: raft apply on %q: %w", c.node, err)
	}

	result, ok := future.Response().(applyResult)
	if !ok {
		return history.Op{}, fmt.Errorf("kvdb client: unexpected FSM response type %T", future.Response())
	}

	completion := op
	completion.Value = RegisterOp{Kind: reg.Kind, Key: reg.Key, Value: result.Value, From: reg.From}
	switch reg.Kind {
	case KindRead, KindWrite:
		completion.Type = history.Ok
	case KindCAS:
		if result.OK {
			completion.Type = history.Ok
		} else {
			completion.Type = history.Fail
		}
	default:
		return history.Op{}, fmt.Errorf("kvdb client: unknown op kind %q", reg.Kind)
	}
	return completion, nil
}

// Close is a no-op: this reference client holds no per-node connection
// beyond the shared DB's raft handle.
func (c *Client) Close(context.Context, *orchestrator.Config) error {
	return nil
}

// Closable reports true: a fresh Client should always be minted for a
// retired process id, the non-deprecated path.
func (c *Client) Closable() bool {
	return true
}
