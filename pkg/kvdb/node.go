package kvdb

import (
	"io"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// node is the running raft instance backing one cluster node's worth of
// register state: the raft handle plus every store it owns, kept together
// so teardown can release them as a unit.
type node struct {
	id   string
	addr string

	raft        *raft.Raft
	fsm         *FSM
	logStore    *raftboltdb.BoltStore
	stableStore *raftboltdb.BoltStore
	transport   *raft.NetworkTransport
	dataDir     string
}

// shutdown stops the raft instance and releases every store it owns.
// A failure never stops the remaining resources from closing: every
// resource gets a chance to close, and the first error is returned.
func (n *node) shutdown() error {
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if n.raft != nil {
		record(n.raft.Shutdown().Error())
	}
	if n.logStore != nil {
		record(n.logStore.Close())
	}
	if n.stableStore != nil {
		record(n.stableStore.Close())
	}
	if n.fsm != nil {
		record(n.fsm.Close())
	}
	if n.transport != nil {
		record(n.transport.Close())
	}
	return first
}

var _ io.Closer = (*node)(nil)

func (n *node) Close() error { return n.shutdown() }
