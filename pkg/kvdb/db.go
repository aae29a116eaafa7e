package kvdb

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
)

// DB is a reference orchestrator.DB backed by one hashicorp/raft node per
// test node: a tiny linearizable register service the core's own test
// suite can cycle through Setup/Teardown/SetupPrimary/LogFiles instead of
// a mock. It advertises both optional DB capabilities (Primary, LogFiles).
type DB struct {
	baseDir string

	mu    sync.Mutex
	nodes map[string]*node
}

// NewDB returns a DB that keeps every node's raft data under
// baseDir/<nodeID>.
func NewDB(baseDir string) *DB {
	return &DB{baseDir: baseDir, nodes: make(map[string]*node)}
}

var _ orchestrator.DB = (*DB)(nil)
var _ orchestrator.PrimarySetupper = (*DB)(nil)
var _ orchestrator.LogFileLister = (*DB)(nil)

// Setup starts a fresh raft instance for nodeID: a clean data directory,
// a bbolt-backed FSM, boltdb log/stable stores, a TCP transport bound to
// an OS-assigned loopback port, and a file snapshot store: everything
// raft.NewRaft needs, started but not yet part of any cluster (that is
// SetupPrimary's job).
func (d *DB) Setup(_ context.Context, _ *orchestrator.Config, nodeID string) error {
	dataDir := filepath.Join(d.baseDir, nodeID)
	if err := os.RemoveAll(dataDir); err != nil {
		return fmt.Errorf("kvdb: clearing data dir for %q: %w", nodeID, err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("kvdb: creating data dir for %q: %w", nodeID, err)
	}

	fsm, err := NewFSM(dataDir)
	if err != nil {
		return err
	}

	transport, err := raft.NewTCPTransport("127.0.0.1:0", nil, 3, 5*time.Second, io.Discard)
	if err != nil {
		return fmt.Errorf("kvdb: creating transport for %q: %w", nodeID, err)
	}

	snapStore, err := raft.NewFileSnapshotStore(dataDir, 1, io.Discard)
	if err != nil {
		return fmt.Errorf("kvdb: creating snapshot store for %q: %w", nodeID, err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(dataDir, "raft-log.db"))
	if err != nil {
		return fmt.Errorf("kvdb: creating log store for %q: %w", nodeID, err)
	}
	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(dataDir, "raft-stable.db"))
	if err != nil {
		return fmt.Errorf("kvdb: creating stable store for %q: %w", nodeID, err)
	}

	raftCfg := raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(nodeID)

	r, err := raft.NewRaft(raftCfg, fsm, logStore, stableStore, snapStore, transport)
	if err != nil {
		return fmt.Errorf("kvdb: starting raft for %q: %w", nodeID, err)
	}

	d.mu.Lock()
	d.nodes[nodeID] = &node{
		id:          nodeID,
		addr:        string(transport.LocalAddr()),
		raft:        r,
		fsm:         fsm,
		logStore:    logStore,
		stableStore: stableStore,
		transport:   transport,
		dataDir:     dataDir,
	}
	d.mu.Unlock()
	return nil
}

// Teardown shuts down nodeID's raft instance and releases its stores. A
// node with no running instance (never set up, or already torn down) is
// a no-op, matching the DB stage's teardown-then-setup cycle.
func (d *DB) Teardown(_ context.Context, _ *orchestrator.Config, nodeID string) error {
	d.mu.Lock()
	n, ok := d.nodes[nodeID]
	delete(d.nodes, nodeID)
	d.mu.Unlock()
	if !ok {
		return nil
	}
	return n.shutdown()
}

// SetupPrimary bootstraps the raft cluster from primaryNode, listing
// every node that has already completed Setup as a voter. The DB stage
// runs the per-node cycle before this step, so every peer's node entry
// is guaranteed to exist by the time it runs.
func (d *DB) SetupPrimary(_ context.Context, cfg *orchestrator.Config, primaryNode string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	primary, ok := d.nodes[primaryNode]
	if !ok {
		return fmt.Errorf("kvdb: no raft node started for primary %q", primaryNode)
	}

	var servers []raft.Server
	for _, id := range cfg.Nodes {
		peer, ok := d.nodes[id]
		if !ok {
			continue
		}
		servers = append(servers, raft.Server{
			Suffrage: raft.Voter,
			ID:       raft.ServerID(peer.id),
			Address:  raft.ServerAddress(peer.addr),
		})
	}

	future := primary.raft.BootstrapCluster(raft.Configuration{Servers: servers})
	if err := future.Error(); err != nil {
		return fmt.Errorf("kvdb: bootstrapping cluster from %q: %w", primaryNode, err)
	}
	return nil
}

// LogFiles lists nodeID's raft data directory: the log/stable boltdb
// files, the snapshot directory's contents, and the bbolt register
// mirror: everything the emergency and end-of-case snarf should preserve
// for forensics.
func (d *DB) LogFiles(_ context.Context, _ *orchestrator.Config, nodeID string) ([]string, error) {
	d.mu.Lock()
	n, ok := d.nodes[nodeID]
	d.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var out []string
	err := filepath.Walk(n.dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kvdb: listing log files for %q: %w", nodeID, err)
	}
	return out, nil
}
