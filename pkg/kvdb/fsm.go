package kvdb

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/hashicorp/raft"
	bolt "go.etcd.io/bbolt"
)

var bucketRegister = []byte("register")

// FSM is the raft finite state machine backing one register node's state:
// an in-memory map applied from the raft log, mirrored into a bbolt file
// on every successful mutation so the node's current state is inspectable
// without going through raft.
type FSM struct {
	mu    sync.RWMutex
	state map[string]int
	db    *bolt.DB
}

// NewFSM opens (creating if absent) the bbolt mirror file under dataDir
// and returns an empty FSM ready to be handed to raft.NewRaft.
func NewFSM(dataDir string) (*FSM, error) {
	db, err := bolt.Open(filepath.Join(dataDir, "register.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening register mirror: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRegister)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating register bucket: %w", err)
	}
	return &FSM{state: make(map[string]int), db: db}, nil
}

// Apply decodes one raft log entry as a RegisterOp and applies it to the
// in-memory map, mirroring the new value into bbolt on success. Mirror
// write failures are logged, not propagated; raft commitment already
// succeeded, and the bbolt copy is a convenience, not the system of
// record.
func (f *FSM) Apply(entry *raft.Log) interface{} {
	var op RegisterOp
	if err := json.Unmarshal(entry.Data, &op); err != nil {
		return applyResult{OK: false}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var result applyResult
	switch op.Kind {
	case KindWrite:
		f.state[op.Key] = op.Value
		result = applyResult{Value: op.Value, OK: true}
	case KindCAS:
		cur := f.state[op.Key]
		if cur == op.From {
			f.state[op.Key] = op.Value
			result = applyResult{Value: op.Value, OK: true}
		} else {
			result = applyResult{Value: cur, OK: false}
		}
	case KindRead:
		result = applyResult{Value: f.state[op.Key], OK: true}
	default:
		return applyResult{OK: false}
	}

	if result.OK && op.Kind != KindRead {
		f.mirror(op.Key, f.state[op.Key])
	}
	return result
}

func (f *FSM) mirror(key string, value int) {
	err := f.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRegister).Put([]byte(key), []byte(fmt.Sprintf("%d", value)))
	})
	if err != nil {
		log.WithComponent("kvdb").Warn().Err(err).Str("key", key).Msg("mirroring register value to bbolt failed")
	}
}

// Snapshot captures the full state map for raft's periodic log
// compaction, independent of the bbolt mirror.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	clone := make(map[string]int, len(f.state))
	for k, v := range f.state {
		clone[k] = v
	}
	return &fsmSnapshot{state: clone}, nil
}

// Restore replaces the in-memory state wholesale from a prior snapshot.
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	var state map[string]int
	if err := json.NewDecoder(rc).Decode(&state); err != nil {
		return fmt.Errorf("decoding register snapshot: %w", err)
	}
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
	return nil
}

// Close releases the bbolt mirror file.
func (f *FSM) Close() error {
	return f.db.Close()
}

type fsmSnapshot struct {
	state map[string]int
}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		return json.NewEncoder(sink).Encode(s.state)
	}()
	if err != nil {
		sink.Cancel()
		return err
	}
	return sink.Close()
}

func (s *fsmSnapshot) Release() {}
