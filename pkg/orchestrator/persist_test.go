package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPersistSnapshotWritesBothPhases(t *testing.T) {
	dir := t.TempDir()

	h := history.New()
	h.Append(history.Op{Process: 0, Type: history.Invoke, F: "read"})
	h.Append(history.Op{Process: 0, Type: history.Ok, F: "read"})
	h.Close()
	h.AssignIndices()

	require.NoError(t, persistSnapshot(dir, "smoke", "save-1", h, nil))
	result := Result{Valid: true}
	require.NoError(t, persistSnapshot(dir, "smoke", "save-2", h, &result))

	var phase1, phase2 snapshot
	data, err := os.ReadFile(filepath.Join(dir, "smoke-save-1.yaml"))
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &phase1))
	require.Nil(t, phase1.Result)
	require.Len(t, phase1.Ops, 2)

	data, err = os.ReadFile(filepath.Join(dir, "smoke-save-2.yaml"))
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &phase2))
	require.NotNil(t, phase2.Result)
	require.True(t, phase2.Result.Valid)
}

func TestPersistSnapshotSkipsUnnamedTests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, persistSnapshot(dir, "", "save-1", history.New(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
