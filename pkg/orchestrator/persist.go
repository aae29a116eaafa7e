package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"gopkg.in/yaml.v3"
)

// snapshot is the serializable projection of a History plus whatever the
// checker produced, if it has run yet. Runtime-only state (sessions, the
// barrier, the active-histories set) never reaches this type, so there is
// no separate "strip runtime keys" step.
type snapshot struct {
	ID     string      `yaml:"id"`
	Ops    []history.Op `yaml:"ops"`
	Result *Result     `yaml:"result,omitempty"`
}

// persistSnapshot writes h (and result, if already computed) to
// storageDir/<name>-<suffix>.yaml. The phase-1 snapshot is written with a
// nil result before analysis, the phase-2 snapshot with the checker's
// verdict after it, so a checker crash still leaves the raw history on
// disk.
func persistSnapshot(storageDir, name, suffix string, h *history.History, result *Result) error {
	if name == "" {
		return nil
	}
	if storageDir == "" {
		storageDir = "."
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return err
	}

	snap := snapshot{ID: h.ID.String(), Ops: h.Ops(), Result: result}
	out, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}

	path := filepath.Join(storageDir, name+"-"+suffix+".yaml")
	return os.WriteFile(path, out, 0o644)
}
