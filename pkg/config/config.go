package config

import (
	"fmt"
	"os"

	"github.com/cuemby/warren-jepsen/pkg/log"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the serializable part of a test
// configuration: node list, concurrency, transport credentials,
// persistence/logging settings, and the checker expression the reference
// RegisterChecker compiles.
type File struct {
	Nodes       []string `yaml:"nodes"`
	Concurrency int      `yaml:"concurrency"`
	SSH         SSH      `yaml:"ssh"`
	Name        string   `yaml:"name"`
	StorageDir  string   `yaml:"storage_dir"`
	Log         Log      `yaml:"log"`
	Checker     string   `yaml:"checker_expression"`
	Keys        []string `yaml:"keys"`
	OpsPerProc  int      `yaml:"ops_per_process"`
}

// SSH mirrors orchestrator.SSHCredentials for YAML decoding.
type SSH struct {
	User           string `yaml:"user"`
	PrivateKeyPath string `yaml:"private_key_path"`
	Port           int    `yaml:"port"`
}

// Log configures the global logger for the run.
type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads and parses a YAML test configuration file. A concurrency key
// left out of the file decodes as -1, the "default to node count"
// sentinel, so omitting it never silently configures a zero-worker run.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	f := File{Concurrency: -1}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &f, nil
}

// Overrides carries CLI flag values that take precedence over the file.
// Concurrency < 0 means "not set on the CLI", the same sentinel
// orchestrator.Config itself uses for "default to node count".
type Overrides struct {
	Nodes       []string
	Concurrency int
	Name        string
}

// Build merges f with overrides into the serializable fields of an
// orchestrator.Config. The caller still must set OS/DB/Client/Nemesis/
// Generator/Model/Checker; those are resolved by the CLI's own
// collaborator registry, never by this package.
func (f *File) Build(o Overrides) *orchestrator.Config {
	cfg := &orchestrator.Config{
		Nodes:       f.Nodes,
		Concurrency: f.Concurrency,
		Name:        f.Name,
		StorageDir:  f.StorageDir,
		SSH: orchestrator.SSHCredentials{
			User:           f.SSH.User,
			PrivateKeyPath: f.SSH.PrivateKeyPath,
			Port:           f.SSH.Port,
		},
	}

	if len(o.Nodes) > 0 {
		cfg.Nodes = o.Nodes
	}
	if o.Concurrency >= 0 {
		cfg.Concurrency = o.Concurrency
	}
	if o.Name != "" {
		cfg.Name = o.Name
	}

	level := log.InfoLevel
	if f.Log.Level != "" {
		level = log.Level(f.Log.Level)
	}
	cfg.Log = &log.Config{Level: level, JSONOutput: f.Log.JSON}

	return cfg
}
