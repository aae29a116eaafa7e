/*
Package config loads a test configuration from a YAML file and merges it
with CLI overrides into an *orchestrator.Config, flags taking precedence
over file values.

Only the serializable part of a configuration lives here: node list,
concurrency, SSH credentials, persistence and logging settings, and the
parameters of the reference stack (checker expression, key set, ops per
process). The collaborator values themselves (generator, client, nemesis,
os, db, checker) are Go interfaces resolved by the CLI's own registry,
never deserialized from a file.

# File Format

	nodes: [n1, n2, n3]
	concurrency: 6
	ssh:
	  user: admin
	  private_key_path: ~/.ssh/id_ed25519
	  port: 22
	name: register-smoke
	storage_dir: /var/lib/jepsen/runs
	log:
	  level: info
	  json: true
	checker_expression: "value in written"
	keys: [x, y, z]
	ops_per_process: 50

A concurrency key left out of the file decodes as -1, the "default to
node count" sentinel, so omitting it never silently configures a
zero-worker run. Concurrency 0 must be written explicitly and means
exactly that: zero workers.

# Precedence

	CLI flag  >  config file  >  built-in default

Overrides uses the same sentinel convention: a negative Concurrency means
"not set on the CLI", empty Nodes/Name mean the same.

# Usage

	f, err := config.Load(path)
	if err != nil { ... }
	cfg := f.Build(config.Overrides{
		Nodes:       flagNodes,
		Concurrency: flagConcurrency, // -1 when the flag was not given
		Name:        flagName,
	})
	// cfg.OS/DB/Client/Nemesis/Generator/Checker are still nil here;
	// the caller wires its collaborator registry before orchestrator.Run.
*/
package config
