/*
Package kvdb is a reference DB/Client pair that cmd/warren-jepsen wires
and this package's own tests drive end to end: a tiny linearizable register
service replicated with hashicorp/raft, its log and stable stores backed
by raft-boltdb, and its applied state mirrored into a bbolt file per
node. Production embeddings plug in their own DB adapter; this one exists
so every lifecycle step the core performs has something real on the other
end.

# Architecture

	┌──────────────────── ONE TEST NODE ────────────────────┐
	│                                                        │
	│  node "n1"                                             │
	│  ┌──────────────────────────────────────────────────┐ │
	│  │  raft.Raft                                        │ │
	│  │    ├─ TCP transport (127.0.0.1:0, OS-assigned)   │ │
	│  │    ├─ raft-log.db      (raft-boltdb log store)    │ │
	│  │    ├─ raft-stable.db   (raft-boltdb stable store) │ │
	│  │    ├─ snapshots/       (file snapshot store)      │ │
	│  │    └─ FSM                                         │ │
	│  │         ├─ map[key]value   (applied state)        │ │
	│  │         └─ register.db     (bbolt mirror)         │ │
	│  └──────────────────────────────────────────────────┘ │
	│                                                        │
	│  DB.Setup starts this; DB.Teardown shuts it all down;  │
	│  DB.SetupPrimary bootstraps the cluster with every     │
	│  set-up node as a voter; DB.LogFiles lists the data    │
	│  directory for snarfing.                               │
	└────────────────────────────────────────────────────────┘

# Operations

The register understands three op kinds, carried as the Value of a
history.Op:

	read   {kind:"read",  key}            → ok, value read
	write  {kind:"write", key, value}     → ok
	cas    {kind:"cas", key, from, value} → ok if current == from,
	                                        fail otherwise

Client.Invoke submits the op through raft.Apply on the bound node and
translates the FSM's result into a completion. Raft errors (not leader,
apply timeout, shutting down) are returned as plain errors, which the
worker treats as indeterminate outcomes, exactly the behavior a real
networked client exhibits under faults.

# Reference Collaborators

The package also carries the rest of a minimal runnable stack:

  - RegisterGenerator: a concurrent-safe generator mixing reads, writes,
    and CAS over a fixed key set, with a per-process op ceiling; it hands
    the nemesis nothing.
  - NoopOS / NoopNemesis: contract-complete no-ops, since the register
    needs no OS prerequisites and the default CLI stack injects no
    faults.

# Usage

	db := kvdb.NewDB(dataDir)
	cfg.DB = db
	cfg.Client = kvdb.NewClient(db)
	cfg.Generator = kvdb.NewRegisterGenerator([]string{"x", "y"}, 20, seed)

# Integration Points

This package integrates with:

  - pkg/orchestrator: implements the DB (with Primary and LogFiles
    capabilities), Client, Generator, OS, and Nemesis contracts
  - pkg/checker: agrees with it on the RegisterOp payload shape
  - cmd/warren-jepsen: wires this stack as the out-of-the-box default
*/
package kvdb
