/*
Package history implements the append-only operation log produced by a
test case: the totally-ordered sequence of invocations and completions
that the checker analyzes. It also defines the process id rules and
tracks which histories are currently "active", eligible to receive
nemesis fan-out writes.

# Data Model

An Op is one entry:

	Process  logical client identity (or Nemesis, -1)
	Type     invoke | ok | fail | info
	F        function symbol ("read", "write", "cas", "partition", ...)
	Value    opaque payload; the core never interprets it
	Time     monotonic nanoseconds since the test's start
	Error    failure reason on fail/info completions
	Index    assigned post-hoc; -1 while the case is running

A History is an ordered Op sequence with concurrent writers: every worker
appends its own invocation and completion, the nemesis supervisor appends
to every registered history. Appends are atomic; the recorded order is
real-time append order.

	worker 0:  invoke(read) ──────────── ok(read)
	worker 1:        invoke(write) ── ok(write)
	nemesis:              info(partition) ... info(partition)
	                │         │        │    │
	history:   [inv r][inv w][info][ok w][ok r][info]...

# Process Identity

Process ids are logical, single-threaded client identities, never OS
threads. Live ids start at 0..concurrency-1. When an operation's outcome
is indeterminate (type info), the id is retired:

	new = old + concurrency

so the live id set always has exactly concurrency members while every id
ever observed stays globally unique. Nemesis is the reserved id -1, which
no retirement can ever produce.

# Lifecycle

	New() ──► Append()* ──► Close() ──► AssignIndices() ──► Ops()
	  │
	  └── Register.Add .............. Register.Remove
	        (nemesis-active window)

After AssignIndices, indices are 0..N-1 in append order with no gaps.

# The Active-Set Register

Register is the set of histories currently accepting nemesis writes.
Membership changes only at case boundaries. Snapshot returns a stable
view: the nemesis supervisor snapshots once per event and writes both the
invocation and the completion to exactly that set, so a history entering
or leaving mid-event never sees half an event.

# Usage

	h := history.New()
	r := history.NewRegister()
	r.Add(h)

	h.Append(history.Op{Process: 0, Type: history.Invoke, F: "read"})
	h.Append(history.Op{Process: 0, Type: history.Ok, F: "read", Value: 42})

	r.Remove(h)
	h.Close()
	h.AssignIndices()

	for _, op := range h.Ops() {
		fmt.Println(op.Index, op.String())
	}

# Integration Points

This package integrates with:

  - pkg/orchestrator: workers and the nemesis supervisor are the writers;
    the runner closes, indexes, and persists
  - pkg/checker: reads the finished, indexed Ops slice
*/
package history
