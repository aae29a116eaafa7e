/*
Package checker provides a reference, deliberately weak Checker for
histories produced against pkg/kvdb's register service: it confirms every
completed read returned a value that had genuinely been written to that
key earlier in the history. Production embeddings plug in their own
linearizability checker; this one exists so the module's end-to-end tests
can pass a real verdict, not a mock's.

# How It Checks

The checker replays the finished history in append order, tracking per
key the set of values confirmed written (ok writes and ok CAS results).
For every ok read it evaluates a predicate over two variables:

	value    the value the read returned
	written  the list of values written to that key so far

The default predicate is

	value in written

A key that has never been written is skipped: the checker cannot verify
the initial state of a register, and says so by staying silent rather
than guessing.

# CEL Predicates

The predicate is a compiled google/cel-go expression, so the rule can be
swapped without a rebuild:

	c, err := checker.NewRegisterChecker("value in written || value == 0")

Compilation happens once in NewRegisterChecker; evaluation is one Program
call per ok read.

# Verdicts

Check returns an orchestrator.Result:

	valid: true                         no violations
	valid: false, error: "..."          first violation, with process,
	                                    value, and key named
	extra: {expression}                 always attached
	extra: {violations: N}              added when valid is false

# Integration Points

This package integrates with:

  - pkg/orchestrator: implements the Checker contract; the runner invokes
    it after indexing and converts its panics into invalid results
  - pkg/kvdb: reads the RegisterOp payloads that package produced
  - cmd/warren-jepsen: the --checker-expr flag and checker_expression
    config key feed NewRegisterChecker
*/
package checker
