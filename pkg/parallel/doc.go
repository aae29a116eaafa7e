/*
Package parallel implements the one fan-out idiom every stage of a test
run shares: launch one goroutine per item, wait for all of them, and
surface the first failure only after every branch has finished.

# Semantics

	parallel.Do(items, fn)

	items:  [a]───fn(a)──ok──────────┐
	        [b]───fn(b)──────err1────┤  wait for ALL,
	        [c]───fn(c)──err2────────┤  then return err1
	        [d]───fn(d)──ok──────────┘  (first in item order)

  - Every branch runs to completion; a failure never cancels its
    siblings. Callers that need rollback (the session pool) can therefore
    act on the complete set of outcomes.
  - The returned error is the first non-nil one in item order, not in
    completion order, so repeated runs report deterministically.
  - An empty item slice returns nil without spawning anything, which is
    what makes zero-node configurations fall through every stage.

# Callers

One implementation serves every fan-out in the module: session pool open
and close, OS stage setup and teardown, DB stage cycle and teardown,
per-node log snarf, and the case runner's worker spawn.
*/
package parallel
