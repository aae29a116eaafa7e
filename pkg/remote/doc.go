/*
Package remote defines the Session contract the orchestration core's
session pool acquires one of per node, plus two concrete implementations:
a local-exec session compiled everywhere, and a Lima-VM-backed session
built only on darwin. Remote-shell transports are pluggable; these exist
so the core has a real collaborator to exercise in its own tests and
local dry runs.

# The Session Contract

	type Session interface {
		Node() string
		Exec(ctx, cmd string, args ...string) (string, error)
		Download(ctx, remotePath, localPath string) error
		Close(ctx) error
	}

	type Opener func(ctx, node string) (Session, error)

One Session per node, alive from pool-acquire to pool-release. Exec runs
a command and returns combined output; Download copies one remote file to
a local path for log snarfing; Close is best-effort, its failures logged
by callers rather than propagated.

# Implementations

LocalSession (all platforms):

	sess, _ := remote.OpenLocal(ctx, "n1")
	out, err := sess.Exec(ctx, "systemctl", "status", "mydb")

Runs one short-lived subprocess per Exec via os/exec and keeps every
invocation's combined output in a buffer readable through Logs(). Its
Download is a local file copy whose not-exist errors surface exactly like
a remote snarf race, so the stage package's benign-error handling is
exercised for real. This is what zero-node and single-machine dry runs
use.

LimaSession (darwin only, build-tagged):

	sess, err := remote.OpenLima(ctx, "n1") // instance "jepsen-n1"

One Lima VM per node identifier, driven through lima's own store and
instance packages; Exec shells through "limactl shell", Download through
"limactl copy". The instance must already exist (limactl create); Open
starts it if stopped, Close stops it gracefully and forcibly on failure.

# Integration Points

This package integrates with:

  - pkg/session: acquires and releases Sessions via an Opener
  - pkg/stage: Download is the transport under Snarf
  - pkg/orchestrator: Config.Open selects the Opener, defaulting to
    OpenLocal
*/
package remote
