package history

import "fmt"

// Process identifies a logical, single-threaded client within a test. It is
// distinct from any OS thread. Live worker ids start at 0 and are retired on
// indeterminate outcomes, see Retire.
type Process int

// Nemesis is the reserved process id carried by every fault-injection
// event. Live worker ids are always >= 0, so -1 can never collide with one.
const Nemesis Process = -1

// Retire mints the next process id for a worker whose last operation was
// indeterminate: old + concurrency. The set of live ids stays equal to the
// concurrency while every retired id remains globally unique for the life
// of the test.
func Retire(old Process, concurrency int) Process {
	return old + Process(concurrency)
}

// Type is the outcome discriminator of an Op.
type Type string

const (
	Invoke Type = "invoke"
	Ok     Type = "ok"
	Fail   Type = "fail"
	Info   Type = "info"
)

// Op is one entry in a History: either an invocation or a completion.
type Op struct {
	Process Process
	Type    Type
	F       string
	Value   any
	// Time is monotonic nanoseconds since the test's start timestamp.
	Time int64
	// Error is set on fail/info completions that carry a failure reason.
	Error string
	// Index is assigned post-hoc, once the case has ended; -1 until then.
	Index int
}

// String renders an Op the way a human-readable report would.
func (o Op) String() string {
	if o.Error != "" {
		return fmt.Sprintf("%d\t%s\t%s\t%v\t%s", o.Process, o.Type, o.F, o.Value, o.Error)
	}
	return fmt.Sprintf("%d\t%s\t%s\t%v", o.Process, o.Type, o.F, o.Value)
}

// IsNemesis reports whether this op belongs to the fault-injection actor.
func (o Op) IsNemesis() bool {
	return o.Process == Nemesis
}
