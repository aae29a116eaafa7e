package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/warren-jepsen/pkg/history"
)

// fakeGenerator hands out a fixed, per-process queue of ops, then reports
// end-of-stream. Safe for concurrent Next calls from every worker and the
// nemesis, as the contract requires.
type fakeGenerator struct {
	mu         sync.Mutex
	queues     map[history.Process][]history.Op
	knownProcs []history.Process
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{queues: make(map[history.Process][]history.Op)}
}

func (g *fakeGenerator) enqueue(proc history.Process, ops ...history.Op) *fakeGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queues[proc] = append(g.queues[proc], ops...)
	return g
}

func (g *fakeGenerator) SetProcesses(procs []history.Process) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.knownProcs = procs
}

func (g *fakeGenerator) Next(_ context.Context, _ *Config, proc history.Process) (history.Op, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	q := g.queues[proc]
	if len(q) == 0 {
		return history.Op{}, false
	}
	g.queues[proc] = q[1:]
	return q[0], true
}

// fakeClient replays a scripted sequence of responses per Invoke call,
// optionally throwing instead of returning a completion. Open always
// succeeds and returns a fresh fakeClient sharing the same script and
// open-count tracker, so tests can assert how many times a node was opened.
type fakeClient struct {
	closable bool

	mu        sync.Mutex
	responses []clientResponse
	opens     *int
	closes    *int
}

type clientResponse struct {
	completion history.Op
	err        error
}

func newFakeClient(closable bool, responses ...clientResponse) *fakeClient {
	opens, closes := 0, 0
	return &fakeClient{closable: closable, responses: responses, opens: &opens, closes: &closes}
}

func (c *fakeClient) Open(_ context.Context, _ *Config, _ string) (Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.opens++
	return c, nil
}

func (c *fakeClient) Invoke(_ context.Context, _ *Config, op history.Op) (history.Op, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.responses) == 0 {
		return history.Op{Process: op.Process, Type: history.Ok, F: op.F}, nil
	}
	r := c.responses[0]
	c.responses = c.responses[1:]
	if r.err != nil {
		return history.Op{}, r.err
	}
	completion := r.completion
	completion.Process = op.Process
	completion.F = op.F
	return completion, nil
}

func (c *fakeClient) Close(context.Context, *Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.closes++
	return nil
}

func (c *fakeClient) Closable() bool { return c.closable }

// fakeNemesis tracks setup/teardown calls and replays a scripted sequence
// of Invoke outcomes.
type fakeNemesis struct {
	mu        sync.Mutex
	responses []clientResponse

	setupCalls    int
	teardownCalls int
}

func (n *fakeNemesis) Setup(context.Context, *Config) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.setupCalls++
	return nil
}

func (n *fakeNemesis) Teardown(context.Context, *Config) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.teardownCalls++
	return nil
}

func (n *fakeNemesis) Invoke(_ context.Context, _ *Config, op history.Op) (history.Op, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.responses) == 0 {
		return history.Op{Process: history.Nemesis, Type: history.Info, F: op.F}, nil
	}
	r := n.responses[0]
	n.responses = n.responses[1:]
	if r.err != nil {
		return history.Op{}, r.err
	}
	completion := r.completion
	completion.Process = history.Nemesis
	completion.F = op.F
	return completion, nil
}

// fakeOS and fakeDB count per-node setup/teardown calls and can be made to
// fail setup on a chosen node.
type fakeOS struct {
	mu            sync.Mutex
	setupCalls    []string
	teardownCalls []string
}

func (o *fakeOS) Setup(_ context.Context, _ *Config, node string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.setupCalls = append(o.setupCalls, node)
	return nil
}

func (o *fakeOS) Teardown(_ context.Context, _ *Config, node string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.teardownCalls = append(o.teardownCalls, node)
	return nil
}

type fakeDB struct {
	failSetupOn string

	mu            sync.Mutex
	setupCalls    []string
	teardownCalls []string
	logFilesCalls []string
}

func (d *fakeDB) Setup(_ context.Context, _ *Config, node string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setupCalls = append(d.setupCalls, node)
	if node == d.failSetupOn {
		return fmt.Errorf("setup failed on %s", node)
	}
	return nil
}

func (d *fakeDB) Teardown(_ context.Context, _ *Config, node string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teardownCalls = append(d.teardownCalls, node)
	return nil
}

func (d *fakeDB) LogFiles(_ context.Context, _ *Config, node string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logFilesCalls = append(d.logFilesCalls, node)
	return []string{"/var/log/db/" + node + "/out.log"}, nil
}

// fakeSession is a minimal remote.Session double recording Download calls,
// for asserting the emergency log snarf actually ran.
type fakeSession struct {
	node string

	mu        sync.Mutex
	downloads []string
}

func (s *fakeSession) Node() string { return s.node }
func (s *fakeSession) Exec(context.Context, string, ...string) (string, error) {
	return "", nil
}
func (s *fakeSession) Download(_ context.Context, remotePath, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads = append(s.downloads, remotePath)
	return nil
}
func (s *fakeSession) Close(context.Context) error { return nil }

// fakeChecker counts invocations and always reports valid.
type fakeChecker struct {
	mu    sync.Mutex
	calls int
}

func (c *fakeChecker) Check(context.Context, *Config, any, *history.History) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return Result{Valid: true}, nil
}
