package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/remote"
	"github.com/stretchr/testify/require"
)

func sessionOpener(sessions map[string]*fakeSession) remote.Opener {
	return func(_ context.Context, node string) (remote.Session, error) {
		sess, ok := sessions[node]
		if !ok {
			sess = &fakeSession{node: node}
			sessions[node] = sess
		}
		return sess, nil
	}
}

// Scenario 1: all-ok run.
func TestRunAllOk(t *testing.T) {
	gen := newFakeGenerator().
		enqueue(history.Process(0), history.Op{F: "read"}).
		enqueue(history.Process(1), history.Op{F: "read"})

	client := newFakeClient(true)
	checker := &fakeChecker{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1", "n2"},
		Concurrency: 2,
		OS:          &fakeOS{},
		DB:          &fakeDB{},
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 4, summary.Ops)
	require.True(t, summary.Result.Valid)
	require.Equal(t, 1, checker.calls)
	require.Equal(t, []history.Process{history.Nemesis, 0, 1}, gen.knownProcs,
		"generator should learn every process identity before workers start")
}

// Scenario 2: indeterminate completion returned by the client (not a throw).
func TestRunIndeterminateCompletion(t *testing.T) {
	gen := newFakeGenerator().enqueue(history.Process(0), history.Op{F: "read"})

	client := newFakeClient(true, clientResponse{
		completion: history.Op{Type: history.Info, Error: "timeout"},
	})
	checker := &fakeChecker{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1"},
		Concurrency: 1,
		OS:          &fakeOS{},
		DB:          &fakeDB{},
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Ops)
	require.Equal(t, 2, *client.opens, "closable client reopens after the indeterminate outcome")
	require.Equal(t, 2, *client.closes, "retired client closed once, fresh client once at teardown")
}

// A client that is not closable keeps serving the retired process id's
// successor: no reopen, only the single teardown close.
func TestRunIndeterminateNonClosableKeepsClient(t *testing.T) {
	gen := newFakeGenerator().enqueue(history.Process(0), history.Op{F: "read"})

	client := newFakeClient(false, clientResponse{
		completion: history.Op{Type: history.Info, Error: "timeout"},
	})
	checker := &fakeChecker{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1"},
		Concurrency: 1,
		OS:          &fakeOS{},
		DB:          &fakeDB{},
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Ops)
	require.Equal(t, 1, *client.opens)
	require.Equal(t, 1, *client.closes)
}

// An exhausted generator still runs the full lifecycle: empty history,
// clean worker exit, OS and DB teardown on every node.
func TestRunEmptyGenerator(t *testing.T) {
	gen := newFakeGenerator()
	checker := &fakeChecker{}
	osd := &fakeOS{}
	db := &fakeDB{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1", "n2"},
		Concurrency: 2,
		OS:          osd,
		DB:          db,
		Client:      newFakeClient(true),
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Ops)
	require.Equal(t, 1, checker.calls)
	require.ElementsMatch(t, []string{"n1", "n2"}, osd.teardownCalls)
	require.Len(t, db.teardownCalls, 4, "cycle teardown plus final teardown per node")
}

// Scenario 3: the client throws instead of returning a completion.
func TestRunClientThrows(t *testing.T) {
	gen := newFakeGenerator().enqueue(history.Process(0), history.Op{F: "read"})

	client := newFakeClient(true, clientResponse{err: errors.New("ConnectionLost")})
	checker := &fakeChecker{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1"},
		Concurrency: 1,
		OS:          &fakeOS{},
		DB:          &fakeDB{},
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Ops)
}

// Scenario 5: DB setup fails; emergency snarf, DB/OS teardown on every node,
// and session close must all still happen, and the checker must never run.
func TestRunDBSetupFailureEmergencySnarf(t *testing.T) {
	gen := newFakeGenerator()
	client := newFakeClient(true)
	checker := &fakeChecker{}
	db := &fakeDB{failSetupOn: "n1"}
	osd := &fakeOS{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       []string{"n1", "n2"},
		Concurrency: 2,
		OS:          osd,
		DB:          db,
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.Error(t, err)
	require.Nil(t, summary)
	require.Equal(t, 0, checker.calls)

	require.Contains(t, db.teardownCalls, "n1")
	require.Contains(t, db.teardownCalls, "n2")
	require.Contains(t, osd.teardownCalls, "n1")
	require.Contains(t, osd.teardownCalls, "n2")

	for _, sess := range sessions {
		require.NotEmpty(t, sess.downloads, "emergency snarf should have downloaded a log from %s", sess.node)
	}
}

// Scenario 6: zero-node dry run still runs concurrency workers against nil
// nodes, with no OS/DB fan-out touching any host.
func TestRunZeroNodeDryRun(t *testing.T) {
	gen := newFakeGenerator().
		enqueue(history.Process(0), history.Op{F: "read"}).
		enqueue(history.Process(1), history.Op{F: "read"}).
		enqueue(history.Process(2), history.Op{F: "read"})

	client := newFakeClient(true)
	checker := &fakeChecker{}
	osd := &fakeOS{}
	db := &fakeDB{}
	sessions := map[string]*fakeSession{}

	cfg := &Config{
		Nodes:       nil,
		Concurrency: 3,
		OS:          osd,
		DB:          db,
		Client:      client,
		Nemesis:     &fakeNemesis{},
		Generator:   gen,
		Checker:     checker,
		Open:        sessionOpener(sessions),
	}

	summary, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 6, summary.Ops)
	require.Empty(t, osd.setupCalls)
	require.Empty(t, db.setupCalls)
}
