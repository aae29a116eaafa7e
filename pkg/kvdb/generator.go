package kvdb

import (
	"context"
	"math/rand"
	"sync"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
)

// RegisterGenerator is a minimal reference orchestrator.Generator driving
// a mix of reads, writes, and CAS operations over a fixed key set. It
// exists so cmd/warren-jepsen and the integration tests have something
// concrete to run against pkg/kvdb; real workloads plug in their own
// Generator.
type RegisterGenerator struct {
	Keys  []string
	Limit int // ops per process; 0 means unlimited (caller's ctx must end the run)

	mu     sync.Mutex
	counts map[history.Process]int
	rng    *rand.Rand
}

var _ orchestrator.Generator = (*RegisterGenerator)(nil)

// NewRegisterGenerator returns a generator drawing keys at random from keys,
// handing out up to limit operations per worker process and none to the
// nemesis; this reference generator drives no fault injection itself.
func NewRegisterGenerator(keys []string, limit int, seed int64) *RegisterGenerator {
	return &RegisterGenerator{
		Keys:   keys,
		Limit:  limit,
		counts: make(map[history.Process]int),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns end-of-stream (ok=false) for history.Nemesis unconditionally,
// and for any worker process once it has received Limit operations.
// Otherwise it returns a read (50%), write (30%), or CAS (20%) op against
// a uniformly-chosen key.
func (g *RegisterGenerator) Next(_ context.Context, _ *orchestrator.Config, proc history.Process) (history.Op, bool) {
	if proc == history.Nemesis || len(g.Keys) == 0 {
		return history.Op{}, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Limit > 0 && g.counts[proc] >= g.Limit {
		return history.Op{}, false
	}
	g.counts[proc]++

	key := g.Keys[g.rng.Intn(len(g.Keys))]
	roll := g.rng.Intn(100)

	var reg RegisterOp
	switch {
	case roll < 50:
		reg = RegisterOp{Kind: KindRead, Key: key}
	case roll < 80:
		reg = RegisterOp{Kind: KindWrite, Key: key, Value: g.rng.Intn(100)}
	default:
		reg = RegisterOp{Kind: KindCAS, Key: key, From: g.rng.Intn(100), Value: g.rng.Intn(100)}
	}

	return history.Op{F: string(reg.Kind), Value: reg}, true
}
