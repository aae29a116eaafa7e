package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private prometheus.Registry and the metrics the
// orchestrator core reports into: op outcome counts, op latency, nemesis
// event outcomes, and how many histories are currently active.
type Recorder struct {
	registry *prometheus.Registry

	opsTotal        *prometheus.CounterVec
	opLatency       prometheus.Histogram
	nemesisEvents   *prometheus.CounterVec
	activeHistories prometheus.Gauge
}

// NewRecorder builds a Recorder with its own registry, so independent test
// runs in the same process never collide on duplicate metric names.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jepsen_ops_total",
			Help: "Total operations completed, by outcome type and whether the outcome came from a client throw.",
		}, []string{"type", "from_throw"}),
		opLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jepsen_op_latency_seconds",
			Help:    "Elapsed time between an operation's invocation and completion.",
			Buckets: prometheus.DefBuckets,
		}),
		nemesisEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jepsen_nemesis_events_total",
			Help: "Total nemesis operations, by outcome.",
		}, []string{"outcome"}),
		activeHistories: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jepsen_active_histories",
			Help: "Number of histories currently receiving nemesis writes.",
		}),
	}
	r.registry.MustRegister(r.opsTotal, r.opLatency, r.nemesisEvents, r.activeHistories)
	return r
}

// ObserveOp records one completed operation outcome.
func (r *Recorder) ObserveOp(outcomeType string, fromThrow bool) {
	r.opsTotal.WithLabelValues(outcomeType, boolLabel(fromThrow)).Inc()
}

// ObserveOpLatency records the seconds elapsed for one operation.
func (r *Recorder) ObserveOpLatency(d time.Duration) {
	r.opLatency.Observe(d.Seconds())
}

// ObserveNemesisEvent records one nemesis invocation outcome: "ok", "crashed".
func (r *Recorder) ObserveNemesisEvent(outcome string) {
	r.nemesisEvents.WithLabelValues(outcome).Inc()
}

// SetActiveHistories reports the current size of the active-histories set.
func (r *Recorder) SetActiveHistories(n int) {
	r.activeHistories.Set(float64(n))
}

// Handler exposes this Recorder's metrics in Prometheus text format, for an
// operator's own /metrics endpoint wiring; exposition belongs to the CLI
// layer, not the orchestration core.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
