package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service. Each
// Metrics owns its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	window   *opWindow

	Submissions        *prometheus.CounterVec
	CompletedLinkViews prometheus.Counter
	StoreOps           *prometheus.CounterVec
	StoreLatency       *prometheus.HistogramVec
	RateLimited        prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		window:   newOpWindow(256),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Stored form submissions by role and reconciliation action.",
		}, []string{"role", "action"}),
		CompletedLinkViews: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completed_link_views_total",
			Help:      "Visits or submissions to links both participants already answered.",
		}),
		StoreOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Whole-table store operations by op and result.",
		}, []string{"op", "result"}),
		StoreLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_latency_ms",
			Help:      "Whole-table store operation latency in milliseconds.",
			Buckets:   []float64{5, 20, 50, 100, 250, 500, 1000, 2000, 5000},
		}, []string{"op"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Submissions rejected by the per-client rate limiter.",
		}),
	}
}

func (m *Metrics) ObserveSubmission(role, action string) {
	m.Submissions.WithLabelValues(role, action).Inc()
	m.window.CountAction(action)
}

func (m *Metrics) ObserveStoreOp(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ms := float64(d.Microseconds()) / 1000
	m.StoreOps.WithLabelValues(op, result).Inc()
	m.StoreLatency.WithLabelValues(op).Observe(ms)
	m.window.Observe(op, ms, err != nil)
}

// SnapshotStoreOps returns the rolling latency window used by /v1/perf/store.
func (m *Metrics) SnapshotStoreOps() OpSnapshot {
	return m.window.Snapshot()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
