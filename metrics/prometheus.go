package metrics

import (
	"time"

	"github.com/poiesic/seek"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seek"

// Query outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// PrometheusMonitor records query counts, latencies, and per-item
// degradation as Prometheus metrics.
type PrometheusMonitor struct {
	queries             *prometheus.CounterVec
	duration            prometheus.Histogram
	lockWait            prometheus.Histogram
	engineResults       prometheus.Counter
	items               prometheus.Counter
	skipped             prometheus.Counter
	metadataUnavailable *prometheus.CounterVec
}

var _ seek.QueryMonitor = (*PrometheusMonitor)(nil)

// NewPrometheusMonitor creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusMonitor(reg prometheus.Registerer) (*PrometheusMonitor, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMonitor{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of queries by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time from lock acquisition to the last materialized item",
			Buckets:   prometheus.DefBuckets,
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for the engine lock",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		engineResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_results_total",
			Help:      "Results reported by the engine for executed queries",
		}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_returned_total",
			Help:      "Items returned to callers",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_skipped_total",
			Help:      "Results dropped because their path or classification was unusable",
		}),
		metadataUnavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_unavailable_total",
			Help:      "Requested metadata fields the engine could not provide",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.queries, m.duration, m.lockWait, m.engineResults, m.items, m.skipped, m.metadataUnavailable,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMonitor) LockAcquired(_ uint64, wait time.Duration) {
	m.lockWait.Observe(wait.Seconds())
}

func (m *PrometheusMonitor) Start(_ uint64, _, _ uint32) {}

func (m *PrometheusMonitor) AfterExecute(resultCount uint32) {
	m.engineResults.Add(float64(resultCount))
}

func (m *PrometheusMonitor) ItemSkipped(_ uint32, _ error) {
	m.skipped.Inc()
}

func (m *PrometheusMonitor) MetadataUnavailable(_ uint32, _ string, kind seek.Metadata, _ error) {
	m.metadataUnavailable.WithLabelValues(kind.String()).Inc()
}

func (m *PrometheusMonitor) Finish(items []seek.Item, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.queries.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.items.Add(float64(len(items)))
}
