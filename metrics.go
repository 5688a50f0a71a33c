package wasmhost

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "wasmhost"

// Run outcomes.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeTrap    = "trap"
	outcomeError   = "error"
)

type metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	updates  prometheus.Counter
	compiles prometheus.Counter
}

// newMetrics creates the VM collectors and registers them with reg when it
// is not nil.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Guest runs by outcome.",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "guest_failures_total",
			Help:      "Negative guest exit codes by host function category.",
		}, []string{"category"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of guest runs, instantiation included.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "updates_committed_total",
			Help:      "Staged updates applied to the ledger.",
		}),
		compiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compiles_total",
			Help:      "Guest modules accepted by Compile.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.runs, m.failures, m.duration, m.updates, m.compiles} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe records one finished run.
func (m *metrics) observe(start time.Time, res *Result, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	var trap *RuntimeError
	switch {
	case errors.As(err, &trap):
		m.runs.WithLabelValues(outcomeTrap).Inc()
	case err != nil:
		m.runs.WithLabelValues(outcomeError).Inc()
	case !res.Success():
		m.runs.WithLabelValues(outcomeFailure).Inc()
		m.failures.WithLabelValues(res.Category.String()).Inc()
	default:
		m.runs.WithLabelValues(outcomeSuccess).Inc()
		if res.Updated {
			m.updates.Inc()
		}
	}
}
