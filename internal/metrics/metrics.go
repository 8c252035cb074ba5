// Package metrics instruments the generation engine with Prometheus
// collectors: attempt/timeout/infeasible counters, a per-attempt solver
// duration histogram, and a diversity-underfill gauge.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every metric the engine emits. Its methods are safe
// to call on a nil *Collectors, which records nothing; engine.New accepts
// nil for that reason.
type Collectors struct {
	attempts       *prometheus.CounterVec
	attemptLatency prometheus.Histogram
	diversityGauge prometheus.Gauge
}

// New creates and registers a fresh set of collectors on reg. Passing a
// fresh registry (rather than prometheus.DefaultRegisterer) per-instance
// keeps tests free of global registration conflicts.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "k11_scheduler",
			Subsystem: "engine",
			Name:      "attempts_total",
			Help:      "Solver attempts by outcome (optimal, timeout, infeasible).",
		}, []string{"outcome"}),
		attemptLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "k11_scheduler",
			Subsystem: "engine",
			Name:      "attempt_duration_seconds",
			Help:      "Wall-clock duration of one solver attempt.",
			Buckets:   prometheus.DefBuckets,
		}),
		diversityGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "k11_scheduler",
			Subsystem: "engine",
			Name:      "diversity_underfill",
			Help:      "numOptions minus the number of candidates that survived the diversity filter on the last run.",
		}),
	}
	reg.MustRegister(c.attempts, c.attemptLatency, c.diversityGauge)
	return c
}

// ObserveAttempt records one attempt's outcome and duration.
func (c *Collectors) ObserveAttempt(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(outcome).Inc()
	c.attemptLatency.Observe(d.Seconds())
}

// SetDiversityUnderfill records how far short of numOptions the last run
// landed after the diversity filter.
func (c *Collectors) SetDiversityUnderfill(n int) {
	if c == nil {
		return
	}
	c.diversityGauge.Set(float64(n))
}
