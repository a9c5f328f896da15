// Package metrics exposes the multiplication counters of a bigmul run in
// Prometheus format and samples the runtime memory statistics reported in
// the run summary.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so that several runs, or tests, never
// collide on the global one.
type Collector struct {
	registry        *prometheus.Registry
	multiplications *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	scratch         *prometheus.GaugeVec
	mismatches      prometheus.Counter
}

// NewCollector creates a Collector with the bigmul metrics and the Go
// runtime and process collectors registered.
//
// Returns:
//   - *Collector: A ready-to-use collector.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		multiplications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigmul_multiplications_total",
			Help: "The total number of multiplications performed",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bigmul_multiply_seconds",
			Help:    "The duration of multiplications in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"algorithm"}),
		scratch: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bigmul_scratch_limbs",
			Help: "Scratch limbs required by the last multiplication",
		}, []string{"algorithm"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigmul_mismatches_total",
			Help: "Products that disagreed with the reference",
		}),
	}
	reg.MustRegister(
		c.multiplications,
		c.duration,
		c.scratch,
		c.mismatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveMultiplication records one timed product.
//
// Parameters:
//   - algorithm: The algorithm label.
//   - d: The wall time of the product.
//   - scratchLimbs: The scratch the algorithm needed for these sizes.
func (c *Collector) ObserveMultiplication(algorithm string, d time.Duration, scratchLimbs int) {
	c.multiplications.WithLabelValues(algorithm).Inc()
	c.duration.WithLabelValues(algorithm).Observe(d.Seconds())
	c.scratch.WithLabelValues(algorithm).Set(float64(scratchLimbs))
}

// RecordMismatch counts a product that failed verification.
func (c *Collector) RecordMismatch() {
	c.mismatches.Inc()
}

// Mismatches returns the mismatch counter.
func (c *Collector) Mismatches() prometheus.Counter {
	return c.mismatches
}

// Registry returns the underlying registry, for gathering in tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics handler for this collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
