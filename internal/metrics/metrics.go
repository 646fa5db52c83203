// Package metrics implements a Prometheus-backed annidx.MetricsCollector,
// exporting build/query latencies and counters as histograms and counters
// that a scrape target can pull directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector records every annidx operation as Prometheus
// histograms (latency) and counters (outcome), under the "annidx_" name
// prefix. Register it with a prometheus.Registerer, or leave registerer nil
// to register against the default global registry.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	addResult *prometheus.CounterVec
	batchSize prometheus.Histogram
	reorders  *prometheus.CounterVec
}

// NewPrometheusCollector creates a PrometheusCollector and registers its
// metrics with registerer. A nil registerer registers against
// prometheus.DefaultRegisterer.
func NewPrometheusCollector(registerer prometheus.Registerer) *PrometheusCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "annidx_operation_latency_seconds",
			Help:    "Latency of index operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		addResult: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annidx_add_total",
			Help: "Total Add calls, by whether the node was wired into the graph.",
		}, []string{"wired"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "annidx_add_batch_size",
			Help:    "Size of AddBatch calls.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		}),
		reorders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annidx_reorder_total",
			Help: "Total reorder passes, by provider and outcome.",
		}, []string{"provider", "status"}),
	}

	registerer.MustRegister(c.opLatency, c.addResult, c.batchSize, c.reorders)
	return c
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordAdd implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordAdd(duration time.Duration, ok bool) {
	wired := "false"
	if ok {
		wired = "true"
	}
	c.opLatency.WithLabelValues("add", "ok").Observe(duration.Seconds())
	c.addResult.WithLabelValues(wired).Inc()
}

// RecordAddBatch implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordAddBatch(count, failed int, duration time.Duration) {
	status := "ok"
	if failed > 0 {
		status = "partial"
	}
	c.opLatency.WithLabelValues("add_batch", status).Observe(duration.Seconds())
	c.batchSize.Observe(float64(count))
}

// RecordSearch implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordSearch(k int, duration time.Duration, err error) {
	c.opLatency.WithLabelValues("search", statusOf(err)).Observe(duration.Seconds())
}

// RecordReorder implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordReorder(name string, duration time.Duration, err error) {
	c.opLatency.WithLabelValues("reorder", statusOf(err)).Observe(duration.Seconds())
	c.reorders.WithLabelValues(name, statusOf(err)).Inc()
}

// RecordSave implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordSave(duration time.Duration, err error) {
	c.opLatency.WithLabelValues("save", statusOf(err)).Observe(duration.Seconds())
}

// RecordLoad implements annidx.MetricsCollector.
func (c *PrometheusCollector) RecordLoad(duration time.Duration, err error) {
	c.opLatency.WithLabelValues("load", statusOf(err)).Observe(duration.Seconds())
}
