package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/annidx"
	"github.com/hupe1980/annidx/internal/metrics"
)

func TestPrometheusCollector_ImplementsMetricsCollector(t *testing.T) {
	var _ annidx.MetricsCollector = metrics.NewPrometheusCollector(prometheus.NewRegistry())
}

func TestPrometheusCollector_RecordAddDoesNotPanic(t *testing.T) {
	c := metrics.NewPrometheusCollector(prometheus.NewRegistry())
	assert.NotPanics(t, func() {
		c.RecordAdd(time.Millisecond, true)
		c.RecordAdd(time.Millisecond, false)
		c.RecordAddBatch(10, 2, time.Millisecond)
		c.RecordSearch(5, time.Millisecond, nil)
		c.RecordSearch(5, time.Millisecond, errors.New("boom"))
		c.RecordReorder("rcm", time.Millisecond, nil)
		c.RecordSave(time.Millisecond, nil)
		c.RecordLoad(time.Millisecond, nil)
	})
}
