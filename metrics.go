package annidx

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives a callback after every operation that touches
// the graph. Implement this to forward counts and latencies to an external
// monitoring system.
type MetricsCollector interface {
	// RecordAdd is called after each single-vector insertion.
	// ok reports whether Add actually wired the node in (see Index.Add).
	RecordAdd(duration time.Duration, ok bool)

	// RecordAddBatch is called after a batch insertion. count is the
	// number of vectors attempted, failed is how many of those Add
	// reported as not wired in.
	RecordAddBatch(count, failed int, duration time.Duration)

	// RecordSearch is called after each query. k is the number of
	// neighbors requested.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordReorder is called after ReorderGorder or ReorderRCM.
	RecordReorder(name string, duration time.Duration, err error)

	// RecordSave and RecordLoad are called after persistence operations.
	RecordSave(duration time.Duration, err error)
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector discards every recorded measurement.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(time.Duration, bool)              {}
func (NoopMetricsCollector) RecordAddBatch(int, int, time.Duration)     {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)     {}
func (NoopMetricsCollector) RecordReorder(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)            {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)            {}

// BasicMetricsCollector accumulates counts and total latencies in plain
// atomic counters, with no external dependency.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddRejected     atomic.Int64
	AddTotalNanos   atomic.Int64
	BatchCount      atomic.Int64
	BatchItems      atomic.Int64
	BatchFailed     atomic.Int64
	SearchCount     atomic.Int64
	SearchErrors    atomic.Int64
	SearchTotalNanos atomic.Int64
	ReorderCount    atomic.Int64
	ReorderErrors   atomic.Int64
	SaveCount       atomic.Int64
	LoadCount       atomic.Int64
}

func (b *BasicMetricsCollector) RecordAdd(duration time.Duration, ok bool) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.AddRejected.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordAddBatch(count, failed int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

func (b *BasicMetricsCollector) RecordSearch(k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordReorder(name string, duration time.Duration, err error) {
	b.ReorderCount.Add(1)
	if err != nil {
		b.ReorderErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
}

func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
}

// BasicMetricsStats is a point-in-time snapshot of a BasicMetricsCollector.
type BasicMetricsStats struct {
	AddCount      int64
	AddRejected   int64
	AddAvgNanos   int64
	BatchCount    int64
	BatchItems    int64
	BatchFailed   int64
	SearchCount   int64
	SearchErrors  int64
	SearchAvgNanos int64
	ReorderCount  int64
	ReorderErrors int64
	SaveCount     int64
	LoadCount     int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:       b.AddCount.Load(),
		AddRejected:    b.AddRejected.Load(),
		AddAvgNanos:    b.avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchItems:     b.BatchItems.Load(),
		BatchFailed:    b.BatchFailed.Load(),
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: b.avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		ReorderCount:   b.ReorderCount.Load(),
		ReorderErrors:  b.ReorderErrors.Load(),
		SaveCount:      b.SaveCount.Load(),
		LoadCount:      b.LoadCount.Load(),
	}
}

func (b *BasicMetricsCollector) avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
