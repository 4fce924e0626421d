package kmeansviz

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmeansviz/kmeans"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems.
// The metrics/prom package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordIteration is called after each k-means iteration.
	RecordIteration(it kmeans.Iteration)

	// RecordEmptyCluster is called once per empty cluster at update time.
	RecordEmptyCluster(cluster int)

	// RecordRun is called after each pipeline run.
	// points is the number of clustered points, err is nil if successful.
	RecordRun(points int, duration time.Duration, err error)

	// RecordExport is called after each artifact write.
	RecordExport(artifact string, size int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordIteration(kmeans.Iteration)               {}
func (NoopMetricsCollector) RecordEmptyCluster(int)                         {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordExport(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IterationCount      atomic.Int64
	LabelChanges        atomic.Int64
	IterationTotalNanos atomic.Int64
	EmptyClusters       atomic.Int64
	RunCount            atomic.Int64
	RunErrors           atomic.Int64
	RunPoints           atomic.Int64
	RunTotalNanos       atomic.Int64
	ExportCount         atomic.Int64
	ExportErrors        atomic.Int64
	ExportBytes         atomic.Int64
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(it kmeans.Iteration) {
	b.IterationCount.Add(1)
	b.LabelChanges.Add(int64(it.Changed))
	b.IterationTotalNanos.Add(it.Duration.Nanoseconds())
}

// RecordEmptyCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmptyCluster(int) {
	b.EmptyClusters.Add(1)
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(points int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.RunPoints.Add(int64(points))
}

// RecordExport implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExport(_ string, size int, _ time.Duration, err error) {
	b.ExportCount.Add(1)
	if err != nil {
		b.ExportErrors.Add(1)
		return
	}
	b.ExportBytes.Add(int64(size))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IterationCount:    b.IterationCount.Load(),
		LabelChanges:      b.LabelChanges.Load(),
		IterationAvgNanos: avg(b.IterationTotalNanos.Load(), b.IterationCount.Load()),
		EmptyClusters:     b.EmptyClusters.Load(),
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		RunPoints:         b.RunPoints.Load(),
		RunAvgNanos:       avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		ExportCount:       b.ExportCount.Load(),
		ExportErrors:      b.ExportErrors.Load(),
		ExportBytes:       b.ExportBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IterationCount    int64
	LabelChanges      int64
	IterationAvgNanos int64
	EmptyClusters     int64
	RunCount          int64
	RunErrors         int64
	RunPoints         int64
	RunAvgNanos       int64
	ExportCount       int64
	ExportErrors      int64
	ExportBytes       int64
}
