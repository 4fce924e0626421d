package kmeansviz

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordIteration(kmeans.Iteration{Changed: 10, Duration: 2 * time.Millisecond})
	m.RecordIteration(kmeans.Iteration{Changed: 2, Duration: 4 * time.Millisecond})
	m.RecordEmptyCluster(1)
	m.RecordRun(120, time.Second, nil)
	m.RecordRun(0, time.Second, errors.New("boom"))
	m.RecordExport("a", 100, time.Millisecond, nil)
	m.RecordExport("b", 50, time.Millisecond, errors.New("boom"))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.IterationCount)
	assert.Equal(t, int64(12), stats.LabelChanges)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.IterationAvgNanos)
	assert.Equal(t, int64(1), stats.EmptyClusters)
	assert.Equal(t, int64(2), stats.RunCount)
	assert.Equal(t, int64(1), stats.RunErrors)
	assert.Equal(t, int64(120), stats.RunPoints)
	assert.Equal(t, time.Second.Nanoseconds(), stats.RunAvgNanos)
	assert.Equal(t, int64(2), stats.ExportCount)
	assert.Equal(t, int64(1), stats.ExportErrors)
	assert.Equal(t, int64(100), stats.ExportBytes)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.IterationAvgNanos)
	assert.Zero(t, stats.RunAvgNanos)
}
