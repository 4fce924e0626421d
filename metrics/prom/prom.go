// Package prom exports pipeline metrics to Prometheus.
//
//	c, err := prom.New(prometheus.DefaultRegisterer)
//	p, _ := kmeansviz.New(cfg, kmeansviz.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.Handler())
package prom

import (
	"path"
	"strconv"
	"time"

	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/prometheus/client_golang/prometheus"
)

// Options configures the collector.
type Options struct {
	// Namespace prefixes every metric name. Default: "kmeansviz".
	Namespace string
	// Buckets are the duration histogram buckets. Default: prometheus.DefBuckets.
	Buckets []float64
}

// Collector implements kmeansviz.MetricsCollector.
type Collector struct {
	iterations        prometheus.Counter
	labelChanges      prometheus.Counter
	iterationDuration prometheus.Histogram
	inertia           prometheus.Gauge
	emptyClusters     *prometheus.CounterVec
	runs              *prometheus.CounterVec
	runDuration       prometheus.Histogram
	runPoints         prometheus.Gauge
	exports           *prometheus.CounterVec
	exportBytes       *prometheus.CounterVec
	exportDuration    *prometheus.HistogramVec
}

// New creates a collector and registers its metrics with reg.
func New(reg prometheus.Registerer, optFns ...func(o *Options)) (*Collector, error) {
	opts := Options{
		Namespace: "kmeansviz",
		Buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ns := opts.Namespace
	c := &Collector{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "iterations_total",
			Help:      "Total k-means iterations run",
		}),
		labelChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "label_changes_total",
			Help:      "Total point label changes across assignment passes",
		}),
		iterationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "iteration_duration_seconds",
			Help:      "Duration of one assignment and update round",
			Buckets:   opts.Buckets,
		}),
		inertia: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "inertia",
			Help:      "Summed squared distance to assigned centroids after the last iteration",
		}),
		emptyClusters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "empty_clusters_total",
			Help:      "Clusters that had no points at update time",
		}, []string{"cluster"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs including export",
			Buckets:   opts.Buckets,
		}),
		runPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "run_points",
			Help:      "Number of points clustered by the last successful run",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "exports_total",
			Help:      "Artifact writes by artifact and outcome",
		}, []string{"artifact", "status"}),
		exportBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "export_bytes_total",
			Help:      "Bytes written per artifact",
		}, []string{"artifact"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "export_duration_seconds",
			Help:      "Duration of artifact writes",
			Buckets:   opts.Buckets,
		}, []string{"artifact"}),
	}

	for _, m := range []prometheus.Collector{
		c.iterations, c.labelChanges, c.iterationDuration, c.inertia, c.emptyClusters,
		c.runs, c.runDuration, c.runPoints, c.exports, c.exportBytes, c.exportDuration,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics if registration fails.
func MustNew(reg prometheus.Registerer, optFns ...func(o *Options)) *Collector {
	c, err := New(reg, optFns...)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordIteration implements kmeansviz.MetricsCollector.
func (c *Collector) RecordIteration(it kmeans.Iteration) {
	c.iterations.Inc()
	c.labelChanges.Add(float64(it.Changed))
	c.iterationDuration.Observe(it.Duration.Seconds())
	c.inertia.Set(it.Inertia)
}

// RecordEmptyCluster implements kmeansviz.MetricsCollector.
func (c *Collector) RecordEmptyCluster(cluster int) {
	c.emptyClusters.WithLabelValues(strconv.Itoa(cluster)).Inc()
}

// RecordRun implements kmeansviz.MetricsCollector.
func (c *Collector) RecordRun(points int, d time.Duration, err error) {
	c.runs.WithLabelValues(status(err)).Inc()
	c.runDuration.Observe(d.Seconds())
	if err == nil {
		c.runPoints.Set(float64(points))
	}
}

// RecordExport implements kmeansviz.MetricsCollector.
// The artifact label is the base name, so run IDs do not leak into label values.
func (c *Collector) RecordExport(artifact string, size int, d time.Duration, err error) {
	name := path.Base(artifact)
	c.exports.WithLabelValues(name, status(err)).Inc()
	c.exportDuration.WithLabelValues(name).Observe(d.Seconds())
	if err == nil {
		c.exportBytes.WithLabelValues(name).Add(float64(size))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
