package kmeansviz

import (
	"log/slog"
	"time"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/hupe1980/kmeansviz/codec"
	"github.com/hupe1980/kmeansviz/compress"
	"github.com/hupe1980/kmeansviz/palette"
	"github.com/hupe1980/kmeansviz/render"
	"github.com/hupe1980/kmeansviz/resource"
)

type options struct {
	codec            codec.Codec
	compression      compress.Type
	metricsCollector MetricsCollector
	logger           *Logger
	store            blobstore.BlobStore
	renderers        []render.Renderer
	palette          *palette.Palette
	clock            func() time.Time
	rc               *resource.Controller
}

// Option configures a Pipeline or Load.
type Option func(*options)

// WithCodec configures the codec used for the manifest and the label set.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the compression of labels.bin. Default: compress.ZSTD.
func WithCompression(t compress.Type) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmeansviz.BasicMetricsCollector{}
//	p, _ := kmeansviz.New(cfg, kmeansviz.WithMetricsCollector(metrics))
//	// ... p.Run(ctx) ...
//	stats := metrics.GetStats()
//	fmt.Printf("Iterations: %d, label changes: %d\n", stats.IterationCount, stats.LabelChanges)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmeansviz.NewJSONLogger(slog.LevelInfo)
//	p, _ := kmeansviz.New(cfg, kmeansviz.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithStore writes every run as a set of artifacts under runs/<id>/ and
// commits LATEST. Without a store only the plot is written to Config.OutputPath.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRenderers replaces the plot renderers.
// Defaults: PNG without a store, PNG and HTML with a store.
func WithRenderers(renderers ...render.Renderer) Option {
	return func(o *options) {
		o.renderers = renderers
	}
}

// WithPalette sets the cluster colors. Default: palette.Default().
func WithPalette(p *palette.Palette) Option {
	return func(o *options) {
		o.palette = p
	}
}

// WithClock sets the time source used for run IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithResourceController throttles artifact writes: uploads hold a slot of
// rc and their bytes are charged to its IO budget.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      compress.ZSTD,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		palette:          palette.Default(),
		clock:            time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.palette == nil {
		o.palette = palette.Default()
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	if o.store != nil && o.rc != nil {
		o.store = blobstore.NewThrottledStore(o.store, o.rc)
	}
	if o.renderers == nil {
		o.renderers = []render.Renderer{render.NewPNG()}
		if o.store != nil {
			o.renderers = append(o.renderers, render.NewHTML())
		}
	}
	return o
}
