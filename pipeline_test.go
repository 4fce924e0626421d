package kmeansviz

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/hupe1980/kmeansviz/codec"
	"github.com/hupe1980/kmeansviz/compress"
	"github.com/hupe1980/kmeansviz/internal/fs"
	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/hupe1980/kmeansviz/model"
	"github.com/hupe1980/kmeansviz/render"
	"github.com/hupe1980/kmeansviz/resource"
	"github.com/hupe1980/kmeansviz/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestPipeline_Run_LocalOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "KMeans.png")

	p, err := New(cfg)
	require.NoError(t, err)

	run, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, run.Points, 120)
	assert.Len(t, run.Components, 4)
	assert.Equal(t, 20, run.Result.Iterations())
	assert.True(t, run.Result.Labels.Complete(4))
	assert.Equal(t, []string{cfg.OutputPath}, run.Artifacts)

	f, err := os.Open(cfg.OutputPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 700, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestPipeline_Run_LocalOutputExtraRenderers(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputPath = filepath.Join(dir, "plot.png")

	p, err := New(cfg, WithRenderers(render.NewPNG(), render.NewHTML()))
	require.NoError(t, err)

	run, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "plot.png"), filepath.Join(dir, "plot.html")}, run.Artifacts)

	html, err := os.ReadFile(filepath.Join(dir, "plot.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "cluster0")
}

func TestPipeline_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Workers = 4

	runOnce := func() *Run {
		p, err := New(cfg, WithStore(blobstore.NewMemoryStore()))
		require.NoError(t, err)
		run, err := p.Run(context.Background())
		require.NoError(t, err)
		return run
	}

	a, b := runOnce(), runOnce()
	assert.Equal(t, a.Points, b.Points)
	assert.Equal(t, a.Result.Labels, b.Result.Labels)
	assert.Equal(t, a.Result.Centroids, b.Result.Centroids)
}

func TestPipeline_Run_Store(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	metrics := &BasicMetricsCollector{}

	cfg := DefaultConfig()
	p, err := New(cfg,
		WithStore(store),
		WithMetricsCollector(metrics),
		WithClock(fixedClock("2026-01-02T03:04:05Z")),
	)
	require.NoError(t, err)

	run, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260102T030405.000Z-1", run.ID)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LATEST",
		"runs/20260102T030405.000Z-1/KMeans.html",
		"runs/20260102T030405.000Z-1/KMeans.png",
		"runs/20260102T030405.000Z-1/labels.bin",
		"runs/20260102T030405.000Z-1/manifest.json",
		"runs/20260102T030405.000Z-1/points.csv",
	}, names)

	latest, err := blobstore.ReadAll(ctx, store, LatestName)
	require.NoError(t, err)
	assert.Equal(t, run.ID, string(latest))

	stats := metrics.GetStats()
	assert.Equal(t, int64(20), stats.IterationCount)
	assert.Equal(t, int64(1), stats.RunCount)
	assert.Equal(t, int64(120), stats.RunPoints)
	assert.Equal(t, int64(6), stats.ExportCount)
	assert.Zero(t, stats.ExportErrors)

	stored, err := LoadLatest(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.Manifest.ID)
	assert.Equal(t, cfg, stored.Manifest.Config)
	assert.Equal(t, run.Points, stored.Points)
	assert.Equal(t, run.Result.Labels, stored.Labels)
	assert.Len(t, stored.Manifest.History, 20)
	assert.Len(t, stored.Manifest.Components, 4)
	assert.Len(t, stored.Manifest.Summaries, 4)
	assert.Equal(t, compress.ZSTD, stored.Manifest.Compression)
	assert.Equal(t, codec.Default.Name(), stored.Manifest.Codec)
	assert.InDelta(t, run.Result.Inertia(), stored.Manifest.Inertia, 1e-9)
	for c := range run.Result.Centroids {
		assert.InDelta(t, run.Result.Centroids[c].X, stored.Manifest.Centroids[c].X, 1e-9)
		assert.InDelta(t, run.Result.Centroids[c].Y, stored.Manifest.Centroids[c].Y, 1e-9)
	}

	groups := stored.Groups()
	for c, g := range run.Result.Groups() {
		assert.Equal(t, g, groups[c])
	}
}

func TestPipeline_Run_Conflict(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	p, err := New(DefaultConfig(), WithStore(store), WithClock(fixedClock("2026-01-02T03:04:05Z")))
	require.NoError(t, err)

	_, err = p.Run(ctx)
	require.NoError(t, err)

	_, err = p.Run(ctx)
	assert.ErrorIs(t, err, ErrRunExists)
}

func TestPipeline_LocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())

	cfg := DefaultConfig()
	cfg.Seed = 7

	p, err := New(cfg,
		WithStore(store),
		WithCodec(codec.JSON{}),
		WithCompression(compress.LZ4),
		WithClock(fixedClock("2026-01-02T03:04:05Z")),
	)
	require.NoError(t, err)

	run, err := p.Run(ctx)
	require.NoError(t, err)

	stored, err := Load(ctx, store, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "json", stored.Manifest.Codec)
	assert.Equal(t, compress.LZ4, stored.Manifest.Compression)
	assert.Equal(t, run.Result.Labels, stored.Labels)

	ids, err := ListRuns(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{run.ID}, ids)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	for _, seed := range []uint64{3, 1, 2} {
		cfg := DefaultConfig()
		cfg.Seed = seed
		p, err := New(cfg, WithStore(store), WithClock(fixedClock("2026-01-02T03:04:05Z")))
		require.NoError(t, err)
		_, err = p.Run(ctx)
		require.NoError(t, err)
	}

	ids, err := ListRuns(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260102T030405.000Z-1",
		"20260102T030405.000Z-2",
		"20260102T030405.000Z-3",
	}, ids)

	latest, err := LoadLatest(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "20260102T030405.000Z-2", latest.Manifest.ID)
}

func TestLoad_NotFound(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Load(ctx, store, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LoadLatest(ctx, store)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPipeline_RunPoints(t *testing.T) {
	rng := testutil.NewRNG(4711)
	points, truth := rng.Blobs(testutil.CornerCenters(6), 25, 0.5)

	cfg := DefaultConfig()
	cfg.Init = kmeans.InitDistinct
	p, err := New(cfg, WithStore(blobstore.NewMemoryStore()))
	require.NoError(t, err)

	run, err := p.RunPoints(context.Background(), points)
	require.NoError(t, err)

	assert.Nil(t, run.Components)
	assert.Len(t, run.Result.Labels, len(truth))
	assert.True(t, run.Result.Labels.Complete(4))

	means, counts := kmeans.Centroids(run.Points, run.Result.Labels, 4)
	for c := range means {
		if counts[c] > 0 {
			assert.InDelta(t, means[c].X, run.Result.Centroids[c].X, 1e-9)
			assert.InDelta(t, means[c].Y, run.Result.Centroids[c].Y, 1e-9)
		}
	}
}

func TestPipeline_EmptyClusters(t *testing.T) {
	points := make([]model.Point, 10)
	for i := range points {
		points[i] = model.Pt(1, 1)
	}

	metrics := &BasicMetricsCollector{}
	var logs bytes.Buffer

	cfg := DefaultConfig()
	cfg.Clusters = 3
	cfg.Iterations = 5
	p, err := New(cfg,
		WithStore(blobstore.NewMemoryStore()),
		WithMetricsCollector(metrics),
		WithLogger(NewLogger(newJSONHandler(&logs))),
	)
	require.NoError(t, err)

	run, err := p.RunPoints(context.Background(), points)
	require.NoError(t, err)

	// Every point ties with every centroid, so all of them go to cluster 0.
	assert.Equal(t, model.Labels{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, run.Result.Labels)
	assert.Equal(t, int64(10), metrics.GetStats().EmptyClusters)
	assert.Contains(t, logs.String(), `"msg":"empty cluster"`)
}

func TestPipeline_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyDataset", func(t *testing.T) {
		p, err := New(DefaultConfig(), WithStore(blobstore.NewMemoryStore()))
		require.NoError(t, err)
		_, err = p.RunPoints(ctx, nil)
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("TooFewPoints", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Init = kmeans.InitDistinct
		p, err := New(cfg, WithStore(blobstore.NewMemoryStore()))
		require.NoError(t, err)
		_, err = p.RunPoints(ctx, []model.Point{model.Pt(0, 0), model.Pt(1, 1)})
		assert.ErrorIs(t, err, ErrTooFewPoints)
	})

	t.Run("FewerPointsThanClustersWithReplacement", func(t *testing.T) {
		p, err := New(DefaultConfig(), WithStore(blobstore.NewMemoryStore()))
		require.NoError(t, err)
		run, err := p.RunPoints(ctx, []model.Point{model.Pt(0, 0), model.Pt(1, 1)})
		require.NoError(t, err)
		assert.True(t, run.Result.Labels.Complete(4))
	})

	t.Run("Canceled", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		p, err := New(DefaultConfig(), WithStore(blobstore.NewMemoryStore()), WithMetricsCollector(metrics))
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = p.Run(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int64(1), metrics.GetStats().RunErrors)
	})
}

func TestPipeline_ResourceController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentUploads: 1})
	store := blobstore.NewMemoryStore()

	p, err := New(DefaultConfig(), WithStore(store), WithResourceController(rc))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	var total int64
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	for _, name := range names {
		data, err := blobstore.ReadAll(context.Background(), store, name)
		require.NoError(t, err)
		total += int64(len(data))
	}
	assert.Equal(t, total, rc.IOBytes())
	assert.Zero(t, rc.InFlight())
}

func TestLoad_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	p, err := New(DefaultConfig(), WithStore(store))
	require.NoError(t, err)
	run, err := p.Run(ctx)
	require.NoError(t, err)

	name := RunPath(run.ID, LabelsName)
	block, err := blobstore.ReadAll(ctx, store, name)
	require.NoError(t, err)
	block[len(block)-1] ^= 0xff
	require.NoError(t, store.Put(ctx, name, block))

	_, err = Load(ctx, store, run.ID)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestPipeline_ExportFailure(t *testing.T) {
	ctx := context.Background()
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("KMeans.png", fs.Fault{FailOnSync: true})
	store := blobstore.NewLocalStoreFS(t.TempDir(), ffs)

	metrics := &BasicMetricsCollector{}
	p, err := New(DefaultConfig(), WithStore(store), WithMetricsCollector(metrics),
		WithClock(fixedClock("2026-01-02T03:04:05Z")))
	require.NoError(t, err)

	_, err = p.Run(ctx)
	require.ErrorIs(t, err, fs.ErrInjected)
	assert.Contains(t, err.Error(), "KMeans.png")

	// LATEST is committed last, so a failed run is never published.
	_, err = LoadLatest(ctx, store)
	assert.ErrorIs(t, err, ErrNotFound)

	// The manifest claim is rolled back with the other artifacts.
	ids, err := ListRuns(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, ids)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.RunErrors)
	assert.Equal(t, int64(1), stats.ExportErrors)

	// Once the fault is gone the same run ID can be claimed again.
	ffs.AddRule("KMeans.png", fs.Fault{})
	run, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "20260102T030405.000Z-1", run.ID)

	stored, err := LoadLatest(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.Manifest.ID)
}
