package kmeansviz

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/kmeansviz/blobstore"
	"github.com/hupe1980/kmeansviz/compress"
	"github.com/hupe1980/kmeansviz/dataset"
	"github.com/hupe1980/kmeansviz/internal/hash"
	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/hupe1980/kmeansviz/model"
	"github.com/hupe1980/kmeansviz/render"
	"github.com/hupe1980/kmeansviz/synth"
	"golang.org/x/exp/rand"
)

// Pipeline synthesizes points, clusters them and exports the result.
// A Pipeline is safe for sequential reuse; every run starts from Config.Seed.
type Pipeline struct {
	cfg  Config
	opts options
}

// New validates cfg and creates a pipeline.
func New(cfg Config, optFns ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:  cfg,
		opts: applyOptions(optFns),
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run is the outcome of one pipeline run.
type Run struct {
	ID     string
	Points []model.Point
	// Components is nil when the points were supplied by the caller.
	Components []synth.Component
	Result     *kmeans.Result
	// Artifacts are the store names written, or local paths without a store.
	Artifacts []string
	CreatedAt time.Time
	Duration  time.Duration
}

// Run synthesizes Clusters x PointsPerCluster points, clusters them into
// Clusters groups and exports the plot.
func (p *Pipeline) Run(ctx context.Context) (*Run, error) {
	src := rand.NewSource(p.cfg.Seed)

	points, comps, err := synth.Generate(synth.Config{
		Clusters:         p.cfg.Clusters,
		PointsPerCluster: p.cfg.PointsPerCluster,
		Bounds:           p.cfg.Bounds,
	}, src)
	p.opts.logger.LogSynthesize(ctx, p.cfg.Clusters, len(points), err)
	if err != nil {
		return nil, translateError(err)
	}

	return p.run(ctx, points, comps, src)
}

// RunPoints clusters caller-supplied points, e.g. from dataset.ReadCSV, and
// exports the plot. The points are not copied.
func (p *Pipeline) RunPoints(ctx context.Context, points []model.Point) (*Run, error) {
	return p.run(ctx, points, nil, rand.NewSource(p.cfg.Seed))
}

func (p *Pipeline) run(ctx context.Context, points []model.Point, comps []synth.Component, src rand.Source) (*Run, error) {
	begin := time.Now()
	created := p.opts.clock().UTC()
	id := p.runID(created)
	log := p.opts.logger.WithRunID(id).WithK(p.cfg.Clusters)

	r, err := p.fit(ctx, log, id, points, comps, src)
	r.CreatedAt = created
	if err == nil {
		err = p.export(ctx, log, r)
	}
	r.Duration = time.Since(begin)

	p.opts.metricsCollector.RecordRun(len(points), r.Duration, err)
	if err != nil {
		log.LogRun(ctx, len(points), 0, 0, r.Duration, err)
		return nil, translateError(err)
	}
	log.LogRun(ctx, len(points), r.Result.Iterations(), r.Result.Inertia(), r.Duration, nil)
	return r, nil
}

func (p *Pipeline) fit(ctx context.Context, log *Logger, id string, points []model.Point, comps []synth.Component, src rand.Source) (*Run, error) {
	r := &Run{ID: id, Points: points, Components: comps}

	engine, err := kmeans.New(p.cfg.Clusters, p.cfg.engineOptions(), func(o *kmeans.Options) {
		o.Src = src
		o.Observer = p.observer(ctx, log)
	})
	if err != nil {
		return r, err
	}

	res, err := engine.Fit(ctx, points)
	if err != nil {
		return r, err
	}
	r.Result = res
	return r, nil
}

func (p *Pipeline) observer(ctx context.Context, log *Logger) kmeans.Observer {
	return func(it kmeans.Iteration) {
		p.opts.metricsCollector.RecordIteration(it)
		log.LogIteration(ctx, it)
		for _, c := range it.Empty {
			p.opts.metricsCollector.RecordEmptyCluster(c)
			log.LogEmptyCluster(ctx, it.Index, c, p.cfg.Empty)
		}
	}
}

// runID is the UTC creation time with millisecond precision followed by the seed.
func (p *Pipeline) runID(created time.Time) string {
	return created.Format("20060102T150405.000Z") + "-" + strconv.FormatUint(p.cfg.Seed, 10)
}

// Plot builds the scatter plot of a finished run.
func (p *Pipeline) Plot(r *Run) render.Plot {
	return render.FromGroups(p.cfg.Title, p.cfg.Bounds, r.Result.Groups(), r.Result.Centroids, p.opts.palette)
}

func (p *Pipeline) export(ctx context.Context, log *Logger, r *Run) error {
	if p.opts.store == nil {
		return p.exportLocal(ctx, log, r)
	}
	return p.exportRun(ctx, log, r)
}

// exportLocal writes one plot per renderer next to Config.OutputPath.
func (p *Pipeline) exportLocal(ctx context.Context, log *Logger, r *Run) error {
	out := p.cfg.OutputPath
	if out == "" {
		out = DefaultOutputPath
	}
	dir, base := filepath.Split(out)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	store := blobstore.NewLocalStore(dir)
	plot := p.Plot(r)

	for _, rd := range p.opts.renderers {
		name := stem + rd.Extension()
		if rd.Extension() == ext {
			name = base
		}

		data, err := renderBytes(rd, plot)
		if err != nil {
			return err
		}
		if err := p.put(ctx, log, store, name, data, false); err != nil {
			return err
		}
		r.Artifacts = append(r.Artifacts, filepath.Join(dir, name))
	}
	return nil
}

type artifact struct {
	name string
	data []byte
}

// exportRun writes the run directory and then commits LATEST.
// The manifest is written first with a conditional put, so it claims the run ID.
func (p *Pipeline) exportRun(ctx context.Context, log *Logger, r *Run) error {
	var arts []artifact

	plot := p.Plot(r)
	for _, rd := range p.opts.renderers {
		data, err := renderBytes(rd, plot)
		if err != nil {
			return err
		}
		arts = append(arts, artifact{name: PlotBaseName + rd.Extension(), data: data})
	}

	var csv bytes.Buffer
	if err := dataset.WriteCSV(&csv, r.Points, r.Result.Labels); err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	arts = append(arts, artifact{name: PointsName, data: csv.Bytes()})

	enc, err := p.opts.codec.Marshal(r.Result.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	block, err := compress.Compress(enc, p.opts.compression)
	if err != nil {
		return fmt.Errorf("compress labels: %w", err)
	}
	arts = append(arts, artifact{name: LabelsName, data: block})

	names := make([]string, 0, len(arts)+1)
	names = append(names, ManifestName)
	for _, a := range arts {
		names = append(names, a.name)
	}

	m := Manifest{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		Config:       p.cfg,
		Codec:        p.opts.codec.Name(),
		Compression:  p.opts.compression,
		LabelsCRC32C: hash.CRC32C(block),
		Points:       len(r.Points),
		Components:   r.Components,
		Centroids:    r.Result.Centroids,
		History:      r.Result.History,
		Summaries:    r.Result.Summaries(),
		Inertia:      r.Result.Inertia(),
		Artifacts:    names,
	}
	mdata, err := p.opts.codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := p.put(ctx, log, p.opts.store, RunPath(r.ID, ManifestName), mdata, true); err != nil {
		return err
	}
	r.Artifacts = append(r.Artifacts, RunPath(r.ID, ManifestName))

	for _, a := range arts {
		name := RunPath(r.ID, a.name)
		if err := p.put(ctx, log, p.opts.store, name, a.data, false); err != nil {
			p.rollback(ctx, log, r)
			return err
		}
		r.Artifacts = append(r.Artifacts, name)
	}

	if err := p.put(ctx, log, p.opts.store, LatestName, []byte(r.ID), false); err != nil {
		p.rollback(ctx, log, r)
		return err
	}
	return nil
}

// rollback deletes the artifacts of a run that failed to export, newest first,
// so the manifest claim goes last and the ID can be reused.
func (p *Pipeline) rollback(ctx context.Context, log *Logger, r *Run) {
	ctx = context.WithoutCancel(ctx)
	for i := len(r.Artifacts) - 1; i >= 0; i-- {
		if err := p.opts.store.Delete(ctx, r.Artifacts[i]); err != nil {
			log.WarnContext(ctx, "rollback failed", "artifact", r.Artifacts[i], "error", err)
		}
	}
	r.Artifacts = nil
}

func (p *Pipeline) put(ctx context.Context, log *Logger, store blobstore.BlobStore, name string, data []byte, exclusive bool) error {
	begin := time.Now()

	var err error
	if exclusive {
		err = blobstore.PutIfNotExists(ctx, store, name, data)
	} else {
		err = store.Put(ctx, name, data)
	}

	p.opts.metricsCollector.RecordExport(name, len(data), time.Since(begin), err)
	log.LogExport(ctx, name, len(data), err)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func renderBytes(rd render.Renderer, plot render.Plot) ([]byte, error) {
	var buf bytes.Buffer
	if err := rd.Render(&buf, plot); err != nil {
		return nil, fmt.Errorf("render %s: %w", rd.Extension(), err)
	}
	return buf.Bytes(), nil
}
