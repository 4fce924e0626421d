package kmeans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/kmeansviz/distance"
	"github.com/hupe1980/kmeansviz/internal/conv"
	"github.com/hupe1980/kmeansviz/model"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("kmeans: k must be positive")
	// ErrEmptyDataset is returned when there are no points to cluster.
	ErrEmptyDataset = errors.New("kmeans: dataset is empty")
	// ErrTooFewPoints is returned by InitDistinct when there are fewer points than clusters.
	ErrTooFewPoints = errors.New("kmeans: fewer points than clusters")
	// ErrInvalidIterations is returned when the iteration count is below one.
	ErrInvalidIterations = errors.New("kmeans: iterations must be at least 1")
	// ErrNonFinitePoint is returned when an input point has a NaN or infinite coordinate.
	ErrNonFinitePoint = errors.New("kmeans: point has non-finite coordinate")
)

// Engine partitions 2D points into k clusters.
// An Engine is not safe for concurrent use; its random source is shared by all calls.
type Engine struct {
	k    int
	opts Options
	dist distance.Func
	rng  *rand.Rand
}

// New creates an engine for k clusters.
func New(k int, optFns ...func(o *Options)) (*Engine, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Iterations < 1 {
		return nil, ErrInvalidIterations
	}

	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	src := opts.Src
	if src == nil {
		src = rand.NewSource(1)
	}

	return &Engine{
		k:    k,
		opts: opts,
		dist: dist,
		rng:  rand.New(src),
	}, nil
}

// K returns the number of clusters.
func (e *Engine) K() int {
	return e.k
}

// Options returns the effective engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// State is the mutable clustering state of one run.
//
// Labels is the stable assigned view. The candidate slice is scratch space
// that only lives for the duration of one assignment pass.
type State struct {
	Points    []model.Point
	Centroids []model.Point
	Labels    model.Labels

	candidates []model.Candidate
}

// Init validates the input and draws the initial centroids.
// Points are not copied and must not be modified while the state is in use.
func (e *Engine) Init(points []model.Point) (*State, error) {
	if err := checkPoints(points); err != nil {
		return nil, err
	}
	n := len(points)

	centroids := make([]model.Point, e.k)
	switch e.opts.Init {
	case InitDistinct:
		if n < e.k {
			return nil, ErrTooFewPoints
		}
		perm := e.rng.Perm(n)
		for c := range centroids {
			centroids[c] = points[perm[c]]
		}
	default:
		for c := range centroids {
			centroids[c] = points[e.rng.Intn(n)]
		}
	}

	return &State{
		Points:     points,
		Centroids:  centroids,
		Labels:     model.NewLabels(n),
		candidates: make([]model.Candidate, n),
	}, nil
}

// InitWith starts a run from caller-provided centroids instead of sampling them.
// len(centroids) must equal K. The centroids are copied.
func (e *Engine) InitWith(points, centroids []model.Point) (*State, error) {
	if err := checkPoints(points); err != nil {
		return nil, err
	}
	if len(centroids) != e.k {
		return nil, fmt.Errorf("%w: got %d centroids for k=%d", ErrInvalidK, len(centroids), e.k)
	}
	for c, p := range centroids {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: centroid %d", ErrNonFinitePoint, c)
		}
	}

	return &State{
		Points:     points,
		Centroids:  append([]model.Point(nil), centroids...),
		Labels:     model.NewLabels(len(points)),
		candidates: make([]model.Candidate, len(points)),
	}, nil
}

// checkPoints rejects empty input, point counts beyond the uint32 index range
// used by Result.Members, and non-finite coordinates.
func checkPoints(points []model.Point) error {
	n := len(points)
	if n == 0 {
		return ErrEmptyDataset
	}
	if _, err := conv.IntToUint32(n); err != nil {
		return fmt.Errorf("kmeans: %w", err)
	}
	for i, p := range points {
		if !p.IsFinite() {
			return fmt.Errorf("%w: index %d", ErrNonFinitePoint, i)
		}
	}
	return nil
}

// Assign runs one assignment pass and returns the number of labels that changed.
//
// Candidates are reset first. Then, for each centroid in index order and each
// point in input order, a point takes the centroid if the distance is strictly
// smaller than its best so far. Ties therefore go to the lower cluster index.
func (e *Engine) Assign(ctx context.Context, s *State) (int, error) {
	n := len(s.Points)
	workers := e.opts.Workers

	if workers <= 1 || n < 2*workers {
		e.assignRange(s, 0, n)
	} else {
		chunk := (n + workers - 1) / workers
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				e.assignRange(s, lo, hi)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return 0, err
		}
	}

	changed := 0
	for i := range s.candidates {
		if c := s.candidates[i].Cluster; s.Labels[i] != c {
			s.Labels[i] = c
			changed++
		}
	}
	return changed, nil
}

// assignRange runs the assignment pass over points [lo, hi).
// Centroids are only read.
func (e *Engine) assignRange(s *State, lo, hi int) {
	cands := s.candidates[lo:hi]
	for i := range cands {
		cands[i].Reset()
	}

	for c, centroid := range s.Centroids {
		for i := range cands {
			d := e.dist(centroid, s.Points[lo+i])
			if cands[i].Cluster == model.Unassigned || d < cands[i].Dist {
				cands[i] = model.Candidate{Cluster: c, Dist: d}
			}
		}
	}
}

// Update runs one centroid update pass. Every non-empty cluster's centroid
// becomes the mean of its points. It returns the clusters that were empty.
func (e *Engine) Update(s *State) []int {
	means, counts := Centroids(s.Points, s.Labels, e.k)

	var empty []int
	for c := range means {
		if counts[c] > 0 {
			s.Centroids[c] = means[c]
			continue
		}

		empty = append(empty, c)
		if e.opts.Empty == EmptyReseed {
			s.Centroids[c] = s.Points[e.rng.Intn(len(s.Points))]
		}
	}
	return empty
}

// Step runs one full iteration (assignment, then update) and reports it.
func (e *Engine) Step(ctx context.Context, s *State) (Iteration, error) {
	start := time.Now()

	changed, err := e.Assign(ctx, s)
	if err != nil {
		return Iteration{}, err
	}
	empty := e.Update(s)

	return Iteration{
		Changed:  changed,
		Empty:    empty,
		Inertia:  Inertia(s.Points, s.Centroids, s.Labels),
		Duration: time.Since(start),
	}, nil
}

// Fit clusters points over the configured number of iterations.
// The context is checked between iterations.
func (e *Engine) Fit(ctx context.Context, points []model.Point) (*Result, error) {
	s, err := e.Init(points)
	if err != nil {
		return nil, err
	}

	history := make([]Iteration, 0, e.opts.Iterations)
	for i := 0; i < e.opts.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it, err := e.Step(ctx, s)
		if err != nil {
			return nil, err
		}
		it.Index = i
		history = append(history, it)

		if e.opts.Observer != nil {
			e.opts.Observer(it)
		}
	}

	return &Result{
		K:         e.k,
		Points:    s.Points,
		Centroids: s.Centroids,
		Labels:    s.Labels,
		History:   history,
	}, nil
}

// Centroids computes the per-cluster mean of the labeled points and the
// number of points per cluster. Means of empty clusters are left at the origin;
// callers must check counts. Labels outside [0, k) are ignored.
func Centroids(points []model.Point, labels model.Labels, k int) ([]model.Point, []int) {
	sums := make([]model.Point, k)
	counts := make([]int, k)

	for i, p := range points {
		c := labels[i]
		if c < 0 || c >= k {
			continue
		}
		sums[c].X += p.X
		sums[c].Y += p.Y
		counts[c]++
	}

	for c := range sums {
		if counts[c] > 0 {
			n := float64(counts[c])
			sums[c] = model.Pt(sums[c].X/n, sums[c].Y/n)
		}
	}
	return sums, counts
}

// Inertia returns the summed squared distance from each labeled point to its centroid.
func Inertia(points, centroids []model.Point, labels model.Labels) float64 {
	var total float64
	for i, p := range points {
		c := labels[i]
		if c < 0 || c >= len(centroids) {
			continue
		}
		total += distance.SquaredL2(p, centroids[c])
	}
	return total
}
