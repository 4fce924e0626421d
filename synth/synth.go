package synth

import (
	"errors"

	"github.com/hupe1980/kmeansviz/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidClusters is returned when the cluster count is not positive.
	ErrInvalidClusters = errors.New("synth: clusters must be positive")
	// ErrInvalidPoints is returned when the points-per-cluster count is not positive.
	ErrInvalidPoints = errors.New("synth: points per cluster must be positive")
	// ErrInvalidBounds is returned when the coordinate bounds are empty or not finite.
	ErrInvalidBounds = errors.New("synth: bounds must be finite with min < max")
)

// Config controls the mixture.
type Config struct {
	Clusters         int
	PointsPerCluster int
	Bounds           model.Bounds
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Clusters <= 0 {
		return ErrInvalidClusters
	}
	if c.PointsPerCluster <= 0 {
		return ErrInvalidPoints
	}
	if !c.Bounds.Valid() {
		return ErrInvalidBounds
	}
	return nil
}

// Component holds the drawn parameters of one Gaussian cluster.
type Component struct {
	Mean   model.Point `json:"mean"`
	StdDev model.Point `json:"stddev"`
}

// Components draws the per-cluster parameters.
// For each cluster the draw order is mean x, stddev x, mean y, stddev y.
func Components(cfg Config, src rand.Source) ([]Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mean := distuv.Uniform{Min: cfg.Bounds.Min, Max: cfg.Bounds.Max, Src: src}
	spread := distuv.Uniform{Min: 0, Max: cfg.Bounds.Span() / 4, Src: src}

	comps := make([]Component, cfg.Clusters)
	for c := range comps {
		comps[c].Mean.X = mean.Rand()
		comps[c].StdDev.X = spread.Rand()
		comps[c].Mean.Y = mean.Rand()
		comps[c].StdDev.Y = spread.Rand()
	}
	return comps, nil
}

// Sample draws n points from each component, in component order.
func Sample(comps []Component, n int, src rand.Source) []model.Point {
	pts := make([]model.Point, 0, len(comps)*n)
	for _, comp := range comps {
		nx := distuv.Normal{Mu: comp.Mean.X, Sigma: comp.StdDev.X, Src: src}
		ny := distuv.Normal{Mu: comp.Mean.Y, Sigma: comp.StdDev.Y, Src: src}
		for range n {
			x := nx.Rand()
			y := ny.Rand()
			pts = append(pts, model.Pt(x, y))
		}
	}
	return pts
}

// Generate draws the components and then samples cfg.PointsPerCluster points
// from each. The output has Clusters*PointsPerCluster unlabeled points.
func Generate(cfg Config, src rand.Source) ([]model.Point, []Component, error) {
	comps, err := Components(cfg, src)
	if err != nil {
		return nil, nil, err
	}
	return Sample(comps, cfg.PointsPerCluster, src), comps, nil
}
