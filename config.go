package kmeansviz

import (
	"fmt"

	"github.com/hupe1980/kmeansviz/distance"
	"github.com/hupe1980/kmeansviz/kmeans"
	"github.com/hupe1980/kmeansviz/model"
)

// DefaultOutputPath is where the scatter plot is written when no store is configured.
const DefaultOutputPath = "KMeans.png"

// Config holds the parameters of one pipeline run.
type Config struct {
	// Clusters is both the number of synthesized Gaussian clusters and K.
	Clusters int `json:"clusters"`
	// PointsPerCluster is the number of samples drawn from each cluster.
	PointsPerCluster int `json:"points_per_cluster"`
	// Iterations is the fixed number of k-means rounds.
	Iterations int `json:"iterations"`
	// Bounds is the coordinate range of the cluster means and of the plot axes.
	Bounds model.Bounds `json:"bounds"`
	// Seed seeds the random source shared by the synthesizer and the engine.
	Seed uint64 `json:"seed"`
	// Workers is the number of goroutines of the assignment pass.
	Workers int `json:"workers"`
	// Init selects the centroid initialization.
	Init kmeans.InitMethod `json:"init"`
	// Empty selects the empty-cluster policy.
	Empty kmeans.EmptyPolicy `json:"empty"`
	// Metric is the assignment distance.
	Metric distance.Metric `json:"metric"`
	// Title is the plot title. Empty means no title.
	Title string `json:"title,omitempty"`
	// OutputPath is the local file written when no store is configured.
	OutputPath string `json:"output_path,omitempty"`
}

// DefaultConfig returns the defaults: 4 clusters of 30 points in [-10, 10],
// 20 iterations, output KMeans.png.
func DefaultConfig() Config {
	return Config{
		Clusters:         4,
		PointsPerCluster: 30,
		Iterations:       20,
		Bounds:           model.Bounds{Min: -10, Max: 10},
		Seed:             1,
		Workers:          1,
		Init:             kmeans.InitSample,
		Empty:            kmeans.EmptyKeep,
		Metric:           distance.MetricSquaredL2,
		OutputPath:       DefaultOutputPath,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Clusters <= 0 {
		return &ErrInvalidConfig{Field: "Clusters", Reason: fmt.Sprintf("must be positive, got %d", c.Clusters), cause: ErrInvalidK}
	}
	if c.PointsPerCluster <= 0 {
		return &ErrInvalidConfig{Field: "PointsPerCluster", Reason: fmt.Sprintf("must be positive, got %d", c.PointsPerCluster), cause: ErrEmptyDataset}
	}
	if c.Iterations < 1 {
		return &ErrInvalidConfig{Field: "Iterations", Reason: fmt.Sprintf("must be at least 1, got %d", c.Iterations), cause: ErrInvalidIterations}
	}
	if !c.Bounds.Valid() {
		return &ErrInvalidConfig{Field: "Bounds", Reason: fmt.Sprintf("need finite min < max, got [%g, %g]", c.Bounds.Min, c.Bounds.Max), cause: ErrInvalidBounds}
	}
	if c.Workers < 0 {
		return &ErrInvalidConfig{Field: "Workers", Reason: "must not be negative"}
	}
	if _, err := distance.Provider(c.Metric); err != nil {
		return &ErrInvalidConfig{Field: "Metric", Reason: err.Error(), cause: err}
	}
	return nil
}

func (c Config) engineOptions() func(o *kmeans.Options) {
	return func(o *kmeans.Options) {
		o.Iterations = c.Iterations
		o.Metric = c.Metric
		o.Init = c.Init
		o.Empty = c.Empty
		o.Workers = c.Workers
	}
}
