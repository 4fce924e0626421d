package kmeans

import (
	"time"

	"github.com/hupe1980/kmeansviz/distance"
	"golang.org/x/exp/rand"
)

// InitMethod selects how initial centroids are drawn from the input.
type InitMethod int

const (
	// InitSample draws k input points uniformly with replacement.
	// Duplicate initial centroids are possible.
	InitSample InitMethod = iota
	// InitDistinct draws k distinct input points.
	InitDistinct
)

func (m InitMethod) String() string {
	switch m {
	case InitSample:
		return "sample"
	case InitDistinct:
		return "distinct"
	default:
		return "unknown"
	}
}

// EmptyPolicy decides what happens to a centroid whose cluster has no points
// at update time.
type EmptyPolicy int

const (
	// EmptyKeep leaves the centroid where it was.
	EmptyKeep EmptyPolicy = iota
	// EmptyReseed moves the centroid onto a uniformly random input point.
	EmptyReseed
)

func (p EmptyPolicy) String() string {
	switch p {
	case EmptyKeep:
		return "keep"
	case EmptyReseed:
		return "reseed"
	default:
		return "unknown"
	}
}

// Iteration records one assignment + update round.
type Iteration struct {
	// Index is the zero-based iteration number.
	Index int `json:"index"`
	// Changed is the number of points whose label changed in the assignment pass.
	Changed int `json:"changed"`
	// Empty lists the clusters that had no points at update time.
	Empty []int `json:"empty,omitempty"`
	// Inertia is the summed squared distance to the assigned centroids after the update.
	Inertia float64 `json:"inertia"`
	// Duration is the wall time of the iteration.
	Duration time.Duration `json:"duration"`
}

// Observer is called after every iteration.
type Observer func(Iteration)

// Options configures the engine.
type Options struct {
	// Iterations is the fixed number of refinement rounds. Must be >= 1.
	Iterations int

	// Metric is the distance used for assignment. Default: distance.MetricSquaredL2.
	Metric distance.Metric

	// Init selects the centroid initialization. Default: InitSample.
	Init InitMethod

	// Empty selects the empty-cluster policy. Default: EmptyKeep.
	Empty EmptyPolicy

	// Workers is the number of goroutines used by the assignment pass.
	// Values <= 1 run the pass on the calling goroutine.
	Workers int

	// Src is the random source for initialization and reseeding.
	// If nil, a source seeded with 1 is used.
	Src rand.Source

	// Observer is invoked after each iteration. Optional.
	Observer Observer
}

// DefaultOptions returns the engine defaults: 20 iterations, squared L2,
// sampling with replacement, keep empty centroids, single worker.
func DefaultOptions() Options {
	return Options{
		Iterations: 20,
		Metric:     distance.MetricSquaredL2,
		Init:       InitSample,
		Empty:      EmptyKeep,
		Workers:    1,
	}
}
