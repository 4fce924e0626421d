package testutil

import (
	"sync"

	"github.com/hupe1980/kmeansviz/model"
	"golang.org/x/exp/rand"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points uniformly distributed inside b.
func (r *RNG) UniformPoints(num int, b model.Bounds) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := b.Span()
	pts := make([]model.Point, num)
	for i := range pts {
		pts[i] = model.Pt(b.Min+r.rand.Float64()*span, b.Min+r.rand.Float64()*span)
	}
	return pts
}

// Blobs generates perCluster points around each center with Gaussian noise of
// the given spread. It returns the points in cluster-major order together with
// the index of the center each point was drawn from.
func (r *RNG) Blobs(centers []model.Point, perCluster int, spread float64) ([]model.Point, model.Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]model.Point, 0, len(centers)*perCluster)
	truth := make(model.Labels, 0, len(centers)*perCluster)
	for c, center := range centers {
		for range perCluster {
			pts = append(pts, model.Pt(
				center.X+r.rand.NormFloat64()*spread,
				center.Y+r.rand.NormFloat64()*spread,
			))
			truth = append(truth, c)
		}
	}
	return pts, truth
}

// CornerCenters returns k well separated centers on a circle of the given radius.
// Up to four centers sit on the diagonals, which keeps them far apart in a square frame.
func CornerCenters(radius float64) []model.Point {
	return []model.Point{
		model.Pt(-radius, -radius),
		model.Pt(radius, radius),
		model.Pt(-radius, radius),
		model.Pt(radius, -radius),
	}
}

// Purity computes the fraction of points whose predicted cluster's majority
// ground-truth class matches their own ground-truth class.
func Purity(labels, truth model.Labels, k int) float64 {
	if len(labels) == 0 || len(labels) != len(truth) {
		return 0
	}

	counts := make([]map[int]int, k)
	for i := range counts {
		counts[i] = make(map[int]int)
	}
	for i, c := range labels {
		if c >= 0 && c < k {
			counts[c][truth[i]]++
		}
	}

	hits := 0
	for _, m := range counts {
		best := 0
		for _, n := range m {
			best = max(best, n)
		}
		hits += best
	}
	return float64(hits) / float64(len(labels))
}
