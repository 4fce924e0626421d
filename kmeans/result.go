package kmeans

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmeansviz/model"
	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of Fit.
type Result struct {
	K         int
	Points    []model.Point
	Centroids []model.Point
	Labels    model.Labels
	History   []Iteration
}

// Iterations returns the number of iterations that were run.
func (r *Result) Iterations() int {
	return len(r.History)
}

// Inertia returns the summed squared distance of the final assignment.
func (r *Result) Inertia() float64 {
	return Inertia(r.Points, r.Centroids, r.Labels)
}

// Groups returns, per cluster index, the coordinates of the assigned points in input order.
// This is the view handed to renderers.
func (r *Result) Groups() [][]model.Point {
	groups := make([][]model.Point, r.K)
	for i, p := range r.Points {
		c := r.Labels[i]
		if c < 0 || c >= r.K {
			continue
		}
		groups[c] = append(groups[c], p)
	}
	return groups
}

// Members returns the indices of the points assigned to cluster c.
func (r *Result) Members(c int) *roaring.Bitmap {
	bm := roaring.New()
	for i, l := range r.Labels {
		if l == c {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Summary describes one cluster of the final assignment.
type Summary struct {
	Cluster  int         `json:"cluster"`
	Size     int         `json:"size"`
	Centroid model.Point `json:"centroid"`
	// StdDev is the per-axis sample standard deviation; zero for fewer than two points.
	StdDev model.Point `json:"stddev"`
}

// Summaries returns one Summary per cluster index.
func (r *Result) Summaries() []Summary {
	groups := r.Groups()
	out := make([]Summary, r.K)
	for c, g := range groups {
		s := Summary{Cluster: c, Size: len(g), Centroid: r.Centroids[c]}
		if len(g) >= 2 {
			xs := make([]float64, len(g))
			ys := make([]float64, len(g))
			for i, p := range g {
				xs[i], ys[i] = p.X, p.Y
			}
			s.StdDev = model.Pt(stat.StdDev(xs, nil), stat.StdDev(ys, nil))
		}
		out[c] = s
	}
	return out
}
