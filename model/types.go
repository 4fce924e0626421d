package model

import (
	"fmt"
	"math"
)

// Unassigned marks a point that has not been through an assignment pass yet.
const Unassigned = -1

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Bounds is the coordinate range [Min, Max] used for both axes.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (b Bounds) Span() float64 {
	return b.Max - b.Min
}

// Valid reports whether the range is finite and non-empty.
func (b Bounds) Valid() bool {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return false
	}
	return b.Max > b.Min
}

// Contains reports whether p lies inside the square spanned by b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min && p.X <= b.Max && p.Y >= b.Min && p.Y <= b.Max
}

// Labels holds one cluster index per point, in input order.
type Labels []int

// NewLabels returns n labels set to Unassigned.
func NewLabels(n int) Labels {
	l := make(Labels, n)
	for i := range l {
		l[i] = Unassigned
	}
	return l
}

// Complete reports whether every label lies in [0, k).
func (l Labels) Complete(k int) bool {
	for _, c := range l {
		if c < 0 || c >= k {
			return false
		}
	}
	return true
}

// Counts returns the number of points per cluster index in [0, k).
// Labels outside that range are ignored.
func (l Labels) Counts(k int) []int {
	counts := make([]int, k)
	for _, c := range l {
		if c >= 0 && c < k {
			counts[c]++
		}
	}
	return counts
}

// Candidate is the per-point scratch state of one assignment pass:
// the best cluster seen so far and its squared distance.
type Candidate struct {
	Cluster int
	Dist    float64
}

// Reset clears the candidate before a new pass.
func (c *Candidate) Reset() {
	c.Cluster = Unassigned
	c.Dist = math.Inf(1)
}
