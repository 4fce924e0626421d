package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/kmeansviz/model"
)

// SquaredL2 calculates the squared Euclidean distance between two points.
func SquaredL2(a, b model.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// L2 calculates the Euclidean distance between two points.
func L2(a, b model.Point) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Metric represents the distance metric used for point comparison.
type Metric int

const (
	MetricSquaredL2 Metric = iota
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricSquaredL2:
		return "SquaredL2"
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b model.Point) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricSquaredL2:
		return SquaredL2, nil
	case MetricL2:
		return L2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
