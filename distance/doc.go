// Package distance provides point distance calculations for clustering.
//
// # Supported Metrics
//
//   - MetricSquaredL2: Squared Euclidean distance (default, no square root)
//   - MetricL2: Euclidean distance
//
// Both metrics order points identically, so nearest-centroid assignment does not
// depend on which one is selected. Inertia is always reported as squared distance.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	fn, err := distance.Provider(distance.MetricL2)
package distance
