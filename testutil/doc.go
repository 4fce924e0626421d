// Package testutil provides testing utilities for kmeansviz.
//
// This package is intended for use in tests, examples and benchmarks only.
// It provides a seeded random source and generators for point sets with a known
// cluster structure.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(100, model.Bounds{Min: -10, Max: 10})
//	pts, truth := rng.Blobs(centers, 30, 0.5)
//
// # Label Verification
//
//	purity := testutil.Purity(labels, truth, k)
package testutil
