// Package synth generates 2D points from a mixture of axis-aligned Gaussian clusters.
//
// Every cluster draws, per axis and independently, a mean uniformly from the
// configured bounds and a standard deviation uniformly from [0, span/4]. Points are
// then sampled cluster by cluster. Nothing keeps clusters from overlapping.
package synth
