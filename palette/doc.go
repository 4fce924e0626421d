// Package palette assigns colors to cluster indices.
//
// The default palette has nine pastel colors that are visited with stride two,
// so neighbouring cluster indices get visibly different hues. Lookups cycle and
// never go out of range. Colors(k) returns k distinct colors, extending the base
// palette with colors spread in HCL space once it is exhausted.
package palette
