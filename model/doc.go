// Package model defines core types used throughout kmeansviz.
//
// # Geometry
//
//   - Point: a 2D coordinate
//   - Bounds: the square coordinate range shared by both axes
//
// # Cluster State
//
//   - Labels: the stable assigned view, one cluster index per point
//   - Candidate: the scratch view used while a single assignment pass runs
//
// Clusters themselves are implicit: the set of points sharing a label.
package model
