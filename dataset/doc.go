// Package dataset reads and writes labeled 2D point sets as CSV.
//
// The format has a header row and the columns x, y and an optional cluster
// column. Extra columns are ignored on read.
package dataset
