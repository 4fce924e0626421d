// Package mmap maps stored run artifacts read-only into memory.
//
// blobstore.LocalStore.Open hands out a Mapping per artifact, so rendered
// plots, points.csv and labels.bin are served from the page cache instead of
// being copied into the Go heap before Load decodes them.
//
// Unix maps with mmap(2); Windows with CreateFileMapping and MapViewOfFile.
// A Mapping is safe for concurrent ReadAt calls.
package mmap
