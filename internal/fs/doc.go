// Package fs is the file system seam of the local artifact store.
//
//   - [FileSystem]: the write-side operations the store needs
//   - [LocalFS]: the os-backed implementation, exposed as [Default]
//   - [FaultyFS]: a wrapper that injects write, sync, close and rename failures
//
// Tests inject [FaultyFS] to check that a failed artifact write leaves no
// partial file behind:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("KMeans.png", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStoreFS(dir, ffs)
//
// Reads go through internal/mmap and are not part of this interface.
package fs
