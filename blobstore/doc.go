// Package blobstore stores run artifacts: rendered plots, point tables,
// manifests and label files.
//
// BlobStore is the interface every backend implements. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads served from a read-only mmap
//   - MemoryStore: in-process, for tests and ephemeral runs
//   - ThrottledStore: wraps another store and bounds write concurrency and bandwidth
//   - s3.Store and s3.DDBCommitStore: Amazon S3, optionally with DynamoDB commits
//   - minio.Store: MinIO and other S3-compatible services
//
// Names are slash-separated relative paths such as "runs/<id>/KMeans.png".
package blobstore
