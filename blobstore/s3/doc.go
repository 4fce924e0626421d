// Package s3 stores run artifacts in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("kmeans/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	p, err := kmeansviz.New(cfg, kmeansviz.WithStore(store))
//
// Run directories are written once and never modified. The LATEST pointer is
// the only mutable key; wrap the store in a DDBCommitStore when several
// writers may publish runs concurrently.
package s3
