// Package minio stores run artifacts in MinIO and other S3-compatible object stores.
//
// # Basic Usage
//
//	store, err := minio.Dial(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "kmeans", "runs/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := kmeansviz.New(cfg, kmeansviz.WithStore(store))
//
// The store does not implement blobstore.ConditionalPutter. Conditional writes
// go through blobstore.PutIfNotExists, which checks with Open before writing.
package minio
