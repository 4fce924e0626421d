// Package kmeansviz synthesizes 2D points from a mixture of Gaussian clusters,
// partitions them with Lloyd's k-means and renders the clusters as a scatter plot.
//
// # Quick Start
//
// Write KMeans.png in the working directory:
//
//	p, _ := kmeansviz.New(kmeansviz.DefaultConfig())
//	run, _ := p.Run(ctx)
//	fmt.Println(run.Result.Centroids)
//
// # Run Artifacts
//
// With a store every run is written under runs/<id>/ and LATEST is committed
// last:
//
//	store := blobstore.NewLocalStore("./out")
//	p, _ := kmeansviz.New(cfg, kmeansviz.WithStore(store))
//	run, _ := p.Run(ctx)
//
//	latest, _ := kmeansviz.LoadLatest(ctx, store)
//
// A run directory holds KMeans.png, KMeans.html, points.csv (x, y, cluster),
// labels.bin (codec-encoded, compressed labels) and manifest.json with the
// configuration, the drawn cluster parameters, the centroids, the iteration
// history and per-cluster summaries.
//
// Cloud stores live in blobstore/s3 (optionally with a DynamoDB-backed LATEST
// pointer) and blobstore/minio.
//
// # External Points
//
// RunPoints clusters an existing point set, e.g. read with dataset.ReadCSV:
//
//	points, _, _ := dataset.ReadCSV(f)
//	run, _ := p.RunPoints(ctx, points)
//
// # Observability
//
// WithLogger attaches a slog based Logger; WithMetricsCollector receives
// iteration, empty-cluster, run and export events. metrics/prom exports them
// to Prometheus.
package kmeansviz
