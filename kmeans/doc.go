// Package kmeans implements 2D k-means clustering (Lloyd's algorithm).
//
// The engine runs a fixed number of iterations with no convergence stop. Each
// iteration is one assignment pass followed by one centroid update pass:
//
//	eng, _ := kmeans.New(4, func(o *kmeans.Options) {
//	    o.Iterations = 20
//	    o.Src = rand.NewSource(42)
//	})
//	res, _ := eng.Fit(ctx, points)
//	groups := res.Groups() // per-cluster coordinates for rendering
//
// Initial centroids are sampled from the input with replacement unless
// InitDistinct is selected. Clusters that end up with no points are handled by
// the configured EmptyPolicy, so a centroid never becomes NaN.
package kmeans
