// Package render draws clustered point sets as scatter plots.
//
// A Plot is a renderer-neutral description: one named, colored series per
// cluster plus an optional centroid overlay. PNG rasterizes it with gonum/plot,
// HTML emits an interactive go-echarts page. Both implement Renderer.
package render
