package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/hupe1980/kmeansviz/model"
	"github.com/hupe1980/kmeansviz/palette"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// CentroidSeries is the legend name of the centroid overlay.
const CentroidSeries = "centroids"

// Series is one group of points drawn in a single color.
type Series struct {
	Name   string
	Color  color.Color
	Points []model.Point
}

// Plot describes a scatter plot.
type Plot struct {
	Title string
	// Bounds fixes both axes to [Min, Max]. The zero value lets the renderer
	// size the axes from the data.
	Bounds    model.Bounds
	Series    []Series
	Centroids []model.Point
}

// Renderer writes a Plot in some output format.
type Renderer interface {
	Render(w io.Writer, p Plot) error
	// Extension is the file extension including the dot, e.g. ".png".
	Extension() string
	ContentType() string
}

// SeriesName returns the legend name of cluster i.
func SeriesName(i int) string {
	return fmt.Sprintf("cluster%d", i)
}

// FromGroups builds a Plot with one series per cluster, colored by pal.
// A nil palette uses palette.Default().
func FromGroups(title string, bounds model.Bounds, groups [][]model.Point, centroids []model.Point, pal *palette.Palette) Plot {
	if pal == nil {
		pal = palette.Default()
	}

	colors := pal.Colors(len(groups))
	series := make([]Series, len(groups))
	for i, g := range groups {
		series[i] = Series{
			Name:   SeriesName(i),
			Color:  colors[i],
			Points: g,
		}
	}

	return Plot{
		Title:     title,
		Bounds:    bounds,
		Series:    series,
		Centroids: centroids,
	}
}

// visible drops points outside the plot bounds.
func (p Plot) visible(pts []model.Point) []model.Point {
	if !p.Bounds.Valid() {
		return pts
	}
	out := make([]model.Point, 0, len(pts))
	for _, pt := range pts {
		if p.Bounds.Contains(pt) {
			out = append(out, pt)
		}
	}
	return out
}

func hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cc.Hex()
}
