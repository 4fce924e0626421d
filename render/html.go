package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/hupe1980/kmeansviz/model"
)

// HTMLOptions configures the interactive renderer.
type HTMLOptions struct {
	PageTitle string
	// Width and Height are CSS sizes, e.g. "700px".
	Width      string
	Height     string
	SymbolSize int
}

// DefaultHTMLOptions returns options matching the PNG canvas size.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		PageTitle:  "K-Means",
		Width:      "700px",
		Height:     "500px",
		SymbolSize: 8,
	}
}

// HTML renders plots as a self-contained go-echarts page.
type HTML struct {
	opts HTMLOptions
}

// NewHTML creates an HTML renderer.
func NewHTML(optFns ...func(o *HTMLOptions)) *HTML {
	opts := DefaultHTMLOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &HTML{opts: opts}
}

// Extension implements Renderer.
func (r *HTML) Extension() string { return ".html" }

// ContentType implements Renderer.
func (r *HTML) ContentType() string { return "text/html; charset=utf-8" }

// Render implements Renderer.
func (r *HTML) Render(w io.Writer, pl Plot) error {
	xAxis := opts.XAxis{Name: "x", Type: "value"}
	yAxis := opts.YAxis{Name: "y", Type: "value"}
	if pl.Bounds.Valid() {
		xAxis.Min, xAxis.Max = pl.Bounds.Min, pl.Bounds.Max
		yAxis.Min, yAxis.Max = pl.Bounds.Min, pl.Bounds.Max
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: r.opts.PageTitle,
			Width:     r.opts.Width,
			Height:    r.opts.Height,
		}),
		charts.WithTitleOpts(opts.Title{Title: pl.Title}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)

	for _, s := range pl.Series {
		if len(s.Points) == 0 {
			continue
		}
		sc.AddSeries(s.Name, r.scatterData(s.Points),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex(s.Color)}))
	}

	if len(pl.Centroids) > 0 {
		sc.AddSeries(CentroidSeries, r.scatterData(pl.Centroids),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}))
	}

	if err := sc.Render(w); err != nil {
		return fmt.Errorf("render: html: %w", err)
	}
	return nil
}

func (r *HTML) scatterData(pts []model.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, len(pts))
	for i, p := range pts {
		data[i] = opts.ScatterData{
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: r.opts.SymbolSize,
		}
	}
	return data
}
