package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/hupe1980/kmeansviz/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PNGOptions configures the raster renderer.
type PNGOptions struct {
	// Width and Height are the canvas size in pixels.
	Width  int
	Height int
	DPI    int
	// MarkerRadius is the radius of a point marker.
	MarkerRadius vg.Length
	Grid         bool
}

// DefaultPNGOptions returns a 700x500 canvas with a grid.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:        700,
		Height:       500,
		DPI:          vgimg.DefaultDPI,
		MarkerRadius: vg.Points(3),
		Grid:         true,
	}
}

// PNG renders plots as PNG images.
type PNG struct {
	opts PNGOptions
}

// NewPNG creates a PNG renderer.
func NewPNG(optFns ...func(o *PNGOptions)) *PNG {
	opts := DefaultPNGOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &PNG{opts: opts}
}

// Extension implements Renderer.
func (r *PNG) Extension() string { return ".png" }

// ContentType implements Renderer.
func (r *PNG) ContentType() string { return "image/png" }

// Render implements Renderer.
func (r *PNG) Render(w io.Writer, pl Plot) error {
	p := plot.New()
	p.Title.Text = pl.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Legend.Top = true

	if r.opts.Grid {
		p.Add(plotter.NewGrid())
	}

	for _, s := range pl.Series {
		pts := pl.visible(s.Points)
		if len(pts) == 0 {
			continue
		}

		sc, err := plotter.NewScatter(xys(pts))
		if err != nil {
			return fmt.Errorf("render: series %s: %w", s.Name, err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  s.Color,
			Radius: r.opts.MarkerRadius,
			Shape:  draw.CircleGlyph{},
		}
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
	}

	if cs := pl.visible(pl.Centroids); len(cs) > 0 {
		sc, err := plotter.NewScatter(xys(cs))
		if err != nil {
			return fmt.Errorf("render: centroids: %w", err)
		}
		sc.GlyphStyle = draw.GlyphStyle{
			Color:  color.Black,
			Radius: r.opts.MarkerRadius * 2,
			Shape:  draw.CrossGlyph{},
		}
		p.Add(sc)
		p.Legend.Add(CentroidSeries, sc)
	}

	if pl.Bounds.Valid() {
		p.X.Min, p.X.Max = pl.Bounds.Min, pl.Bounds.Max
		p.Y.Min, p.Y.Max = pl.Bounds.Min, pl.Bounds.Max
	}

	dpi := float64(r.opts.DPI)
	width := vg.Length(float64(r.opts.Width)/dpi) * vg.Inch
	height := vg.Length(float64(r.opts.Height)/dpi) * vg.Inch

	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(r.opts.DPI))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

func xys(pts []model.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}
