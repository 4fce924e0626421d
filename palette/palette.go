package palette

import (
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultHex is the base palette.
var DefaultHex = []string{
	"#f58582", "#dd9a44", "#7abd42", "#51c788", "#50c6ba",
	"#4ebaef", "#9b9afe", "#e876f0", "#fb74b7",
}

// DefaultStride is the index step used by the default palette.
const DefaultStride = 2

const (
	goldenAngle = 137.50776405003785
	extraChroma = 0.55
	extraLight  = 0.62
)

var (
	// ErrEmptyPalette is returned when a palette has no colors.
	ErrEmptyPalette = errors.New("palette: no colors")
	// ErrInvalidStride is returned when the stride does not visit every color.
	ErrInvalidStride = errors.New("palette: stride must be positive and coprime with the palette size")
)

// Palette is an immutable indexed color table.
type Palette struct {
	colors []colorful.Color
	stride int
}

// New parses hex colors into a palette visited with the given stride.
func New(hexes []string, stride int) (*Palette, error) {
	if len(hexes) == 0 {
		return nil, ErrEmptyPalette
	}
	if stride <= 0 || gcd(stride, len(hexes)) != 1 {
		return nil, ErrInvalidStride
	}

	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette: color %d: %w", i, err)
		}
		colors[i] = c
	}

	return &Palette{colors: colors, stride: stride}, nil
}

// Default returns the nine-color palette with stride two.
func Default() *Palette {
	p, err := New(DefaultHex, DefaultStride)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of base colors.
func (p *Palette) Len() int {
	return len(p.colors)
}

// Color returns the color for cluster index i. Indices cycle through the base
// colors; negative indices are folded onto the table as well.
func (p *Palette) Color(i int) colorful.Color {
	n := len(p.colors)
	idx := ((i*p.stride)%n + n) % n
	return p.colors[idx]
}

// Hex returns Color(i) as a "#rrggbb" string.
func (p *Palette) Hex(i int) string {
	return p.Color(i).Hex()
}

// Colors returns k colors for clusters 0..k-1. The first Len() are the base
// colors in stride order; further colors are generated in HCL space.
func (p *Palette) Colors(k int) []colorful.Color {
	if k <= 0 {
		return nil
	}

	out := make([]colorful.Color, k)
	n := len(p.colors)
	for i := range out {
		if i < n {
			out[i] = p.Color(i)
			continue
		}
		out[i] = extra(i - n)
	}
	return out
}

// HexColors is Colors formatted as hex strings.
func (p *Palette) HexColors(k int) []string {
	colors := p.Colors(k)
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

// extra spreads hues by the golden angle, which keeps successive colors far apart.
func extra(j int) colorful.Color {
	h := math.Mod(20+float64(j)*goldenAngle, 360)
	return colorful.Hcl(h, extraChroma, extraLight).Clamped()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
