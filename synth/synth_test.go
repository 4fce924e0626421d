package synth

import (
	"testing"

	"github.com/hupe1980/kmeansviz/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func defaultConfig() Config {
	return Config{Clusters: 4, PointsPerCluster: 30, Bounds: model.Bounds{Min: -10, Max: 10}}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		err  error
	}{
		{"Valid", func(*Config) {}, nil},
		{"ZeroClusters", func(c *Config) { c.Clusters = 0 }, ErrInvalidClusters},
		{"ZeroPoints", func(c *Config) { c.PointsPerCluster = 0 }, ErrInvalidPoints},
		{"InvertedBounds", func(c *Config) { c.Bounds = model.Bounds{Min: 1, Max: -1} }, ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mod(&cfg)
			err := cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	cfg := defaultConfig()

	pts, comps, err := Generate(cfg, rand.NewSource(42))
	require.NoError(t, err)

	assert.Len(t, pts, 120)
	assert.Len(t, comps, 4)
	for _, c := range comps {
		assert.True(t, cfg.Bounds.Contains(c.Mean))
		assert.GreaterOrEqual(t, c.StdDev.X, 0.0)
		assert.LessOrEqual(t, c.StdDev.X, 5.0)
		assert.GreaterOrEqual(t, c.StdDev.Y, 0.0)
		assert.LessOrEqual(t, c.StdDev.Y, 5.0)
	}
	for _, p := range pts {
		assert.True(t, p.IsFinite())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := defaultConfig()

	p1, c1, err := Generate(cfg, rand.NewSource(7))
	require.NoError(t, err)
	p2, c2, err := Generate(cfg, rand.NewSource(7))
	require.NoError(t, err)
	p3, _, err := Generate(cfg, rand.NewSource(8))
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, c1, c2)
	assert.NotEqual(t, p1, p3)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, _, err := Generate(Config{}, rand.NewSource(1))
	assert.ErrorIs(t, err, ErrInvalidClusters)
}

func TestSample_FollowsComponent(t *testing.T) {
	comps := []Component{{Mean: model.Pt(3, -2), StdDev: model.Pt(0.5, 1.5)}}

	pts := Sample(comps, 5000, rand.NewSource(1))

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}

	mx, sx := stat.MeanStdDev(xs, nil)
	my, sy := stat.MeanStdDev(ys, nil)
	assert.InDelta(t, 3.0, mx, 0.05)
	assert.InDelta(t, -2.0, my, 0.1)
	assert.InDelta(t, 0.5, sx, 0.05)
	assert.InDelta(t, 1.5, sy, 0.1)
}

func TestSample_ZeroSpread(t *testing.T) {
	comps := []Component{{Mean: model.Pt(1, 2)}}

	pts := Sample(comps, 3, rand.NewSource(1))

	for _, p := range pts {
		assert.Equal(t, model.Pt(1, 2), p)
	}
}
