package testutil

import (
	"testing"

	"github.com/hupe1980/kmeansviz/model"
	"github.com/stretchr/testify/assert"
)

func TestUniformPoints(t *testing.T) {
	rng := NewRNG(4711)
	b := model.Bounds{Min: -10, Max: 10}

	pts := rng.UniformPoints(64, b)

	assert.Len(t, pts, 64)
	for _, p := range pts {
		assert.True(t, b.Contains(p))
	}
}

func TestBlobs(t *testing.T) {
	rng := NewRNG(4711)

	pts, truth := rng.Blobs(CornerCenters(5), 10, 0.1)

	assert.Len(t, pts, 40)
	assert.Len(t, truth, 40)
	assert.Equal(t, 0, truth[0])
	assert.Equal(t, 3, truth[39])
	assert.InDelta(t, -5.0, pts[0].X, 1.0)
	assert.InDelta(t, 5.0, pts[39].X, 1.0)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.UniformPoints(3, model.Bounds{Min: 0, Max: 1})

	rng.Reset()
	p2 := rng.UniformPoints(3, model.Bounds{Min: 0, Max: 1})

	assert.Equal(t, p1, p2)
	assert.Equal(t, uint64(4711), rng.Seed())
}

func TestPurity(t *testing.T) {
	truth := model.Labels{0, 0, 1, 1}

	assert.Equal(t, 1.0, Purity(model.Labels{1, 1, 0, 0}, truth, 2))
	assert.Equal(t, 0.75, Purity(model.Labels{0, 0, 0, 1}, truth, 2))
	assert.Equal(t, 0.0, Purity(model.Labels{0}, truth, 2))
}
