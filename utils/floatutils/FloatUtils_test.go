package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	assert.Equal(t, 1.0, Clip(3, -1, 1))
	assert.Equal(t, -1.0, Clip(-3, -1, 1))
	assert.Equal(t, 0.5, ClipInterval(0.5, r1.Interval{Min: -1, Max: 1}))

	values := []float64{-5, 0.5, 5}
	bound := r1.Interval{Min: -2, Max: 2}
	ClipSlice(values, []r1.Interval{bound, bound, bound})
	assert.Equal(t, []float64{-2, 0.5, 2}, values)

	assert.Panics(t, func() { ClipSlice(values, nil) })
}

func TestWrap(t *testing.T) {
	angle := r1.Interval{Min: -math.Pi, Max: math.Pi}
	assert.InDelta(t, 0.5, Wrap(0.5, angle), 1e-12)
	assert.InDelta(t, -math.Pi+0.5, Wrap(math.Pi+0.5, angle), 1e-12)
	assert.InDelta(t, math.Pi-0.5, Wrap(-math.Pi-0.5, angle), 1e-12)
	assert.InDelta(t, 0.25, Wrap(4*math.Pi+0.25, angle), 1e-12)
}
