package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestAdjuster(t *testing.T, maxIterations int) Adjuster {
	interp, err := NewInterpolator(0.2, 0.01)
	require.NoError(t, err)
	adjuster, err := NewAdjuster(interp, 1e-5, 0.5, maxIterations)
	require.NoError(t, err)
	return adjuster
}

func TestAdjusterConverges(t *testing.T) {
	adjuster := newTestAdjuster(t, 10000)

	oneDim := Set{
		{Action: []float64{0.5}, Reward: 1.0},
		{Action: []float64{-0.2}, Reward: 2.0},
	}
	twoDim := Set{
		{Action: []float64{0, 0}, Reward: 0},
		{Action: []float64{1, 1}, Reward: 1},
		{Action: []float64{-1, 0.5}, Reward: -0.5},
	}

	tests := []struct {
		wires  Set
		action []float64
		target float64
	}{
		{oneDim, []float64{0.5}, 1.5},
		{oneDim, []float64{-0.2}, 2.5},
		{oneDim, []float64{0.0}, 0.0},
		{oneDim, []float64{0.1}, 1.2},
		{twoDim, []float64{0.2, 0.2}, 0.7},
		{twoDim, []float64{1, 1}, -1},
	}

	for _, test := range tests {
		original := test.wires.Clone()
		fitted, iterations := adjuster.Fit(test.target, test.action, test.wires)

		assert.True(t, original.Equal(test.wires), "input wires modified")
		assert.Less(t, iterations, adjuster.MaxIterations)
		assert.LessOrEqual(t,
			adjuster.SquaredError(test.target, test.action, fitted),
			adjuster.ErrorTarget)
		assert.InDelta(t, test.target, adjuster.Value(fitted, test.action),
			0.01)
	}
}

func TestAdjusterNoWorkWhenOnTarget(t *testing.T) {
	adjuster := newTestAdjuster(t, 100)
	wires := Set{
		{Action: []float64{0.5}, Reward: 1.0},
		{Action: []float64{-0.2}, Reward: 2.0},
	}
	action := []float64{0.5}
	target := adjuster.Value(wires, action)

	fitted, iterations := adjuster.Fit(target, action, wires)
	assert.Equal(t, 0, iterations)
	assert.True(t, wires.Equal(fitted))
}

func TestAdjusterConvergesOrHitsCap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	codec, _ := NewCodec(2, 4)

	for _, maxIterations := range []int{1, 3, 50} {
		adjuster := newTestAdjuster(t, maxIterations)

		for trial := 0; trial < 25; trial++ {
			raw := make([]float64, codec.Len())
			for i := range raw {
				raw[i] = rng.NormFloat64()
			}
			wires, _ := codec.Decode(raw)
			action := []float64{rng.NormFloat64(), rng.NormFloat64()}
			target := rng.NormFloat64() * 3

			fitted, iterations := adjuster.Fit(target, action, wires)
			require.LessOrEqual(t, iterations, maxIterations)
			if iterations < maxIterations {
				require.LessOrEqual(t,
					adjuster.SquaredError(target, action, fitted),
					adjuster.ErrorTarget)
			}
		}
	}
}

func TestAdjusterErrors(t *testing.T) {
	interp, _ := NewInterpolator(0.2, 0.01)

	_, err := NewAdjuster(interp, -1, 0.5, 10)
	assert.Error(t, err)
	_, err = NewAdjuster(interp, 1e-5, 0, 10)
	assert.Error(t, err)
	_, err = NewAdjuster(interp, 1e-5, 0.5, 0)
	assert.Error(t, err)
}

func BenchmarkAdjusterFit(b *testing.B) {
	interp, _ := NewInterpolator(0.2, 0.01)
	adjuster, _ := NewAdjuster(interp, 1e-5, 0.5, 10000)
	wires := Set{
		{Action: []float64{0, 0}, Reward: 0},
		{Action: []float64{1, 1}, Reward: 1},
		{Action: []float64{-1, 0.5}, Reward: -0.5},
	}
	action := []float64{0.2, 0.2}

	for i := 0; i < b.N; i++ {
		adjuster.Fit(0.7, action, wires)
	}
}
