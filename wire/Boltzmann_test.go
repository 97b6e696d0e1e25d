package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

func TestProbabilities(t *testing.T) {
	wires := Set{
		{Action: []float64{0}, Reward: 1},
		{Action: []float64{1}, Reward: 2},
		{Action: []float64{2}, Reward: 1},
	}

	probs := wires.Probabilities(1)
	assert.InDelta(t, 1.0, floats.Sum(probs), 1e-12)
	assert.InDelta(t, math.E/(2+math.E), probs[1], 1e-12)
	assert.InDelta(t, probs[0], probs[2], 1e-15)

	// Large rewards at a low temperature must not overflow
	wires[1].Reward = 1e6
	probs = wires.Probabilities(1e-3)
	assert.False(t, floats.HasNaN(probs))
	assert.InDelta(t, 1.0, probs[1], 1e-12)

	assert.Panics(t, func() { Set{}.Probabilities(1) })
}

func TestBoltzmannBoundaries(t *testing.T) {
	wires := Set{
		{Action: []float64{0}, Reward: 0.1},
		{Action: []float64{1}, Reward: 0.3},
		{Action: []float64{2}, Reward: 0.7},
	}

	assert.Equal(t, 0, wires.Boltzmann(1, 0))

	// Determiners at or beyond the total cumulative mass fall back to the
	// last wire
	assert.Equal(t, 2, wires.Boltzmann(1, math.Nextafter(1, 0)))
	assert.Equal(t, 2, wires.Boltzmann(1, 1))
	assert.Equal(t, 2, wires.Boltzmann(1, 1+1e-9))

	// A single dominant wire at a very low temperature leaves no mass for
	// the others
	assert.Equal(t, 2, wires.Boltzmann(1e-6, 0.5))

	probs := wires.Probabilities(1)
	assert.Equal(t, 0, wires.Boltzmann(1, probs[0]))
	assert.Equal(t, 1, wires.Boltzmann(1, math.Nextafter(probs[0], 2)))
}

func TestBoltzmannTinyTemperature(t *testing.T) {
	for best := 0; best < 3; best++ {
		wires := Set{
			{Action: []float64{0}, Reward: 1},
			{Action: []float64{1}, Reward: -5},
			{Action: []float64{2}, Reward: 0.5},
		}
		wires[best].Reward = 2

		for _, temperature := range []float64{1e-309, 1e-300, 1e-12} {
			probs := wires.Probabilities(temperature)
			for i, p := range probs {
				assert.False(t, math.IsNaN(p), "temperature %v", temperature)
				if i == best {
					assert.Equal(t, 1.0, p)
				} else {
					assert.Equal(t, 0.0, p)
				}
			}

			for _, determiner := range []float64{0, 0.1, 0.5, 0.9,
				math.Nextafter(1, 0)} {
				assert.Equal(t, best, wires.Boltzmann(temperature, determiner),
					"temperature %v determiner %v", temperature, determiner)
			}
		}
	}
}

func TestBoltzmannCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(8)
		wires := make(Set, n)
		for i := range wires {
			wires[i] = Wire{
				Action: []float64{rng.NormFloat64()},
				Reward: rng.NormFloat64() * 10,
			}
		}
		temperature := math.Pow(10, rng.Float64()*6-3)

		for _, determiner := range []float64{0, rng.Float64(),
			math.Nextafter(1, 0)} {
			idx := wires.Boltzmann(temperature, determiner)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, n)
		}
	}
}

func TestBoltzmannHighTemperatureUniform(t *testing.T) {
	wires := Set{
		{Action: []float64{0}, Reward: -3},
		{Action: []float64{1}, Reward: 0},
		{Action: []float64{2}, Reward: 5},
		{Action: []float64{3}, Reward: 1},
	}

	rng := rand.New(rand.NewSource(7))
	const trials = 40000
	counts := make([]float64, len(wires))
	for i := 0; i < trials; i++ {
		counts[wires.Boltzmann(1e6, rng.Float64())]++
	}

	want := 1 / float64(len(wires))
	for i := range counts {
		assert.InDelta(t, want, counts[i]/trials, 0.02)
	}
}
