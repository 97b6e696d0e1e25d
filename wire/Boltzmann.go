package wire

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Probabilities returns the Boltzmann distribution over the wires of
// the Set at the given temperature, p_i ∝ exp(r_i / temperature). The
// temperature must be positive. Probabilities panics if the set is
// empty.
func (s Set) Probabilities(temperature float64) []float64 {
	if len(s) == 0 {
		panic("probabilities: empty wire set")
	}

	// Shift by the largest reward before scaling so that every exponent
	// is at most zero, and exactly zero for the largest reward, however
	// small the temperature
	probs := s.Rewards()
	max := floats.Max(probs)
	for i := range probs {
		probs[i] = math.Exp((probs[i] - max) / temperature)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// Boltzmann returns the index of the wire selected by the Boltzmann
// distribution at the given temperature for a determiner drawn
// uniformly from [0, 1). Wires are walked in order, and the first wire
// with non-zero probability whose cumulative probability reaches the
// determiner is selected. If rounding leaves the total cumulative
// probability below the determiner, the last wire is selected.
// Boltzmann panics if the set is empty.
func (s Set) Boltzmann(temperature, determiner float64) int {
	probs := s.Probabilities(temperature)
	cumulative := floats.CumSum(make([]float64, len(probs)), probs)

	for i := range cumulative {
		if probs[i] > 0 && cumulative[i] >= determiner {
			return i
		}
	}
	return len(s) - 1
}
