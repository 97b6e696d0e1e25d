// Package weights implements weight initializers for approximators
// using linear function approximation
package weights

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense)
}

// UV initializes every weight of a matrix independently with a value
// drawn from a univariate distribution
type UV struct {
	distuv.Rander
}

// NewUV returns a new UV Initializer drawing weights from rand
func NewUV(rand distuv.Rander) UV {
	if rand == nil {
		panic("newUV: rand cannot be nil")
	}
	return UV{rand}
}

// NewUniform returns an Initializer drawing weights uniformly from
// [min, max)
func NewUniform(min, max float64, seed uint64) UV {
	return NewUV(distuv.Uniform{Min: min, Max: max,
		Src: rand.NewSource(seed)})
}

// NewNormal returns an Initializer drawing weights from a normal
// distribution
func NewNormal(mean, stddev float64, seed uint64) UV {
	return NewUV(distuv.Normal{Mu: mean, Sigma: stddev,
		Src: rand.NewSource(seed)})
}

// Initialize initializes a matrix of weights
func (u UV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			weights.Set(i, j, u.Rand())
		}
	}
}

// Zero initializes all weights to zero
type Zero struct{}

// Initialize initializes a matrix of weights to zero
func (Zero) Initialize(weights *mat.Dense) {
	if weights != nil {
		weights.Zero()
	}
}
