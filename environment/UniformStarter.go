package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples each
// state feature uniformly from its bounds
func NewUniformStarter(bounds []r1.Interval, seed uint64) (UniformStarter,
	error) {
	if len(bounds) == 0 {
		return UniformStarter{}, fmt.Errorf("newUniformStarter: at least " +
			"one bound is needed")
	}
	for i, bound := range bounds {
		if bound.Min > bound.Max {
			return UniformStarter{}, fmt.Errorf("newUniformStarter: "+
				"bound %v has min > max \n\thave(%v)", i, bound)
		}
	}

	source := rand.NewSource(seed)
	dist := distmv.NewUniform(bounds, source)

	return UniformStarter{len(bounds), seed, dist}, nil
}

// Start samples a starting state
func (u UniformStarter) Start() mat.Vector {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// Seed returns the seed of the UniformStarter
func (u UniformStarter) Seed() uint64 {
	return u.seed
}
