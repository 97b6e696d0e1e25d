package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestVecToSlice(t *testing.T) {
	backing := []float64{1, 2, 3}
	v := mat.NewVecDense(3, backing)
	out := VecToSlice(v)
	assert.Equal(t, backing, out)

	out[0] = 10
	assert.Equal(t, 1.0, v.AtVec(0))
}

func TestFormat(t *testing.T) {
	v := mat.NewVecDense(2, []float64{1, 2})
	assert.Contains(t, Format(v), "1")
	assert.Contains(t, Format(v), "2")
}
