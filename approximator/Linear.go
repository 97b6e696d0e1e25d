package approximator

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/samuelfneumann/wirefit/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// Linear is a linear function approximator with a bias unit:
//
//	f(x) = Wx + b
//
// where W has one row per output and one column per input.
type Linear struct {
	weights *mat.Dense
	bias    *mat.VecDense
}

// NewLinear returns a new Linear approximator with weights and biases
// initialized by init
func NewLinear(inputs, outputs int, init weights.Initializer) (*Linear,
	error) {
	if inputs < 1 || outputs < 1 {
		return nil, fmt.Errorf("newLinear: inputs and outputs must be "+
			"positive \n\thave(inputs=%v, outputs=%v)", inputs, outputs)
	}

	w := mat.NewDense(outputs, inputs, nil)
	b := mat.NewDense(outputs, 1, nil)
	if init != nil {
		init.Initialize(w)
		init.Initialize(b)
	}

	return &Linear{
		weights: w,
		bias:    mat.NewVecDense(outputs, b.RawMatrix().Data),
	}, nil
}

// Inputs returns the number of inputs to the approximator
func (l *Linear) Inputs() int {
	_, c := l.weights.Dims()
	return c
}

// Outputs returns the number of outputs of the approximator
func (l *Linear) Outputs() int {
	r, _ := l.weights.Dims()
	return r
}

// Weights returns the weight matrix and bias vector of the
// approximator. Changes to the returned values change the
// approximator.
func (l *Linear) Weights() (*mat.Dense, *mat.VecDense) {
	return l.weights, l.bias
}

// Forward computes the output of the approximator for the input
func (l *Linear) Forward(input []float64) ([]float64, error) {
	if len(input) != l.Inputs() {
		return nil, fmt.Errorf("forward: invalid input length \n\twant(%v)"+
			"\n\thave(%v)", l.Inputs(), len(input))
	}

	out := mat.NewVecDense(l.Outputs(), nil)
	out.MulVec(l.weights, mat.NewVecDense(len(input), input))
	out.AddVec(out, l.bias)

	return out.RawVector().Data, nil
}

// GobEncode implements the gob.GobEncoder interface
func (l *Linear) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	weights, err := l.weights.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("gobencode: could not encode weights: %v", err)
	}
	if err := enc.Encode(weights); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode weights: %v", err)
	}

	bias, err := l.bias.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("gobencode: could not encode bias: %v", err)
	}
	if err := enc.Encode(bias); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode bias: %v", err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (l *Linear) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var weightBytes, biasBytes []byte
	if err := dec.Decode(&weightBytes); err != nil {
		return fmt.Errorf("gobdecode: could not decode weights: %v", err)
	}
	if err := dec.Decode(&biasBytes); err != nil {
		return fmt.Errorf("gobdecode: could not decode bias: %v", err)
	}

	var w mat.Dense
	if err := w.UnmarshalBinary(weightBytes); err != nil {
		return fmt.Errorf("gobdecode: could not decode weights: %v", err)
	}
	var b mat.VecDense
	if err := b.UnmarshalBinary(biasBytes); err != nil {
		return fmt.Errorf("gobdecode: could not decode bias: %v", err)
	}
	if r, _ := w.Dims(); r != b.Len() {
		return fmt.Errorf("gobdecode: weights have %v rows but bias has "+
			"length %v", r, b.Len())
	}

	l.weights = &w
	l.bias = &b
	return nil
}
