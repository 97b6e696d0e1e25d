package approximator

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SGD trains Linear approximators using stochastic gradient descent on
// the mean squared error between the approximator's outputs and the
// targets:
//
//	W <- W - α * 1/N Σ_i (f(x_i) - y_i) x_iᵀ
//	b <- b - α * 1/N Σ_i (f(x_i) - y_i)
type SGD struct {
	StepSize float64
}

// NewSGD returns a new SGD trainer
func NewSGD(stepSize float64) (*SGD, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("newSGD: step size must be positive "+
			"\n\twant(>0) \n\thave(%v)", stepSize)
	}
	return &SGD{StepSize: stepSize}, nil
}

// Train performs one step of stochastic gradient descent. The model
// must be a *Linear.
func (s *SGD) Train(model Approximator, inputs, targets [][]float64) error {
	linear, ok := model.(*Linear)
	if !ok {
		return fmt.Errorf("train: SGD cannot train approximator of type %T",
			model)
	}
	if err := validateBatch(model, inputs, targets); err != nil {
		return fmt.Errorf("train: %v", err)
	}
	if len(inputs) == 0 {
		return nil
	}

	weights, bias := linear.Weights()
	r, c := weights.Dims()
	weightGrad := mat.NewDense(r, c, nil)
	biasGrad := mat.NewVecDense(r, nil)

	for i := range inputs {
		out, err := linear.Forward(inputs[i])
		if err != nil {
			return fmt.Errorf("train: %v", err)
		}

		// δ = f(x) - y
		delta := mat.NewVecDense(r, out)
		delta.SubVec(delta, mat.NewVecDense(r, targets[i]))

		grad := mat.NewDense(r, c, nil)
		grad.Outer(1.0, delta, mat.NewVecDense(c, inputs[i]))
		weightGrad.Add(weightGrad, grad)
		biasGrad.AddVec(biasGrad, delta)
	}

	scale := -s.StepSize / float64(len(inputs))
	weightGrad.Scale(scale, weightGrad)
	weights.Add(weights, weightGrad)
	bias.AddScaledVec(bias, scale, biasGrad)

	return nil
}

// GobEncode implements the gob.GobEncoder interface
func (s *SGD) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.StepSize); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode step size: %v",
			err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (s *SGD) GobDecode(in []byte) error {
	var stepSize float64
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&stepSize); err != nil {
		return fmt.Errorf("gobdecode: could not decode step size: %v", err)
	}
	s.StepSize = stepSize
	return nil
}
