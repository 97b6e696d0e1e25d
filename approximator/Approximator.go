// Package approximator defines the function approximators that a wire
// fitting agent uses to map states to wires, as well as the trainers
// that adapt them.
//
// An Approximator maps a state vector to a fixed-length output vector.
// It does not know anything about wires: the wire.Codec of the agent
// gives the output its meaning. A Trainer nudges the parameters of an
// Approximator so that its output for some inputs moves towards some
// target outputs.
package approximator

import (
	"encoding/gob"
	"fmt"
)

// Approximator is a function approximator with a fixed number of inputs
// and outputs
type Approximator interface {
	// Forward returns the output of the approximator for a single
	// input. The returned slice is owned by the caller.
	Forward(input []float64) ([]float64, error)

	// Inputs returns the length of the input vectors
	Inputs() int

	// Outputs returns the length of the output vectors
	Outputs() int
}

// Trainer adapts the parameters of an Approximator
type Trainer interface {
	// Train performs a single fitting step of model so that the
	// output of model on inputs[i] moves towards targets[i] for each i
	Train(model Approximator, inputs, targets [][]float64) error
}

// Serializable is an Approximator or Trainer that can be saved and
// restored
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// validateBatch checks that inputs and targets form a valid batch for
// model
func validateBatch(model Approximator, inputs, targets [][]float64) error {
	if len(inputs) != len(targets) {
		return fmt.Errorf("validateBatch: inputs and targets must have the "+
			"same length \n\twant(%v) \n\thave(%v)", len(inputs), len(targets))
	}
	for i := range inputs {
		if len(inputs[i]) != model.Inputs() {
			return fmt.Errorf("validateBatch: invalid input %v length "+
				"\n\twant(%v) \n\thave(%v)", i, model.Inputs(), len(inputs[i]))
		}
		if len(targets[i]) != model.Outputs() {
			return fmt.Errorf("validateBatch: invalid target %v length "+
				"\n\twant(%v) \n\thave(%v)", i, model.Outputs(),
				len(targets[i]))
		}
	}
	return nil
}

// ValidateBatch checks that inputs and targets form a valid training
// batch for model. Trainers outside this package can use it to
// validate their arguments.
func ValidateBatch(model Approximator, inputs, targets [][]float64) error {
	return validateBatch(model, inputs, targets)
}
