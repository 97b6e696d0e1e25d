package network

import (
	"encoding/json"
	"fmt"

	"github.com/samuelfneumann/wirefit/approximator"
	"github.com/samuelfneumann/wirefit/solver"
)

// Trainer trains an MLP toward targets with a Gorgonia solver, taking
// one solver step per sample.
type Trainer struct {
	Solver *solver.Solver

	// LastCost is the mean squared error of the final sample of the
	// most recent call to Train, measured before its solver step
	LastCost float64
}

// NewTrainer returns a new Trainer using s to update weights
func NewTrainer(s *solver.Solver) (*Trainer, error) {
	if s == nil {
		return nil, fmt.Errorf("newTrainer: solver cannot be nil")
	}
	return &Trainer{Solver: s}, nil
}

// Train implements the approximator.Trainer interface
func (t *Trainer) Train(model approximator.Approximator, inputs,
	targets [][]float64) error {
	net, ok := model.(*MLP)
	if !ok {
		return fmt.Errorf("train: cannot train approximator of type %T",
			model)
	}
	if err := approximator.ValidateBatch(model, inputs, targets); err != nil {
		return fmt.Errorf("train: %v", err)
	}

	for i := range inputs {
		cost, err := net.fit(t.Solver, inputs[i], targets[i])
		if err != nil {
			return fmt.Errorf("train: %v", err)
		}
		t.LastCost = cost
	}
	return nil
}

// GobEncode implements the gob.GobEncoder interface
func (t *Trainer) GobEncode() ([]byte, error) {
	return json.Marshal(t.Solver)
}

// GobDecode implements the gob.GobDecoder interface
func (t *Trainer) GobDecode(in []byte) error {
	var s solver.Solver
	if err := json.Unmarshal(in, &s); err != nil {
		return fmt.Errorf("gobdecode: could not decode solver: %v", err)
	}
	t.Solver = &s
	return nil
}
