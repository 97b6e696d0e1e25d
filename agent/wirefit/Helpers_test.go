package wirefit

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/samuelfneumann/wirefit/approximator"
)

// fixedModel predicts the same output for every state
type fixedModel struct {
	inputs int
	output []float64
}

func (f *fixedModel) Forward(state []float64) ([]float64, error) {
	if len(state) != f.inputs {
		return nil, fmt.Errorf("forward: invalid state")
	}
	return append([]float64{}, f.output...), nil
}

func (f *fixedModel) Inputs() int  { return f.inputs }
func (f *fixedModel) Outputs() int { return len(f.output) }

// recorder records every batch it is asked to train on without
// changing the model
type recorder struct {
	inputs  [][]float64
	targets [][]float64
}

func (r *recorder) Train(_ approximator.Approximator, inputs,
	targets [][]float64) error {
	r.inputs = append(r.inputs, inputs...)
	r.targets = append(r.targets, targets...)
	return nil
}

func (r *recorder) calls() int {
	return len(r.inputs)
}

// gobModel is a fixedModel that can be persisted
type gobModel struct {
	fixedModel
}

type gobFields struct {
	Inputs int
	Output []float64
}

func (g *gobModel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gobFields{g.inputs, g.output})
	return buf.Bytes(), err
}

func (g *gobModel) GobDecode(in []byte) error {
	var fields gobFields
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&fields); err != nil {
		return err
	}
	g.inputs = fields.Inputs
	g.output = fields.Output
	return nil
}

// exampleOutput decodes to the wires {[0.5], 1} and {[-0.2], 2}
var exampleOutput = []float64{0.5, 1.0, -0.2, 2.0}

func newExample(config Config) (*WireFit, *recorder, error) {
	trainer := &recorder{}
	w, err := New(&fixedModel{inputs: 1, output: exampleOutput}, trainer,
		config, 1)
	return w, trainer, err
}
