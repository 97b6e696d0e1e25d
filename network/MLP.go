// Package network implements feed forward neural network approximators
// built on Gorgonia computational graphs.
package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/samuelfneumann/wirefit/initwfn"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Config describes the hidden layers of an MLP. Activations[i] is
// applied after hidden layer i. The output layer is always linear.
type Config struct {
	HiddenSizes []int           `mapstructure:"hidden"`
	Activations []Activation    `mapstructure:"activations"`
	Init        initwfn.InitWFn `mapstructure:"init"`
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if len(c.HiddenSizes) != len(c.Activations) {
		return fmt.Errorf("validate: each hidden layer needs an activation "+
			"\n\twant(%v) \n\thave(%v)", len(c.HiddenSizes), len(c.Activations))
	}
	for i, size := range c.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %v must have at "+
				"least one unit \n\thave(%v)", i, size)
		}
		if err := c.Activations[i].validate(); err != nil {
			return fmt.Errorf("validate: hidden layer %v: %v", i, err)
		}
	}
	return c.Init.Validate()
}

// MLP is a multi-layered perceptron approximating a function from a
// single input vector to a single output vector. It keeps two tape
// machines over the same learnable nodes: one computes predictions
// only, the other computes the mean squared error to a target and its
// gradients. An MLP is not safe for concurrent use.
type MLP struct {
	inputs  int
	outputs int
	config  Config

	g          *G.ExprGraph
	input      *G.Node
	target     *G.Node
	prediction *G.Node
	cost       *G.Node
	layers     []*fcLayer

	predictVM G.VM
	trainVM   G.VM
}

// NewMLP returns a new MLP with the given number of inputs and outputs
func NewMLP(inputs, outputs int, config Config) (*MLP, error) {
	if inputs < 1 || outputs < 1 {
		return nil, fmt.Errorf("newMLP: inputs and outputs must be "+
			"positive \n\twant(>0, >0) \n\thave(%v, %v)", inputs, outputs)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newMLP: %v", err)
	}
	initFn, err := config.Init.Create()
	if err != nil {
		return nil, fmt.Errorf("newMLP: %v", err)
	}

	g := G.NewGraph()
	input := G.NewMatrix(g, G.Float64, G.WithShape(1, inputs),
		G.WithName("input"), G.WithInit(G.Zeroes()))
	target := G.NewMatrix(g, G.Float64, G.WithShape(1, outputs),
		G.WithName("target"), G.WithInit(G.Zeroes()))

	sizes := append([]int{inputs}, config.HiddenSizes...)
	sizes = append(sizes, outputs)
	acts := append(append([]Activation{}, config.Activations...), Identity)

	layers := make([]*fcLayer, len(sizes)-1)
	pred := input
	for i := range layers {
		layers[i] = newFCLayer(g, sizes[i], sizes[i+1], i, acts[i], initFn)
		if pred, err = layers[i].fwd(pred); err != nil {
			return nil, fmt.Errorf("newMLP: layer %v: %v", i, err)
		}
	}

	m := &MLP{
		inputs:     inputs,
		outputs:    outputs,
		config:     config,
		g:          g,
		input:      input,
		target:     target,
		prediction: pred,
		layers:     layers,
	}

	// The prediction machine only sees the forward pass
	m.predictVM = G.NewTapeMachine(g.SubgraphRoots(pred))

	diff, err := G.Sub(pred, target)
	if err != nil {
		return nil, fmt.Errorf("newMLP: could not compute error: %v", err)
	}
	m.cost, err = G.Mean(G.Must(G.Square(diff)))
	if err != nil {
		return nil, fmt.Errorf("newMLP: could not compute cost: %v", err)
	}
	if _, err := G.Grad(m.cost, m.Learnables()...); err != nil {
		return nil, fmt.Errorf("newMLP: could not compute gradient: %v", err)
	}
	m.trainVM = G.NewTapeMachine(g, G.BindDualValues(m.Learnables()...))

	return m, nil
}

// Inputs returns the number of inputs to the MLP
func (m *MLP) Inputs() int {
	return m.inputs
}

// Outputs returns the number of outputs of the MLP
func (m *MLP) Outputs() int {
	return m.outputs
}

// Config returns the configuration of the hidden layers of the MLP
func (m *MLP) Config() Config {
	return m.config
}

// Learnables returns the learnable nodes of the MLP, ordered by layer
// with the weights of each layer before its bias
func (m *MLP) Learnables() G.Nodes {
	var learnables G.Nodes
	for _, layer := range m.layers {
		learnables = append(learnables, layer.learnables()...)
	}
	return learnables
}

// Forward returns the output of the MLP for a single input
func (m *MLP) Forward(input []float64) ([]float64, error) {
	if len(input) != m.inputs {
		return nil, fmt.Errorf("forward: invalid input length "+
			"\n\twant(%v) \n\thave(%v)", m.inputs, len(input))
	}
	if err := m.let(m.input, input); err != nil {
		return nil, fmt.Errorf("forward: %v", err)
	}

	defer m.predictVM.Reset()
	if err := m.predictVM.RunAll(); err != nil {
		return nil, fmt.Errorf("forward: could not run graph: %v", err)
	}
	return valueData(m.prediction.Value())
}

// fit takes a single step of solver toward predicting target on input
// and returns the cost before the step
func (m *MLP) fit(solver G.Solver, input, target []float64) (float64,
	error) {
	if err := m.let(m.input, input); err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}
	if err := m.let(m.target, target); err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}

	defer m.trainVM.Reset()
	if err := m.trainVM.RunAll(); err != nil {
		return 0, fmt.Errorf("fit: could not run graph: %v", err)
	}
	cost, err := valueData(m.cost.Value())
	if err != nil {
		return 0, fmt.Errorf("fit: %v", err)
	}
	if err := solver.Step(G.NodesToValueGrads(m.Learnables())); err != nil {
		return 0, fmt.Errorf("fit: could not step solver: %v", err)
	}
	return cost[0], nil
}

// let sets the value of a row vector node
func (m *MLP) let(node *G.Node, data []float64) error {
	backing := make([]float64, len(data))
	copy(backing, data)
	t := tensor.New(tensor.WithShape(node.Shape()...),
		tensor.WithBacking(backing))
	if err := G.Let(node, t); err != nil {
		return fmt.Errorf("could not set %v: %v", node.Name(), err)
	}
	return nil
}

// valueData copies the data of a computed value
func valueData(v G.Value) ([]float64, error) {
	if v == nil {
		return nil, fmt.Errorf("valueData: node has no value")
	}
	switch data := v.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	case float64:
		return []float64{data}, nil
	}
	return nil, fmt.Errorf("valueData: unexpected data type %T", v.Data())
}

// mlpGob is the gob serialized form of an MLP
type mlpGob struct {
	Inputs  int
	Outputs int
	Config  Config
	Weights [][]float64
}

// GobEncode implements the gob.GobEncoder interface
func (m *MLP) GobEncode() ([]byte, error) {
	enc := mlpGob{Inputs: m.inputs, Outputs: m.outputs, Config: m.config}
	for _, node := range m.Learnables() {
		data, err := valueData(node.Value())
		if err != nil {
			return nil, fmt.Errorf("gobencode: %v: %v", node.Name(), err)
		}
		enc.Weights = append(enc.Weights, data)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(enc); err != nil {
		return nil, fmt.Errorf("gobencode: %v", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (m *MLP) GobDecode(in []byte) error {
	var dec mlpGob
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&dec); err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}

	net, err := NewMLP(dec.Inputs, dec.Outputs, dec.Config)
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}
	learnables := net.Learnables()
	if len(learnables) != len(dec.Weights) {
		return fmt.Errorf("gobdecode: invalid number of weights "+
			"\n\twant(%v) \n\thave(%v)", len(learnables), len(dec.Weights))
	}
	for i, node := range learnables {
		if node.Shape().TotalSize() != len(dec.Weights[i]) {
			return fmt.Errorf("gobdecode: invalid size for %v "+
				"\n\twant(%v) \n\thave(%v)", node.Name(),
				node.Shape().TotalSize(), len(dec.Weights[i]))
		}
		if err := net.let(node, dec.Weights[i]); err != nil {
			return fmt.Errorf("gobdecode: %v", err)
		}
	}

	*m = *net
	return nil
}
