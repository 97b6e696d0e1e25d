package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network operating on a single row vector
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     Activation
}

// newFCLayer adds the learnable nodes of a fully connected layer with
// the given shape to g
func newFCLayer(g *G.ExprGraph, inputs, outputs, index int, act Activation,
	init G.InitWFn) *fcLayer {
	weights := G.NewMatrix(
		g,
		G.Float64,
		G.WithShape(inputs, outputs),
		G.WithName(fmt.Sprintf("L%dW", index)),
		G.WithInit(init),
	)
	bias := G.NewMatrix(
		g,
		G.Float64,
		G.WithShape(1, outputs),
		G.WithName(fmt.Sprintf("L%dB", index)),
		G.WithInit(G.Zeroes()),
	)
	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	out, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not multiply weights: %v", err)
	}
	out, err = G.Add(out, f.bias)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not add bias: %v", err)
	}
	return f.act.fwd(out)
}

func (f *fcLayer) learnables() G.Nodes {
	return G.Nodes{f.weights, f.bias}
}
