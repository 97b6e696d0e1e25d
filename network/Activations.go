package network

import (
	"fmt"
	"strings"

	G "gorgonia.org/gorgonia"
)

// Activation represents an activation function type
type Activation string

// Available activation functions
const (
	ReLU     Activation = "relu"
	TanH     Activation = "tanh"
	Sigmoid  Activation = "sigmoid"
	Identity Activation = "identity"
)

// ParseActivation returns the Activation with the given name, ignoring
// case
func ParseActivation(name string) (Activation, error) {
	a := Activation(strings.ToLower(name))
	if err := a.validate(); err != nil {
		return "", fmt.Errorf("parseActivation: %v", err)
	}
	return a, nil
}

func (a Activation) validate() error {
	switch a {
	case ReLU, TanH, Sigmoid, Identity:
		return nil
	}
	return fmt.Errorf("illegal activation %q", string(a))
}

// fwd adds the activation to the computational graph of x
func (a Activation) fwd(x *G.Node) (*G.Node, error) {
	switch a {
	case ReLU:
		return G.Rectify(x)
	case TanH:
		return G.Tanh(x)
	case Sigmoid:
		return G.Sigmoid(x)
	case Identity:
		return x, nil
	}
	return nil, fmt.Errorf("fwd: %v", a.validate())
}
