package wirefit

import (
	"fmt"

	"github.com/samuelfneumann/wirefit/agent"
	"github.com/samuelfneumann/wirefit/environment"
	"github.com/samuelfneumann/wirefit/network"
	"github.com/samuelfneumann/wirefit/solver"
)

// OnlineConfig describes an Online WireFit agent which predicts wires
// with an MLP trained by a Gorgonia solver
type OnlineConfig struct {
	Agent       Config         `mapstructure:"agent"`
	Temperature float64        `mapstructure:"temperature"`
	Network     network.Config `mapstructure:"network"`
	Solver      solver.Type    `mapstructure:"solver"`
	StepSize    float64        `mapstructure:"step_size"`
}

// Validate returns an error if the OnlineConfig is invalid
func (c OnlineConfig) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if !(c.Temperature > 0) {
		return fmt.Errorf("validate: %w \n\twant(>0) \n\thave(%v)",
			ErrTemperature, c.Temperature)
	}
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := solver.New(c.Solver, c.StepSize); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// CreateAgent creates the Online agent that the config describes for
// the environment env
func (c OnlineConfig) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	online, err := c.Create(env, seed)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %v", err)
	}
	return online, nil
}

// Create creates the Online agent that the config describes for the
// environment env
func (c OnlineConfig) Create(env environment.Environment,
	seed uint64) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	actionDims := env.ActionSpec().Shape.Len()
	if actionDims != c.Agent.ActionDimensions {
		return nil, fmt.Errorf("create: action dimensions do not match "+
			"the environment \n\twant(%v) \n\thave(%v)", actionDims,
			c.Agent.ActionDimensions)
	}

	codec, _ := c.Agent.codec()
	net, err := network.NewMLP(env.ObservationSpec().Shape.Len(),
		codec.Len(), c.Network)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	s, _ := solver.New(c.Solver, c.StepSize)
	trainer, err := network.NewTrainer(s)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	w, err := New(net, trainer, c.Agent, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return NewOnline(w, c.Temperature)
}

var _ agent.Config = OnlineConfig{}
