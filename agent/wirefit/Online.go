package wirefit

import (
	"fmt"

	"github.com/samuelfneumann/wirefit/agent"
	"github.com/samuelfneumann/wirefit/timestep"
	"github.com/samuelfneumann/wirefit/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// transition is an observed but not yet reinforced step
type transition struct {
	reward        float64
	nextState     []float64
	elapsedMillis float64
}

// Online runs a WireFit agent online in an environment. In training
// mode, actions are selected with the Boltzmann policy and each call to
// Step reinforces the last action with the most recently observed
// TimeStep. In evaluation mode, actions are selected greedily and no
// learning is performed.
type Online struct {
	*WireFit

	temperature float64
	eval        bool
	pending     *transition
}

// NewOnline returns a new Online agent selecting training actions at
// the given Boltzmann temperature
func NewOnline(w *WireFit, temperature float64) (*Online, error) {
	if w == nil {
		return nil, fmt.Errorf("newOnline: agent cannot be nil")
	}
	if !(temperature > 0) {
		return nil, fmt.Errorf("newOnline: %w \n\twant(>0) \n\thave(%v)",
			ErrTemperature, temperature)
	}
	return &Online{WireFit: w, temperature: temperature}, nil
}

// Temperature returns the temperature of the Boltzmann policy
func (o *Online) Temperature() float64 {
	return o.temperature
}

// SelectAction selects an action for the observation of t
func (o *Online) SelectAction(t timestep.TimeStep) (*mat.VecDense, error) {
	state := matutils.VecToSlice(t.Observation)

	var action []float64
	var err error
	if o.eval {
		action, err = o.ChooseBestAction(state)
	} else {
		action, err = o.ChooseBoltzmannAction(state, o.temperature)
	}
	if err != nil {
		return nil, fmt.Errorf("selectAction: %w", err)
	}
	return mat.NewVecDense(len(action), action), nil
}

// ObserveFirst records the first timestep in an episode
func (o *Online) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep is not the first in an "+
			"episode \n\thave(%v)", t.StepType())
	}
	o.pending = nil
	return nil
}

// Observe records that the last action selected led to nextObs
func (o *Online) Observe(action mat.Vector, nextObs timestep.TimeStep) error {
	if action.Len() != o.config.ActionDimensions {
		return fmt.Errorf("observe: invalid action dimensions \n\twant(%v) "+
			"\n\thave(%v)", o.config.ActionDimensions, action.Len())
	}
	o.pending = &transition{
		reward:        nextObs.Reward,
		nextState:     matutils.VecToSlice(nextObs.Observation),
		elapsedMillis: nextObs.ElapsedMillis(),
	}
	return nil
}

// Step reinforces the last action selected with the last observed
// TimeStep. It does nothing in evaluation mode or if nothing has been
// observed since the last call.
func (o *Online) Step() error {
	pending := o.pending
	o.pending = nil
	if pending == nil || o.eval {
		return nil
	}

	err := o.ApplyReinforcementToLastAction(pending.reward,
		pending.nextState, pending.elapsedMillis)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}
	return nil
}

// EndEpisode discards any observation that has not been reinforced
func (o *Online) EndEpisode() {
	o.pending = nil
}

// Eval sets the agent to evaluation mode
func (o *Online) Eval() {
	o.eval = true
}

// Train sets the agent to training mode
func (o *Online) Train() {
	o.eval = false
}

// IsEval returns whether the agent is in evaluation mode
func (o *Online) IsEval() bool {
	return o.eval
}

var _ agent.Saver = &Online{}
