// Package wirefit implements the wire fitting Q-learning agent for
// continuous actions.
//
// A WireFit agent uses a function approximator with a fixed number of
// outputs to predict, for a given state, a Set of wires. The action
// value function Q(s, ·) is then the interpolation of these wires, see
// package wire. Actions are selected greedily or with a Boltzmann
// policy over the wires, and after an action has been taken its
// reinforcement moves the wires of the state it was taken in toward a
// new target value. The approximator is then trained on the adjusted
// wires.
//
// See:
//
// Baird, L. C. and Klopf, A. H. Reinforcement Learning with
// High-Dimensional, Continuous Actions. 1993.
package wirefit

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/wirefit/approximator"
	"github.com/samuelfneumann/wirefit/wire"
	"golang.org/x/exp/rand"
)

var (
	// ErrElapsedTime is returned when a reinforcement is applied with a
	// non-positive elapsed time
	ErrElapsedTime = errors.New("elapsed time must be positive")

	// ErrNoAction is returned when a reinforcement is applied before any
	// action has been selected
	ErrNoAction = errors.New("no action has been selected")

	// ErrTemperature is returned when a Boltzmann action is requested
	// with a non-positive temperature
	ErrTemperature = errors.New("temperature must be positive")
)

// State is the last action selected by an agent and the state it was
// selected in. A State with a nil LastAction has no action recorded.
type State struct {
	LastAction []float64
	LastState  []float64
}

// Clone returns a deep copy of the State
func (s State) Clone() State {
	var clone State
	if s.LastAction != nil {
		clone.LastAction = append([]float64{}, s.LastAction...)
	}
	if s.LastState != nil {
		clone.LastState = append([]float64{}, s.LastState...)
	}
	return clone
}

// HasAction returns whether an action has been recorded in the State
func (s State) HasAction() bool {
	return s.LastAction != nil
}

// Update describes a single reinforcement that was applied
type Update struct {
	// OldValue is the value of the reinforced action before the update
	OldValue float64

	// Feedback is the time-scaled estimate of the value of the
	// reinforced action given the reward and the next state
	Feedback float64

	// Target is the value that the wires were adjusted toward
	Target float64

	// Iterations is the number of gradient descent iterations used to
	// adjust the wires
	Iterations int
}

// WireFit implements the wire fitting agent. All exported methods are
// safe for concurrent use; each call runs to completion before the next
// one starts.
type WireFit struct {
	mu sync.Mutex

	config   Config
	codec    wire.Codec
	adjuster wire.Adjuster

	model   approximator.Approximator
	trainer approximator.Trainer

	state  State
	seed   uint64
	rng    *rand.Rand
	logger zerolog.Logger
}

// New returns a new WireFit agent. The model must predict
// config.NumberOfWires * (config.ActionDimensions + 1) outputs, and the
// trainer must be able to train it. The seed determines the random
// draws of the Boltzmann policy.
func New(model approximator.Approximator, trainer approximator.Trainer,
	config Config, seed uint64) (*WireFit, error) {
	if model == nil || trainer == nil {
		return nil, fmt.Errorf("new: model and trainer cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	codec, _ := config.codec()
	adjuster, _ := config.adjuster()
	if model.Outputs() != codec.Len() {
		return nil, fmt.Errorf("new: model outputs must encode %v wires "+
			"of %v-dimensional actions \n\twant(%v) \n\thave(%v)",
			codec.Wires, codec.ActionDims, codec.Len(), model.Outputs())
	}

	return &WireFit{
		config:   config,
		codec:    codec,
		adjuster: adjuster,
		model:    model,
		trainer:  trainer,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger that reinforcements are reported to
func (w *WireFit) SetLogger(logger zerolog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
}

// Config returns the configuration of the agent
func (w *WireFit) Config() Config {
	return w.config
}

// Model returns the function approximator predicting the wires
func (w *WireFit) Model() approximator.Approximator {
	return w.model
}

// Trainer returns the trainer of the function approximator
func (w *WireFit) Trainer() approximator.Trainer {
	return w.trainer
}

// Seed returns the seed of the Boltzmann policy
func (w *WireFit) Seed() uint64 {
	return w.seed
}

// State returns a copy of the last action selected and the state it was
// selected in
func (w *WireFit) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

// Wires returns the wires predicted for a state
func (w *WireFit) Wires(state []float64) (wire.Set, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wires, err := w.wires(state)
	if err != nil {
		return nil, fmt.Errorf("wires: %v", err)
	}
	return wires, nil
}

// Value returns the interpolated value of taking action in state
func (w *WireFit) Value(state, action []float64) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(action) != w.config.ActionDimensions {
		return 0, fmt.Errorf("value: invalid action dimensions "+
			"\n\twant(%v) \n\thave(%v)", w.config.ActionDimensions,
			len(action))
	}
	wires, err := w.wires(state)
	if err != nil {
		return 0, fmt.Errorf("value: %v", err)
	}
	return w.adjuster.Value(wires, action), nil
}

// BestAction returns the action of the wire with the highest reward in
// state. Ties are broken by the first such wire. The action is not
// recorded.
func (w *WireFit) BestAction(state []float64) ([]float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wires, err := w.wires(state)
	if err != nil {
		return nil, fmt.Errorf("bestAction: %v", err)
	}
	return wires[wires.Best()].Action, nil
}

// HighestReward returns the highest reward of any wire in state
func (w *WireFit) HighestReward(state []float64) (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	reward, err := w.highestReward(state)
	if err != nil {
		return 0, fmt.Errorf("highestReward: %v", err)
	}
	return reward, nil
}

// ChooseBestAction selects the greedy action in state and records it
// as the last action
func (w *WireFit) ChooseBestAction(state []float64) ([]float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	wires, err := w.wires(state)
	if err != nil {
		return nil, fmt.Errorf("chooseBestAction: %v", err)
	}
	return w.record(wires[wires.Best()].Action, state), nil
}

// ChooseBoltzmannAction selects an action in state from the Boltzmann
// distribution over wires at the given temperature and records it as
// the last action. Higher temperatures select wires more uniformly.
func (w *WireFit) ChooseBoltzmannAction(state []float64,
	temperature float64) ([]float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	action, err := w.chooseBoltzmann(state, temperature, w.rng.Float64())
	if err != nil {
		return nil, fmt.Errorf("chooseBoltzmannAction: %w", err)
	}
	return action, nil
}

// chooseBoltzmann selects and records the Boltzmann action determined
// by determiner
func (w *WireFit) chooseBoltzmann(state []float64, temperature,
	determiner float64) ([]float64, error) {
	if !(temperature > 0) {
		return nil, fmt.Errorf("%w \n\twant(>0) \n\thave(%v)",
			ErrTemperature, temperature)
	}
	wires, err := w.wires(state)
	if err != nil {
		return nil, err
	}
	return w.record(wires[wires.Boltzmann(temperature, determiner)].Action,
		state), nil
}

// ApplyReinforcementToLastAction reinforces the last action selected
// with the reward received for it, the state that it led to, and the
// number of milliseconds that elapsed while taking it. The last action
// remains recorded.
func (w *WireFit) ApplyReinforcementToLastAction(reward float64,
	newState []float64, elapsedMillis float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.reinforce(w.state, reward, newState,
		elapsedMillis); err != nil {
		return fmt.Errorf("applyReinforcementToLastAction: %w", err)
	}
	return nil
}

// Reinforce reinforces the action recorded in s, which need not be the
// last action selected by the agent. The agent's own State is neither
// read nor modified.
func (w *WireFit) Reinforce(s State, reward float64, newState []float64,
	elapsedMillis float64) (Update, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	update, err := w.reinforce(s, reward, newState, elapsedMillis)
	if err != nil {
		return Update{}, fmt.Errorf("reinforce: %w", err)
	}
	return update, nil
}

// reinforce moves the wires of s.LastState so that the value of
// s.LastAction approaches the time-scaled feedback, then trains the
// model on the moved wires
func (w *WireFit) reinforce(s State, reward float64, newState []float64,
	elapsedMillis float64) (Update, error) {
	if !(elapsedMillis > 0) {
		return Update{}, fmt.Errorf("%w \n\twant(>0) \n\thave(%v)",
			ErrElapsedTime, elapsedMillis)
	}
	if !s.HasAction() {
		return Update{}, ErrNoAction
	}
	if len(s.LastAction) != w.config.ActionDimensions {
		return Update{}, fmt.Errorf("invalid action dimensions "+
			"\n\twant(%v) \n\thave(%v)", w.config.ActionDimensions,
			len(s.LastAction))
	}

	scaling := w.config.ScalingFactorToMillis * elapsedMillis

	wires, err := w.wires(s.LastState)
	if err != nil {
		return Update{}, fmt.Errorf("last state: %v", err)
	}
	nextHighest, err := w.highestReward(newState)
	if err != nil {
		return Update{}, fmt.Errorf("new state: %v", err)
	}

	oldValue := w.adjuster.Value(wires, s.LastAction)
	devaluation := math.Pow(w.config.DevaluationFactor, scaling)
	feedback := (1/scaling)*(reward+devaluation*nextHighest) +
		(1-1/scaling)*wires.MaxReward()
	target := (1-w.config.LearningRate)*oldValue +
		w.config.LearningRate*feedback

	adjusted, iterations := w.adjuster.Fit(target, s.LastAction, wires)
	encoded, err := w.codec.Encode(adjusted)
	if err != nil {
		return Update{}, err
	}

	err = w.trainer.Train(w.model, [][]float64{s.LastState},
		[][]float64{encoded})
	if err != nil {
		return Update{}, fmt.Errorf("could not train model: %v", err)
	}

	w.logger.Debug().
		Float64("reward", reward).
		Float64("old_value", oldValue).
		Float64("target", target).
		Int("iterations", iterations).
		Msg("reinforced action")
	if iterations == w.config.GradientDescentMaxIterations {
		w.logger.Trace().
			Float64("squared_error", w.adjuster.SquaredError(target,
				s.LastAction, adjusted)).
			Msg("wire adjustment reached the iteration limit")
	}

	return Update{
		OldValue:   oldValue,
		Feedback:   feedback,
		Target:     target,
		Iterations: iterations,
	}, nil
}

// wires predicts and decodes the wires of a state
func (w *WireFit) wires(state []float64) (wire.Set, error) {
	if len(state) != w.model.Inputs() {
		return nil, fmt.Errorf("invalid state dimensions \n\twant(%v) "+
			"\n\thave(%v)", w.model.Inputs(), len(state))
	}
	raw, err := w.model.Forward(state)
	if err != nil {
		return nil, fmt.Errorf("could not predict wires: %v", err)
	}
	return w.codec.Decode(raw)
}

func (w *WireFit) highestReward(state []float64) (float64, error) {
	wires, err := w.wires(state)
	if err != nil {
		return 0, err
	}
	return wires.MaxReward(), nil
}

// record stores copies of action and state as the last action and the
// state it was selected in, returning a copy of action
func (w *WireFit) record(action, state []float64) []float64 {
	w.state = State{LastAction: action, LastState: state}.Clone()
	return append([]float64{}, action...)
}
