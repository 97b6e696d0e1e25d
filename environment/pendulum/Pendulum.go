// Package pendulum implements the continuous-action pendulum swing-up
// classic control environment
package pendulum

import (
	"fmt"
	"math"
	"time"

	"github.com/samuelfneumann/wirefit/environment"
	"github.com/samuelfneumann/wirefit/timestep"
	"github.com/samuelfneumann/wirefit/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	Gravity         float64 = 9.8
	Mass            float64 = 1.0
	Length          float64 = 1.0
	ActionDims      int     = 1
	ObservationDims int     = 2

	// DT is the amount of simulated time that passes on each step
	DT = 50 * time.Millisecond
)

// Pendulum implements the classic control environment Pendulum. In this
// environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher until the pendulum can point straight up.
//
// State features consist of the angle of the pendulum from the positive
// y-axis and the angular velocity of the pendulum. The angular velocity
// is clipped to [-SpeedBound, SpeedBound] and angles are wrapped to
// stay within [-AngleBound, AngleBound) = [-π, π).
//
// Actions are continuous and 1-dimensional, the torque to apply to the
// pendulum at its fixed base. Actions outside of [MinContinuousAction,
// MaxContinuousAction] are clipped. Each step advances the simulation
// by DT, which is reported as the Elapsed time of each TimeStep.
type Pendulum struct {
	environment.Task
	angleBounds  r1.Interval
	speedBounds  r1.Interval
	torqueBounds r1.Interval
	lastStep     timestep.TimeStep
	discount     float64
}

// New creates and returns a new Pendulum and its first TimeStep
func New(t environment.Task, discount float64) (*Pendulum,
	timestep.TimeStep, error) {
	p := &Pendulum{
		Task:         t,
		angleBounds:  r1.Interval{Min: -AngleBound, Max: AngleBound},
		speedBounds:  r1.Interval{Min: -SpeedBound, Max: SpeedBound},
		torqueBounds: r1.Interval{Min: -TorqueBound, Max: TorqueBound},
		discount:     discount,
	}

	state := t.Start()
	if err := p.validateState(state); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	p.lastStep = timestep.New(timestep.First, 0, discount, state, 0, 0)

	return p, p.lastStep, nil
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (p *Pendulum) LastTimeStep() timestep.TimeStep {
	return p.lastStep
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter. It panics if the Starter produces a state
// outside the environment bounds.
func (p *Pendulum) Reset() timestep.TimeStep {
	state := p.Start()
	if err := p.validateState(state); err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}
	p.lastStep = timestep.New(timestep.First, 0, p.discount, state, 0, 0)

	return p.lastStep
}

// Step takes one environmental step given a 1-dimensional action and
// returns the next timestep and whether or not the episode has ended
func (p *Pendulum) Step(action *mat.VecDense) (timestep.TimeStep, bool) {
	if action.Len() != ActionDims {
		panic(fmt.Sprintf("step: actions should be %v-dimensional",
			ActionDims))
	}

	torque := floatutils.ClipInterval(action.AtVec(0), p.torqueBounds)
	state := p.lastStep.Observation
	nextState := p.nextState(state, torque)

	reward := p.GetReward(state, action, nextState)
	nextStep := timestep.New(timestep.Mid, reward, p.discount, nextState,
		p.lastStep.Number+1, DT)
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// nextState computes the next state of the environment given the
// current state and an amount of torque to apply to the fixed base of
// the pendulum
func (p *Pendulum) nextState(state mat.Vector, torque float64) *mat.VecDense {
	th, thdot := state.AtVec(0), state.AtVec(1)
	dt := DT.Seconds()

	newthdot := thdot + (-3*Gravity/(2*Length)*math.Sin(th+math.Pi)+
		3.0/(Mass*math.Pow(Length, 2))*torque)*dt
	newthdot = floatutils.ClipInterval(newthdot, p.speedBounds)

	newth := floatutils.Wrap(th+newthdot*dt, p.angleBounds)

	return mat.NewVecDense(ObservationDims, []float64{newth, newthdot})
}

// DiscountSpec returns the discount specification of the environment
func (p *Pendulum) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{p.discount})
	upperBound := mat.NewVecDense(1, []float64{p.discount})

	return environment.NewSpec(shape, environment.Discount, lowerBound,
		upperBound)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Pendulum) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	minObs := []float64{p.angleBounds.Min, p.speedBounds.Min}
	lowerBound := mat.NewVecDense(ObservationDims, minObs)

	maxObs := []float64{p.angleBounds.Max, p.speedBounds.Max}
	upperBound := mat.NewVecDense(ObservationDims, maxObs)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound)
}

// ActionSpec returns the action specification of the environment
func (p *Pendulum) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{p.torqueBounds.Min})
	upperBound := mat.NewVecDense(ActionDims, []float64{p.torqueBounds.Max})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound)
}

// String converts the environment to a string representation
func (p *Pendulum) String() string {
	str := "Pendulum  |  theta: %v  |  theta dot: %v"
	theta := p.lastStep.Observation.AtVec(0)
	thetadot := p.lastStep.Observation.AtVec(1)

	return fmt.Sprintf(str, theta, thetadot)
}

// validateState validates the state to ensure that the angle and angular
// velocity are within the environmental limits
func (p *Pendulum) validateState(obs mat.Vector) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("state must be %v-dimensional \n\thave(%v)",
			ObservationDims, obs.Len())
	}
	if !(obs.AtVec(0) <= p.angleBounds.Max &&
		obs.AtVec(0) >= p.angleBounds.Min) {
		return fmt.Errorf("theta is not within bounds %v", p.angleBounds)
	}
	if !(obs.AtVec(1) <= p.speedBounds.Max &&
		obs.AtVec(1) >= p.speedBounds.Min) {
		return fmt.Errorf("theta dot is not within bounds %v", p.speedBounds)
	}
	return nil
}
