// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment.
// Elapsed is the amount of time that passed between the previous
// TimeStep and this one, and is zero for the first step of an episode.
type TimeStep struct {
	stepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	Elapsed     time.Duration
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o mat.Vector, n int,
	elapsed time.Duration) TimeStep {
	return TimeStep{t, r, d, o, n, elapsed}
}

// StepType returns the type of the TimeStep
func (t *TimeStep) StepType() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

// SetLast marks the TimeStep as the last in its episode
func (t *TimeStep) SetLast() {
	t.stepType = Last
}

// ElapsedMillis returns the time elapsed since the previous TimeStep in
// milliseconds
func (t *TimeStep) ElapsedMillis() float64 {
	return float64(t.Elapsed) / float64(time.Millisecond)
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  Elapsed: %v"

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Discount, t.Number,
		t.Elapsed)
}
