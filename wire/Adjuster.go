package wire

import (
	"fmt"
	"math"
)

// Adjuster moves a Set of wires so that the value interpolated at some
// action approaches a target value.
//
// The Adjuster performs gradient descent on the squared error
// (target - Q(action))² with respect to the reward and every action
// component of each wire. On each iteration, the gradients of all wires
// are computed from the same (pre-iteration) Set and then applied
// together. Iteration stops once the squared error is at most
// ErrorTarget or once MaxIterations iterations have been performed,
// whichever happens first. No guarantee of convergence is made.
type Adjuster struct {
	Interpolator

	ErrorTarget   float64
	LearningRate  float64
	MaxIterations int
}

// NewAdjuster returns a new Adjuster
func NewAdjuster(interpolator Interpolator, errorTarget, learningRate float64,
	maxIterations int) (Adjuster, error) {
	if errorTarget < 0 {
		return Adjuster{}, fmt.Errorf("newAdjuster: error target must be "+
			"non-negative \n\twant(>=0) \n\thave(%v)", errorTarget)
	}
	if learningRate <= 0 {
		return Adjuster{}, fmt.Errorf("newAdjuster: learning rate must be "+
			"positive \n\twant(>0) \n\thave(%v)", learningRate)
	}
	if maxIterations < 1 {
		return Adjuster{}, fmt.Errorf("newAdjuster: maximum iterations "+
			"must be positive \n\twant(>0) \n\thave(%v)", maxIterations)
	}

	return Adjuster{
		Interpolator:  interpolator,
		ErrorTarget:   errorTarget,
		LearningRate:  learningRate,
		MaxIterations: maxIterations,
	}, nil
}

// SquaredError returns (target - Q(action))² for the Set of wires
func (a Adjuster) SquaredError(target float64, action []float64,
	wires Set) float64 {
	return math.Pow(target-a.Value(wires, action), 2)
}

// Fit returns a new Set of wires adjusted so that the value
// interpolated at action approaches target, as well as the number of
// gradient descent iterations that were performed. The argument wires
// are not modified.
func (a Adjuster) Fit(target float64, action []float64, wires Set) (Set,
	int) {
	current := wires.Clone()
	next := wires.Clone()
	grad := make([]float64, len(action))

	iterations := 0
	for ; iterations < a.MaxIterations; iterations++ {
		t := a.terms(current, action)
		if math.Pow(target-t.value, 2) <= a.ErrorTarget {
			break
		}

		// ∂E/∂θ = -2 * (target - Q) * ∂Q/∂θ
		errScale := -2 * (target - t.value)
		for w := range current {
			rewardGrad := a.rewardGrad(t, current[w], action)
			next[w].Reward = current[w].Reward -
				a.LearningRate*errScale*rewardGrad

			a.actionGrad(t, current[w], action, grad)
			for b := range grad {
				next[w].Action[b] = current[w].Action[b] -
					a.LearningRate*errScale*grad[b]
			}
		}

		current, next = next, current
	}

	return current, iterations
}
