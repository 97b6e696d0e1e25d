package wire

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Interpolator estimates the value of arbitrary actions from a Set of
// wires using inverse distance weighting:
//
//	Q(a) = Σ_w (r_w / d_w(a)) / Σ_w (1 / d_w(a))
//	d_w(a) = ||a - a_w||⁴ + c * (max_w' r_w' - r_w) + ε
//
// where c is the smoothing factor and ε the distance floor. The
// smoothing term shortens the distance to wires with high rewards so
// that the interpolated surface is biased towards them. The distance
// floor keeps every distance strictly positive.
type Interpolator struct {
	SmoothingFactor float64
	Epsilon         float64
}

// NewInterpolator returns a new Interpolator
func NewInterpolator(smoothingFactor, epsilon float64) (Interpolator, error) {
	if smoothingFactor < 0 {
		return Interpolator{}, fmt.Errorf("newInterpolator: smoothing "+
			"factor must be non-negative \n\twant(>=0) \n\thave(%v)",
			smoothingFactor)
	}
	if epsilon <= 0 {
		return Interpolator{}, fmt.Errorf("newInterpolator: epsilon must be "+
			"positive \n\twant(>0) \n\thave(%v)", epsilon)
	}
	return Interpolator{SmoothingFactor: smoothingFactor, Epsilon: epsilon}, nil
}

// squaredNorm returns Σ_i (a_i - w_i)²
func squaredNorm(w Wire, action []float64) float64 {
	if len(w.Action) != len(action) {
		panic(fmt.Sprintf("squaredNorm: action dimensions do not match "+
			"\n\twant(%v) \n\thave(%v)", len(w.Action), len(action)))
	}
	d := floats.Distance(action, w.Action, 2)
	return d * d
}

// Distance returns the distance between a wire and an action, given the
// maximum reward of any wire in the wire's Set
func (i Interpolator) Distance(w Wire, action []float64,
	maxReward float64) float64 {
	norm := squaredNorm(w, action)
	return norm*norm + i.SmoothingFactor*(maxReward-w.Reward) + i.Epsilon
}

// WeightedSum returns Σ_w r_w / d_w(action)
func (i Interpolator) WeightedSum(wires Set, action []float64) float64 {
	return i.weightedSum(wires, action, wires.MaxReward())
}

func (i Interpolator) weightedSum(wires Set, action []float64,
	maxReward float64) float64 {
	var sum float64
	for _, w := range wires {
		sum += w.Reward / i.Distance(w, action, maxReward)
	}
	return sum
}

// Normalize returns Σ_w 1 / d_w(action)
func (i Interpolator) Normalize(wires Set, action []float64) float64 {
	return i.normalize(wires, action, wires.MaxReward())
}

func (i Interpolator) normalize(wires Set, action []float64,
	maxReward float64) float64 {
	var sum float64
	for _, w := range wires {
		sum += 1.0 / i.Distance(w, action, maxReward)
	}
	return sum
}

// Value returns the interpolated value of taking action given the Set
// of wires
func (i Interpolator) Value(wires Set, action []float64) float64 {
	maxReward := wires.MaxReward()
	return i.weightedSum(wires, action, maxReward) /
		i.normalize(wires, action, maxReward)
}

// terms caches the quantities shared by all partial derivatives of the
// interpolated value for a single Set and action
type terms struct {
	maxReward float64
	wsum      float64
	norm      float64
	value     float64
}

func (i Interpolator) terms(wires Set, action []float64) terms {
	maxReward := wires.MaxReward()
	wsum := i.weightedSum(wires, action, maxReward)
	norm := i.normalize(wires, action, maxReward)

	return terms{
		maxReward: maxReward,
		wsum:      wsum,
		norm:      norm,
		value:     wsum / norm,
	}
}

// rewardGrad returns ∂Q/∂r_w, treating the maximum reward as constant
func (i Interpolator) rewardGrad(t terms, w Wire, action []float64) float64 {
	c := i.SmoothingFactor
	d := i.Distance(w, action, t.maxReward)

	return (t.norm*(d+w.Reward*c) - t.wsum*c) / math.Pow(t.norm*d, 2)
}

// actionGrad fills grad with ∂Q/∂a_w for each action dimension of w
func (i Interpolator) actionGrad(t terms, w Wire, action,
	grad []float64) {
	d := i.Distance(w, action, t.maxReward)
	scale := (t.wsum - t.norm*w.Reward) / math.Pow(t.norm*d, 2)

	// ∂d/∂a_w[b] = 4 * ||a - a_w||² * (a_w[b] - a[b])
	norm := squaredNorm(w, action)
	for b := range grad {
		grad[b] = scale * 4 * norm * (w.Action[b] - action[b])
	}
}
