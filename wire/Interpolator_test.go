package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolatorDistance(t *testing.T) {
	interp, err := NewInterpolator(0.2, 0.01)
	require.NoError(t, err)

	w := Wire{Action: []float64{1, 2}, Reward: 1}
	action := []float64{0, 0}

	// ||a - w||² = 5, squared again = 25
	got := interp.Distance(w, action, 3)
	assert.InDelta(t, 25+0.2*2+0.01, got, 1e-12)

	// At its own action, the max wire is only epsilon away
	assert.InDelta(t, 0.01, interp.Distance(w, w.Action, w.Reward), 1e-15)
}

func TestInterpolatorValueExample(t *testing.T) {
	interp, _ := NewInterpolator(0.2, 0.01)
	wires := Set{
		{Action: []float64{0.5}, Reward: 1.0},
		{Action: []float64{-0.2}, Reward: 2.0},
	}

	for _, action := range [][]float64{{0.5}, {-0.2}, {0}, {3}} {
		wsum := interp.WeightedSum(wires, action)
		norm := interp.Normalize(wires, action)
		value := interp.Value(wires, action)

		assert.InDelta(t, wsum/norm, value, 1e-12)
		assert.GreaterOrEqual(t, value, 1.0)
		assert.LessOrEqual(t, value, 2.0)
	}

	assert.InDelta(t, 1.4564225168441647, interp.Value(wires, []float64{0.5}),
		1e-9)
	assert.InDelta(t, 1.978265594435992, interp.Value(wires, []float64{-0.2}),
		1e-9)
}

func TestInterpolatorBoundary(t *testing.T) {
	wires := Set{
		{Action: []float64{0, 0}, Reward: 1.0},
		{Action: []float64{1, 0}, Reward: 0.5},
		{Action: []float64{0, -1}, Reward: -2.0},
	}
	best := wires[wires.Best()]

	// Every other wire is at least 1 away so that
	// |Q - r*| <= ε * Σ|r_w - r*|
	var spread float64
	for _, w := range wires {
		spread += math.Abs(w.Reward - best.Reward)
	}

	prevErr := math.Inf(1)
	for _, eps := range []float64{1e-1, 1e-2, 1e-4, 1e-6, 1e-9} {
		interp, err := NewInterpolator(0.2, eps)
		require.NoError(t, err)

		value := interp.Value(wires, best.Action)
		diff := math.Abs(value - best.Reward)
		assert.LessOrEqual(t, diff, eps*spread, "epsilon %v", eps)
		assert.Less(t, diff, prevErr)
		prevErr = diff
	}
}

func TestInterpolatorErrors(t *testing.T) {
	_, err := NewInterpolator(-1, 0.01)
	assert.Error(t, err)
	_, err = NewInterpolator(0.2, 0)
	assert.Error(t, err)

	interp, _ := NewInterpolator(0.2, 0.01)
	w := Wire{Action: []float64{1, 2}, Reward: 1}
	assert.Panics(t, func() { interp.Distance(w, []float64{1}, 1) })
}

// TestInterpolatorGradients checks the analytic partial derivatives
// against central finite differences. Only wires that do not hold the
// maximum reward are checked, since the maximum is treated as constant.
func TestInterpolatorGradients(t *testing.T) {
	interp, _ := NewInterpolator(0.2, 0.01)
	wires := Set{
		{Action: []float64{0.3, -0.1}, Reward: 0.4},
		{Action: []float64{-0.5, 0.6}, Reward: 1.5},
		{Action: []float64{0.9, 0.2}, Reward: -0.3},
	}
	action := []float64{0.1, 0.2}
	const h = 1e-6

	tm := interp.terms(wires, action)
	grad := make([]float64, len(action))
	for w := range wires {
		if w == wires.Best() {
			continue
		}

		plus, minus := wires.Clone(), wires.Clone()
		plus[w].Reward += h
		minus[w].Reward -= h
		numeric := (interp.Value(plus, action) -
			interp.Value(minus, action)) / (2 * h)
		assert.InDelta(t, numeric, interp.rewardGrad(tm, wires[w], action),
			1e-6, "reward of wire %v", w)

		interp.actionGrad(tm, wires[w], action, grad)
		for b := range action {
			plus, minus := wires.Clone(), wires.Clone()
			plus[w].Action[b] += h
			minus[w].Action[b] -= h
			numeric := (interp.Value(plus, action) -
				interp.Value(minus, action)) / (2 * h)
			assert.InDelta(t, numeric, grad[b], 1e-6,
				"action %v of wire %v", b, w)
		}
	}
}
