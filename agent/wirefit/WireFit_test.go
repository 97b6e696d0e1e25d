package wirefit

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/samuelfneumann/wirefit/approximator"
	"github.com/samuelfneumann/wirefit/utils/matutils/initializers/weights"
	"github.com/samuelfneumann/wirefit/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrors(t *testing.T) {
	config := DefaultConfig(0.5, 0.9, 1, 2)

	_, err := New(nil, &recorder{}, config, 0)
	assert.Error(t, err)

	// Model must predict 2 * (1 + 1) outputs
	_, err = New(&fixedModel{inputs: 1, output: make([]float64, 3)},
		&recorder{}, config, 0)
	assert.Error(t, err)

	bad := config
	bad.NumberOfWires = 0
	_, _, err = newExample(bad)
	assert.Error(t, err)

	bad = config
	bad.LearningRate = 1.5
	_, _, err = newExample(bad)
	assert.Error(t, err)

	bad = config
	bad.ScalingFactorToMillis = 0
	_, _, err = newExample(bad)
	assert.Error(t, err)

	bad = config
	bad.Epsilon = 0
	_, _, err = newExample(bad)
	assert.Error(t, err)

	bad = config
	bad.GradientDescentMaxIterations = 0
	_, _, err = newExample(bad)
	assert.Error(t, err)
}

func TestExampleBestAction(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	wires, err := w.Wires([]float64{0})
	require.NoError(t, err)
	assert.True(t, wires.Equal(wire.Set{
		{Action: []float64{0.5}, Reward: 1.0},
		{Action: []float64{-0.2}, Reward: 2.0},
	}))

	best, err := w.BestAction([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.2}, best)
	assert.False(t, w.State().HasAction())

	highest, err := w.HighestReward([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, highest)

	value, err := w.Value([]float64{0}, []float64{-0.2})
	require.NoError(t, err)
	assert.InDelta(t, 1.978265594435992, value, 1e-12)

	_, err = w.Value([]float64{0}, []float64{0, 0})
	assert.Error(t, err)
	_, err = w.BestAction([]float64{0, 1})
	assert.Error(t, err)
}

func TestChooseBestActionRecords(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	state := []float64{3}
	action, err := w.ChooseBestAction(state)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.2}, action)

	// The recorded state must not alias the arguments or return values
	state[0] = 4
	action[0] = 10
	assert.Equal(t, State{LastAction: []float64{-0.2}, LastState: []float64{3}},
		w.State())
}

func TestChooseBoltzmannAction(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	action, err := w.chooseBoltzmann([]float64{1}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, action)

	// Determiners at the end of the unit interval select the last wire
	for _, determiner := range []float64{math.Nextafter(1, 0), 1} {
		action, err = w.chooseBoltzmann([]float64{2}, 1, determiner)
		require.NoError(t, err)
		assert.Equal(t, []float64{-0.2}, action)
		assert.Equal(t, []float64{2}, w.State().LastState)
	}

	for i := 0; i < 100; i++ {
		action, err = w.ChooseBoltzmannAction([]float64{0}, 0.5)
		require.NoError(t, err)
		assert.Contains(t, [][]float64{{0.5}, {-0.2}}, action)
		assert.Equal(t, action, w.State().LastAction)
	}
}

func TestChooseBoltzmannActionTemperature(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	for _, temperature := range []float64{0, -1, math.NaN()} {
		_, err = w.ChooseBoltzmannAction([]float64{0}, temperature)
		assert.True(t, errors.Is(err, ErrTemperature))
	}
	assert.False(t, w.State().HasAction())
}

func TestBoltzmannHighTemperature(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	const trials = 20000
	var first int
	for i := 0; i < trials; i++ {
		action, err := w.ChooseBoltzmannAction([]float64{0}, 1e6)
		require.NoError(t, err)
		if action[0] == 0.5 {
			first++
		}
	}
	assert.InDelta(t, 0.5, float64(first)/trials, 0.02)
}

func TestReinforceElapsedTime(t *testing.T) {
	w, trainer, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)
	_, err = w.ChooseBestAction([]float64{0})
	require.NoError(t, err)
	before := w.State()

	for _, elapsed := range []float64{0, -1, math.NaN()} {
		err = w.ApplyReinforcementToLastAction(1, []float64{1}, elapsed)
		assert.True(t, errors.Is(err, ErrElapsedTime))
	}
	assert.Equal(t, 0, trainer.calls())
	assert.Equal(t, before, w.State())
}

func TestReinforceNoAction(t *testing.T) {
	w, trainer, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	err = w.ApplyReinforcementToLastAction(1, []float64{1}, 10)
	assert.True(t, errors.Is(err, ErrNoAction))
	assert.Equal(t, 0, trainer.calls())
}

func TestReinforceTarget(t *testing.T) {
	config := DefaultConfig(0.5, 0.9, 1, 2)
	w, trainer, err := newExample(config)
	require.NoError(t, err)

	_, err = w.ChooseBestAction([]float64{7})
	require.NoError(t, err)
	before := w.State()

	// scaling = 0.5 * 4 = 2
	// feedback = 1/2 (1 + 0.9² · 2) + 1/2 · 2 = 2.31
	update, err := w.Reinforce(w.State(), 1, []float64{8}, 4)
	require.NoError(t, err)

	oldValue := 1.978265594435992
	assert.InDelta(t, oldValue, update.OldValue, 1e-12)
	assert.InDelta(t, 2.31, update.Feedback, 1e-12)
	assert.InDelta(t, 0.5*oldValue+0.5*2.31, update.Target, 1e-12)
	assert.Equal(t, before, w.State())

	require.Equal(t, 1, trainer.calls())
	assert.Equal(t, []float64{7}, trainer.inputs[0])

	codec, err := wire.NewCodec(1, 2)
	require.NoError(t, err)
	adjusted, err := codec.Decode(trainer.targets[0])
	require.NoError(t, err)

	adjuster, err := config.adjuster()
	require.NoError(t, err)
	sqErr := adjuster.SquaredError(update.Target, []float64{-0.2}, adjusted)
	if update.Iterations < config.GradientDescentMaxIterations {
		assert.LessOrEqual(t, sqErr, config.GradientDescentErrorTarget)
	}
	assert.Greater(t, update.Iterations, 0)

	require.NoError(t, w.ApplyReinforcementToLastAction(1, []float64{8}, 4))
	assert.Equal(t, 2, trainer.calls())
	assert.Equal(t, trainer.targets[0], trainer.targets[1])
}

func TestReinforceExplicitState(t *testing.T) {
	w, trainer, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	s := State{LastAction: []float64{0.1}, LastState: []float64{5}}
	_, err = w.Reinforce(s, -1, []float64{6}, 20)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5}}, trainer.inputs)
	assert.False(t, w.State().HasAction())

	_, err = w.Reinforce(State{LastAction: []float64{0, 0},
		LastState: []float64{5}}, 0, []float64{6}, 1)
	assert.Error(t, err)

	_, err = w.Reinforce(State{LastAction: []float64{0},
		LastState: []float64{5, 5}}, 0, []float64{6}, 1)
	assert.Error(t, err)
}

func TestReinforceMovesValueTowardTarget(t *testing.T) {
	config := DefaultConfig(0.5, 0.9, 1, 3)
	config.ScalingFactorToMillis = 1

	model, err := approximator.NewLinear(2, 6, weights.Zero{})
	require.NoError(t, err)
	sgd, err := approximator.NewSGD(0.1)
	require.NoError(t, err)
	w, err := New(model, sgd, config, 3)
	require.NoError(t, err)

	state := []float64{1, 0.5}
	action, err := w.ChooseBestAction(state)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, action)

	// All wires predict zero, so the feedback is the reward itself
	update, err := w.Reinforce(w.State(), 1, []float64{0, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, update.OldValue)
	assert.InDelta(t, 1.0, update.Feedback, 1e-12)
	assert.InDelta(t, 0.5, update.Target, 1e-12)

	value, err := w.Value(state, action)
	require.NoError(t, err)
	assert.Greater(t, value, 0.0)
	assert.Less(t, value, update.Target)
}

func TestConcurrentUse(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				state := []float64{float64(i)}
				_, err := w.ChooseBoltzmannAction(state, 1)
				assert.NoError(t, err)
				err = w.ApplyReinforcementToLastAction(0.5, state, 10)
				assert.NoError(t, err)

				s := w.State()
				assert.Len(t, s.LastAction, 1)
				assert.Len(t, s.LastState, 1)
			}
		}(i)
	}
	wg.Wait()
}
