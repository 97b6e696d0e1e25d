package wirefit

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/samuelfneumann/wirefit/approximator"
	"github.com/samuelfneumann/wirefit/utils/matutils/initializers/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPersistable(t *testing.T) *WireFit {
	config := DefaultConfig(0.3, 0.95, 2, 3)
	config.SmoothingFactor = 0.1

	model, err := approximator.NewLinear(4, 9, weights.NewNormal(0, 1, 5))
	require.NoError(t, err)
	sgd, err := approximator.NewSGD(0.01)
	require.NoError(t, err)

	w, err := New(model, sgd, config, 9)
	require.NoError(t, err)
	return w
}

func TestSaveLoad(t *testing.T) {
	w := newPersistable(t)
	state := []float64{0.1, -0.2, 0.3, 0.4}
	_, err := w.ChooseBoltzmannAction(state, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	loaded, err := Load(&buf, &approximator.Linear{}, &approximator.SGD{}, 9)
	require.NoError(t, err)

	assert.Equal(t, w.Config(), loaded.Config())
	assert.Equal(t, w.State(), loaded.State())
	assert.Equal(t, 0.01, loaded.Trainer().(*approximator.SGD).StepSize)

	want, err := w.Wires(state)
	require.NoError(t, err)
	got, err := loaded.Wires(state)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	// The loaded agent can continue learning from the persisted action
	require.NoError(t, loaded.ApplyReinforcementToLastAction(1, state, 5))
}

func TestSaveLoadWithoutAction(t *testing.T) {
	w := newPersistable(t)

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	assert.Contains(t, buf.String(), `"LastAction": null`)

	loaded, err := Load(&buf, &approximator.Linear{}, &approximator.SGD{}, 0)
	require.NoError(t, err)
	assert.False(t, loaded.State().HasAction())
}

func TestSaveFieldOrder(t *testing.T) {
	w := newPersistable(t)
	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	fields := []string{"Version", "LearningRate", "DevaluationFactor",
		"ActionDimensions", "NumberOfWires", "ScalingFactorToMillis",
		"SmoothingFactor", "Epsilon", "GradientDescentErrorTarget",
		"GradientDescentLearningRate", "GradientDescentMaxIterations",
		"LastAction", "LastState", "Trainer", "Model"}

	doc := buf.String()
	last := -1
	for _, field := range fields {
		idx := strings.Index(doc, `"`+field+`"`)
		require.Greater(t, idx, last, field)
		last = idx
	}
}

func TestLoadErrors(t *testing.T) {
	w := newPersistable(t)
	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	doc := buf.String()

	load := func(doc string) error {
		_, err := Load(strings.NewReader(doc), &approximator.Linear{},
			&approximator.SGD{}, 0)
		return err
	}

	assert.Error(t, load(strings.Replace(doc, `"Version": 1`,
		`"Version": 2`, 1)))
	assert.Error(t, load(strings.Replace(doc, `"NumberOfWires": 3`,
		`"NumberOfWires": 4`, 1)))
	assert.Error(t, load(strings.Replace(doc, `"Epsilon": 0.01`,
		`"Epsilon": 0`, 1)))
	assert.Error(t, load("{"))

	_, err := Load(strings.NewReader(doc), &fixedModel{}, &approximator.SGD{},
		0)
	assert.Error(t, err)
	_, err = Load(strings.NewReader(doc), &approximator.Linear{}, &recorder{},
		0)
	assert.Error(t, err)

	// Last action and state must have consistent dimensions
	_, err = w.ChooseBestAction([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, w.Save(&buf))
	assert.NoError(t, load(buf.String()))

	a := w.State().LastAction
	assert.Error(t, load(strings.Replace(buf.String(), `"LastState": [`,
		`"LastState": [0,`, 1)))
	assert.Error(t, load(strings.Replace(buf.String(), `"LastAction": [`,
		`"LastAction": [0,`, 1)))
	assert.Len(t, a, 2)
}

func TestFailedLoadLeavesArgumentsUnchanged(t *testing.T) {
	w := newPersistable(t)
	_, err := w.ChooseBestAction([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	doc := buf.String()

	// Each document is rejected at a different stage of loading
	bad := []string{
		strings.Replace(doc, `"LastState": [`, `"LastState": [0,`, 1),
		regexp.MustCompile(`"Trainer": "[^"]*"`).ReplaceAllString(doc,
			`"Trainer": ""`),
		strings.Replace(doc, `"NumberOfWires": 3`, `"NumberOfWires": 4`, 1),
		strings.Replace(doc, `"Epsilon": 0.01`, `"Epsilon": 0`, 1),
	}
	for i, d := range bad {
		model, err := approximator.NewLinear(2, 5, weights.Zero{})
		require.NoError(t, err)
		sgd, err := approximator.NewSGD(0.25)
		require.NoError(t, err)

		loaded, err := Load(strings.NewReader(d), model, sgd, 0)
		assert.Error(t, err, "document %v", i)
		assert.Nil(t, loaded)

		assert.Equal(t, 2, model.Inputs(), "document %v", i)
		assert.Equal(t, 5, model.Outputs(), "document %v", i)
		assert.Equal(t, 0.25, sgd.StepSize, "document %v", i)
	}

	// A successful load fills in and uses the given values
	model := &approximator.Linear{}
	sgd := &approximator.SGD{}
	loaded, err := Load(strings.NewReader(doc), model, sgd, 0)
	require.NoError(t, err)
	assert.Same(t, model, loaded.Model())
	assert.Same(t, sgd, loaded.Trainer())
	assert.Equal(t, 4, model.Inputs())
	assert.Equal(t, 9, model.Outputs())
	assert.Equal(t, 0.01, sgd.StepSize)
}

func TestSaveErrors(t *testing.T) {
	w, _, err := newExample(DefaultConfig(0.5, 0.9, 1, 2))
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, w.Save(&buf))

	model := &gobModel{fixedModel{inputs: 1, output: exampleOutput}}
	w, err = New(model, &recorder{}, DefaultConfig(0.5, 0.9, 1, 2), 0)
	require.NoError(t, err)
	assert.Error(t, w.Save(&buf))
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.json")

	model := &gobModel{fixedModel{inputs: 1, output: exampleOutput}}
	sgd, _ := approximator.NewSGD(0.5)
	w, err := New(model, sgd, DefaultConfig(0.5, 0.9, 1, 2), 0)
	require.NoError(t, err)
	_, err = w.ChooseBestAction([]float64{2})
	require.NoError(t, err)

	require.NoError(t, w.SaveFile(path))
	loaded, err := LoadFile(path, &gobModel{}, &approximator.SGD{}, 0)
	require.NoError(t, err)
	assert.Equal(t, w.State(), loaded.State())

	best, err := loaded.BestAction([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.2}, best)

	_, err = LoadFile(filepath.Join(dir, "missing.json"), &gobModel{},
		&approximator.SGD{}, 0)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	err = w.SaveFile(filepath.Join(dir, "missing", "agent.json"))
	assert.Error(t, err)
}
