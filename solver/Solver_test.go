package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverJSON(t *testing.T) {
	for _, typ := range []Type{Vanilla, Adam, RMSProp} {
		s, err := New(typ, 0.01)
		require.NoError(t, err)
		require.NotNil(t, s.Solver)

		data, err := json.Marshal(s)
		require.NoError(t, err)

		var decoded Solver
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, typ, decoded.Type)
		assert.Equal(t, s.Config, decoded.Config)
		assert.NotNil(t, decoded.Solver)
	}
}

func TestSolverErrors(t *testing.T) {
	_, err := New(Vanilla, 0)
	assert.Error(t, err)

	_, err = New(Type("Momentum"), 0.1)
	assert.Error(t, err)

	_, err = newSolver(Adam, VanillaConfig{StepSize: 0.1})
	assert.Error(t, err)

	_, err = NewDefaultAdam(0.1, 0)
	assert.Error(t, err)

	_, err = NewAdam(0.1, 1e-8, 1, 0.999, 1)
	assert.Error(t, err)

	_, err = NewRMSProp(0.1, 1e-8, 1, 1)
	assert.Error(t, err)

	_, err = NewRMSProp(0.1, 0, 0.9, 1)
	assert.Error(t, err)

	var s Solver
	assert.Error(t, json.Unmarshal([]byte(`{"type":"Nope","config":{}}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"config":{}}`), &s))

	// Decoded configurations are validated
	assert.Error(t, json.Unmarshal(
		[]byte(`{"type":"Adam","config":{"step_size":-1,"batch":1}}`), &s))
}
