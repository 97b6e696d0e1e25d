package wirefit

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/samuelfneumann/wirefit/approximator"
)

// Version is the version of the persisted agent format written by Save
const Version = 1

// document is the persisted form of a WireFit agent. The Trainer and
// Model blocks hold the gob encodings of the collaborators.
type document struct {
	Version                      int
	LearningRate                 float64
	DevaluationFactor            float64
	ActionDimensions             int
	NumberOfWires                int
	ScalingFactorToMillis        float64
	SmoothingFactor              float64
	Epsilon                      float64
	GradientDescentErrorTarget   float64
	GradientDescentLearningRate  float64
	GradientDescentMaxIterations int
	LastAction                   []float64
	LastState                    []float64
	Trainer                      []byte
	Model                        []byte
}

func (d document) config() Config {
	return Config{
		LearningRate:                 d.LearningRate,
		DevaluationFactor:            d.DevaluationFactor,
		ActionDimensions:             d.ActionDimensions,
		NumberOfWires:                d.NumberOfWires,
		ScalingFactorToMillis:        d.ScalingFactorToMillis,
		SmoothingFactor:              d.SmoothingFactor,
		Epsilon:                      d.Epsilon,
		GradientDescentErrorTarget:   d.GradientDescentErrorTarget,
		GradientDescentLearningRate:  d.GradientDescentLearningRate,
		GradientDescentMaxIterations: d.GradientDescentMaxIterations,
	}
}

// Save writes the agent to out as a versioned JSON document. Both the
// model and the trainer must implement gob.GobEncoder.
func (w *WireFit) Save(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	model, ok := w.model.(gob.GobEncoder)
	if !ok {
		return fmt.Errorf("save: cannot encode model of type %T", w.model)
	}
	trainer, ok := w.trainer.(gob.GobEncoder)
	if !ok {
		return fmt.Errorf("save: cannot encode trainer of type %T",
			w.trainer)
	}

	modelBytes, err := model.GobEncode()
	if err != nil {
		return fmt.Errorf("save: could not encode model: %w", err)
	}
	trainerBytes, err := trainer.GobEncode()
	if err != nil {
		return fmt.Errorf("save: could not encode trainer: %w", err)
	}

	c := w.config
	doc := document{
		Version:                      Version,
		LearningRate:                 c.LearningRate,
		DevaluationFactor:            c.DevaluationFactor,
		ActionDimensions:             c.ActionDimensions,
		NumberOfWires:                c.NumberOfWires,
		ScalingFactorToMillis:        c.ScalingFactorToMillis,
		SmoothingFactor:              c.SmoothingFactor,
		Epsilon:                      c.Epsilon,
		GradientDescentErrorTarget:   c.GradientDescentErrorTarget,
		GradientDescentLearningRate:  c.GradientDescentLearningRate,
		GradientDescentMaxIterations: c.GradientDescentMaxIterations,
		LastAction:                   w.state.LastAction,
		LastState:                    w.state.LastState,
		Trainer:                      trainerBytes,
		Model:                        modelBytes,
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// SaveFile saves the agent to the file at path, replacing any existing
// file
func (w *WireFit) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := w.Save(&buf); err != nil {
		return fmt.Errorf("saveFile: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("saveFile: %w", err)
	}
	return nil
}

// Load reads an agent written by Save from in. The model and trainer
// blocks are gob decoded, so model and trainer must be non-nil pointers
// implementing gob.GobDecoder. Both are first decoded into new values of
// the same types and are only overwritten once the whole agent has
// loaded. On error, no agent is returned and neither is modified.
func Load(in io.Reader, model approximator.Approximator,
	trainer approximator.Trainer, seed uint64) (*WireFit, error) {
	if _, ok := model.(gob.GobDecoder); !ok {
		return nil, fmt.Errorf("load: cannot decode model of type %T", model)
	}
	if _, ok := trainer.(gob.GobDecoder); !ok {
		return nil, fmt.Errorf("load: cannot decode trainer of type %T",
			trainer)
	}

	var doc document
	if err := json.NewDecoder(in).Decode(&doc); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("load: unsupported version \n\twant(%v) "+
			"\n\thave(%v)", Version, doc.Version)
	}
	config := doc.config()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}

	decodedModel, err := decodeNew(model, doc.Model)
	if err != nil {
		return nil, fmt.Errorf("load: could not decode model: %w", err)
	}
	decodedTrainer, err := decodeNew(trainer, doc.Trainer)
	if err != nil {
		return nil, fmt.Errorf("load: could not decode trainer: %w", err)
	}

	w, err := New(decodedModel.(approximator.Approximator),
		decodedTrainer.(approximator.Trainer), config, seed)
	if err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}

	state := State{LastAction: doc.LastAction, LastState: doc.LastState}
	if state.HasAction() != (state.LastState != nil) {
		return nil, fmt.Errorf("load: last action and last state must be " +
			"persisted together")
	}
	if state.HasAction() {
		if len(state.LastAction) != doc.ActionDimensions {
			return nil, fmt.Errorf("load: invalid last action dimensions "+
				"\n\twant(%v) \n\thave(%v)", doc.ActionDimensions,
				len(state.LastAction))
		}
		if len(state.LastState) != w.model.Inputs() {
			return nil, fmt.Errorf("load: invalid last state dimensions "+
				"\n\twant(%v) \n\thave(%v)", w.model.Inputs(),
				len(state.LastState))
		}
	}
	w.state = state

	reflect.ValueOf(model).Elem().Set(reflect.ValueOf(decodedModel).Elem())
	reflect.ValueOf(trainer).Elem().Set(
		reflect.ValueOf(decodedTrainer).Elem())
	w.model, w.trainer = model, trainer

	return w, nil
}

// decodeNew gob decodes data into a new zero value of the type that v
// points to
func decodeNew(v interface{}, data []byte) (interface{}, error) {
	value := reflect.ValueOf(v)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return nil, fmt.Errorf("cannot decode into %T", v)
	}
	decoded := reflect.New(value.Type().Elem()).Interface()
	dec, ok := decoded.(gob.GobDecoder)
	if !ok {
		return nil, fmt.Errorf("cannot decode into %T", v)
	}
	if err := dec.GobDecode(data); err != nil {
		return nil, err
	}
	return decoded, nil
}

// LoadFile loads an agent saved with SaveFile
func LoadFile(path string, model approximator.Approximator,
	trainer approximator.Trainer, seed uint64) (*WireFit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadFile: %w", err)
	}
	defer f.Close()

	w, err := Load(f, model, trainer, seed)
	if err != nil {
		return nil, fmt.Errorf("loadFile: %w", err)
	}
	return w, nil
}
