package wirefit

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/wirefit/wire"
)

// Default hyperparameters used by DefaultConfig
const (
	DefaultScalingFactorToMillis        = 0.5
	DefaultSmoothingFactor              = 0.2
	DefaultEpsilon                      = 0.01
	DefaultGradientDescentErrorTarget   = 1e-5
	DefaultGradientDescentLearningRate  = 0.5
	DefaultGradientDescentMaxIterations = 10000
)

// Config implements a configuration of a WireFit agent. A Config is
// fixed once the agent has been created.
type Config struct {
	// LearningRate is the fraction of the way the target moves from the
	// current value toward the feedback value
	LearningRate float64 `mapstructure:"learning_rate"`

	// DevaluationFactor discounts the value of the next state once per
	// scaled time unit that elapsed
	DevaluationFactor float64 `mapstructure:"devaluation_factor"`

	ActionDimensions int `mapstructure:"action_dimensions"`
	NumberOfWires    int `mapstructure:"number_of_wires"`

	// ScalingFactorToMillis converts elapsed milliseconds into the time
	// units used for devaluation
	ScalingFactorToMillis float64 `mapstructure:"scaling_factor_to_millis"`

	SmoothingFactor float64 `mapstructure:"smoothing_factor"`
	Epsilon         float64 `mapstructure:"epsilon"`

	GradientDescentErrorTarget   float64 `mapstructure:"gradient_descent_error_target"`
	GradientDescentLearningRate  float64 `mapstructure:"gradient_descent_learning_rate"`
	GradientDescentMaxIterations int     `mapstructure:"gradient_descent_max_iterations"`
}

// DefaultConfig returns a Config with the given learning rate,
// devaluation factor, and shape, using default values for all other
// hyperparameters
func DefaultConfig(learningRate, devaluationFactor float64,
	actionDimensions, numberOfWires int) Config {
	return Config{
		LearningRate:                 learningRate,
		DevaluationFactor:            devaluationFactor,
		ActionDimensions:             actionDimensions,
		NumberOfWires:                numberOfWires,
		ScalingFactorToMillis:        DefaultScalingFactorToMillis,
		SmoothingFactor:              DefaultSmoothingFactor,
		Epsilon:                      DefaultEpsilon,
		GradientDescentErrorTarget:   DefaultGradientDescentErrorTarget,
		GradientDescentLearningRate:  DefaultGradientDescentLearningRate,
		GradientDescentMaxIterations: DefaultGradientDescentMaxIterations,
	}
}

// Validate returns an error if the Config is invalid
func (c Config) Validate() error {
	if c.LearningRate < 0 || c.LearningRate > 1 || math.IsNaN(c.LearningRate) {
		return fmt.Errorf("validate: learning rate must be in [0, 1] "+
			"\n\thave(%v)", c.LearningRate)
	}
	if c.DevaluationFactor < 0 || c.DevaluationFactor > 1 ||
		math.IsNaN(c.DevaluationFactor) {
		return fmt.Errorf("validate: devaluation factor must be in [0, 1] "+
			"\n\thave(%v)", c.DevaluationFactor)
	}
	if !(c.ScalingFactorToMillis > 0) {
		return fmt.Errorf("validate: scaling factor must be positive "+
			"\n\twant(>0) \n\thave(%v)", c.ScalingFactorToMillis)
	}
	if _, err := c.codec(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if _, err := c.adjuster(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// codec returns the Codec described by the Config
func (c Config) codec() (wire.Codec, error) {
	return wire.NewCodec(c.ActionDimensions, c.NumberOfWires)
}

// adjuster returns the Adjuster described by the Config
func (c Config) adjuster() (wire.Adjuster, error) {
	interpolator, err := wire.NewInterpolator(c.SmoothingFactor, c.Epsilon)
	if err != nil {
		return wire.Adjuster{}, err
	}
	return wire.NewAdjuster(interpolator, c.GradientDescentErrorTarget,
		c.GradientDescentLearningRate, c.GradientDescentMaxIterations)
}
