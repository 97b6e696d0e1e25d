// Package initwfn describes Gorgonia weight initialization algorithms
// as plain values so that they can be stored in configuration files.
package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Gaussian Type = "Gaussian"
	Uniform  Type = "Uniform"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
)

// InitWFn describes a weight initialization algorithm. Gain is used by
// the Glorot and He initializers; Low and High by Gaussian (as mean and
// standard deviation) and Uniform (as bounds).
type InitWFn struct {
	Type Type    `mapstructure:"type"`
	Gain float64 `mapstructure:"gain"`
	Low  float64 `mapstructure:"low"`
	High float64 `mapstructure:"high"`
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) InitWFn {
	return InitWFn{Type: GlorotU, Gain: gain}
}

// NewGaussian returns a new initializer that draws weights from a
// gaussian distribution
func NewGaussian(mean, stddev float64) InitWFn {
	return InitWFn{Type: Gaussian, Low: mean, High: stddev}
}

// NewZeroes returns a new initializer that sets all weights to zero
func NewZeroes() InitWFn {
	return InitWFn{Type: Zeroes}
}

// String implements the fmt.Stringer interface
func (i InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: gain=%v low=%v high=%v}", i.Type,
		i.Gain, i.Low, i.High)
}

// Validate returns an error if the InitWFn does not describe a valid
// initialization algorithm
func (i InitWFn) Validate() error {
	switch i.Type {
	case GlorotU, GlorotN, HeU, HeN:
		if i.Gain <= 0 {
			return fmt.Errorf("validate: %v gain must be positive", i.Type)
		}
	case Gaussian:
		if i.High <= 0 {
			return fmt.Errorf("validate: gaussian standard deviation must " +
				"be positive")
		}
	case Uniform:
		if i.High <= i.Low {
			return fmt.Errorf("validate: uniform bounds must satisfy " +
				"low < high")
		}
	case Zeroes, Ones:
	default:
		return fmt.Errorf("validate: no such InitWFn type %v", i.Type)
	}
	return nil
}

// Create returns the Gorgonia InitWFn that the InitWFn describes
func (i InitWFn) Create() (G.InitWFn, error) {
	if err := i.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	switch i.Type {
	case GlorotU:
		return G.GlorotU(i.Gain), nil
	case GlorotN:
		return G.GlorotN(i.Gain), nil
	case HeU:
		return G.HeU(i.Gain), nil
	case HeN:
		return G.HeN(i.Gain), nil
	case Gaussian:
		return G.Gaussian(i.Low, i.High), nil
	case Uniform:
		return G.Uniform(i.Low, i.High), nil
	case Ones:
		return G.Ones(), nil
	}
	return G.Zeroes(), nil
}
