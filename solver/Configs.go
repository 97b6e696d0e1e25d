package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Default hyperparameters of the adaptive solvers
const (
	DefaultEpsilon = 1e-8
	DefaultBeta1   = 0.9
	DefaultBeta2   = 0.999
	DefaultRho     = 0.999
)

func validateStep(stepSize float64, batch int) error {
	if !(stepSize > 0) {
		return fmt.Errorf("step size must be positive \n\twant(>0) "+
			"\n\thave(%v)", stepSize)
	}
	if batch < 1 {
		return fmt.Errorf("batch size must be positive \n\twant(>0) "+
			"\n\thave(%v)", batch)
	}
	return nil
}

// VanillaConfig describes stochastic gradient descent with an optional
// gradient clip
type VanillaConfig struct {
	StepSize float64 `json:"step_size"`
	Batch    int     `json:"batch"`
	Clip     float64 `json:"clip"` // <= 0 if no clipping
}

// NewVanilla returns a new Vanilla Solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Vanilla, VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// Validate returns an error if the VanillaConfig is invalid
func (v VanillaConfig) Validate() error {
	return validateStep(v.StepSize, v.Batch)
}

// Create returns the Gorgonia Solver described by the VanillaConfig
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}
	return G.NewVanillaSolver(opts...)
}

// ValidType returns whether t is Vanilla
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}

// AdamConfig describes the Adam solver
type AdamConfig struct {
	StepSize float64 `json:"step_size"`
	Epsilon  float64 `json:"epsilon"`
	Beta1    float64 `json:"beta1"`
	Beta2    float64 `json:"beta2"`
	Batch    int     `json:"batch"`
}

// NewDefaultAdam returns a new Adam Solver with default moment decay
// rates
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, DefaultEpsilon, DefaultBeta1, DefaultBeta2,
		batchSize)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int) (*Solver,
	error) {
	return newSolver(Adam, AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	})
}

// Validate returns an error if the AdamConfig is invalid
func (a AdamConfig) Validate() error {
	if err := validateStep(a.StepSize, a.Batch); err != nil {
		return err
	}
	if !(a.Epsilon > 0) {
		return fmt.Errorf("epsilon must be positive \n\thave(%v)", a.Epsilon)
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 || a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("moment decay rates must be in [0, 1) "+
			"\n\thave(%v, %v)", a.Beta1, a.Beta2)
	}
	return nil
}

// Create returns the Gorgonia Solver described by the AdamConfig
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType returns whether t is Adam
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}

// RMSPropConfig describes the RMSProp solver
type RMSPropConfig struct {
	StepSize float64 `json:"step_size"`
	Epsilon  float64 `json:"epsilon"`
	Rho      float64 `json:"rho"`
	Batch    int     `json:"batch"`
}

// NewDefaultRMSProp returns a new RMSProp Solver with the default decay
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, DefaultEpsilon, DefaultRho, batchSize)
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int) (*Solver,
	error) {
	return newSolver(RMSProp, RMSPropConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Rho:      rho,
		Batch:    batchSize,
	})
}

// Validate returns an error if the RMSPropConfig is invalid
func (r RMSPropConfig) Validate() error {
	if err := validateStep(r.StepSize, r.Batch); err != nil {
		return err
	}
	if !(r.Epsilon > 0) {
		return fmt.Errorf("epsilon must be positive \n\thave(%v)", r.Epsilon)
	}
	if r.Rho <= 0 || r.Rho >= 1 {
		return fmt.Errorf("decay must be in (0, 1) \n\thave(%v)", r.Rho)
	}
	return nil
}

// Create returns the Gorgonia Solver described by the RMSPropConfig
func (r RMSPropConfig) Create() G.Solver {
	return G.NewRMSPropSolver(
		G.WithLearnRate(r.StepSize),
		G.WithEps(r.Epsilon),
		G.WithRho(r.Rho),
		G.WithBatchSize(float64(r.Batch)),
	)
}

// ValidType returns whether t is RMSProp
func (r RMSPropConfig) ValidType(t Type) bool {
	return t == RMSProp
}
