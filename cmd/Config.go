package cmd

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/samuelfneumann/wirefit/agent/wirefit"
	"github.com/samuelfneumann/wirefit/environment"
	"github.com/samuelfneumann/wirefit/environment/pendulum"
	"github.com/samuelfneumann/wirefit/experiment"
	"github.com/samuelfneumann/wirefit/initwfn"
	"github.com/samuelfneumann/wirefit/network"
	"github.com/samuelfneumann/wirefit/solver"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvironmentConfig describes the pendulum swing-up environment that
// agents are trained on
type EnvironmentConfig struct {
	EpisodeSteps int     `mapstructure:"episode_steps"`
	Discount     float64 `mapstructure:"discount"`

	// StartBound bounds both the starting angle and angular velocity,
	// which are sampled uniformly from [-StartBound, StartBound]
	StartBound float64 `mapstructure:"start_bound"`
}

// Validate returns an error if the EnvironmentConfig is invalid
func (e EnvironmentConfig) Validate() error {
	if e.EpisodeSteps < 1 {
		return fmt.Errorf("episode_steps must be positive \n\thave(%v)",
			e.EpisodeSteps)
	}
	if e.Discount < 0 || e.Discount > 1 || math.IsNaN(e.Discount) {
		return fmt.Errorf("discount must be in [0, 1] \n\thave(%v)",
			e.Discount)
	}
	if !(e.StartBound >= 0 && e.StartBound <= pendulum.AngleBound) {
		return fmt.Errorf("start_bound must be in [0, %v] \n\thave(%v)",
			pendulum.AngleBound, e.StartBound)
	}
	return nil
}

// Create creates the pendulum swing-up environment
func (e EnvironmentConfig) Create(seed uint64) (*pendulum.Pendulum, error) {
	bound := r1.Interval{Min: -e.StartBound, Max: e.StartBound}
	starter, err := environment.NewUniformStarter([]r1.Interval{bound, bound},
		seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	task := pendulum.NewSwingUp(starter, e.EpisodeSteps)
	env, _, err := pendulum.New(task, e.Discount)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	return env, nil
}

// RunConfig is the configuration of a single training run
type RunConfig struct {
	Experiment  experiment.Config    `mapstructure:"experiment"`
	Agent       wirefit.OnlineConfig `mapstructure:"agent"`
	Environment EnvironmentConfig    `mapstructure:"environment"`
	Seed        uint64               `mapstructure:"seed"`

	// OutputDir is the directory that returns and checkpoints are
	// written to
	OutputDir string `mapstructure:"output_dir"`

	// Database is the path of the SQLite database that episode returns
	// are recorded in. If empty, no database is used.
	Database    string `mapstructure:"database"`
	Description string `mapstructure:"description"`
}

// DefaultRunConfig returns the RunConfig used for any values missing
// from a configuration file
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Experiment: experiment.Config{
			Type:            experiment.OnlineExp,
			MaxSteps:        10_000,
			CheckpointEvery: 0,
		},
		Agent: wirefit.OnlineConfig{
			Agent: wirefit.DefaultConfig(0.1, 0.9, pendulum.ActionDims,
				5),
			Temperature: 0.5,
			Network: network.Config{
				HiddenSizes: []int{32, 32},
				Activations: []network.Activation{network.ReLU,
					network.ReLU},
				Init: initwfn.NewGlorotU(1.0),
			},
			Solver:   solver.Adam,
			StepSize: 1e-3,
		},
		Environment: EnvironmentConfig{
			EpisodeSteps: 200,
			Discount:     1.0,
			StartBound:   0.05,
		},
		OutputDir: ".",
	}
}

// Validate returns an error if the RunConfig is invalid
func (r RunConfig) Validate() error {
	if r.Experiment.Type != experiment.OnlineExp {
		return fmt.Errorf("validate: unknown experiment type %q",
			r.Experiment.Type)
	}
	if r.Experiment.MaxSteps == 0 {
		return fmt.Errorf("validate: max_steps must be positive")
	}
	if r.Experiment.CheckpointEvery < 0 {
		return fmt.Errorf("validate: checkpoint_every must be non-negative "+
			"\n\thave(%v)", r.Experiment.CheckpointEvery)
	}
	if err := r.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if err := r.Environment.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("validate: output_dir is required")
	}
	return nil
}

// loadRunConfig reads the RunConfig at path using v. Values missing from
// the file keep their defaults.
func loadRunConfig(v *viper.Viper, path string) (RunConfig, error) {
	config := DefaultRunConfig()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return RunConfig{}, fmt.Errorf("loadRunConfig: %w", err)
		}
	}
	if err := v.Unmarshal(&config); err != nil {
		return RunConfig{}, fmt.Errorf("loadRunConfig: %w", err)
	}
	if err := config.Validate(); err != nil {
		return RunConfig{}, fmt.Errorf("loadRunConfig: %v", err)
	}
	return config, nil
}

// configureEnv makes every RunConfig key settable from a WIREFIT_
// environment variable. Viper only consults the environment for keys it
// already knows of when unmarshalling, so each key is bound explicitly.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("WIREFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, "", reflect.TypeOf(RunConfig{}))
}

// bindEnvs binds the mapstructure key of every field of t, descending
// into nested structs
func bindEnvs(v *viper.Viper, prefix string, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindEnvs(v, key, field.Type)
			continue
		}
		v.BindEnv(key)
	}
}
