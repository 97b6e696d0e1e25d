// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"

	"github.com/samuelfneumann/wirefit/experiment/checkpointer"
	"github.com/samuelfneumann/wirefit/experiment/tracker"
)

// Experiment outlines structs that can run experiments. Experiments
// send each environment TimeStep to their Trackers, which cache the
// data they need. The Save method then saves all cached data, usually
// after the experiment has been run. The Run method runs episodes until
// the maximum timestep limit is reached or the context is cancelled,
// while RunEpisode runs a single episode.
//
// Checkpointers are given every TimeStep after the agent has learned
// from it, so that agents can be saved periodically.
type Experiment interface {
	Run(ctx context.Context) error

	// RunEpisode returns whether the timestep limit has been reached
	RunEpisode() (bool, error)

	// Save saves all tracked data
	Save() error

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment
	Register(t tracker.Tracker)

	// AddCheckpointer adds a new checkpointer.Checkpointer to the
	// (possibly already running) experiment
	AddCheckpointer(c checkpointer.Checkpointer)
}

// Type is a type of experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type `mapstructure:"type"`
	MaxSteps uint `mapstructure:"max_steps"`

	// CheckpointEvery is the number of steps between agent checkpoints,
	// or 0 to disable checkpointing
	CheckpointEvery int `mapstructure:"checkpoint_every"`
}
