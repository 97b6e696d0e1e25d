// Package checkpointer implements checkpointing of agents during an
// experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/wirefit/timestep"
)

// Saver is an object that can be saved to a file
type Saver interface {
	SaveFile(path string) error
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
