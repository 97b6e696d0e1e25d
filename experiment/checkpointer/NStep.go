package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/wirefit/timestep"
)

// NStep checkpoints an object every N timesteps, counted across
// episodes
type NStep struct {
	interval int
	steps    int
	object   Saver

	// filename returns the filename of the file to save the object in.
	//
	// If each checkpoint should be saved in a separate file with each
	// file having an incremented number as a suffix (e.g. agent1.json,
	// agent2.json, ..., agentK.json), then use FilenameEnumerator.
	// Otherwise, if the filename does not matter, use FileTimer.
	// For example:
	//
	// n, err := NewNStep(10, object, FileTimer("agent", ".json"))
	filename func() string
	last     string
}

// NewNStep returns a checkpointer that checkpoints every n steps.
func NewNStep(n int, object Saver, filename func() string) (*NStep,
	error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be positive "+
			"\n\twant(>0) \n\thave(%v)", n)
	}
	if object == nil || filename == nil {
		return nil, fmt.Errorf("newNStep: object and filename cannot be nil")
	}
	return &NStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if the interval has elapsed. The
// first timestep of each episode is not counted since no action led to
// it.
func (n *NStep) Checkpoint(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	n.steps++
	if n.steps%n.interval != 0 {
		return nil
	}

	filename := n.filename()
	if err := n.object.SaveFile(filename); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	n.last = filename
	return nil
}

// Last returns the filename of the most recent checkpoint, or the empty
// string if no checkpoint has been saved
func (n *NStep) Last() string {
	return n.last
}
