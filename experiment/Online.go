package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/wirefit/agent"
	env "github.com/samuelfneumann/wirefit/environment"
	"github.com/samuelfneumann/wirefit/experiment/checkpointer"
	"github.com/samuelfneumann/wirefit/experiment/tracker"
	ts "github.com/samuelfneumann/wirefit/timestep"
	"github.com/samuelfneumann/wirefit/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	episodes      int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	logger zerolog.Logger
	bar    *progressbar.ProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, t determines what data is
// tracked, and c determines how the agent is checkpointed.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
		logger:        zerolog.Nop(),
	}
}

// SetLogger sets the logger that episode summaries are written to
func (o *Online) SetLogger(logger zerolog.Logger) {
	o.logger = logger
}

// ShowProgress displays a progress bar of the steps taken so far on out
func (o *Online) ShowProgress(out io.Writer) error {
	bar, err := progressbar.New(out, 50, int(o.maxSteps))
	if err != nil {
		return fmt.Errorf("showProgress: %v", err)
	}
	bar.Add(int(o.currentSteps))
	o.bar = bar
	return nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer adds a checkpointer.Checkpointer to the experiment
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// Steps returns the number of steps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	step := o.Environment.Reset()
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %v", err)
	}
	o.track(step)

	episodeReturn := 0.0
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action, err := o.Agent.SelectAction(step)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		step, _ = o.Environment.Step(action)
		o.track(step)
		episodeReturn += step.Reward

		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.checkpoint(step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if o.bar != nil {
			o.bar.Add(1)
			o.bar.Display()
		}
	}
	o.Agent.EndEpisode()

	o.logger.Info().
		Int("episode", o.episodes).
		Int("length", step.Number).
		Float64("return", episodeReturn).
		Uint("total_steps", o.currentSteps).
		Msg("episode finished")
	o.episodes++

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs episodes until the timestep limit is reached. Cancelling ctx
// stops the experiment after the current episode.
func (o *Online) Run(ctx context.Context) error {
	if o.bar != nil {
		defer o.bar.Close()
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint gives the current timestep to each Checkpointer
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}

var _ Experiment = &Online{}
