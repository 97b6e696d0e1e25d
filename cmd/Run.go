package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/samuelfneumann/wirefit/experiment"
	"github.com/samuelfneumann/wirefit/experiment/checkpointer"
	"github.com/samuelfneumann/wirefit/experiment/tracker"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	var progress bool

	run := &cobra.Command{
		Use:   "run",
		Short: "Train an agent on the pendulum swing-up task",
		Long: `Train an online wire-fitting agent on the pendulum swing-up task.

Episode returns are written to the output directory, along with the
final agent and any periodic checkpoints. Each run is given a random
identifier which prefixes all of its files. An interrupt stops the run
after the current episode, and all data collected so far is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadRunConfig(opts.v, opts.configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt,
				syscall.SIGTERM)
			defer stop()

			_, err = train(ctx, cmd, opts, config, progress)
			return err
		},
	}
	run.Flags().BoolVar(&progress, "progress", false,
		"Display a progress bar")
	run.Flags().Uint64("seed", 0, "Random seed")
	run.Flags().String("output-dir", ".", "Directory to write results to")
	run.Flags().String("database", "",
		"SQLite database to record episode returns in")

	opts.v.BindPFlag("seed", run.Flags().Lookup("seed"))
	opts.v.BindPFlag("output_dir", run.Flags().Lookup("output-dir"))
	opts.v.BindPFlag("database", run.Flags().Lookup("database"))

	return run
}

// train runs a single experiment described by config and returns the
// identifier of the run
func train(ctx context.Context, cmd *cobra.Command, opts *options,
	config RunConfig, progress bool) (uuid.UUID, error) {
	runID := uuid.New()
	logger, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return runID, err
	}
	logger = logger.With().Str("run", runID.String()).Logger()

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return runID, fmt.Errorf("could not create output directory: %w",
			err)
	}
	prefix := filepath.Join(config.OutputDir, runID.String())

	env, err := config.Environment.Create(config.Seed)
	if err != nil {
		return runID, err
	}
	agent, err := config.Agent.Create(env, config.Seed)
	if err != nil {
		return runID, err
	}
	agent.SetLogger(logger)

	returns := tracker.NewReturn(prefix + "-returns.bin")
	exp := experiment.NewOnline(env, agent, config.Experiment.MaxSteps,
		[]tracker.Tracker{returns}, nil)
	exp.SetLogger(logger)

	if config.Database != "" {
		db, err := tracker.NewSQLite(ctx, config.Database, runID,
			config.Description)
		if err != nil {
			return runID, err
		}
		defer db.Close()
		exp.Register(db)
	}

	if config.Experiment.CheckpointEvery > 0 {
		c, err := checkpointer.NewNStep(config.Experiment.CheckpointEvery,
			agent, checkpointer.FilenameEnumerator(0, prefix+"-", ".json"))
		if err != nil {
			return runID, err
		}
		exp.AddCheckpointer(c)
	}

	if progress {
		if err := exp.ShowProgress(cmd.ErrOrStderr()); err != nil {
			return runID, err
		}
	}

	logger.Info().
		Uint("max_steps", config.Experiment.MaxSteps).
		Uint64("seed", config.Seed).
		Str("output_dir", config.OutputDir).
		Msg("starting run")

	runErr := exp.Run(ctx)
	if runErr != nil {
		logger.Warn().Err(runErr).Msg("run stopped early")
	}

	if err := exp.Save(); err != nil {
		return runID, err
	}
	final := prefix + "-final.json"
	if err := agent.SaveFile(final); err != nil {
		return runID, err
	}
	logger.Info().
		Uint("steps", exp.Steps()).
		Str("agent", final).
		Msg("run finished")

	return runID, runErr
}
