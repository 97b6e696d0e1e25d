// Package cmd implements the wirefit command line interface
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options holds the flags shared by all commands
type options struct {
	configFile string
	logLevel   string
	v          *viper.Viper
}

// logger returns a console logger writing to out at the configured
// level
func (o *options) logger(out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(o.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", o.logLevel)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// NewRootCmd returns the root wirefit command with all subcommands
// attached
func NewRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:   "wirefit",
		Short: "Wire-fitting continuous-action Q-learning",
		Long: `wirefit trains wire-fitting Q-learning agents on continuous
control tasks and inspects the wires of saved agents.

Configuration files may be YAML, JSON, or TOML. Any configuration value
can also be set by an environment variable prefixed with WIREFIT_, with
nested keys joined by underscores, for example WIREFIT_SEED or
WIREFIT_ENVIRONMENT_EPISODE_STEPS.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"Configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"Log level (trace, debug, info, warn, error)")

	configureEnv(opts.v)

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
