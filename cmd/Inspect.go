package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/samuelfneumann/wirefit/agent/wirefit"
	"github.com/samuelfneumann/wirefit/network"
	"github.com/samuelfneumann/wirefit/plot"
	"github.com/samuelfneumann/wirefit/utils/matutils"
	"github.com/samuelfneumann/wirefit/wire"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newInspectCmd(opts *options) *cobra.Command {
	var (
		state     []float64
		plotFile  string
		actionMin float64
		actionMax float64
	)

	inspect := &cobra.Command{
		Use:   "inspect <agent-file>",
		Short: "Print the wires of a saved agent",
		Long: `Load an agent saved by the run command and print the wires it
predicts in a state, along with the greedy action and its value.

If no state is given, the last state the agent selected an action in
is used. For agents with 1-dimensional actions, the interpolated value
of each action can be plotted to a PNG file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := wirefit.LoadFile(args[0], &network.MLP{},
				&network.Trainer{}, 0)
			if err != nil {
				return err
			}
			logger, err := opts.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger.Debug().
				Str("file", args[0]).
				Int("wires", agent.Config().NumberOfWires).
				Int("action_dims", agent.Config().ActionDimensions).
				Msg("loaded agent")

			if len(state) == 0 {
				state = agent.State().LastState
			}
			if len(state) == 0 {
				return fmt.Errorf("agent has no last state, a state " +
					"must be given with --state")
			}

			wires, err := agent.Wires(state)
			if err != nil {
				return err
			}
			if err := printWires(cmd.OutOrStdout(), agent, state,
				wires); err != nil {
				return err
			}

			if plotFile != "" {
				config := agent.Config()
				interp, err := wire.NewInterpolator(config.SmoothingFactor,
					config.Epsilon)
				if err != nil {
					return err
				}
				plotOpts := plot.DefaultOptions(r1.Interval{Min: actionMin,
					Max: actionMax})
				if err := plot.SavePNG(plotFile, wires, interp,
					plotOpts); err != nil {
					return err
				}
			}
			return nil
		},
	}
	inspect.Flags().Float64SliceVar(&state, "state", nil,
		"State to predict wires in, as comma separated values")
	inspect.Flags().StringVar(&plotFile, "plot", "",
		"Save a plot of the action values to this PNG file")
	inspect.Flags().Float64Var(&actionMin, "action-min", -2,
		"Lowest action plotted")
	inspect.Flags().Float64Var(&actionMax, "action-max", 2,
		"Highest action plotted")

	return inspect
}

// printWires writes a table of wires predicted in state to out,
// followed by the greedy action
func printWires(out io.Writer, agent *wirefit.WireFit, state []float64,
	wires wire.Set) error {
	stateVec := mat.NewVecDense(len(state), append([]float64{}, state...))
	fmt.Fprintf(out, "state: %v\n", matutils.Format(stateVec.T()))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WIRE\tACTION\tREWARD")
	for i, wr := range wires {
		fmt.Fprintf(w, "%d\t%v\t%.6f\n", i, wr.Action, wr.Reward)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, err := agent.BestAction(state)
	if err != nil {
		return err
	}
	value, err := agent.Value(state, best)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "best action: %v\nvalue: %.6f\n", best, value)
	return nil
}
