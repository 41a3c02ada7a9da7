package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewTraceCommand creates the trace command. It runs an algorithm like
// run does, but emits the complete step history as canonical JSON:
// every context the run passed through and the rule that produced it.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <algorithms-dir>",
		Short: "Execute an algorithm and emit its full step trace",
		Long: `Execute a Markov algorithm and print the complete step history.

The trace is canonical JSON (RFC 8785): byte-stable across runs with a
fixed run token, so it can be diffed or pinned in golden files.

Examples:
  markov trace ./algorithms --algorithm binary-increment
  markov trace ./algorithms --max-steps 1000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputSet = cmd.Flags().Changed("input")
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "algorithm name (defaults to the only one defined)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "initial context (overrides the file's input)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "step budget, 0 means unbounded")

	return cmd
}

func runTrace(opts *RunOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	runner, algorithm, err := buildRunner(opts, dir, formatter, logger)
	if err != nil {
		return err
	}

	budgetHit := false
	if opts.MaxSteps > 0 {
		for i := 0; i < opts.MaxSteps && !runner.Halted(); i++ {
			runner.Step()
		}
		if !runner.Halted() {
			runner.Stop()
			budgetHit = true
		}
	} else {
		runner.Run()
	}

	payload, err := tracePayload(algorithm.Name, runner)
	if err != nil {
		return WrapExitError(ExitCommandError, "marshal trace", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))

	if budgetHit {
		// The trace is already on stdout; the failure goes to stderr
		// via the exit error so the JSON stays parseable.
		return NewExitError(ExitFailure,
			fmt.Sprintf("algorithm %q did not halt within %d steps", algorithm.Name, opts.MaxSteps))
	}
	return nil
}
