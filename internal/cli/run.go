package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/markov/internal/engine"
	"github.com/roach88/markov/internal/loader"
	"github.com/roach88/markov/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Algorithm string
	Input     string
	InputSet  bool
	MaxSteps  int

	// TokenGenerator overrides the run-token source (for testing).
	// Nil defaults to UUIDv7.
	TokenGenerator engine.TokenGenerator
}

// RunResult is the run command's output payload.
type RunResult struct {
	Algorithm    string `json:"algorithm"`
	Input        string `json:"input"`
	FinalContext string `json:"final_context"`
	Steps        int64  `json:"steps"`
	Halted       bool   `json:"halted"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <algorithms-dir>",
		Short: "Execute an algorithm",
		Long: `Execute a Markov algorithm against an input context.

The algorithm is selected with --algorithm, or implicitly when the
directory defines exactly one. The file's declared input is used
unless --input overrides it.

A Markov algorithm may rewrite forever; --max-steps bounds the run by
driving single steps under a budget. With --max-steps 0 the run drains
to completion and a non-terminating algorithm will not return.

Examples:
  markov run ./algorithms --algorithm binary-increment
  markov run ./algorithms --input 1101 --max-steps 1000
  markov run ./algorithms --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputSet = cmd.Flags().Changed("input")
			return runAlgorithm(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "algorithm name (defaults to the only one defined)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "initial context (overrides the file's input)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "step budget, 0 means unbounded")

	return cmd
}

func runAlgorithm(opts *RunOptions, dir string, cmd *cobra.Command) error {
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

	if opts.MaxSteps > 0 {
		for i := 0; i < opts.MaxSteps && !runner.Halted(); i++ {
			runner.Step()
		}
		if !runner.Halted() {
			runner.Stop()
			_ = formatter.Error(loader.ErrCodeGeneric,
				fmt.Sprintf("algorithm %q did not halt within %d steps", algorithm.Name, opts.MaxSteps), nil)
			return NewExitError(ExitFailure, "step budget exhausted")
		}
	} else {
		runner.Run()
	}

	result := &RunResult{
		Algorithm:    algorithm.Name,
		Input:        algorithm.Input,
		FinalContext: runner.Context(),
		Steps:        runner.Steps(),
		Halted:       runner.Halted(),
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	formatter.Textf("%s: %q -> %q in %d step(s)\n",
		result.Algorithm, result.Input, result.FinalContext, result.Steps)
	return nil
}

// buildRunner loads the directory, selects the algorithm, and
// constructs a Runner over it. Shared by run and trace.
func buildRunner(opts *RunOptions, dir string, formatter *OutputFormatter, logger *slog.Logger) (*engine.Runner, *loader.Algorithm, error) {
	result, loadErrors := loader.Load(dir, loader.LoadModeFailFast)
	if len(loadErrors) > 0 {
		return nil, nil, outputLoadError(formatter, loadErrors[0], ExitCommandError)
	}

	algorithm, err := selectAlgorithm(result, opts.Algorithm)
	if err != nil {
		_ = formatter.Error(loader.ErrCodeBadAlgorithm, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "algorithm selection failed", err)
	}

	if opts.InputSet {
		algorithm.Input = opts.Input
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.TokenGenerator != nil {
		engineOpts = append(engineOpts, engine.WithTokenGenerator(opts.TokenGenerator))
	}

	runner, err := engine.New(algorithm.Rules, algorithm.Input, engineOpts...)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "construct runner", err)
	}

	formatter.VerboseLog("Running %s with input %q (%d rules)",
		algorithm.Name, algorithm.Input, algorithm.Rules.Len())
	return runner, algorithm, nil
}

// selectAlgorithm picks the named algorithm, or the only one present
// when no name is given.
func selectAlgorithm(result *loader.LoadResult, name string) (*loader.Algorithm, error) {
	if name == "" {
		if len(result.Algorithms) != 1 {
			return nil, fmt.Errorf("directory defines %d algorithms, select one with --algorithm", len(result.Algorithms))
		}
		return &result.Algorithms[0], nil
	}
	for i := range result.Algorithms {
		if result.Algorithms[i].Name == name {
			return &result.Algorithms[i], nil
		}
	}
	return nil, fmt.Errorf("algorithm %q not found", name)
}

// tracePayload builds the canonical-JSON trace for a finished runner.
func tracePayload(algorithm string, runner *engine.Runner) ([]byte, error) {
	return trace.NewSnapshot(algorithm, runner).MarshalCanonical()
}
