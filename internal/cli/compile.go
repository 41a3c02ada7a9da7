package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/markov/internal/loader"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
}

// CompiledAlgorithm is one algorithm in the compile command's output.
type CompiledAlgorithm struct {
	Name  string   `json:"name"`
	Input string   `json:"input"`
	Rules []string `json:"rules"`
}

// CompilationResult holds every compiled algorithm.
type CompilationResult struct {
	Algorithms []CompiledAlgorithm `json:"algorithms"`
	FileCount  int                 `json:"file_count"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file-or-dir>",
		Short: "Compile algorithm definitions",
		Long: `Compile CUE algorithm definitions and report the normalized rules.

The argument is a single CUE file or a directory scanned recursively.

Each rule statement is parsed, validated, and rendered back in its
canonical form. All errors across all files are collected before
reporting.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := loader.Load(dir, loader.LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0], ExitCommandError)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, dir)
	for _, algorithm := range result.Algorithms {
		formatter.VerboseLog("Compiled algorithm: %s (%d rules)", algorithm.Name, algorithm.Rules.Len())
	}

	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	compiled := &CompilationResult{FileCount: result.FileCount}
	for _, algorithm := range result.Algorithms {
		entry := CompiledAlgorithm{Name: algorithm.Name, Input: algorithm.Input}
		for _, r := range algorithm.Rules.Statements() {
			entry.Rules = append(entry.Rules, r.String())
		}
		compiled.Algorithms = append(compiled.Algorithms, entry)
	}

	if opts.Format == "json" {
		if err := formatter.Success(compiled); err != nil {
			return err
		}
	} else {
		for _, algorithm := range compiled.Algorithms {
			formatter.Textf("algorithm %s (input %q)\n", algorithm.Name, algorithm.Input)
			for i, statement := range algorithm.Rules {
				formatter.Textf("  %2d. %s\n", i, statement)
			}
		}
		formatter.Textf("Compiled %d algorithm(s) from %d file(s)\n",
			len(compiled.Algorithms), compiled.FileCount)
	}
	return nil
}

// outputLoadError reports a single loader error and maps it to an exit
// code.
func outputLoadError(formatter *OutputFormatter, err error, exitCode int) error {
	var le *loader.LoadError
	if errors.As(err, &le) {
		_ = formatter.Error(le.Code, le.Message, nil)
		return NewExitError(exitCode, le.Message)
	}
	_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(exitCode, "load failed", err)
}

// outputLoadErrors reports every collected loader error; compile
// errors in input data are a failure, not a command error.
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	for _, err := range errs {
		var le *loader.LoadError
		if errors.As(err, &le) {
			_ = formatter.Error(le.Code, le.Message, nil)
		} else {
			_ = formatter.Error(loader.ErrCodeGeneric, err.Error(), nil)
		}
	}
	return NewExitError(ExitFailure, "compilation failed")
}
