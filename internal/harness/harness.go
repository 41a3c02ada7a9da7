package harness

import (
	"fmt"

	"github.com/roach88/markov/internal/engine"
	"github.com/roach88/markov/internal/rule"
	"github.com/roach88/markov/internal/ruleset"
	"github.com/roach88/markov/internal/trace"
)

// defaultRunToken keeps scenario traces deterministic for golden file
// comparison.
const defaultRunToken = "test-run-default"

// Result is the outcome of executing a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// FinalContext is the context when execution stopped.
	FinalContext string `json:"final_context"`

	// HaltReason is one of the Halt* constants.
	HaltReason string `json:"halt_reason"`

	// StepCount is the number of applied rewrites.
	StepCount int64 `json:"step_count"`

	// Snapshot is the full run trace, for assertions and golden
	// comparison.
	Snapshot *trace.Snapshot `json:"snapshot"`

	// Errors lists assertion failures. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run compiles the scenario's rules and executes it through the real
// engine path. A compile failure is returned as an error; assertion
// failures land in the Result instead.
func Run(scenario *Scenario) (*Result, error) {
	rs := ruleset.New()
	for i, statement := range scenario.Rules {
		compiled, err := rule.Compile(statement)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rs.Add(compiled)
	}

	runner, err := engine.New(rs, scenario.Input,
		engine.WithTokenGenerator(engine.NewFixedGenerator(defaultRunToken)))
	if err != nil {
		return nil, fmt.Errorf("construct runner: %w", err)
	}

	if scenario.MaxSteps > 0 {
		// Bounded execution: drive single steps under the budget, the
		// way callers are expected to guard non-terminating rulesets.
		for i := 0; i < scenario.MaxSteps && !runner.Halted(); i++ {
			runner.Step()
		}
	} else {
		runner.Run()
	}

	result := &Result{
		Pass:         true,
		FinalContext: runner.Context(),
		HaltReason:   haltReason(runner),
		StepCount:    runner.Steps(),
		Snapshot:     trace.NewSnapshot(scenario.Name, runner),
	}

	checkAssertions(scenario, result)
	return result, nil
}

// haltReason classifies how the run ended.
func haltReason(r *engine.Runner) string {
	if !r.Halted() {
		return HaltBudget
	}
	history := r.History()
	if len(history) > 0 {
		last := history[len(history)-1]
		if last.Applied != nil && last.Applied.Terminating() {
			return HaltTerminating
		}
	}
	return HaltExhausted
}
