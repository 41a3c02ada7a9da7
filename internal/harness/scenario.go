package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: rules, input, and what the
// run must look like afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Rules are the statements compiled into the ruleset, in priority
	// order. May be empty to exercise the no-rules halt.
	Rules []string `yaml:"rules"`

	// Input is the initial context. Empty means the empty word.
	Input string `yaml:"input"`

	// MaxSteps bounds execution by driving single steps under a
	// budget. Zero means drain to halt, which assumes the scenario's
	// rules terminate.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Assertions validate the final context, halt reason, step count,
	// or an intermediate context.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates one aspect of a finished run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Context is the expected context (final_context, context_at).
	Context string `yaml:"context,omitempty"`

	// Reason is the expected halt reason (halted_by): "terminating",
	// "exhausted", or "budget".
	Reason string `yaml:"reason,omitempty"`

	// Count is the expected number of applied steps (step_count).
	Count int `yaml:"count,omitempty"`

	// Seq selects the history entry for context_at.
	Seq int64 `yaml:"seq,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalContext = "final_context"
	AssertHaltedBy     = "halted_by"
	AssertStepCount    = "step_count"
	AssertContextAt    = "context_at"
)

// Halt reasons reported in results and matched by halted_by assertions.
const (
	HaltTerminating = "terminating" // a terminating rule fired
	HaltExhausted   = "exhausted"   // no rule matched
	HaltBudget      = "budget"      // MaxSteps reached before halting
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected to catch typos, and required fields are validated.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative")
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertFinalContext, AssertContextAt:
			// context may legitimately be the empty word; nothing to check
		case AssertHaltedBy:
			switch a.Reason {
			case HaltTerminating, HaltExhausted, HaltBudget:
			default:
				return fmt.Errorf("assertions[%d]: unknown halt reason %q", i, a.Reason)
			}
		case AssertStepCount:
			if a.Count < 0 {
				return fmt.Errorf("assertions[%d]: count must not be negative", i)
			}
		case "":
			return fmt.Errorf("assertions[%d]: type is required", i)
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
