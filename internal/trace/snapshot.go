package trace

import (
	"github.com/roach88/markov/internal/engine"
)

// Snapshot captures a complete run for golden comparison or JSON
// output: the algorithm name, the run token, and every history entry
// in order.
type Snapshot struct {
	Algorithm string      `json:"algorithm"`
	RunToken  string      `json:"run_token,omitempty"`
	Halted    bool        `json:"halted"`
	Steps     []StepTrace `json:"steps"`
}

// StepTrace is one history entry rendered for serialization. Rule is
// the statement form of the applied rule and is empty for the initial
// entry.
type StepTrace struct {
	Seq         int64  `json:"seq"`
	Context     string `json:"context"`
	Rule        string `json:"rule,omitempty"`
	Terminating bool   `json:"terminating,omitempty"`
}

// NewSnapshot builds a Snapshot from a runner's current state.
func NewSnapshot(algorithm string, r *engine.Runner) *Snapshot {
	history := r.History()
	steps := make([]StepTrace, len(history))
	for i, record := range history {
		steps[i] = StepTrace{
			Seq:     record.Seq,
			Context: record.Context,
		}
		if record.Applied != nil {
			steps[i].Rule = record.Applied.String()
			steps[i].Terminating = record.Applied.Terminating()
		}
	}
	return &Snapshot{
		Algorithm: algorithm,
		RunToken:  r.Token(),
		Halted:    r.Halted(),
		Steps:     steps,
	}
}

// MarshalCanonical serializes the snapshot as RFC 8785 canonical JSON.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(s.toCanonicalMap())
}

// toCanonicalMap lowers the snapshot to the plain map/slice shape the
// canonical marshaller accepts. Empty optional fields are omitted so
// the output matches the json tags.
func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		stepMap := map[string]any{
			"seq":     step.Seq,
			"context": step.Context,
		}
		if step.Rule != "" {
			stepMap["rule"] = step.Rule
		}
		if step.Terminating {
			stepMap["terminating"] = true
		}
		steps[i] = stepMap
	}

	result := map[string]any{
		"algorithm": s.Algorithm,
		"halted":    s.Halted,
		"steps":     steps,
	}
	if s.RunToken != "" {
		result["run_token"] = s.RunToken
	}
	return result
}
