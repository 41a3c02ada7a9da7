package harness

// checkAssertions evaluates every assertion against the result,
// collecting all failures rather than stopping at the first.
func checkAssertions(scenario *Scenario, result *Result) {
	for i, a := range scenario.Assertions {
		switch a.Type {
		case AssertFinalContext:
			if result.FinalContext != a.Context {
				result.AddError("assertions[%d]: final context %q, want %q",
					i, result.FinalContext, a.Context)
			}

		case AssertHaltedBy:
			if result.HaltReason != a.Reason {
				result.AddError("assertions[%d]: halted by %q, want %q",
					i, result.HaltReason, a.Reason)
			}

		case AssertStepCount:
			if result.StepCount != int64(a.Count) {
				result.AddError("assertions[%d]: %d applied steps, want %d",
					i, result.StepCount, a.Count)
			}

		case AssertContextAt:
			context, ok := contextAt(result, a.Seq)
			if !ok {
				result.AddError("assertions[%d]: no history entry with seq %d",
					i, a.Seq)
			} else if context != a.Context {
				result.AddError("assertions[%d]: context at seq %d is %q, want %q",
					i, a.Seq, context, a.Context)
			}
		}
	}
}

// contextAt finds the trace entry with the given seq.
func contextAt(result *Result, seq int64) (string, bool) {
	for _, step := range result.Snapshot.Steps {
		if step.Seq == seq {
			return step.Context, true
		}
	}
	return "", false
}
