package engine

import (
	"log/slog"

	"github.com/roach88/markov/internal/rule"
	"github.com/roach88/markov/internal/ruleset"
)

// StepRecord is one entry of a run's history: the context after the
// step and the rule that produced it. The first entry records the
// initial context and has Applied == nil.
type StepRecord struct {
	// Seq is the logical sequence number: 0 for the initial entry,
	// then 1..n for applied steps.
	Seq int64

	// Context is the working string after this step committed.
	Context string

	// Applied is the rule that fired, or nil for the initial entry.
	Applied *rule.Rule
}

// Runner executes one Markov algorithm run: one ruleset, one context
// lineage. It is single-use - once halted it stays halted, and a new
// Runner must be constructed for a fresh run.
//
// The Runner reads the bound ruleset but never mutates it; several
// Runners may share one ruleset as long as nobody writes to it.
// All methods must be called from a single goroutine.
type Runner struct {
	rules   *ruleset.Ruleset
	context string
	history []StepRecord
	halted  bool
	started bool

	clock  *Clock
	token  string
	logger *slog.Logger
}

// Option configures a Runner at construction.
type Option func(*Runner)

// WithTokenGenerator overrides the run-token source. Tests pass a
// FixedGenerator for deterministic traces.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(r *Runner) {
		if gen != nil {
			r.token = gen.Generate()
		}
	}
}

// WithLogger overrides the logger, which defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner bound to rs with the given initial context.
// Returns an ArgumentError if rs is nil. An empty ruleset is legal:
// the first Step simply finds no applicable rule and halts.
func New(rs *ruleset.Ruleset, context string, opts ...Option) (*Runner, error) {
	if rs == nil {
		return nil, newArgumentError("ruleset", "must not be nil")
	}

	r := &Runner{
		rules:   rs,
		context: context,
		clock:   NewClock(),
		token:   UUIDv7Generator{}.Generate(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Step performs one scan-and-apply cycle.
//
// The rules are scanned in order and the first whose pattern occurs in
// the context fires, rewriting the leftmost occurrence. The applied
// rule and true are returned. When no rule matches - or the Runner was
// already halted - the zero Rule and false are returned. The Runner
// halts after a terminating rule fires or a scan finds no match.
func (r *Runner) Step() (rule.Rule, bool) {
	if r.halted {
		return rule.Rule{}, false
	}

	// First use: record the starting context as step 0 so observers
	// see the full lineage.
	if !r.started {
		r.started = true
		r.history = append(r.history, StepRecord{Seq: 0, Context: r.context})
	}

	for i, candidate := range r.rules.Statements() {
		rewritten, ok := candidate.Apply(r.context)
		if !ok {
			continue
		}

		r.context = rewritten
		applied := candidate
		r.history = append(r.history, StepRecord{
			Seq:     r.clock.Next(),
			Context: r.context,
			Applied: &applied,
		})

		r.logger.Debug("rule applied",
			"run", r.token,
			"seq", r.clock.Current(),
			"position", i,
			"rule", candidate.String(),
			"context", r.context,
		)

		if candidate.Terminating() {
			r.halted = true
			r.logger.Info("run halted: terminating rule fired",
				"run", r.token,
				"steps", r.clock.Current(),
				"rule", candidate.String(),
				"context", r.context,
			)
		}
		return candidate, true
	}

	// No rule matched: natural termination. The context is unchanged
	// and no history entry is appended.
	r.halted = true
	r.logger.Info("run halted: no applicable rule",
		"run", r.token,
		"steps", r.clock.Current(),
		"context", r.context,
	)
	return rule.Rule{}, false
}

// Run steps until the Runner halts and reports whether any stepping
// occurred (false when already halted on entry).
//
// A ruleset that rewrites forever makes Run loop forever; callers that
// need a bound must drive Step under their own budget instead.
func (r *Runner) Run() bool {
	if r.halted {
		return false
	}
	for !r.halted {
		r.Step()
	}
	return true
}

// Stop forces an immediate halt regardless of state. Idempotent.
func (r *Runner) Stop() {
	if r.halted {
		return
	}
	r.halted = true
	r.logger.Info("run stopped",
		"run", r.token,
		"steps", r.clock.Current(),
		"context", r.context,
	)
}

// Context returns the current working string.
func (r *Runner) Context() string {
	return r.context
}

// Halted reports whether the run has ended.
func (r *Runner) Halted() bool {
	return r.halted
}

// History returns a copy of the step records so far: the initial entry
// plus one per applied step. Empty until the first Step call.
func (r *Runner) History() []StepRecord {
	out := make([]StepRecord, len(r.history))
	copy(out, r.history)
	return out
}

// Steps returns the number of applied rewrites so far.
func (r *Runner) Steps() int64 {
	return r.clock.Current()
}

// Token returns the run token identifying this Runner in logs and
// traces.
func (r *Runner) Token() string {
	return r.token
}
