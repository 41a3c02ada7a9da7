package rule

import (
	"fmt"
	"strings"
)

// EmptyWordMarker is the textual stand-in for the empty word in rule
// statements. A token consisting of the marker alone denotes the empty
// string; marker characters inside a token are stripped.
const EmptyWordMarker = "!"

// doubledMarker on either side of a statement is malformed: it would
// normalize to the empty word while pretending not to be it.
const doubledMarker = EmptyWordMarker + EmptyWordMarker

// Rule is a single compiled rewrite rule: replace the first occurrence
// of pattern with replacement. A terminating rule halts the run
// immediately after it fires.
//
// The zero value is the "no rule" rule; Runner.Step returns it together
// with ok=false when nothing applied.
type Rule struct {
	pattern     string
	replacement string
	terminating bool
}

// New constructs a Rule from already-validated components. Empty pattern
// or replacement denotes the empty word. Components must be
// normalized - they must not contain the empty-word marker, which only
// exists in the textual form.
func New(pattern, replacement string, terminating bool) Rule {
	return Rule{
		pattern:     pattern,
		replacement: replacement,
		terminating: terminating,
	}
}

// Pattern returns the substring this rule matches. Empty means the
// empty word, which occurs at the start of every context.
func (r Rule) Pattern() string { return r.pattern }

// Replacement returns the string substituted for the matched pattern.
func (r Rule) Replacement() string { return r.replacement }

// Terminating reports whether applying this rule halts the run.
func (r Rule) Terminating() bool { return r.terminating }

// Apply rewrites the first (leftmost) occurrence of the pattern in
// context. ok is false when the pattern does not occur; context is then
// returned unchanged. An empty pattern occurs at offset 0, so it always
// applies and prepends the replacement.
func (r Rule) Apply(context string) (string, bool) {
	if !strings.Contains(context, r.pattern) {
		return context, false
	}
	return strings.Replace(context, r.pattern, r.replacement, 1), true
}

// String renders the rule in statement form, the inverse of Compile:
// empty sides render as the marker, terminating rules render with
// "->.". One corner is unrepresentable: a non-terminating rule whose
// replacement starts with "." followed by more characters, which only
// New can build. Its rendering rereads as a terminating rule, because
// the grammar takes the leading dot as the terminating marker.
func (r Rule) String() string {
	lhs := r.pattern
	if lhs == "" {
		lhs = EmptyWordMarker
	}
	rhs := r.replacement
	if rhs == "" {
		rhs = EmptyWordMarker
	}
	if r.terminating {
		return fmt.Sprintf("%s ->. %s", lhs, rhs)
	}
	return fmt.Sprintf("%s -> %s", lhs, rhs)
}
