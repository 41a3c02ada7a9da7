// Package ruleset holds an ordered, mutable collection of rewrite rules.
//
// Order is load-bearing: the engine scans rules front to back and fires
// the first one whose pattern occurs, so a rule's position encodes its
// priority. Insert and remove positions are normalized rather than
// bounds-checked: a negative position means the front, a position at or
// past the end means the back. Indexed reads and replacements are
// strict instead and return ErrPositionOutOfRange, because a direct
// index that has to be clamped is a caller bug worth surfacing.
package ruleset

import (
	"errors"
	"slices"

	"github.com/roach88/markov/internal/rule"
)

// ErrPositionOutOfRange is returned by Statement and ReplaceStatement
// for an index outside [0, len).
var ErrPositionOutOfRange = errors.New("position out of range")

// Ruleset is an ordered sequence of rules. The zero value is an empty,
// usable set. A Ruleset is not safe for concurrent mutation; once a
// Runner is bound to it, further mutation is discouraged (the engine
// re-reads the order each step, so mid-run edits change behavior in
// ways the caller owns).
type Ruleset struct {
	rules []rule.Rule
}

// New creates an empty Ruleset.
func New() *Ruleset {
	return &Ruleset{}
}

// Of creates a Ruleset holding the given rules in order.
func Of(rules ...rule.Rule) *Ruleset {
	rs := &Ruleset{rules: make([]rule.Rule, len(rules))}
	copy(rs.rules, rules)
	return rs
}

// Add inserts a rule, preserving order, and returns the Ruleset for
// chaining. With no position (or one at or past the end) the rule is
// appended; a negative position prepends; anything else splices at that
// index.
func (rs *Ruleset) Add(r rule.Rule, position ...int) *Ruleset {
	at := len(rs.rules)
	if len(position) > 0 {
		at = clampInsert(position[0], len(rs.rules))
	}
	rs.rules = slices.Insert(rs.rules, at, r)
	return rs
}

// Remove deletes and returns a rule. With no position (or one at or
// past the last index) the last rule is removed; a negative position
// removes the first; anything else removes the rule at that index.
// ok is false when the set was empty.
func (rs *Ruleset) Remove(position ...int) (rule.Rule, bool) {
	if len(rs.rules) == 0 {
		return rule.Rule{}, false
	}
	at := len(rs.rules) - 1
	if len(position) > 0 {
		at = clampIndex(position[0], len(rs.rules))
	}
	removed := rs.rules[at]
	rs.rules = slices.Delete(rs.rules, at, at+1)
	return removed, true
}

// Statement returns the rule at position. Unlike Add and Remove this is
// strict: an out-of-range position is an error, not a clamp.
func (rs *Ruleset) Statement(position int) (rule.Rule, error) {
	if position < 0 || position >= len(rs.rules) {
		return rule.Rule{}, ErrPositionOutOfRange
	}
	return rs.rules[position], nil
}

// ReplaceStatement swaps in a rule at position and returns the previous
// occupant. Strict bounds, like Statement.
func (rs *Ruleset) ReplaceStatement(r rule.Rule, position int) (rule.Rule, error) {
	if position < 0 || position >= len(rs.rules) {
		return rule.Rule{}, ErrPositionOutOfRange
	}
	previous := rs.rules[position]
	rs.rules[position] = r
	return previous, nil
}

// Statements returns an independent copy of the rules in order.
// Mutating the returned slice does not affect the set.
func (rs *Ruleset) Statements() []rule.Rule {
	out := make([]rule.Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// HasStatements reports whether the set holds at least one rule.
func (rs *Ruleset) HasStatements() bool {
	return len(rs.rules) > 0
}

// Len returns the number of rules.
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}

// clampInsert normalizes an insertion position: negative means front,
// past-the-end means append.
func clampInsert(position, length int) int {
	if position < 0 {
		return 0
	}
	if position > length {
		return length
	}
	return position
}

// clampIndex normalizes an element position: negative means first,
// at-or-past the last index means last.
func clampIndex(position, length int) int {
	if position < 0 {
		return 0
	}
	if position >= length {
		return length - 1
	}
	return position
}
