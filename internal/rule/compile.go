package rule

import (
	"regexp"
	"strings"
)

// statementPattern is the full statement grammar. LHS and RHS are
// maximal non-whitespace runs; whitespace is permitted only around the
// arrow and the terminating dot. Go's leftmost-first submatch semantics
// make "a -> ." parse as an ordinary rule with RHS "." rather than a
// terminating rule with no RHS, which keeps String/Compile a round trip.
var statementPattern = regexp.MustCompile(`^\s*(\S+)\s*(->|=>)\s*(\.)?\s*(\S+)\s*$`)

// Diagnostic patterns for statements the grammar rejects. These only
// classify the failure; statementPattern decides validity.
var (
	missingLHSPattern = regexp.MustCompile(`^\s*(->|=>)`)
	missingRHSPattern = regexp.MustCompile(`(->|=>)\s*(\.)?\s*$`)
)

// Compile parses and validates a textual rewrite statement.
//
// The returned error is always a *CompileError and matches
// ErrMalformedStatement via errors.Is. Each rejection carries a
// distinct code: empty statement, missing LHS, missing RHS, doubled
// marker on either side, or a statement the grammar cannot parse at
// all.
func Compile(text string) (Rule, error) {
	if strings.TrimSpace(text) == "" {
		return Rule{}, newCompileError(ErrCodeEmptyStatement, text, "statement is empty")
	}

	m := statementPattern.FindStringSubmatch(text)
	if m == nil {
		return Rule{}, diagnose(text)
	}

	lhs, rhs := m[1], m[4]
	terminating := m[3] == "."

	if lhs == doubledMarker {
		return Rule{}, newCompileError(ErrCodeDoubledMarkerLHS, text,
			"left side is the doubled empty-word marker %q", doubledMarker)
	}
	if rhs == doubledMarker {
		return Rule{}, newCompileError(ErrCodeDoubledMarkerRHS, text,
			"right side is the doubled empty-word marker %q", doubledMarker)
	}

	return Rule{
		pattern:     normalize(lhs),
		replacement: normalize(rhs),
		terminating: terminating,
	}, nil
}

// normalize strips every empty-word marker from a parsed token. A token
// that is nothing but the marker becomes the empty string - the true
// empty word for matching and replacement.
func normalize(token string) string {
	return strings.ReplaceAll(token, EmptyWordMarker, "")
}

// diagnose classifies a statement that failed the grammar into the most
// specific reportable condition.
func diagnose(text string) *CompileError {
	if missingLHSPattern.MatchString(text) {
		return newCompileError(ErrCodeMissingLHS, text, "left side is missing")
	}
	if missingRHSPattern.MatchString(text) {
		return newCompileError(ErrCodeMissingRHS, text, "right side is missing")
	}
	return newCompileError(ErrCodeUnparseable, text,
		"statement does not match \"lhs -> rhs\" or \"lhs ->. rhs\"")
}
