// Package rule compiles textual rewrite statements into immutable Rules.
//
// A statement has the form:
//
//	lhs -> rhs     (ordinary rule)
//	lhs ->. rhs    (terminating rule)
//
// Both sides are single non-whitespace tokens. The arrow may be written
// "->" or "=>". Because plain text cannot express the empty word, the
// marker "!" stands in for it: a side written as "!" alone compiles to
// the empty string, and "!" occurring inside a token is stripped during
// normalization. A side equal to "!!" is malformed.
//
// Rules are values: once compiled (or constructed from validated parts)
// they never change, and copying one is safe.
package rule
