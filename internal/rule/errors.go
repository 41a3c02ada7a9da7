package rule

import (
	"errors"
	"fmt"
)

// ErrMalformedStatement is the errors.Is target for every compilation
// failure. Callers that need the specific condition use errors.As with
// *CompileError and inspect Code.
var ErrMalformedStatement = errors.New("malformed statement")

// Statement validation error codes (E101-E109). Infrastructure errors
// (bad paths, unreadable files) live in the loader's E0xx range.
const (
	ErrCodeEmptyStatement   = "E101" // statement empty or whitespace-only
	ErrCodeUnparseable      = "E102" // statement does not match the grammar
	ErrCodeMissingLHS       = "E103" // nothing before the arrow
	ErrCodeMissingRHS       = "E104" // nothing after the arrow
	ErrCodeDoubledMarkerLHS = "E105" // left side is the doubled empty-word marker
	ErrCodeDoubledMarkerRHS = "E106" // right side is the doubled empty-word marker
)

// CompileError reports why a statement failed to compile.
type CompileError struct {
	Code      string // stable Exxx code
	Message   string // human-readable description
	Statement string // the offending statement, verbatim
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] %s: %q", e.Code, e.Message, e.Statement)
}

// Unwrap makes every CompileError match ErrMalformedStatement.
func (e *CompileError) Unwrap() error {
	return ErrMalformedStatement
}

func newCompileError(code, statement, format string, args ...any) *CompileError {
	return &CompileError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Statement: statement,
	}
}
