package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the errors.Is target for Runner construction
// failures.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a bad argument at Runner construction: a nil
// ruleset, a nil token generator, and so on. These indicate caller
// bugs, not data errors, and are never produced mid-run.
type ArgumentError struct {
	Argument string // which argument was rejected
	Message  string // why
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Argument, e.Message)
}

// Unwrap makes every ArgumentError match ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func newArgumentError(argument, message string) *ArgumentError {
	return &ArgumentError{Argument: argument, Message: message}
}
