package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the attest CLI.
const (
	// ExitSuccess indicates every record passed validation.
	ExitSuccess = 0

	// ExitUser indicates a user-related failure: records violated rules or
	// input files could not be read.
	ExitUser = 1

	// ExitSystem indicates the validation itself could not run, for example
	// because a rule is bound to an attribute the record type does not have.
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates a rule or application configuration is
	// unusable. Rule configuration errors are always marked with it.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnknownRule indicates a rule kind that has no evaluator.
	ErrUnknownRule = crdb.New("unknown rule kind")

	// ErrUnknownType indicates a record type that has no registered bindings.
	ErrUnknownType = crdb.New("unknown record type")

	// ErrValidationFailed indicates one or more records violated their rules.
	ErrValidationFailed = crdb.New("validation failed")
)

// ExitError carries the process exit code for a failed command, plus an
// optional next step shown to the user beneath the error.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewExitError attaches an exit code to err. err may be nil.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError reports bad input: unreadable documents, unknown record
// types, or records that violated their rules.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError reports a failure that stopped validation from running.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError reports a misconfigured rule or rule file.
// Hints attached to err take precedence over the standard suggestion.
func NewConfigError(err error) *ExitError {
	suggestion := "Run: attest rules --check"
	if hint := FlattenHints(err); hint != "" {
		suggestion = hint
	}
	return NewSystemError(err, suggestion)
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
