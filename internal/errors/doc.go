// Package errors provides error handling conventions for attest.
//
// It re-exports the subset of [github.com/cockroachdb/errors] the codebase
// uses (New, Newf, Wrap, Wrapf, WithHint, Mark, Is, As) so every package wraps
// errors the same way, and declares the sentinel errors shared across
// packages.
//
// # Sentinel Errors
//
// Callers check for specific conditions with [Is]:
//
//	if errors.Is(err, errors.ErrInvalidConfig) {
//	    // a rule is bound to an attribute the record does not have
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): every record is valid
//   - ExitUser (1): violations were found or input could not be read
//   - ExitSystem (2): a rule or rule file is misconfigured
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. [NewConfigError] uses the hints attached with [WithHint] as the
// suggestion when present:
//
//	err := errors.WithHint(errors.ErrInvalidConfig, "declare the attribute in the rule file")
//	var exitErr *errors.ExitError
//	if errors.As(errors.NewConfigError(err), &exitErr) {
//	    fmt.Println("Suggestion:", exitErr.Suggestion)
//	    os.Exit(exitErr.Code)
//	}
package errors
