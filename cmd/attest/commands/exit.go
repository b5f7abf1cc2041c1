package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return errors.ExitSuccess
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, errors.ErrInvalidConfig) {
		return errors.ExitSystem
	}
	return errors.ExitUser
}

// PrintError writes err and any suggestion to w. Validation failures are not
// printed because the report already lists them.
func PrintError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errors.ErrValidationFailed) {
		return
	}

	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	if !logging.SupportsColor(w) {
		red.DisableColor()
		yellow.DisableColor()
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		err = exitErr.Err
	}
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	if exitErr != nil && exitErr.Suggestion != "" {
		yellow.Fprintf(w, "Suggestion: %s\n", exitErr.Suggestion)
	}
}
