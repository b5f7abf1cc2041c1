package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ForceColorEnv forces colored output even when the writer is not a terminal,
// for CI logs that render ANSI codes.
const ForceColorEnv = "ATTEST_FORCE_COLOR"

// IsTTY reports whether w is a terminal. Only writers exposing a file
// descriptor, such as *os.File, can be.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
//
// NO_COLOR (https://no-color.org) and TERM=dumb always disable color.
// Otherwise ATTEST_FORCE_COLOR enables it, and a terminal is required.
func SupportsColor(w io.Writer) bool {
	return colorEnabled(IsTTY(w))
}

func colorEnabled(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if v := os.Getenv(ForceColorEnv); v != "" && v != "0" && v != "false" {
		return true
	}
	return isTTY
}
