// Package main is the entry point for the attest CLI.
package main

import (
	"os"

	"github.com/thoreinstein/attest/cmd/attest/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(commands.ExitCode(err))
	}
}
