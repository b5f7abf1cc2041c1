// Package cmd holds build metadata injected via ldflags.
package cmd

// Build-time variables set via ldflags, e.g.
// -X github.com/thoreinstein/attest/cmd.Version=v1.2.0
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
