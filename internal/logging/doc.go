// Package logging provides structured logging for the attest CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("starting", "version", "1.0.0")
//
// Setting Config.File additionally writes every record as JSON, which is how
// --log-file works; [MultiHandler] does the fan-out.
//
// # Verbosity
//
// [LevelFromVerbosity] maps repeated -v flags to levels; the third -v enables
// [LevelTrace], at which every rule evaluation is logged. Loggers travel
// through the validation runner in the context ([NewContext], [FromContext]).
//
// Values under keys that look sensitive (token, secret, ...) and values that
// start with a known token prefix are masked in text and JSON output alike.
// Colors follow NO_COLOR and TERM=dumb, and ATTEST_FORCE_COLOR turns them on
// for non-terminals.
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Quiet Mode
//
// Use [NewDiscard] when log output should be suppressed entirely:
//
//	logger := logging.NewDiscard()
package logging
