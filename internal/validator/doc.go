// Package validator collects and reports rule violations.
//
// The registry turns every invalid rule outcome into an [Issue] and gathers
// them in a [Result]; a [Reporter] then renders the result as colored text or
// JSON.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes between blocking errors and non-blocking warnings.
//   - [Issue]: A single violation with its source, rule kind and field path.
//   - [Result]: Aggregates issues and provides helper methods.
//
// # Basic Usage
//
//	result := &validator.Result{}
//	result.Add(validator.Issue{
//		Severity: validator.SeverityError,
//		Rule:     "mutually_exclusive",
//		Message:  "The fields [doi, urn] are mutually exclusive",
//	})
//
//	validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
