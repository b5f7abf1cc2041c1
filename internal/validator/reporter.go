package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", errors.Newf("unknown report format %q (want text or json)", s)
}

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
	color  bool
}

// NewReporter creates a new Reporter. Text output is colored only when out
// is a terminal that supports it.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
		color:  logging.SupportsColor(out),
	}
}

// paint returns a color bound to this reporter's output decision.
func (r *Reporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

// jsonReport is the JSON document shape.
type jsonReport struct {
	Valid    bool    `json:"valid"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Issues   []Issue `json:"issues"`
}

// reportJSON writes the result as JSON.
func (r *Reporter) reportJSON(result *Result) error {
	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(jsonReport{
		Valid:    !result.HasErrors(),
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
		Issues:   issues,
	}), "encoding JSON report")
}

// reportText writes the result as human-readable text.
func (r *Reporter) reportText(result *Result) error {
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintln(r.out, r.paint(color.FgGreen).Sprint("✓ Validation passed"))
		return nil
	}

	errs := result.Errors()
	warnings := result.Warnings()

	// Print Summary
	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, r.paint(color.FgRed).Sprintf("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, r.paint(color.FgYellow).Sprintf("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))

	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		r.printGroup(errs, color.FgRed)
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		r.printGroup(warnings, color.FgYellow)
		fmt.Fprintln(r.out)
	}

	return nil
}

// printGroup prints issues under a header per source, keeping the order in
// which sources first appear.
func (r *Reporter) printGroup(issues []Issue, c color.Attribute) {
	var order []string
	bySource := make(map[string][]Issue)
	for _, i := range issues {
		if _, ok := bySource[i.Source]; !ok {
			order = append(order, i.Source)
		}
		bySource[i.Source] = append(bySource[i.Source], i)
	}

	for _, src := range order {
		indent := "  "
		if src != "" {
			fmt.Fprintf(r.out, "  %s\n", r.paint(color.Bold).Sprint(src))
			indent = "    "
		}
		for _, i := range bySource[src] {
			r.printIssue(i, c, indent)
		}
	}
}

func (r *Reporter) printIssue(i Issue, c color.Attribute, indent string) {
	printer := r.paint(c).SprintFunc()
	dim := r.paint(color.FgHiBlack)

	// Format:  • field: message (context) [value] {rule}

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("• ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		var ctxParts []string
		for k, v := range i.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		// Sort for deterministic output
		sort.Strings(ctxParts)

		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	if i.Value != nil {
		valStr := displayValue(i)
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", valStr))
	}

	if i.Rule != "" {
		sb.WriteString(dim.Sprintf(" {%s}", i.Rule))
	}

	fmt.Fprintln(r.out, sb.String())
}

// displayValue renders an issue value for text output, masking anything
// that looks like a credential.
func displayValue(i Issue) string {
	s := fmt.Sprintf("%v", i.Value)
	if logging.ShouldMask(i.Field) || logging.ContainsTokenPrefix(s) {
		return logging.MaskValue(s)
	}
	return s
}
