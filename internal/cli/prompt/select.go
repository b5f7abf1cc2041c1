// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
	"github.com/thoreinstein/attest/internal/ruleset"
)

// Sentinel errors for record type selection.
var (
	ErrNoTypes            = errors.New("no record types to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// findFunc matches fuzzyfinder.Find.
type findFunc func(slice any, itemFunc func(i int) string, opts ...fuzzyfinder.Option) (int, error)

// Selector handles interactive record type selection.
//
// On a terminal it opens a fuzzy finder; otherwise it prints a numbered list
// and reads the choice from its reader.
type Selector struct {
	reader io.Reader
	writer io.Writer
	fuzzy  bool
	find   findFunc
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
		fuzzy:  logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout),
		find:   fuzzyfinder.Find,
	}
}

// NewSelectorWithIO creates a numbered-list Selector with custom reader and
// writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
		find:   fuzzyfinder.Find,
	}
}

// SelectType prompts the user to choose the record type of the document at
// path.
//
// Returns:
//   - ErrNoTypes if the list is empty
//   - The type if only one exists (auto-selects without prompting)
//   - The selected type based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D) or the finder is aborted
func (s *Selector) SelectType(path string, types []*ruleset.Type) (*ruleset.Type, error) {
	if len(types) == 0 {
		return nil, ErrNoTypes
	}

	if len(types) == 1 {
		return types[0], nil
	}

	if s.fuzzy {
		return s.findType(path, types)
	}
	return s.promptType(path, types)
}

func (s *Selector) findType(path string, types []*ruleset.Type) (*ruleset.Type, error) {
	idx, err := s.find(
		types,
		func(i int) string {
			return types[i].Name
		},
		fuzzyfinder.WithHeader("Record type for "+path),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return describe(types[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}
	return types[idx], nil
}

func (s *Selector) promptType(path string, types []*ruleset.Type) (*ruleset.Type, error) {
	fmt.Fprintf(s.writer, "Multiple record types apply to %q:\n", path)
	for i, t := range types {
		if t.Description != "" {
			fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, t.Name, t.Description)
		} else {
			fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, t.Name)
		}
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)

	// Default to first option if empty
	if input == "" {
		return types[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	// Validate range (1-indexed)
	if selection < 1 || selection > len(types) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(types))
	}

	return types[selection-1], nil
}

func describe(t *ruleset.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", t.Name)
	if len(t.Match) > 0 {
		fmt.Fprintf(&b, "Match: %s\n", strings.Join(t.Match, ", "))
	}
	fmt.Fprintf(&b, "Attributes: %s\n", strings.Join(t.Attributes(), ", "))
	if t.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s", t.Description)
	}
	return b.String()
}
