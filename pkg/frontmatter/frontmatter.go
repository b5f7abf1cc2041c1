package frontmatter

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/attest/internal/errors"
)

var (
	// ErrMissingFrontmatter is returned by MustParse when the document does
	// not start with a "---" line.
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	// ErrUnterminated is returned when the closing "---" line is missing.
	ErrUnterminated = errors.New("missing closing frontmatter delimiter")
)

// Split separates the front matter header from the body. found is false when
// content does not open with a delimiter line, in which case body is the
// whole content.
func Split(content []byte) (header, body []byte, found bool, err error) {
	first, rest, _ := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, false, nil
	}

	start := len(content) - len(rest)
	for pos := start; pos < len(content); {
		line, next, _ := cutLine(content[pos:])
		if isDelimiter(line) {
			return content[start:pos], next, true, nil
		}
		pos = len(content) - len(next)
	}
	return nil, nil, true, ErrUnterminated
}

// Parse decodes the front matter of r into matter and returns the body. A
// document without front matter leaves matter untouched and is returned whole.
func Parse[T any](r io.Reader, matter *T) ([]byte, error) {
	return parse(r, matter, false)
}

// MustParse is like Parse but fails with ErrMissingFrontmatter when there is
// no front matter.
func MustParse[T any](r io.Reader, matter *T) ([]byte, error) {
	return parse(r, matter, true)
}

func parse[T any](r io.Reader, matter *T, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading document")
	}

	header, body, found, err := Split(content)
	if err != nil {
		return nil, err
	}
	if !found {
		if required {
			return nil, ErrMissingFrontmatter
		}
		return body, nil
	}

	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, errors.Wrap(err, "decoding frontmatter")
	}
	return body, nil
}

// cutLine returns the first line of b without its line ending, and the rest.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}
