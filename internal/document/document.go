// Package document loads structured documents into records the registry can
// validate. YAML, JSON, TOML and Markdown front matter are supported; every
// document decodes to a map keyed by top-level attribute name.
package document

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/pkg/fileutil"
	"github.com/thoreinstein/attest/pkg/frontmatter"
)

// Format identifies a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// ErrUnsupportedFormat is returned for files whose extension is not known.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is a decoded file.
type Document struct {
	Path   string
	Format Format
	Data   map[string]any
}

// Attribute implements attr.Attributed.
func (d *Document) Attribute(name string) (any, bool) {
	v, ok := d.Data[name]
	return v, ok
}

// Loader reads documents from a filesystem.
type Loader struct {
	fs      afero.Fs
	maxSize int64
}

// NewLoader returns a loader reading from fs. maxSize bounds each file; zero
// uses fileutil.DefaultMaxFileSize.
func NewLoader(fs afero.Fs, maxSize int64) *Loader {
	return &Loader{fs: fs, maxSize: maxSize}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%s", path)
}

// Load reads and decodes the document at path.
func (l *Loader) Load(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := fileutil.ReadFile(l.fs, path, l.maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	values, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return &Document{Path: path, Format: format, Data: values}, nil
}

// Decode parses data in the given format. An empty document decodes to an
// empty map.
func Decode(data []byte, format Format) (map[string]any, error) {
	values := map[string]any{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &values)
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		err = json.Unmarshal(data, &values)
	case FormatTOML:
		err = toml.Unmarshal(data, &values)
	case FormatMarkdown:
		_, err = frontmatter.MustParse(bytes.NewReader(data), &values)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}
