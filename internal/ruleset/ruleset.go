// Package ruleset loads rule files and turns them into registry bindings for
// document records.
//
// A rule file declares record types by name. Each type lists its attributes,
// the rules that apply to the whole record, and the rules bound to single
// attributes:
//
//	version: 1
//	types:
//	  deposit:
//	    match: ["deposits/*.yaml"]
//	    attributes: [doi, urn, homepage, files, max_size, min_size]
//	    rules:
//	      - kind: mutually_exclusive
//	        fields: [doi, urn]
//	      - kind: greater_than
//	        greater: max_size
//	        smaller: min_size
//	        ordering: datasize
//	    fields:
//	      homepage:
//	        - kind: allowed_schemes
//	          schemes: [http, https]
//
// Declared attributes missing from a document are null. Rules that name an
// undeclared attribute fail to load.
package ruleset

import (
	"bytes"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/attest/internal/document"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/registry"
	"github.com/thoreinstein/attest/pkg/fileutil"
)

// CurrentVersion is the rule file version this package reads.
const CurrentVersion = 1

// File is the decoded form of a rule file.
type File struct {
	Version int                 `yaml:"version" toml:"version"`
	Types   map[string]TypeSpec `yaml:"types" toml:"types"`
}

// TypeSpec declares one record type.
type TypeSpec struct {
	// Description is shown by "attest rules".
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
	// Match lists glob patterns (path.Match syntax, matched against the
	// slash separated path and its base name) selecting documents of this
	// type.
	Match      []string              `yaml:"match,omitempty" toml:"match,omitempty"`
	Attributes []string              `yaml:"attributes" toml:"attributes"`
	Rules      []RuleSpec            `yaml:"rules,omitempty" toml:"rules,omitempty"`
	Fields     map[string][]RuleSpec `yaml:"fields,omitempty" toml:"fields,omitempty"`
}

// RuleSpec configures one rule. Only the parameters its kind uses are read.
type RuleSpec struct {
	Kind      string   `yaml:"kind" toml:"kind"`
	Fields    []string `yaml:"fields,omitempty" toml:"fields,omitempty"`
	Greater   string   `yaml:"greater,omitempty" toml:"greater,omitempty"`
	Smaller   string   `yaml:"smaller,omitempty" toml:"smaller,omitempty"`
	Ordering  string   `yaml:"ordering,omitempty" toml:"ordering,omitempty"`
	Attribute string   `yaml:"attribute,omitempty" toml:"attribute,omitempty"`
	Schemes   []string `yaml:"schemes,omitempty" toml:"schemes,omitempty"`
	Directory bool     `yaml:"directory,omitempty" toml:"directory,omitempty"`
	Prefix    string   `yaml:"prefix,omitempty" toml:"prefix,omitempty"`
	Message   string   `yaml:"message,omitempty" toml:"message,omitempty"`
	// Severity is "error" (default) or "warning".
	Severity string `yaml:"severity,omitempty" toml:"severity,omitempty"`
}

// Parse decodes a rule file. TOML is used for filenames ending in .toml, YAML
// otherwise.
func Parse(filename string, data []byte) (*File, error) {
	var f File
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "parsing rule file %s", filename)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "parsing rule file %s", filename)
		}
	}
	if f.Version == 0 {
		f.Version = CurrentVersion
	}
	if f.Version != CurrentVersion {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "rule file %s: unsupported version %d", filename, f.Version),
			"set version: 1")
	}
	return &f, nil
}

// Load reads and builds the rule file at filename.
func Load(fs afero.Fs, filename string, opts ...Option) (*Set, error) {
	data, err := fileutil.ReadFile(fs, filename, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rule file %s", filename)
	}
	f, err := Parse(filename, data)
	if err != nil {
		return nil, err
	}
	return f.Build(opts...)
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	fs          afero.Fs
	concurrency int
}

// WithFs sets the filesystem existing_path rules check.
func WithFs(fs afero.Fs) Option {
	return func(o *buildOptions) { o.fs = fs }
}

// WithConcurrency is passed on to registry.WithConcurrency.
func WithConcurrency(n int) Option {
	return func(o *buildOptions) { o.concurrency = n }
}

// Set is a built rule file: a registry plus the declared record types.
type Set struct {
	Registry *registry.Registry
	types    map[string]*Type
}

// Type is a declared record type.
type Type struct {
	Name        string
	Description string
	Match       []string
	attributes  []string
	declared    map[string]bool
}

// Attributes returns the declared attribute names in declaration order.
func (t *Type) Attributes() []string {
	return slices.Clone(t.attributes)
}

// Matches reports whether the document at name selects this type.
func (t *Type) Matches(name string) bool {
	slashed := filepath.ToSlash(name)
	for _, pattern := range t.Match {
		if ok, _ := path.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := path.Match(pattern, filepath.Base(name)); ok {
			return true
		}
	}
	return false
}

// Record wraps doc so declared attributes resolve even when the document
// omits them.
func (t *Type) Record(doc *document.Document) *Record {
	return &Record{typ: t, doc: doc}
}

// Record is a document viewed through its type's declared attributes.
type Record struct {
	typ *Type
	doc *document.Document
}

// Attribute implements attr.Attributed. Declared attributes absent from the
// document resolve to null; undeclared attributes do not resolve.
func (r *Record) Attribute(name string) (any, bool) {
	if !r.typ.declared[name] {
		return nil, false
	}
	v, _ := r.doc.Attribute(name)
	return v, true
}

// Types returns the declared types sorted by name.
func (s *Set) Types() []*Type {
	out := make([]*Type, 0, len(s.types))
	for _, t := range s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Type returns the named type.
func (s *Set) Type(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Select returns the types whose match patterns select name.
func (s *Set) Select(name string) []*Type {
	var out []*Type
	for _, t := range s.Types() {
		if t.Matches(name) {
			out = append(out, t)
		}
	}
	return out
}
