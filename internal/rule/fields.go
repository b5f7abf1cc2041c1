package rule

import (
	"slices"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
)

// AtLeastOneOf requires at least one of its fields to be non-null.
type AtLeastOneOf struct {
	fields []string
	opts   options
}

// NewAtLeastOneOf returns a rule requiring one of fields to be set. The
// message template may use {fields}.
func NewAtLeastOneOf(fields []string, opts ...Option) (*AtLeastOneOf, error) {
	if err := checkFields(KindAtLeastOneOf, fields, 1); err != nil {
		return nil, err
	}
	return &AtLeastOneOf{fields: slices.Clone(fields), opts: newOptions(opts)}, nil
}

func (r *AtLeastOneOf) Kind() Kind { return KindAtLeastOneOf }

// Fields returns the configured field names.
func (r *AtLeastOneOf) Fields() []string { return slices.Clone(r.fields) }

// Evaluate resolves every field, even after a non-null one is found, so a
// misspelled name is reported regardless of the record's contents.
func (r *AtLeastOneOf) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	set, err := countSet(KindAtLeastOneOf, target, r.fields)
	if err != nil {
		return Outcome{}, err
	}
	if set > 0 {
		return Pass(), nil
	}
	return Fail(r.opts.render("At least one of the fields {fields} must be non-null",
		"fields", list(r.fields))), nil
}

// MutuallyExclusive allows at most one of its fields to be non-null.
type MutuallyExclusive struct {
	fields []string
	opts   options
}

// NewMutuallyExclusive returns a rule that rejects records with more than one
// of fields set. At least two fields are required. The message template may
// use {fields}.
func NewMutuallyExclusive(fields []string, opts ...Option) (*MutuallyExclusive, error) {
	if err := checkFields(KindMutuallyExclusive, fields, 2); err != nil {
		return nil, err
	}
	return &MutuallyExclusive{fields: slices.Clone(fields), opts: newOptions(opts)}, nil
}

func (r *MutuallyExclusive) Kind() Kind { return KindMutuallyExclusive }

// Fields returns the configured field names.
func (r *MutuallyExclusive) Fields() []string { return slices.Clone(r.fields) }

func (r *MutuallyExclusive) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	set, err := countSet(KindMutuallyExclusive, target, r.fields)
	if err != nil {
		return Outcome{}, err
	}
	if set <= 1 {
		return Pass(), nil
	}
	return Fail(r.opts.render("The fields {fields} are mutually exclusive",
		"fields", list(r.fields))), nil
}

func countSet(kind Kind, target any, fields []string) (int, error) {
	set := 0
	for _, name := range fields {
		v, err := attr.Resolve(target, name)
		if err != nil {
			return 0, missingField(kind, name, err)
		}
		if !attr.IsNull(v) {
			set++
		}
	}
	return set, nil
}

func checkFields(kind Kind, fields []string, minimum int) error {
	if len(fields) < minimum {
		return configError(kind, "",
			errors.Newf("at least %d field(s) required, got %d", minimum, len(fields)),
			"list the attributes the rule applies to")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == "" {
			return configError(kind, "", errors.New("empty field name"), "")
		}
		if seen[f] {
			return configError(kind, f, errors.Newf("field %s listed more than once", f), "")
		}
		seen[f] = true
	}
	return nil
}
