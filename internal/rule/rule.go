package rule

import (
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/attest/internal/order"
)

// Kind names a rule evaluator. Kinds double as the identifiers used in rule
// files.
type Kind string

// Rule kinds.
const (
	KindAtLeastOneOf      Kind = "at_least_one_of"
	KindMutuallyExclusive Kind = "mutually_exclusive"
	KindGreaterThan       Kind = "greater_than"
	KindUniqueAttribute   Kind = "unique_attribute"
	KindAllowedSchemes    Kind = "allowed_schemes"
	KindExistingPath      Kind = "existing_path"
	KindUrnUUID           Kind = "urn_uuid"
	KindPrefixedToken     Kind = "prefixed_token"
	KindUUID              Kind = "uuid"
)

var descriptions = map[Kind]string{
	KindAtLeastOneOf:      "at least one of the listed attributes is non-null",
	KindMutuallyExclusive: "at most one of the listed attributes is non-null",
	KindGreaterThan:       "one attribute is strictly greater than another",
	KindUniqueAttribute:   "an attribute is unique across the elements of a collection",
	KindAllowedSchemes:    "a URI uses one of the allowed schemes",
	KindExistingPath:      "a path exists and is a directory or regular file",
	KindUrnUUID:           "a URI is a urn:uuid: URN",
	KindPrefixedToken:     "a token is a fixed prefix followed by a UUID",
	KindUUID:              "a string is a canonical UUID",
}

// Kinds returns every rule kind, sorted by name.
func Kinds() []Kind {
	out := make([]Kind, 0, len(descriptions))
	for k := range descriptions {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Description returns a one-line summary of what rules of kind k check.
func (k Kind) Description() string {
	return descriptions[k]
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := descriptions[k]
	return ok
}

// Outcome is the result of evaluating a rule against a valid configuration.
type Outcome struct {
	Valid   bool
	Message string
	// Context carries rule-specific details about a violation, such as the
	// duplicated values found by a uniqueness rule.
	Context map[string]any
}

// Pass returns a valid outcome.
func Pass() Outcome {
	return Outcome{Valid: true}
}

// Fail returns an invalid outcome with message.
func Fail(message string) Outcome {
	return Outcome{Message: message}
}

// Rule is implemented by every evaluator.
type Rule interface {
	Kind() Kind
	// Evaluate checks target. A non-nil error is always a *ConfigError.
	Evaluate(target any) (Outcome, error)
}

// Option configures a rule. Options that do not apply to a rule are ignored.
type Option func(*options)

type options struct {
	message   string
	ordering  order.Func
	prefix    string
	directory bool
	fs        afero.Fs

	// customOrdering is set when ordering is not order.Natural.
	customOrdering bool
}

func newOptions(opts []Option) options {
	o := options{
		ordering: order.Natural,
		prefix:   DefaultTokenPrefix,
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMessage replaces the rule's default message template. Templates may
// reference the placeholders documented on each constructor, e.g. {fields}.
func WithMessage(template string) Option {
	return func(o *options) {
		o.message = template
	}
}

// WithOrdering sets the compare function used by GreaterThan.
func WithOrdering(f order.Func) Option {
	return func(o *options) {
		if f != nil {
			o.ordering = f
			o.customOrdering = true
		}
	}
}

// WithPrefix sets the token prefix checked by PrefixedToken.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// ExpectDirectory makes ExistingPath require a directory instead of a
// regular file.
func ExpectDirectory(dir bool) Option {
	return func(o *options) {
		o.directory = dir
	}
}

// WithFs sets the filesystem ExistingPath checks against.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// render picks the configured template or def and fills in placeholders
// given as name/value pairs.
func (o options) render(def string, pairs ...string) string {
	tmpl := def
	if o.message != "" {
		tmpl = o.message
	}
	if len(pairs) == 0 {
		return tmpl
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(tmpl)
}

// list renders names as "[a, b]".
func list(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

// quoted renders names as "'a', 'b'".
func quoted(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
