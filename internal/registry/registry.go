package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/logging"
	"github.com/thoreinstein/attest/internal/rule"
	"github.com/thoreinstein/attest/internal/validator"
)

// Binding attaches a rule to a record type or to one of its attributes.
type Binding struct {
	Rule rule.Rule
	// Path is the attribute the rule applies to. Empty binds the rule to
	// the whole record.
	Path string
	// Severity of the issues the binding reports. Defaults to
	// validator.SeverityError.
	Severity validator.Severity
}

// Record binds r to the whole record.
func Record(r rule.Rule) Binding {
	return Binding{Rule: r}
}

// Field binds r to the attribute at path.
func Field(path string, r rule.Rule) Binding {
	return Binding{Rule: r, Path: path}
}

// Warn returns a copy of b that reports warnings instead of errors.
func (b Binding) Warn() Binding {
	b.Severity = validator.SeverityWarning
	return b
}

// DefaultConcurrency bounds ValidateAll unless WithConcurrency is given.
const DefaultConcurrency = 4

// Registry maps record types to rule bindings. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	types       map[string][]Binding
	names       map[reflect.Type]string
	concurrency int
}

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency sets how many records ValidateAll checks at once.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		types:       make(map[string][]Binding),
		names:       make(map[reflect.Type]string),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends bindings to the named type.
func (r *Registry) Register(typeName string, bindings ...Binding) error {
	if typeName == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "type name is required")
	}
	for i, b := range bindings {
		if b.Rule == nil {
			return errors.Wrapf(errors.ErrInvalidConfig, "type %s: binding %d has no rule", typeName, i)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[typeName] = append(r.types[typeName], bindings...)
	return nil
}

// schemaChecker is implemented by rules that can verify a record shape
// before any record is evaluated.
type schemaChecker interface {
	CheckSchema(*attr.Schema) error
}

// RegisterType registers bindings for records of type T (or *T), named by
// T's Go type. When T's attributes are known up front, record bindings that
// support it are checked against them immediately.
func RegisterType[T any](r *Registry, bindings ...Binding) error {
	t := reflect.TypeFor[T]()
	name := TypeName(t)

	if schema, ok := attr.Lookup(t); ok {
		for _, b := range bindings {
			if sc, ok := b.Rule.(schemaChecker); ok && b.Path == "" {
				if err := sc.CheckSchema(schema); err != nil {
					return errors.Wrapf(err, "type %s", name)
				}
			}
		}
	}

	if err := r.Register(name, bindings...); err != nil {
		return err
	}
	// Validate looks records up by their dereferenced type.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.Lock()
	r.names[t] = name
	r.mu.Unlock()
	return nil
}

// TypeName returns the registry name used for Go type t. Pointer types share
// the name of their element type.
func TypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.String()
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bindings returns a copy of the bindings registered for typeName.
func (r *Registry) Bindings(typeName string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.types[typeName]...)
}

// Validate checks record against the bindings registered for its Go type.
func (r *Registry) Validate(ctx context.Context, record any) (*validator.Result, error) {
	t := reflect.TypeOf(record)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	name, ok := r.names[t]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownType, "no rules registered for %T", record)
	}
	return r.ValidateAs(ctx, name, record)
}

// ValidateAs checks record against the bindings registered under typeName.
// Records of any shape can be validated this way, e.g. decoded documents.
func (r *Registry) ValidateAs(ctx context.Context, typeName string, record any) (*validator.Result, error) {
	r.mu.RLock()
	bindings, ok := r.types[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownType, "no rules registered for type %q", typeName)
	}

	logger := logging.FromContext(ctx).With("type", typeName)
	result := &validator.Result{}

	for _, b := range bindings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind := b.Rule.Kind()
		logger.Log(ctx, logging.LevelTrace, "evaluating rule", "rule", string(kind), "field", b.Path)

		target := record
		if b.Path != "" {
			v, err := ResolvePath(record, b.Path)
			if err != nil {
				return nil, &rule.ConfigError{
					Rule:      kind,
					Attribute: b.Path,
					Err: errors.WithHint(
						errors.Wrapf(err, "field %s does not exist or is not accessible", b.Path),
						fmt.Sprintf("check that %q is an attribute of %s", b.Path, typeName)),
				}
			}
			target = v
		}

		out, err := b.Rule.Evaluate(target)
		if err != nil {
			return nil, err
		}
		if out.Valid {
			continue
		}

		issue := validator.Issue{
			Severity: b.Severity,
			Rule:     string(kind),
			Field:    b.Path,
			Message:  out.Message,
			Context:  stringContext(out.Context),
		}
		if b.Path != "" {
			issue.Value = target
		}
		logger.Debug("rule violated", "rule", string(kind), "field", b.Path, "message", out.Message)
		result.Add(issue)
	}
	return result, nil
}

// ResolvePath resolves a dot separated attribute path. A null value part way
// down the path resolves the whole path to null.
func ResolvePath(record any, path string) (any, error) {
	v := record
	for seg := range strings.SplitSeq(path, ".") {
		if attr.IsNull(v) {
			return nil, nil
		}
		next, err := attr.Resolve(v, seg)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

func stringContext(ctx map[string]any) map[string]string {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]string, len(ctx))
	for k, v := range ctx {
		switch x := v.(type) {
		case []any:
			parts := make([]string, len(x))
			for i, p := range x {
				parts[i] = fmt.Sprint(p)
			}
			out[k] = strings.Join(parts, ", ")
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
