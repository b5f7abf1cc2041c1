package attr

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/thoreinstein/attest/internal/errors"
)

// ErrNoSuchAttribute indicates the attribute does not exist on the record's shape.
var ErrNoSuchAttribute = errors.New("no such attribute")

// Attributed is implemented by records that resolve their own attributes.
// ok is false when the record has no attribute with that name.
type Attributed interface {
	Attribute(name string) (value any, ok bool)
}

// ResolutionError reports an attribute name that does not exist on a record.
// It is a configuration problem, never a validation failure.
type ResolutionError struct {
	// Name is the attribute that could not be resolved.
	Name string
	// Type is the dynamic type of the record, "<nil>" for a nil record.
	Type string
	// Reason is set when the attribute is declared but the record could not
	// be read, e.g. a nil pointer record or a schema of another type.
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("attribute %q cannot be read from %s: %s", e.Name, e.Type, e.Reason)
	}
	return fmt.Sprintf("attribute %q does not exist on %s", e.Name, e.Type)
}

// Unwrap returns ErrNoSuchAttribute.
func (e *ResolutionError) Unwrap() error {
	return ErrNoSuchAttribute
}

var schemas sync.Map // reflect.Type -> *Schema

// Register binds schema to its record type for every later Resolve call.
// Registering twice for the same type replaces the earlier schema.
func Register(schema *Schema) {
	schemas.Store(schema.typ, schema)
}

// Unregister removes the schema registered for t, if any.
func Unregister(t reflect.Type) {
	schemas.Delete(t)
}

// Lookup returns the schema that Resolve would use for records of type t.
// ok is false when t has no registered schema and is not a struct.
func Lookup(t reflect.Type) (*Schema, bool) {
	if t == nil {
		return nil, false
	}
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema), true
	}
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return nil, false
	}
	return StructSchema(base), true
}

// Resolve returns the current value of the named attribute on record.
// Values are returned as stored; a nil pointer field yields a typed nil.
func Resolve(record any, name string) (any, error) {
	if record == nil {
		return nil, &ResolutionError{Name: name, Type: "<nil>"}
	}

	if a, ok := record.(Attributed); ok {
		if v, found := a.Attribute(name); found {
			return v, nil
		}
		return nil, notFound(record, name)
	}

	t := reflect.TypeOf(record)
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema).Get(record, name)
	}

	if m, ok := record.(map[string]any); ok {
		if v, found := m[name]; found {
			return v, nil
		}
		return nil, notFound(record, name)
	}

	if s, ok := Lookup(t); ok {
		return s.Get(record, name)
	}
	return nil, notFound(record, name)
}

// MustResolve is like Resolve but panics on a resolution failure. It is meant
// for tests and for attributes whose presence was checked at setup time.
func MustResolve(record any, name string) any {
	v, err := Resolve(record, name)
	if err != nil {
		panic(err)
	}
	return v
}

// IsNull reports whether v represents an absent value: a nil interface or a
// nil pointer, map, slice, interface, channel or func. Zero values of other
// kinds ("" or 0) are not null.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// Indirect follows pointers and interfaces until it reaches a non-pointer
// value. It returns nil if any pointer on the way is nil.
func Indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func notFound(record any, name string) error {
	return &ResolutionError{Name: name, Type: fmt.Sprintf("%T", record)}
}
