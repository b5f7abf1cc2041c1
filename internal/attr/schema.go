package attr

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/thoreinstein/attest/internal/errors"
)

// tagKeys are consulted, in order, for alternative attribute names of
// reflected struct fields.
var tagKeys = []string{"attr", "json", "yaml"}

// Schema describes the attributes of one record type: their names, static
// types, and how to read them. A Schema is immutable once built.
type Schema struct {
	typ    reflect.Type
	names  []string
	fields map[string]field
}

type field struct {
	typ reflect.Type
	get func(record any) (any, error)
}

// FieldSpec declares one explicitly accessed attribute of records of type T.
type FieldSpec[T any] struct {
	name string
	typ  reflect.Type
	get  func(T) any
}

// Field declares the attribute name of T read by get. The static type of the
// attribute is the result type of get.
func Field[T, V any](name string, get func(T) V) FieldSpec[T] {
	return FieldSpec[T]{
		name: name,
		typ:  reflect.TypeFor[V](),
		get:  func(record T) any { return get(record) },
	}
}

// NewSchema builds a schema for records of type T from explicit accessors.
// It panics on an empty or duplicate attribute name, which is a programming
// error in the declaration itself.
func NewSchema[T any](specs ...FieldSpec[T]) *Schema {
	s := &Schema{
		typ:    reflect.TypeFor[T](),
		fields: make(map[string]field, len(specs)),
	}
	for _, spec := range specs {
		if spec.name == "" {
			panic(fmt.Sprintf("attr: empty attribute name in schema for %s", s.typ))
		}
		if _, dup := s.fields[spec.name]; dup {
			panic(fmt.Sprintf("attr: duplicate attribute %q in schema for %s", spec.name, s.typ))
		}
		get := spec.get
		s.names = append(s.names, spec.name)
		s.fields[spec.name] = field{
			typ: spec.typ,
			get: func(record any) (any, error) {
				r, ok := record.(T)
				if !ok {
					return nil, errors.Newf("record is not a %s", s.typ)
				}
				return get(r), nil
			},
		}
	}
	return s
}

var errNilRecord = errors.New("nil record")

var structCache sync.Map // reflect.Type -> *Schema

// StructSchema returns the reflected schema of struct type t (or of the struct
// t points to). Exported fields, including promoted ones, are attributes named
// by their Go name and by their attr, json and yaml tag names. The schema is
// built once per type.
func StructSchema(t reflect.Type) *Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if s, ok := structCache.Load(t); ok {
		return s.(*Schema)
	}
	s := buildStructSchema(t)
	actual, _ := structCache.LoadOrStore(t, s)
	return actual.(*Schema)
}

func buildStructSchema(t reflect.Type) *Schema {
	s := &Schema{
		typ:    t,
		fields: make(map[string]field),
	}

	var aliases []struct {
		name string
		f    field
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		f := field{typ: sf.Type, get: structGetter(t, sf.Index)}
		if _, exists := s.fields[sf.Name]; !exists {
			s.names = append(s.names, sf.Name)
			s.fields[sf.Name] = f
		}
		for _, key := range tagKeys {
			name, _, _ := strings.Cut(sf.Tag.Get(key), ",")
			if name == "" || name == "-" {
				continue
			}
			aliases = append(aliases, struct {
				name string
				f    field
			}{name, f})
		}
	}

	// Go names win over tag aliases.
	for _, a := range aliases {
		if _, exists := s.fields[a.name]; !exists {
			s.fields[a.name] = a.f
		}
	}
	return s
}

func structGetter(t reflect.Type, index []int) func(any) (any, error) {
	return func(record any) (any, error) {
		rv := reflect.ValueOf(record)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil, errNilRecord
			}
			rv = rv.Elem()
		}
		if rv.Type() != t {
			return nil, errors.Newf("record is not a %s", t)
		}
		fv, err := rv.FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer: the promoted field is absent
			return nil, nil
		}
		return fv.Interface(), nil
	}
}

// Type returns the record type the schema describes.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// Names returns the attribute names in declaration order, without tag aliases.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether name is an attribute of the schema.
func (s *Schema) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// AttributeType returns the static type of the named attribute.
func (s *Schema) AttributeType(name string) (reflect.Type, bool) {
	f, ok := s.fields[name]
	if !ok {
		return nil, false
	}
	return f.typ, true
}

// Get reads the named attribute from record.
func (s *Schema) Get(record any, name string) (any, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, &ResolutionError{Name: name, Type: s.typ.String()}
	}
	v, err := f.get(record)
	if err != nil {
		return nil, &ResolutionError{Name: name, Type: fmt.Sprintf("%T", record), Reason: err.Error()}
	}
	return v, nil
}
