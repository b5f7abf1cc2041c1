package rule

import (
	"fmt"
	"iter"
	"reflect"
	"time"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
)

// UniqueAttribute requires an attribute to be unique across the elements of
// a collection. Null elements and null attribute values are skipped.
type UniqueAttribute struct {
	attribute string
	opts      options
}

// NewUniqueAttribute returns a rule checking that no two elements of the
// target collection share a value for attribute. The target may be a slice,
// an array or an iter.Seq[any]. The message template may use {attribute}.
func NewUniqueAttribute(attribute string, opts ...Option) (*UniqueAttribute, error) {
	if attribute == "" {
		return nil, configError(KindUniqueAttribute, "", errors.New("attribute name is required"), "")
	}
	return &UniqueAttribute{attribute: attribute, opts: newOptions(opts)}, nil
}

func (r *UniqueAttribute) Kind() Kind { return KindUniqueAttribute }

// Attribute returns the attribute checked on each element.
func (r *UniqueAttribute) Attribute() string { return r.attribute }

func (r *UniqueAttribute) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	elems, err := elements(target)
	if err != nil {
		return Outcome{}, configError(KindUniqueAttribute, r.attribute, err,
			"bind unique_attribute to a list-valued attribute")
	}

	var g grouper
	for elem := range elems {
		if attr.IsNull(elem) {
			continue
		}
		v, err := attr.Resolve(elem, r.attribute)
		if err != nil {
			return Outcome{}, configError(KindUniqueAttribute, r.attribute,
				errors.Wrapf(err, "field %s does not exist on all elements", r.attribute),
				fmt.Sprintf("every element of the list needs a %q attribute", r.attribute))
		}
		if attr.IsNull(v) {
			continue
		}
		g.add(v)
	}

	dups := g.duplicates()
	if len(dups) == 0 {
		return Pass(), nil
	}
	out := Fail(r.opts.render("attribute {attribute} must be unique in the list of objects",
		"attribute", r.attribute))
	out.Context = map[string]any{"duplicates": dups}
	return out, nil
}

// elements iterates over the target collection.
func elements(target any) (iter.Seq[any], error) {
	switch seq := target.(type) {
	case iter.Seq[any]:
		return seq, nil
	case func(func(any) bool):
		return seq, nil
	}

	rv := reflect.ValueOf(attr.Indirect(target))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, nil
	}
	return nil, errors.Newf("%T is not a collection", target)
}

type equaler interface {
	Equal(other any) bool
}

// timeKey compares instants regardless of location or monotonic reading.
type timeKey int64

type group struct {
	value any
	count int
}

// grouper buckets values by equality. Hashable values go through a map;
// values implementing Equal or containing uncomparable parts fall back to a
// linear scan.
type grouper struct {
	groups []*group
	index  map[any]*group
}

func (g *grouper) add(v any) {
	v = attr.Indirect(v)
	var key any
	switch x := v.(type) {
	case equaler:
		for _, grp := range g.groups {
			if x.Equal(grp.value) {
				grp.count++
				return
			}
		}
		g.push(v, nil)
		return
	case time.Time:
		key = timeKey(x.UnixNano())
	default:
		if reflect.ValueOf(v).Comparable() {
			key = v
		}
	}

	if key == nil {
		for _, grp := range g.groups {
			if _, ok := grp.value.(equaler); !ok && reflect.DeepEqual(grp.value, v) {
				grp.count++
				return
			}
		}
		g.push(v, nil)
		return
	}
	if grp, ok := g.index[key]; ok {
		grp.count++
		return
	}
	g.push(v, key)
}

func (g *grouper) push(v, key any) {
	grp := &group{value: v, count: 1}
	g.groups = append(g.groups, grp)
	if key != nil {
		if g.index == nil {
			g.index = make(map[any]*group)
		}
		g.index[key] = grp
	}
}

// duplicates returns the values seen more than once, in first-seen order.
func (g *grouper) duplicates() []any {
	var out []any
	for _, grp := range g.groups {
		if grp.count > 1 {
			out = append(out, grp.value)
		}
	}
	return out
}
