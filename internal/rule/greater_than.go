package rule

import (
	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
)

// GreaterThan requires one attribute to be strictly greater than another.
type GreaterThan struct {
	greater, smaller string
	opts             options
}

// NewGreaterThan returns a rule requiring greater > smaller. Values are
// compared with order.Natural unless WithOrdering is given. The message
// template may use {greater} and {smaller}.
func NewGreaterThan(greater, smaller string, opts ...Option) (*GreaterThan, error) {
	switch {
	case greater == "" || smaller == "":
		return nil, configError(KindGreaterThan, "",
			errors.New("both the greater and the smaller field are required"), "")
	case greater == smaller:
		return nil, configError(KindGreaterThan, greater,
			errors.Newf("field %s cannot be compared with itself", greater), "")
	}
	return &GreaterThan{greater: greater, smaller: smaller, opts: newOptions(opts)}, nil
}

func (r *GreaterThan) Kind() Kind { return KindGreaterThan }

// Fields returns the greater and smaller field names.
func (r *GreaterThan) Fields() (greater, smaller string) { return r.greater, r.smaller }

// CheckSchema verifies, before any record is seen, that both fields exist on
// s and have types with a natural order. It only applies to the natural
// ordering; custom orderings define their own operand types.
func (r *GreaterThan) CheckSchema(s *attr.Schema) error {
	for _, name := range []string{r.greater, r.smaller} {
		t, ok := s.AttributeType(name)
		if !ok {
			return missingField(KindGreaterThan, name, &attr.ResolutionError{Name: name, Type: s.Type().String()})
		}
		if !r.opts.customOrdering && !order.Supports(t) {
			return notComparable(name, errors.Wrapf(order.ErrNotComparable, "%s has type %s", name, t))
		}
	}
	return nil
}

func (r *GreaterThan) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	g, err := attr.Resolve(target, r.greater)
	if err != nil {
		return Outcome{}, missingField(KindGreaterThan, r.greater, err)
	}
	s, err := attr.Resolve(target, r.smaller)
	if err != nil {
		return Outcome{}, missingField(KindGreaterThan, r.smaller, err)
	}

	fail := Fail(r.opts.render("{greater} must be larger than {smaller}",
		"greater", r.greater, "smaller", r.smaller))
	if attr.IsNull(g) || attr.IsNull(s) {
		return fail, nil
	}

	c, err := r.opts.ordering(g, s)
	if err != nil {
		return Outcome{}, notComparable(r.greater, err)
	}
	if c > 0 {
		return Pass(), nil
	}
	return fail, nil
}

func notComparable(name string, err error) *ConfigError {
	if !errors.Is(err, order.ErrNotComparable) {
		err = errors.Mark(err, order.ErrNotComparable)
	}
	return configError(KindGreaterThan, name, err,
		"use attributes with a natural order or configure an ordering for them")
}
