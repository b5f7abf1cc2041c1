package ruleset

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/afero"

	_ "github.com/thoreinstein/attest/internal/datasize" // registers the datasize ordering
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
	"github.com/thoreinstein/attest/internal/registry"
	"github.com/thoreinstein/attest/internal/rule"
	"github.com/thoreinstein/attest/internal/validator"
)

// recordKinds are the kinds that inspect several attributes of a record and
// so may appear under a type's rules list.
var recordKinds = map[rule.Kind]bool{
	rule.KindAtLeastOneOf:      true,
	rule.KindMutuallyExclusive: true,
	rule.KindGreaterThan:       true,
}

// Build constructs the rules of every declared type and registers them.
// Types are built in name order, and the first error stops the build.
func (f *File) Build(opts ...Option) (*Set, error) {
	o := buildOptions{fs: afero.NewOsFs(), concurrency: registry.DefaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	set := &Set{
		Registry: registry.New(registry.WithConcurrency(o.concurrency)),
		types:    make(map[string]*Type, len(f.Types)),
	}

	for _, name := range slices.Sorted(maps.Keys(f.Types)) {
		t, bindings, err := buildType(name, f.Types[name], o)
		if err != nil {
			return nil, errors.Wrapf(err, "type %s", name)
		}
		if err := set.Registry.Register(name, bindings...); err != nil {
			return nil, err
		}
		set.types[name] = t
	}
	return set, nil
}

func buildType(name string, spec TypeSpec, o buildOptions) (*Type, []registry.Binding, error) {
	t := &Type{
		Name:        name,
		Description: spec.Description,
		Match:       slices.Clone(spec.Match),
		attributes:  slices.Clone(spec.Attributes),
		declared:    make(map[string]bool, len(spec.Attributes)),
	}
	if len(spec.Attributes) == 0 {
		return nil, nil, errors.WithHint(
			errors.Wrap(errors.ErrInvalidConfig, "no attributes declared"),
			"list the document's attributes under attributes:")
	}
	for _, a := range spec.Attributes {
		if a == "" || t.declared[a] {
			return nil, nil, errors.Wrapf(errors.ErrInvalidConfig, "attribute %q is empty or declared twice", a)
		}
		t.declared[a] = true
	}

	var bindings []registry.Binding
	for i, rs := range spec.Rules {
		kind := rule.Kind(rs.Kind)
		if kind.Valid() && !recordKinds[kind] {
			return nil, nil, errors.WithHint(
				errors.Wrapf(errors.ErrInvalidConfig, "rules[%d]: %s checks a single value", i, kind),
				fmt.Sprintf("move it under fields: <attribute>: [{kind: %s}]", kind))
		}
		for _, ref := range referenced(rs) {
			if !t.declared[ref] {
				return nil, nil, undeclared(kind, ref, name)
			}
		}
		b, err := buildBinding(rs, "", o)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "rules[%d]", i)
		}
		bindings = append(bindings, b)
	}

	for _, field := range slices.Sorted(maps.Keys(spec.Fields)) {
		root, _, _ := strings.Cut(field, ".")
		for i, rs := range spec.Fields[field] {
			if !t.declared[root] {
				return nil, nil, undeclared(rule.Kind(rs.Kind), field, name)
			}
			b, err := buildBinding(rs, field, o)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "fields.%s[%d]", field, i)
			}
			bindings = append(bindings, b)
		}
	}
	return t, bindings, nil
}

func buildBinding(rs RuleSpec, path string, o buildOptions) (registry.Binding, error) {
	r, err := buildRule(rs, o)
	if err != nil {
		return registry.Binding{}, err
	}
	b := registry.Binding{Rule: r, Path: path}
	if rs.Severity != "" {
		if err := b.Severity.UnmarshalText([]byte(rs.Severity)); err != nil {
			return registry.Binding{}, errors.Mark(err, errors.ErrInvalidConfig)
		}
		if b.Severity == validator.SeverityInfo {
			return registry.Binding{}, errors.Wrap(errors.ErrInvalidConfig, "severity must be error or warning")
		}
	}
	return b, nil
}

// buildRule constructs the rule a spec describes.
func buildRule(rs RuleSpec, o buildOptions) (rule.Rule, error) {
	var common []rule.Option
	if rs.Message != "" {
		common = append(common, rule.WithMessage(rs.Message))
	}

	switch kind := rule.Kind(rs.Kind); kind {
	case rule.KindAtLeastOneOf:
		return rule.NewAtLeastOneOf(rs.Fields, common...)
	case rule.KindMutuallyExclusive:
		return rule.NewMutuallyExclusive(rs.Fields, common...)
	case rule.KindGreaterThan:
		if rs.Ordering != "" {
			f, ok := order.Named(rs.Ordering)
			if !ok {
				return nil, &rule.ConfigError{
					Rule: kind,
					Err: errors.WithHint(
						errors.Newf("unknown ordering %q", rs.Ordering),
						"known orderings: "+strings.Join(order.Names(), ", ")),
				}
			}
			common = append(common, rule.WithOrdering(f))
		}
		return rule.NewGreaterThan(rs.Greater, rs.Smaller, common...)
	case rule.KindUniqueAttribute:
		return rule.NewUniqueAttribute(rs.Attribute, common...)
	case rule.KindAllowedSchemes:
		return rule.NewAllowedSchemes(rs.Schemes, common...)
	case rule.KindExistingPath:
		return rule.NewExistingPath(append(common, rule.ExpectDirectory(rs.Directory), rule.WithFs(o.fs))...)
	case rule.KindUrnUUID:
		return rule.NewUrnUUID(common...)
	case rule.KindUUID:
		return rule.NewUUID(common...)
	case rule.KindPrefixedToken:
		if rs.Prefix != "" {
			common = append(common, rule.WithPrefix(rs.Prefix))
		}
		return rule.NewPrefixedToken(common...)
	}
	return nil, errors.WithHint(
		errors.Wrapf(errors.ErrUnknownRule, "%q", rs.Kind),
		"run 'attest rules' to list the available kinds")
}

// referenced returns the record attributes a record-level rule names.
func referenced(rs RuleSpec) []string {
	refs := slices.Clone(rs.Fields)
	for _, n := range []string{rs.Greater, rs.Smaller} {
		if n != "" {
			refs = append(refs, n)
		}
	}
	return refs
}

func undeclared(kind rule.Kind, attribute, typeName string) error {
	return &rule.ConfigError{
		Rule:      kind,
		Attribute: attribute,
		Err: errors.WithHint(
			errors.Newf("attribute %s is not declared for type %s", attribute, typeName),
			fmt.Sprintf("add %q to the attributes of %s", strings.SplitN(attribute, ".", 2)[0], typeName)),
	}
}
