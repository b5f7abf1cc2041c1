package rule

import (
	"slices"
	"strings"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/uri"
)

// AllowedSchemes restricts the scheme of a URI value.
type AllowedSchemes struct {
	schemes []string
	opts    options
}

// NewAllowedSchemes returns a rule accepting URIs whose scheme matches one of
// schemes, ignoring case. The message template may use {scheme}, which is
// quoted or the bare word null, and {schemes}.
func NewAllowedSchemes(schemes []string, opts ...Option) (*AllowedSchemes, error) {
	if len(schemes) == 0 {
		return nil, configError(KindAllowedSchemes, "", errors.New("no schemes allowed"),
			"list at least one scheme, e.g. https")
	}
	for _, s := range schemes {
		if strings.TrimSpace(s) == "" {
			return nil, configError(KindAllowedSchemes, "", errors.New("blank scheme in allowed list"), "")
		}
	}
	return &AllowedSchemes{schemes: slices.Clone(schemes), opts: newOptions(opts)}, nil
}

func (r *AllowedSchemes) Kind() Kind { return KindAllowedSchemes }

// Schemes returns the allowed schemes in configured order.
func (r *AllowedSchemes) Schemes() []string { return slices.Clone(r.schemes) }

func (r *AllowedSchemes) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	text, ok := uri.Text(target)
	if !ok {
		return Outcome{}, configError(KindAllowedSchemes, "",
			errors.Newf("%T is not a URI", target), "bind allowed_schemes to a string or URL attribute")
	}

	scheme, _, ok := uri.SplitScheme(text)
	if ok && strings.TrimSpace(scheme) != "" {
		for _, s := range r.schemes {
			if strings.EqualFold(s, scheme) {
				return Pass(), nil
			}
		}
	}

	shown := "null"
	if ok {
		shown = "'" + scheme + "'"
	}
	return Fail(r.opts.render("Invalid URI scheme: {scheme}; allowed schemes are: {schemes}",
		"scheme", shown, "schemes", quoted(r.schemes))), nil
}
