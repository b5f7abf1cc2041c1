package rule

import (
	"strings"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/uri"
)

// DefaultTokenPrefix is the prefix PrefixedToken expects unless configured
// otherwise.
const DefaultTokenPrefix = "sword:"

// UrnUUID requires a URI of the form urn:uuid:<uuid>.
type UrnUUID struct {
	opts options
}

// NewUrnUUID returns a rule accepting urn:uuid: URNs whose namespace specific
// string is a canonical UUID. The "urn" scheme is matched case-sensitively.
func NewUrnUUID(opts ...Option) (*UrnUUID, error) {
	return &UrnUUID{opts: newOptions(opts)}, nil
}

func (r *UrnUUID) Kind() Kind { return KindUrnUUID }

func (r *UrnUUID) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	text, ok := uri.Text(target)
	if ok && uri.IsUrnUUID(text) {
		return Pass(), nil
	}
	return Fail(r.opts.render("must be a valid URN:UUID")), nil
}

// UUID requires a canonical 8-4-4-4-12 UUID string.
type UUID struct {
	opts options
}

// NewUUID returns a rule accepting canonical UUID strings.
func NewUUID(opts ...Option) (*UUID, error) {
	return &UUID{opts: newOptions(opts)}, nil
}

func (r *UUID) Kind() Kind { return KindUUID }

func (r *UUID) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	s, ok := uri.Text(target)
	if ok && uri.IsCanonicalUUID(s) {
		return Pass(), nil
	}
	return Fail(r.opts.render("must be a valid UUID")), nil
}

// PrefixedToken requires a token made of a fixed prefix followed by a
// canonical UUID, e.g. "sword:a8348df2-768d-4995-acc8-0ea878b05078".
type PrefixedToken struct {
	opts options
}

// NewPrefixedToken returns a token rule. The prefix defaults to
// DefaultTokenPrefix. The message template may use {prefix}; a custom
// template replaces both messages.
func NewPrefixedToken(opts ...Option) (*PrefixedToken, error) {
	o := newOptions(opts)
	if o.prefix == "" {
		return nil, configError(KindPrefixedToken, "", errors.New("token prefix is empty"), "")
	}
	return &PrefixedToken{opts: o}, nil
}

func (r *PrefixedToken) Kind() Kind { return KindPrefixedToken }

// Prefix returns the expected token prefix.
func (r *PrefixedToken) Prefix() string { return r.opts.prefix }

func (r *PrefixedToken) Evaluate(target any) (Outcome, error) {
	if attr.IsNull(target) {
		return Pass(), nil
	}
	s, ok := uri.Text(target)
	if !ok {
		return Outcome{}, configError(KindPrefixedToken, "",
			errors.Newf("%T is not a string", target), "bind prefixed_token to a string attribute")
	}
	rest, found := strings.CutPrefix(s, r.opts.prefix)
	if !found {
		return Fail(r.opts.render("SWORD token must start with '{prefix}' prefix",
			"prefix", r.opts.prefix)), nil
	}
	if !uri.IsCanonicalUUID(rest) {
		return Fail(r.opts.render("SWORD token must contain a valid UUID after the '{prefix}' prefix",
			"prefix", r.opts.prefix)), nil
	}
	return Pass(), nil
}
