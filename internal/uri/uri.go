// Package uri holds the textual URI helpers shared by the scheme and URN
// rules. Schemes are split from the raw text so their case is preserved;
// net/url lowercases them during parsing.
package uri

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/leodido/go-urn"
)

// Text extracts URI text from a string, *string, url.URL, *url.URL or
// fmt.Stringer. ok is false for any other type or a nil pointer.
func Text(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case *string:
		if x == nil {
			return "", false
		}
		return *x, true
	case url.URL:
		return x.String(), true
	case *url.URL:
		if x == nil {
			return "", false
		}
		return x.String(), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

// SplitScheme splits raw into its scheme and scheme-specific part following
// RFC 3986: a scheme starts with a letter and continues with letters, digits,
// '+', '-' or '.' up to the first ':'. ok is false when raw has no scheme.
func SplitScheme(raw string) (scheme, rest string, ok bool) {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return "", raw, false
			}
		case c == ':':
			if i == 0 {
				return "", raw, false
			}
			return raw[:i], raw[i+1:], true
		default:
			return "", raw, false
		}
	}
	return "", raw, false
}

// IsCanonicalUUID reports whether s is a UUID in its 36 character
// 8-4-4-4-12 hex form. The braced, URN and dashless forms uuid.Parse also
// accepts are rejected.
func IsCanonicalUUID(s string) bool {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsUrnUUID reports whether raw is a URN in the "uuid" namespace: the scheme
// is exactly "urn", the text is a well-formed RFC 2141 URN, and the namespace
// specific string is a canonical UUID.
func IsUrnUUID(raw string) bool {
	scheme, rest, ok := SplitScheme(raw)
	if !ok || scheme != "urn" || !strings.HasPrefix(rest, "uuid:") {
		return false
	}
	u, ok := urn.Parse([]byte(raw))
	if !ok {
		return false
	}
	return IsCanonicalUUID(u.SS)
}
