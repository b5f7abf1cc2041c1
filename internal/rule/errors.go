package rule

import (
	"fmt"

	"github.com/thoreinstein/attest/internal/errors"
)

// ConfigError reports a misconfigured rule: a degenerate configuration
// rejected by a constructor, an attribute name that does not exist on the
// evaluated record, or values that cannot be compared. It matches
// errors.ErrInvalidConfig.
type ConfigError struct {
	Rule Kind
	// Attribute is the offending attribute name, if any.
	Attribute string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("%s rule misconfigured for %q: %v", e.Rule, e.Attribute, e.Err)
	}
	return fmt.Sprintf("%s rule misconfigured: %v", e.Rule, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes every ConfigError match errors.ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == errors.ErrInvalidConfig
}

func configError(kind Kind, attribute string, err error, hint string) *ConfigError {
	if hint != "" {
		err = errors.WithHint(err, hint)
	}
	return &ConfigError{Rule: kind, Attribute: attribute, Err: err}
}

// missingField wraps a resolution failure the way the field-based rules
// report it.
func missingField(kind Kind, name string, err error) *ConfigError {
	return configError(kind, name,
		errors.Wrapf(err, "field %s does not exist or is not accessible", name),
		fmt.Sprintf("check that %q is an attribute of the record type the rule is bound to", name))
}
