// Package rule implements the rule evaluators.
//
// Each constructor validates its configuration up front and returns a
// [*ConfigError] for degenerate setups (no fields, an empty scheme list, and
// so on). The resulting rules are immutable and safe for concurrent use.
//
// Evaluate returns an [Outcome] for data-dependent results. Configuration
// problems discovered while evaluating, such as an attribute name that does
// not exist on the record, are returned as a *ConfigError instead and are
// never reported as an invalid Outcome:
//
//	r, err := rule.NewMutuallyExclusive([]string{"doi", "urn"})
//	if err != nil {
//		return err
//	}
//	out, err := r.Evaluate(record)
//	if err != nil {
//		return err // misconfigured
//	}
//	if !out.Valid {
//		fmt.Println(out.Message)
//	}
//
// A null target is always valid.
package rule
