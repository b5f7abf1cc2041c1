// Package registry binds rules to record types and runs them.
//
// A [Registry] is a table from type name to [Binding]s, built once at
// startup:
//
//	reg := registry.New()
//	exclusive, _ := rule.NewMutuallyExclusive([]string{"DOI", "URN"})
//	schemes, _ := rule.NewAllowedSchemes([]string{"http", "https"})
//	err := registry.RegisterType[Deposit](reg,
//		registry.Record(exclusive),
//		registry.Field("Homepage", schemes),
//	)
//
//	result, err := reg.Validate(ctx, deposit)
//
// Record bindings evaluate the rule against the whole record. Field bindings
// resolve an attribute path (dot separated for nested records) and evaluate
// the rule against that value; the resulting issues carry the path.
//
// Invalid outcomes become issues and evaluation continues. A configuration
// error stops the record's validation and is returned instead of a result.
package registry
