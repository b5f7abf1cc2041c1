// Package attr resolves named attributes on records whose shape is only known
// at runtime.
//
// Rules name the attributes they inspect as strings. [Resolve] looks those
// names up on the record's dynamic type, in this order:
//
//  1. the record implements [Attributed];
//  2. a [Schema] registered for the dynamic type with [Register];
//  3. the record is a map[string]any (decoded documents);
//  4. the record is a struct or pointer to struct, resolved through a
//     reflected schema built once per type ([StructSchema]).
//
// A name that does not exist on the record is a [*ResolutionError], never a
// null value. Use [IsNull] to decide whether a resolved value is absent.
package attr
