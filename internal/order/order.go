// Package order defines the ordering capability used by comparison rules.
//
// A [Func] compares two non-null values. [Natural] orders the Go kinds that
// have a total order (integers, floats, strings), [time.Time], and any value
// implementing [Comparable]. Values without an order are reported with
// [ErrNotComparable], which rules treat as a configuration error.
package order

import (
	"cmp"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/errors"
)

// ErrNotComparable indicates two values cannot be ordered against each other.
var ErrNotComparable = errors.New("fields must be of a type that supports ordering")

// Func compares a and b and returns a negative number when a < b, zero when
// they are equal, and a positive number when a > b.
type Func func(a, b any) (int, error)

// Comparable is implemented by value types that define their own order.
// CompareTo returns ErrNotComparable when other is not of a compatible type.
type Comparable interface {
	CompareTo(other any) (int, error)
}

// Natural compares a and b by their natural order. Integers and floats of
// any width compare by numeric value. Pointers are followed.
func Natural(a, b any) (int, error) {
	b = attr.Indirect(b)
	if ca, ok := a.(Comparable); ok {
		return ca.CompareTo(b)
	}
	a = attr.Indirect(a)
	if ca, ok := a.(Comparable); ok {
		return ca.CompareTo(b)
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), nil
		}
		return 0, mismatch(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(va) && isInt(vb):
		return cmp.Compare(va.Int(), vb.Int()), nil
	case isUint(va) && isUint(vb):
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	case isNumber(va) && isNumber(vb):
		return compareMixed(va, vb), nil
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return cmp.Compare(va.String(), vb.String()), nil
	}
	return 0, mismatch(a, b)
}

// Supports reports whether values of type t have a natural order.
func Supports(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer && !t.Implements(comparableType) {
		t = t.Elem()
	}
	if t.Implements(comparableType) || t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	case reflect.Interface:
		// decided per value
		return true
	}
	return false
}

var (
	comparableType = reflect.TypeFor[Comparable]()
	timeType       = reflect.TypeFor[time.Time]()
)

var (
	namedMu sync.RWMutex
	named   = map[string]Func{
		"natural": Natural,
	}
)

// Register makes f available under name for rule files. Registering an
// existing name replaces it.
func Register(name string, f Func) {
	namedMu.Lock()
	defer namedMu.Unlock()
	named[name] = f
}

// Named returns the ordering registered under name.
func Named(name string) (Func, bool) {
	namedMu.RLock()
	defer namedMu.RUnlock()
	f, ok := named[name]
	return f, ok
}

// Names returns the registered ordering names, sorted.
func Names() []string {
	namedMu.RLock()
	defer namedMu.RUnlock()
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// compareMixed orders numbers of different kinds. Integers beyond 2^53 lose
// precision in the float conversion; int/uint pairs are compared exactly.
func compareMixed(a, b reflect.Value) int {
	if isInt(a) && isUint(b) {
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	}
	if isUint(a) && isInt(b) {
		return -compareMixed(b, a)
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func mismatch(a, b any) error {
	return errors.Wrapf(ErrNotComparable, "cannot order %T against %T", a, b)
}

