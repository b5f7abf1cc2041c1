// Package datasize provides a byte-count value type whose order is its
// normalized magnitude, so 2 GiB sorts above 2 MiB regardless of the unit
// either value was written in.
package datasize

import (
	"math"
	"reflect"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
)

// OrderingName is the name under which [Compare] is registered with the
// order package.
const OrderingName = "datasize"

func init() {
	order.Register(OrderingName, Compare)
}

// DataSize is a quantity of bytes.
type DataSize uint64

// Unit multiples, binary.
const (
	Byte     DataSize = 1
	Kibibyte          = 1024 * Byte
	Mebibyte          = 1024 * Kibibyte
	Gibibyte          = 1024 * Mebibyte
	Tebibyte          = 1024 * Gibibyte
)

// Bytes returns n bytes.
func Bytes(n uint64) DataSize { return DataSize(n) }

// Kilobytes returns n kibibytes.
func Kilobytes(n uint64) DataSize { return DataSize(n) * Kibibyte }

// Megabytes returns n mebibytes.
func Megabytes(n uint64) DataSize { return DataSize(n) * Mebibyte }

// Gigabytes returns n gibibytes.
func Gigabytes(n uint64) DataSize { return DataSize(n) * Gibibyte }

// Parse reads a human-written size such as "512", "10 KiB", "2GB" or "1.5 MB".
// Decimal suffixes (KB, MB) are powers of 1000 and binary suffixes (KiB, MiB)
// powers of 1024.
func Parse(s string) (DataSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing data size %q", s)
	}
	return DataSize(n), nil
}

// Bytes returns the size in bytes.
func (d DataSize) Bytes() uint64 { return uint64(d) }

// String renders the size with binary units, e.g. "2.0 GiB".
func (d DataSize) String() string {
	return humanize.IBytes(uint64(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d DataSize) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DataSize) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// CompareTo orders d against another size. other may be a DataSize, a
// non-negative integer byte count, or a parseable string.
func (d DataSize) CompareTo(other any) (int, error) {
	o, err := From(other)
	if err != nil {
		return 0, err
	}
	switch {
	case d < o:
		return -1, nil
	case d > o:
		return 1, nil
	default:
		return 0, nil
	}
}

// Compare is an [order.Func] that interprets both operands as data sizes.
// Documents usually carry sizes as text, so strings are parsed.
func Compare(a, b any) (int, error) {
	da, err := From(a)
	if err != nil {
		return 0, err
	}
	return da.CompareTo(b)
}

// From converts v to a DataSize. Values that are neither sizes, byte counts,
// nor parseable text are reported with order.ErrNotComparable.
func From(v any) (DataSize, error) {
	switch x := v.(type) {
	case DataSize:
		return x, nil
	case *DataSize:
		if x != nil {
			return *x, nil
		}
	case string:
		d, err := Parse(x)
		if err != nil {
			return 0, errors.Mark(err, order.ErrNotComparable)
		}
		return d, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() >= 0 {
			return DataSize(rv.Int()), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return DataSize(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f >= 0 && f < math.MaxUint64 && f == math.Trunc(f) {
			return DataSize(f), nil
		}
	}
	return 0, errors.Wrapf(order.ErrNotComparable, "%T is not a data size", v)
}
