package datasize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want DataSize
	}{
		{"512", 512},
		{"10 KiB", 10 * Kibibyte},
		{"2GiB", 2 * Gibibyte},
		{"1 MB", 1000 * 1000},
		{"1.5 KiB", 1536},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("lots")
	assert.Error(t, err)
}

func TestCompareTo(t *testing.T) {
	tests := []struct {
		name  string
		a     DataSize
		other any
		want  int
	}{
		{"gigabytes above megabytes", Gigabytes(2), Megabytes(2), 1},
		{"megabytes below gigabytes", Megabytes(2), Gigabytes(2), -1},
		{"equal across units", Kilobytes(1024), Megabytes(1), 0},
		{"byte count", Kilobytes(1), 1023, 1},
		{"text", Megabytes(1), "1 MiB", 0},
		{"pointer", Bytes(10), new(DataSize), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.CompareTo(tt.other)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareTo_NotASize(t *testing.T) {
	_, err := Megabytes(1).CompareTo(struct{}{})
	assert.True(t, errors.Is(err, order.ErrNotComparable))

	_, err = Megabytes(1).CompareTo(-5)
	assert.True(t, errors.Is(err, order.ErrNotComparable))

	_, err = Megabytes(1).CompareTo("huge")
	assert.True(t, errors.Is(err, order.ErrNotComparable))
}

func TestCompare_Registered(t *testing.T) {
	f, ok := order.Named(OrderingName)
	require.True(t, ok)

	got, err := f("2 GiB", "2 MiB")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestNaturalOrderUsesCompareTo(t *testing.T) {
	got, err := order.Natural(Gigabytes(2), Megabytes(2))
	require.NoError(t, err)
	assert.Positive(t, got)

	size := Megabytes(3)
	got, err = order.Natural(&size, Gigabytes(1))
	require.NoError(t, err)
	assert.Negative(t, got)
}

func TestText(t *testing.T) {
	b, err := Gigabytes(2).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.0 GiB", string(b))

	var d DataSize
	require.NoError(t, d.UnmarshalText(b))
	assert.Equal(t, Gigabytes(2), d)
}
