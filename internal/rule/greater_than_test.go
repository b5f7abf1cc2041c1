package rule

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/attr"
	"github.com/thoreinstein/attest/internal/datasize"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/order"
)

func TestNewGreaterThan_Config(t *testing.T) {
	_, err := NewGreaterThan("", "Min")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = NewGreaterThan("Max", "Max")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestGreaterThan(t *testing.T) {
	r, err := NewGreaterThan("Max", "Min")
	require.NoError(t, err)

	now := time.Now()
	tests := []struct {
		name     string
		max, min any
		valid    bool
	}{
		{"greater", 2, 1, true},
		{"smaller", 1, 2, false},
		{"equal", 2, 2, false},
		{"greater null", nil, 1, false},
		{"smaller null", 2, nil, false},
		{"nil pointer", (*int)(nil), 1, false},
		{"pointers", ptr(3), ptr(2), true},
		{"strings", "b", "a", true},
		{"times", now, now.Add(-time.Minute), true},
		{"data sizes across units", datasize.Gigabytes(2), datasize.Megabytes(2), true},
		{"data sizes reversed", datasize.Megabytes(2), datasize.Gigabytes(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Evaluate(deposit{Max: tt.max, Min: tt.min})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, out.Valid)
			if !tt.valid {
				assert.Equal(t, "Max must be larger than Min", out.Message)
			}
		})
	}
}

func TestGreaterThan_MissingField(t *testing.T) {
	r, err := NewGreaterThan("Max", "nope")
	require.NoError(t, err)

	_, err = r.Evaluate(deposit{Max: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, attr.ErrNoSuchAttribute))

	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "nope", ce.Attribute)
}

func TestGreaterThan_NotComparable(t *testing.T) {
	r, err := NewGreaterThan("Max", "Min")
	require.NoError(t, err)

	tests := []struct {
		name     string
		max, min any
	}{
		{"structs", struct{}{}, struct{}{}},
		{"mixed types", "2", 1},
		{"bools", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Evaluate(deposit{Max: tt.max, Min: tt.min})
			require.Error(t, err)
			assert.True(t, errors.Is(err, order.ErrNotComparable))
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestGreaterThan_WithOrdering(t *testing.T) {
	f, ok := order.Named(datasize.OrderingName)
	require.True(t, ok)

	r, err := NewGreaterThan("max_size", "min_size", WithOrdering(f))
	require.NoError(t, err)

	out, err := r.Evaluate(map[string]any{"max_size": "2 GiB", "min_size": "2 MiB"})
	require.NoError(t, err)
	assert.True(t, out.Valid)

	out, err = r.Evaluate(map[string]any{"max_size": "1 KB", "min_size": 1000})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.Equal(t, "max_size must be larger than min_size", out.Message)

	_, err = r.Evaluate(map[string]any{"max_size": "big", "min_size": "1 KB"})
	assert.True(t, errors.Is(err, order.ErrNotComparable))
}

type sizes struct {
	Max   int
	Min   int
	Label bool
}

func TestGreaterThan_CheckSchema(t *testing.T) {
	s := attr.StructSchema(reflect.TypeFor[sizes]())

	r, err := NewGreaterThan("Max", "Min")
	require.NoError(t, err)
	assert.NoError(t, r.CheckSchema(s))

	r, err = NewGreaterThan("Max", "Label")
	require.NoError(t, err)
	err = r.CheckSchema(s)
	assert.True(t, errors.Is(err, order.ErrNotComparable))

	r, err = NewGreaterThan("Max", "Missing")
	require.NoError(t, err)
	err = r.CheckSchema(s)
	assert.True(t, errors.Is(err, attr.ErrNoSuchAttribute))

	// A custom ordering decides its own operand types.
	r, err = NewGreaterThan("Max", "Label", WithOrdering(order.Natural))
	require.NoError(t, err)
	assert.NoError(t, r.CheckSchema(s))
}
