package value_test

import (
	"testing"

	"github.com/cwbudde/go-twlang/internal/value"
	"github.com/stretchr/testify/assert"
)

func TestMakeRealNarrowsToInt(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want value.Kind
	}{
		{"integral", 4.0, value.Int},
		{"negative integral", -3.0, value.Int},
		{"zero", 0.0, value.Int},
		{"fractional", 4.5, value.Real},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := value.MakeReal(tc.in)
			assert.Equal(t, tc.want, got.Kind)
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"true bool", value.MakeBool(true), true},
		{"false bool", value.MakeBool(false), false},
		{"nonzero int", value.MakeInt(5), true},
		{"zero int", value.MakeInt(0), false},
		{"null", value.NullValue, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.Truthy())
		})
	}
}

func TestIsOrdinal(t *testing.T) {
	assert.True(t, value.MakeInt(1).IsOrdinal())
	assert.True(t, value.MakeBool(true).IsOrdinal())
	assert.False(t, value.NullValue.IsOrdinal())
	assert.False(t, value.MakeStr(1).IsOrdinal())
}

func TestIsHeap(t *testing.T) {
	assert.True(t, value.MakeStr(1).IsHeap())
	assert.True(t, value.MakeList(1).IsHeap())
	assert.False(t, value.MakeInt(1).IsHeap())
}
