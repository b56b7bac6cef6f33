package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WholeNumber(t *testing.T) {
	result, err := Parse("150000")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150000).Equal(result))
}

func TestParse_WithDecimals(t *testing.T) {
	result, err := Parse("1500.50")
	require.NoError(t, err)
	assert.Equal(t, "1500.5", result.String())
}

func TestParse_TrailingZerosBeyondScale(t *testing.T) {
	// 1.500 has three fraction digits but is still representable at scale 2
	result, err := Parse("1.500")
	require.NoError(t, err)
	assert.Equal(t, "1.5", result.String())
}

func TestParse_TooManyDecimals(t *testing.T) {
	_, err := Parse("0.001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal places")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{"abc", "1.2.3", "150.000,50", "Rp 1000"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestParse_TooLarge(t *testing.T) {
	_, err := Parse("10000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestIsPositive(t *testing.T) {
	assert.True(t, IsPositive(decimal.NewFromInt(1)))
	assert.False(t, IsPositive(decimal.Zero))
	assert.False(t, IsPositive(decimal.NewFromInt(-5)))
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		name     string
		input    decimal.Decimal
		expected string
	}{
		{"zero", decimal.Zero, "Rp 0"},
		{"hundreds", decimal.NewFromInt(500), "Rp 500"},
		{"thousands", decimal.NewFromInt(10000), "Rp 10.000"},
		{"millions", decimal.NewFromInt(1250000), "Rp 1.250.000"},
		{"with cents", decimal.RequireFromString("1250000.5"), "Rp 1.250.000,50"},
		{"negative", decimal.NewFromInt(-75000), "-Rp 75.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRupiah(tt.input))
		})
	}
}
