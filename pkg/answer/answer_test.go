package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCorrect_Numeric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		want     bool
	}{
		{"exact match", "0.25", "0.25", true},
		{"within tolerance", "0.2500000001", "0.25", true},
		{"just inside tolerance", "1.0000005", "1", true},
		{"outside tolerance", "0.2501", "0.25", false},
		{"integer forms", "343", "343.0", true},
		{"leading whitespace", "  0.25", "0.25", true},
		{"negative numbers", "-3", "-3.0000000005", true},
		{"scientific notation", "2.5e-1", "0.25", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.input, tt.expected))
		})
	}
}

func TestIsCorrect_Strings(t *testing.T) {
	assert.True(t, IsCorrect("Blue", "blue"))
	assert.True(t, IsCorrect("  blue  ", "Blue"))
	assert.False(t, IsCorrect("bluee", "blue"))

	// Mixed numeric/non-numeric input never matches numerically, and the
	// case-insensitive string comparison won't save it either.
	assert.False(t, IsCorrect("10", "ten"))
	assert.False(t, IsCorrect("ten", "10"))
}

func TestIsCorrect_EmptyInputIsNotNumeric(t *testing.T) {
	// An empty submission must not coerce to zero.
	assert.False(t, IsCorrect("", "0"))
	assert.False(t, IsCorrect("   ", "0"))
	assert.False(t, IsCorrect("0", ""))

	// Two empty strings still match as strings.
	assert.True(t, IsCorrect("", ""))
	assert.True(t, IsCorrect("  ", ""))
}

func TestIsCorrect_NonFiniteIsNotNumeric(t *testing.T) {
	// Inf and NaN parse, but don't count as numbers; they fall through to
	// the string comparison.
	assert.False(t, IsCorrect("Inf", "0.25"))
	assert.True(t, IsCorrect("NaN", "nan"))
}
