package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$100", 100},
		{"$1,234.56", 1234.56},
		{"1234.50", 1234.5},
		{" $ 12,000 ", 12000},
		{"$0.00", 0},
		{"$1,000,000.01", 1000000.01},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestParseAmountRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "$", "$1,23", "$12,3456", "$1.5", "$1.234", "8x10", "$abc", "$-5"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			assert.Error(t, err)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$0.00", Format(0))
	assert.Equal(t, "$120.00", Format(120))
	assert.Equal(t, "$1,234.56", Format(1234.56))
	assert.Equal(t, "$1,000,000.00", Format(1e6))
	assert.Equal(t, "$999.99", Format(999.99))
	assert.Equal(t, "-$12.50", Format(-12.5))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 10.13, Round2(10.125))
	assert.Equal(t, -10.13, Round2(-10.125))
}
