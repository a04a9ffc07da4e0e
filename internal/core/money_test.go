package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-5", "-5", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,234.5", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.out)), "%q parsed to %s", tc.in, got)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "50.00", FormatAmount(decimal.NewFromInt(50)))
	assert.Equal(t, "0.10", FormatAmount(decimal.RequireFromString("0.1")))
	assert.Equal(t, "$12.35", FormatDollars(decimal.RequireFromString("12.345")))
	assert.Equal(t, "-$10.00", FormatDollars(decimal.NewFromInt(-10)))
}
