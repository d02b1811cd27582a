package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat_RoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in        string
		precision int32
		want      string
	}{
		{"10.005", 2, "10.01"},
		{"-10.005", 2, "-10.01"},
		{"10.004", 2, "10.00"},
		{"2.5", 0, "3"},
		{"-2.5", 0, "-3"},
		{"1.2345", 3, "1.235"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, Format(d, tc.precision), "format %s @ %d", tc.in, tc.precision)
	}
}

func TestParseLoose(t *testing.T) {
	d, ok := ParseLoose("12.50")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	d, ok = ParseLoose("abc")
	assert.False(t, ok)
	assert.True(t, d.IsZero())

	d, ok = ParseLoose("   ")
	assert.False(t, ok)
	assert.True(t, d.IsZero())
}
