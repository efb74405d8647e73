package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10.00", true},
		{"10.000", true},
		{"0.01", true},
		{"-5.50", true},
		{"999999999999.99", true},
		{"0.004", false},
		{"10.005", false},
		{"1000000000000", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidAmount(dec(tc.in)), tc.in)
	}
}
