package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-15", "-15", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2,3", "", false},
		{"", "", false},
		{"999999999999999.9999", "999999999999999.9999", true},
		{"1.2500", "1.25", true},
		{"1e2000000000", "", false},
		{"1e100000", "", false},
		{"2E3", "", false},
		{"1000000000000000", "", false},
		{"-1000000000000000", "", false},
		{"0.00001", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		name string
		in   decimal.Decimal
		ok   bool
	}{
		{"zero", decimal.Zero, true},
		{"cents", decimal.New(1234, -2), true},
		{"max integer digits", decimal.New(1, 14), true},
		{"huge exponent", decimal.New(1, 2000000000), false},
		{"tiny exponent", decimal.New(1, -2000000000), false},
		{"too many integer digits", decimal.New(1, 15), false},
		{"too many decimals", decimal.New(12345, -5), false},
		{"trailing zeros", decimal.New(120000, -5), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAmount(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("ValidateAmount(%s): %v", tc.in, err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ValidateAmount expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}
