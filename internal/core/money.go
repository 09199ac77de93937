// Package core provides the ledger's value types and their validation.
//
// This file contains amount parsing. Amounts are exact decimals; the sign is
// accepted as typed because the transaction type, not the sign, decides how
// an amount counts.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountIntegerDigits bounds the digits before the decimal point.
	MaxAmountIntegerDigits = 15
	// MaxAmountScale is the largest ISO 4217 minor unit.
	MaxAmountScale = 4
)

// ParseAmount converts user input to a decimal amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Exponent notation is rejected, and the result must pass ValidateAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34
//	ParseAmount("12,34") -> 12.34
//	ParseAmount(" 1000 ") -> 1000
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, fmt.Errorf("%w %q: exponent notation is not supported", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

// ValidateAmount rejects amounts with more than MaxAmountIntegerDigits integer
// digits or more than MaxAmountScale significant decimal places.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := int(d.Exponent())
	if d.NumDigits()+exp > MaxAmountIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxAmountIntegerDigits)
	}
	// Checked before rounding so a tiny exponent never forces a huge rescale.
	if exp < -(MaxAmountScale + MaxAmountIntegerDigits) || !d.Round(MaxAmountScale).Equal(d) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}
	return nil
}
