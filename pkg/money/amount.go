package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fraction digits stored for every amount (NUMERIC(15,2))
const Scale = 2

// MaxAmount is the largest absolute value NUMERIC(15,2) can hold
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// Parse converts a human-readable amount string to a decimal.
// Accepts "150000", "150000.5", "150.000,50" is rejected (no thousands separators).
func Parse(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount format: %q", amountStr)
	}

	if err := Validate(d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

// Validate checks that an amount fits the storage precision
func Validate(d decimal.Decimal) error {
	if d.Exponent() < -Scale && !d.Equal(d.Round(Scale)) {
		return fmt.Errorf("amount has more than %d decimal places", Scale)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("amount exceeds %s", MaxAmount.String())
	}
	return nil
}

// IsPositive reports whether the amount is strictly greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// FormatRupiah renders an amount as "Rp 1.250.000" (or "Rp 1.250.000,50" when it has cents)
func FormatRupiah(d decimal.Decimal) string {
	sign := ""
	if d.Sign() < 0 {
		sign = "-"
		d = d.Neg()
	}

	d = d.Round(Scale)
	intPart := d.Truncate(0)
	frac := d.Sub(intPart).Shift(Scale).IntPart()

	digits := intPart.String()
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	if frac == 0 {
		return fmt.Sprintf("%sRp %s", sign, b.String())
	}
	return fmt.Sprintf("%sRp %s,%02d", sign, b.String(), frac)
}
