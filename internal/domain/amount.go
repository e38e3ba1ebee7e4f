package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SUIDecimals is the number of decimal places between MIST and SUI.
const SUIDecimals = 9

// NativeCoinType is the coin type of the native SUI asset.
const NativeCoinType = "0x2::sui::SUI"

// ParseAmount parses a raw amount expressed in MIST.
// Fractional values are rejected: raw amounts are always integers.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("amount %q is not an integer", raw)
	}
	return d, nil
}

// FormatSUI renders a MIST amount as SUI for display only.
func FormatSUI(mist decimal.Decimal) string {
	return mist.Shift(-SUIDecimals).String()
}
