// Package core provides amount parsing and formatting utilities.
//
// This file contains the sanitize-then-parse pipeline used for every amount
// the user (or the receipt scanner) types in, and the display formatter.
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when an amount string does not survive
// sanitization and parsing.
var ErrInvalidAmount = errors.New("invalid amount")

// SanitizeAmount strips every character that is not a digit or a decimal
// point. Currency symbols, thousands separators and stray OCR noise all
// disappear: "$1,234.56" becomes "1234.56".
func SanitizeAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount sanitizes raw and parses the result as a non-negative decimal
// magnitude. The caller applies the expense/income sign.
//
// Examples:
//
//	ParseAmount("$1,234.56") -> 1234.56, nil
//	ParseAmount("12.50 USD") -> 12.50, nil
//	ParseAmount("abc")       -> 0, ErrInvalidAmount
func ParseAmount(raw string) (float64, error) {
	s := SanitizeAmount(raw)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return math.Abs(v), nil
}

// FormatCurrency renders a signed amount in the app's display convention:
// sign prefix, literal dollar, two fixed decimals, no thousands separator.
// -1234.56 renders as "-$1234.56".
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s$%.2f", sign, math.Abs(v))
}
