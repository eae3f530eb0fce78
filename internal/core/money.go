// Package core holds the budgeting domain: the category registry, the
// ledger model, money parsing, aggregation, and chart geometry. It has no
// dependencies beyond the standard library and performs no I/O.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal amount string to cents with
// half-up rounding on the third decimal place. Both dot and comma decimal
// separators are accepted. Only strictly positive amounts are valid.
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,346") -> 1235, nil
//	ParseDecimalToCents("-5") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseBudgetToCents is ParseDecimalToCents relaxed to admit zero, since a
// budget of zero means "unset". Negative values are still rejected.
func ParseBudgetToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	trimmed := strings.ReplaceAll(s, ",", ".")
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && v == 0 {
		return 0, nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return 0, ErrInvalidBudget
	}
	return cents, nil
}

// FormatRupees renders cents as a display amount, e.g. "₹12.34".
func FormatRupees(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100
	s := "₹" + strconv.FormatInt(whole, 10) + "." + pad2(rem)
	if neg {
		return "-" + s
	}
	return s
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
