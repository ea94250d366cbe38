// Package core holds the expense domain: dates, money and the period
// vocabulary shared by the analytics pipeline.
//
// Money is carried as integer cents (paise). Parsing accepts both dot and
// comma decimal separators and rounds half-up on the third decimal place.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a submitted decimal string to Money.
//
// A string that does not parse to a positive number is rejected with
// ErrInvalidAmount before it can reach the store; this is the only
// validation the core applies to user input.
//
// Examples:
//
//	ParseAmount("12.34") -> 1234 cents
//	ParseAmount("12,34") -> 1234 cents
//	ParseAmount("12.346") -> 1235 cents (rounds up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
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
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Rupees returns the rupee value as a float64 for chart values and the
// persisted JSON number. Use cents for arithmetic.
func (m Money) Rupees() float64 {
	return float64(m.Cents) / 100.0
}

// FromRupees converts a rupee number back to cents with half-up rounding,
// the inverse of Rupees for two-decimal values.
func FromRupees(v float64) Money {
	if v < 0 {
		return Money{Cents: -int64(-v*100 + 0.5)}
	}
	return Money{Cents: int64(v*100 + 0.5)}
}

// FormatINR formats cents as an Indian-grouped currency string,
// e.g. "₹12,34,567.89".
func FormatINR(m Money) string {
	return "₹" + groupINR(m.Cents)
}

// FormatINRPlain is the ASCII spelling used inside the PDF report, where
// the rupee sign is unavailable in the document's core fonts.
func FormatINRPlain(m Money) string {
	return "Rs. " + groupINR(m.Cents)
}

// groupINR renders cents as "x,xx,xxx.yy": the last three integer digits
// form one group, every group before that has two digits.
func groupINR(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if len(whole) <= 3 {
		b.WriteString(whole)
	} else {
		head := whole[:len(whole)-3]
		// Two-digit groups for everything before the final three digits.
		first := len(head) % 2
		if first == 0 {
			first = 2
		}
		b.WriteString(head[:first])
		for i := first; i < len(head); i += 2 {
			b.WriteByte(',')
			b.WriteString(head[i : i+2])
		}
		b.WriteByte(',')
		b.WriteString(whole[len(whole)-3:])
	}
	b.WriteByte('.')
	b.WriteString(strconv.FormatInt(frac/10, 10))
	b.WriteString(strconv.FormatInt(frac%10, 10))
	return b.String()
}
