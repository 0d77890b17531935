// Package money converts between user-facing decimal amounts and the
// integer minor units the ledger stores. Parsing is pure integer
// arithmetic; floats never touch a balance.
package money

import (
	"fmt"
	"math"
	"strings"
)

// ParseAmount converts a non-negative decimal string such as "100.00" or
// "7.5" to minor units. A third and further decimal digit rounds half-up
// into the second.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if s[0] == '-' || s[0] == '+' {
		return 0, fmt.Errorf("amount %q must be an unsigned decimal", s)
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	var minor int64
	for _, c := range whole {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		d := int64(c - '0')
		if minor > (math.MaxInt64-d)/10 {
			return 0, fmt.Errorf("amount %q overflows", s)
		}
		minor = minor*10 + d
	}
	// The scale to minor units must survive too, plus up to 99 from the
	// fractional digits.
	if minor > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	minor *= 100
	for i, c := range frac {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		d := int64(c - '0')
		switch i {
		case 0:
			minor += d * 10
		case 1:
			minor += d
		case 2:
			// Half-up on the first sub-cent digit; deeper digits are dropped.
			if d >= 5 {
				minor++
			}
		}
	}
	return minor, nil
}

// FormatMinor renders minor units as a two-decimal string.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
