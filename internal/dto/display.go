// Package dto converts storage entities into the JSON shapes the API
// serves, together with the display transforms shared across responses.
package dto

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// locationSep joins address parts in the single-line display form.
const locationSep = ", "

// Initials derives avatar initials from a display name: the first letters
// of the first two words, or the first two letters of a single word,
// uppercased. An empty name yields an empty string.
func Initials(name string) string {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		r := []rune(fields[0])
		if len(r) == 1 {
			return strings.ToUpper(string(r[0]))
		}
		return strings.ToUpper(string(r[:2]))
	default:
		a := []rune(fields[0])[0]
		b := []rune(fields[1])[0]
		return strings.ToUpper(string(a) + string(b))
	}
}

// FormatRate renders an hourly rate in the "$95/hr" display form.
// Whole-dollar amounts drop the cents.
func FormatRate(rate decimal.Decimal) string {
	if rate.Equal(rate.Truncate(0)) {
		return fmt.Sprintf("$%s/hr", rate.Truncate(0).String())
	}
	return fmt.Sprintf("$%s/hr", rate.StringFixed(2))
}

// ParseRate reads a rate out of its display form, tolerating a bare
// number with or without the currency sign and "/hr" suffix.
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "/hr")
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return d, nil
}

// JoinLocation builds the single-line location string, skipping empty
// parts.
func JoinLocation(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, locationSep)
}

// SplitLocation breaks a single-line location back into its parts.
func SplitLocation(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, locationSep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
