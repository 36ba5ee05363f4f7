// Package textnorm holds the text, money and date normalization shared by the
// extraction, reconciliation and assembly stages.
package textnorm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Clean collapses runs of whitespace (NBSP included) and trims the result.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns s decomposed, stripped of combining marks and upper-cased.
// "José  Núñez" -> "JOSE NUNEZ".
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFKD.String(s) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	// cases.Caser keeps state, so one per call.
	return Clean(cases.Upper(language.Und).String(b.String()))
}

// Tokens folds s and splits it on anything that is not a letter or digit.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Key builds a comparison key: folded tokens joined by a single space.
func Key(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Last4 returns the last four digits in s, or "" when s has fewer than four.
// Masked references like "XXXX-XXXX-1234" and "****1234" yield "1234".
func Last4(s string) string {
	d := Digits(s)
	if len(d) < 4 {
		return ""
	}
	return d[len(d)-4:]
}

// PostalCode returns the five-digit ZIP prefix of s, or the digits as-is if shorter.
func PostalCode(s string) string {
	d := Digits(s)
	if len(d) > 5 {
		return d[:5]
	}
	return d
}

var absentValues = map[string]bool{
	"":        true,
	"-":       true,
	"--":      true,
	"N/A":     true,
	"NA":      true,
	"NONE":    true,
	"NULL":    true,
	"UNKNOWN": true,
}

// IsAbsent returns true for placeholder values vendors print for missing data.
func IsAbsent(s string) bool {
	return absentValues[strings.ToUpper(Clean(s))]
}

// ParseMoney parses "$1,234.56", "1234", "(12.00)" and "-1,000".
// ok is false for placeholders ("-", "N/A", ...); err is set for unreadable text.
func ParseMoney(s string) (value float64, ok bool, err error) {
	s = Clean(s)
	if IsAbsent(s) {
		return 0, false, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "", "USD", "").Replace(strings.ToUpper(s))
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}
	if s == "" {
		return 0, false, nil
	}
	if !isDecimal(s) {
		return 0, false, fmt.Errorf("not an amount: %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("amount out of range: %q", s)
	}
	if neg {
		v = -v
	}
	return v, true, nil
}

// isDecimal accepts digits with at most one decimal point. It keeps out the
// spellings strconv also accepts ("NaN", "Inf", "1e9", "0x1p3").
func isDecimal(s string) bool {
	dot := false
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

var dayLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 02, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

var monthLayouts = []string{
	"2006-01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
}

// ParseDate normalizes a date to ISO form: "2006-01-02", or "2006-01" when the
// source only carries month precision. ok is false for placeholders.
func ParseDate(s string) (iso string, ok bool) {
	s = Clean(s)
	if IsAbsent(s) {
		return "", false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}
