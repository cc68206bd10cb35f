// Package money handles EUR amounts, which the backend stores as plain
// "1234.56" strings while users type them with commas, spaces, and the
// currency sign.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// ToDB canonicalizes a user-typed amount to the backend's "1234.56" form.
// Empty input stays empty (used to erase the amount). Unparseable input is
// returned trimmed so the backend can reject it explicitly.
func ToDB(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '€':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return ""
	}
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if n := strings.Count(cleaned, "."); n > 1 {
		// "1.234.56" style thousand separators: keep only the last dot.
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Parse returns the numeric value of an amount in any accepted form.
func Parse(s string) (float64, bool) {
	v := ToDB(s)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatEUR renders an amount for display in the French convention,
// "1 234,56 €". Non-amounts are passed through unchanged.
func FormatEUR(s string) string {
	f, ok := Parse(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	whole := int64(f)
	frac := int64((f-float64(whole))*100 + 0.5)
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%s,%02d €", group(whole), frac)
}

func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
