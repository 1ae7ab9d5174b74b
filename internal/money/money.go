// Package money parses and formats the US-dollar amounts that appear in
// estimate letters.
package money

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern accepts 1234, 1,234 and either of those with a two digit fraction.
var amountPattern = regexp.MustCompile(`^(\d{1,3}(,\d{3})+|\d+)(\.\d{2})?$`)

// ParseAmount converts "$1,234.56" (the "$" is optional) to 1234.56.
func ParseAmount(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSpace(raw)

	if !amountPattern.MatchString(raw) {
		return 0, fmt.Errorf("malformed amount %q", s)
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return value, nil
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders v as "$1,234.56"; negatives render as "-$1,234.56".
func Format(v float64) string {
	v = Round2(v)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	fixed := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}
