package format

import (
	"fmt"
	"strings"
	"time"
)

// Dollars formats whole US dollars. Example: Dollars(18500) => "$18,500"
func Dollars(amount int64) string {
	if amount < 0 {
		return "-$" + thousandSep(-amount)
	}
	return "$" + thousandSep(amount)
}

// FmtCurrency formats amount in minor units (cents) as USD.
// Example: FmtCurrency(12345) => "$123.45"
func FmtCurrency(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	head := thousandSep(minor / 100)
	tail := fmt.Sprintf("%02d", minor%100)
	if neg {
		return "-$" + head + "." + tail
	}
	return "$" + head + "." + tail
}

// PriceRange renders a low/high pair the way cost tables show it.
// A zero high renders "From $low"; a zero low renders "Up to $high".
// The unit, when present, is appended after a space.
func PriceRange(low, high int64, unit string) string {
	var s string
	switch {
	case low <= 0 && high <= 0:
		return "Call for pricing"
	case high <= 0:
		s = "From " + Dollars(low)
	case low <= 0:
		s = "Up to " + Dollars(high)
	case low == high:
		s = Dollars(low)
	default:
		s = Dollars(low) + " to " + Dollars(high)
	}
	if unit = strings.TrimSpace(unit); unit != "" {
		s += " " + unit
	}
	return s
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FmtDate formats t for article bylines. Zero times render empty.
func FmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// ISODate formats t for datetime attributes.
func ISODate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
