// Package amount converts between stored decimal values and float64 series.
package amount

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse parses a stored numeric value. Empty or malformed input yields 0 and ok=false.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round returns v rounded half away from zero to places decimals. NaN and infinities become 0.
func Round(v float64, places int32) decimal.Decimal {
	if !IsFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(places)
}

// FromFloat converts a finite float to a decimal; ok is false for NaN and infinities.
func FromFloat(v float64) (decimal.Decimal, bool) {
	if !IsFinite(v) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}
