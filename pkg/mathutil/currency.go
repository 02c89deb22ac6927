// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/roi-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsFinite reports whether val is neither infinite nor NaN.
func IsFinite(val float64) bool {
	return !math.IsInf(val, 0) && !math.IsNaN(val)
}

// Finite returns a pointer to val, or nil when val is infinite or NaN.
// JSON has no encoding for non-finite numbers so they surface as null.
func Finite(val float64) *float64 {
	if !IsFinite(val) {
		return nil
	}
	v := val
	return &v
}

// Percentage returns value as a percentage of base. Division by zero is
// left to IEEE semantics.
func Percentage(value, base float64) float64 {
	return value / base * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Compound returns (1+rate)^periods.
func Compound(rate float64, periods int) float64 {
	return math.Pow(1+rate, float64(periods))
}
