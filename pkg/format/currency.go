// Package format renders money and quantities for insights and reports.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if !isFinite(amount) {
		return "n/a"
	}
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Number returns a whole number with thousands separators (e.g., "8,212").
func Number(value float64) string {
	if !isFinite(value) {
		return "n/a"
	}
	return printer.Sprintf("%.0f", value)
}

// Percent returns a value with one decimal and a percent sign.
func Percent(value float64) string {
	if !isFinite(value) {
		return "n/a"
	}
	return printer.Sprintf("%.1f%%", value)
}

// Years renders a payback period; an infinite period never pays back.
func Years(value float64) string {
	if math.IsInf(value, 1) {
		return "never"
	}
	if !isFinite(value) {
		return "n/a"
	}
	return printer.Sprintf("%.1f years", value)
}

func isFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}
