// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/quote"
)

// FindQuote finds a quote by name in the report.
// Returns a pointer to the quote section if found, nil otherwise.
func FindQuote(report *forecast.Report, name string) *forecast.QuoteSection {
	if report == nil {
		return nil
	}
	for i := range report.Quotes {
		if report.Quotes[i].Name == name {
			return &report.Quotes[i]
		}
	}
	return nil
}

// QuotesForNiche returns the quotes of one niche in report order.
func QuotesForNiche(report *forecast.Report, niche quote.Niche) []forecast.QuoteSection {
	if report == nil {
		return nil
	}
	var out []forecast.QuoteSection
	for _, q := range report.Quotes {
		if q.Result.Niche == niche {
			out = append(out, q)
		}
	}
	return out
}

// AlmostEqual compares floats to within tolerance. Infinities of the same
// sign are equal; NaN equals NaN.
func AlmostEqual(a, b, tolerance float64) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		return a == b
	default:
		return math.Abs(a-b) <= tolerance
	}
}
