package validation

import (
	"testing"

	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/stretchr/testify/assert"
)

func TestHomeownerWarnings(t *testing.T) {
	clean := roi.HomeownerData{
		InstallationCost: 20000,
		AnnualSavings:    2400,
		MaintenanceFee:   200,
		InterestRate:     6,
		LoanTerm:         10,
	}
	assert.Empty(t, HomeownerWarnings(clean))

	cash := clean
	cash.LoanTerm = 0
	assert.Len(t, HomeownerWarnings(cash), 1)

	overRebated := clean
	overRebated.RebatesAndIncentives = 25000
	assert.Len(t, HomeownerWarnings(overRebated), 1)

	free := clean
	free.RebatesAndIncentives = 20000
	assert.Len(t, HomeownerWarnings(free), 1)

	// Rebates that leave a fraction of a cent still read as free.
	nearlyFree := clean
	nearlyFree.RebatesAndIncentives = 19999.995
	warnings := HomeownerWarnings(nearlyFree)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Net cost is 0")

	losing := clean
	losing.AnnualSavings = 100
	warnings = HomeownerWarnings(losing)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "never breaks even")
}

func TestProviderWarnings(t *testing.T) {
	clean := roi.ProviderData{RevenuePerJob: 7500, JobsPerMonth: 8, ClosingRate: 40}
	assert.Empty(t, ProviderWarnings(clean))

	assert.Len(t, ProviderWarnings(roi.ProviderData{}), 3)

	over := clean
	over.ClosingRate = 150
	assert.Len(t, ProviderWarnings(over), 1)
}

func TestQuoteWarnings(t *testing.T) {
	assert.Len(t, QuoteWarnings(quote.Request{Niche: quote.NicheSolar}), 1)
	assert.Len(t, QuoteWarnings(quote.Request{Niche: quote.NicheHVAC}), 2)
	assert.Len(t, QuoteWarnings(quote.Request{Niche: quote.NicheRemodeling}), 1)
	assert.Empty(t, QuoteWarnings(quote.Request{
		Niche: quote.NicheSolar,
		Solar: quote.SolarInput{SystemSizeKW: 6},
	}))
}
