package forecast

import (
	"math"
	"testing"

	"github.com/iwvelando/roi-forecast/internal/config"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetForecastFromTestConfig(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	require.NoError(t, err)

	report, err := GetForecast(zap.NewNop(), *conf)
	require.NoError(t, err)

	require.NotNil(t, report.Homeowner)
	assert.Equal(t, 82, report.Homeowner.Result.BreakEvenMonths)
	assert.Len(t, report.Homeowner.Warnings, 1)
	assert.Nil(t, report.Amortization, "cash purchase has no loan schedule")

	require.NotNil(t, report.Provider)
	assert.InDelta(t, 39000, report.Provider.Result.MonthlyProfit, 1e-9)

	require.Len(t, report.Quotes, 3)
	assert.Equal(t, "rooftop array", report.Quotes[0].Name)
	assert.Equal(t, quote.NicheSolar, report.Quotes[0].Result.Niche)
	assert.Equal(t, quote.NicheHVAC, report.Quotes[1].Result.Niche)
	assert.True(t, math.IsInf(report.Quotes[2].Result.PaybackPeriod, 1))
	assert.Equal(t, "solar", report.Session.Niche)
}

func TestGetForecastFinancedHomeownerAddsSchedule(t *testing.T) {
	conf := config.Configuration{
		Homeowner: &roi.HomeownerData{
			InstallationCost: 30000,
			AnnualSavings:    3000,
			InterestRate:     6,
			LoanTerm:         10,
		},
	}

	report, err := GetForecast(nil, conf)
	require.NoError(t, err)
	require.NotNil(t, report.Amortization)
	assert.Len(t, report.Amortization.Schedule, 120)
	assert.InDelta(t, report.Homeowner.Result.MonthlyPayment, report.Amortization.MonthlyPayment, 1e-9)
	assert.Greater(t, report.Amortization.TotalInterest, 0.0)
	assert.Nil(t, report.Provider)
	assert.Empty(t, report.Quotes)
}

func TestGetForecastInvalidQuote(t *testing.T) {
	conf := config.Configuration{
		Quotes: []config.QuoteConfig{{Name: "mystery", Niche: "pools"}},
	}
	_, err := GetForecast(zap.NewNop(), conf)
	assert.Error(t, err)
}

func TestQuoteDefaultName(t *testing.T) {
	section, err := Quote(nil, "", quote.Request{
		Niche:      quote.NicheRemodeling,
		Remodeling: quote.RemodelingInput{SquareFootage: 80, ProjectType: quote.ProjectBathroom},
	})
	require.NoError(t, err)
	assert.Equal(t, "Remodeling", section.Name)
	assert.InDelta(t, 20000, section.Result.TotalCost, 1e-6)
}

func TestAmortizationInvalidTerm(t *testing.T) {
	_, err := Amortization(nil, 10000, 5, 0)
	assert.Error(t, err)
}
