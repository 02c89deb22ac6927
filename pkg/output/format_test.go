package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/roi-forecast/internal/config"
	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func testReport(t *testing.T) *forecast.Report {
	t.Helper()

	homeowner := roi.HomeownerData{
		InstallationCost:     15000,
		AnnualSavings:        2400,
		MaintenanceFee:       200,
		InterestRate:         0,
		LoanTerm:             5,
		EnergyPriceIncrease:  3,
		RebatesAndIncentives: 0,
	}
	provider := roi.ProviderData{
		OverheadCosts:  5000,
		LaborExpenses:  10000,
		MarketingSpend: 3000,
		RevenuePerJob:  7500,
		JobsPerMonth:   8,
		ClosingRate:    40,
		LeadCost:       100,
		OtherExpenses:  1000,
	}

	report, err := forecast.GetForecast(nil, config.Configuration{
		Session:   config.SessionConfig{Name: "Test User", Email: "test@example.com"},
		Homeowner: &homeowner,
		Provider:  &provider,
		Quotes: []config.QuoteConfig{
			{Name: "kitchen", Niche: "remodeling", Remodeling: quote.RemodelingInput{
				ProjectType: quote.ProjectKitchen, SquareFootage: 200, Quality: quote.QualityMidRange,
			}},
		},
	})
	require.NoError(t, err)
	return report
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrettyFormat(&buf, testReport(t)))
	out := buf.String()

	for _, want := range []string{
		"Prepared for Test User <test@example.com>",
		"--- Homeowner ROI ---",
		"Monthly payment:  $250.00",
		"Break-even:       month 82",
		"--- Provider ROI ---",
		"Monthly profit:   $39,000.00",
		"--- Remodeling quote: kitchen ---",
		"Payback period:   never",
		"--- Amortization: $15,000.00 at 0.00% over 5 years ---",
	} {
		assert.Contains(t, out, want)
	}
}

func TestPrettyFormatWarnings(t *testing.T) {
	provider := roi.ProviderData{RevenuePerJob: 0, JobsPerMonth: 4, ClosingRate: 0}
	report := &forecast.Report{Provider: forecast.Provider(nil, provider)}

	var buf bytes.Buffer
	require.NoError(t, PrettyFormat(&buf, report))
	assert.Contains(t, buf.String(), "! ")
	assert.Contains(t, buf.String(), "n/a")
}

func TestCsvFormat(t *testing.T) {
	out, err := CsvString(testReport(t))
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	titles := map[string]bool{}
	for _, rec := range records {
		if len(rec) == 1 && rec[0] != "" {
			titles[rec[0]] = true
		}
	}
	for _, want := range []string{"homeowner summary", "homeowner projection", "provider summary",
		"provider projection", "quotes", "amortization"} {
		assert.True(t, titles[want], "missing table %q", want)
	}
	assert.Contains(t, out, "monthly profit,39000.00")
	assert.Contains(t, out, "kitchen,remodeling,45000.00")
	assert.Contains(t, out, "+Inf")
}

func TestCsvFormatEmptyReport(t *testing.T) {
	out, err := CsvString(&forecast.Report{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestXlsxFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XlsxFormat(&buf, testReport(t)))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	sheet, ok := f.Sheet["homeowner projection"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 11)
	assert.Equal(t, "year", sheet.Rows[0].Cells[0].String())

	schedule, ok := f.Sheet["amortization"]
	require.True(t, ok)
	assert.Len(t, schedule.Rows, 61)

	quotes, ok := f.Sheet["quotes"]
	require.True(t, ok)
	require.Len(t, quotes.Rows, 2)
	assert.Equal(t, "kitchen", quotes.Rows[1].Cells[0].String())
}

func TestRender(t *testing.T) {
	report := testReport(t)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "csv", report))
	assert.True(t, strings.HasPrefix(buf.String(), "homeowner summary"))

	buf.Reset()
	require.NoError(t, Render(&buf, "pretty", report))
	assert.Contains(t, buf.String(), "Homeowner ROI")

	assert.Error(t, Render(&buf, "json", report))
	assert.Error(t, Render(&buf, "csv", nil))
}
