package roi

import (
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
)

// ProviderData holds the monthly operating figures of a contractor business.
type ProviderData struct {
	OverheadCosts  float64 `json:"overheadCosts" yaml:"overheadCosts" mapstructure:"overheadCosts"`
	LaborExpenses  float64 `json:"laborExpenses" yaml:"laborExpenses" mapstructure:"laborExpenses"`
	MarketingSpend float64 `json:"marketingSpend" yaml:"marketingSpend" mapstructure:"marketingSpend"`
	RevenuePerJob  float64 `json:"revenuePerJob" yaml:"revenuePerJob" mapstructure:"revenuePerJob"`
	JobsPerMonth   float64 `json:"jobsPerMonth" yaml:"jobsPerMonth" mapstructure:"jobsPerMonth"`
	ClosingRate    float64 `json:"closingRate" yaml:"closingRate" mapstructure:"closingRate"` // %
	LeadCost       float64 `json:"leadCost" yaml:"leadCost" mapstructure:"leadCost"`
	OtherExpenses  float64 `json:"otherExpenses" yaml:"otherExpenses" mapstructure:"otherExpenses"`
}

// ProviderYear is one year of a provider projection.
type ProviderYear struct {
	Year             int     `json:"year"`
	Revenue          float64 `json:"revenue"`
	Expenses         float64 `json:"expenses"`
	Profit           float64 `json:"profit"`
	ROI              float64 `json:"roi"`
	CumulativeProfit float64 `json:"cumulativeProfit"`
}

// ProviderResult is the output of CalculateProviderROI.
type ProviderResult struct {
	MonthlyRevenue        float64        `json:"monthlyRevenue"`
	LeadsPerMonth         float64        `json:"leadsPerMonth"`
	MonthlyLeadCost       float64        `json:"monthlyLeadCost"`
	MonthlyTotalExpenses  float64        `json:"monthlyTotalExpenses"`
	MonthlyProfit         float64        `json:"monthlyProfit"`
	MonthlyROI            float64        `json:"monthlyROI"`
	AnnualRevenue         float64        `json:"annualRevenue"`
	AnnualExpenses        float64        `json:"annualExpenses"`
	AnnualProfit          float64        `json:"annualProfit"`
	CostPerJob            float64        `json:"costPerJob"`
	ProfitPerJob          float64        `json:"profitPerJob"`
	BreakevenJobsPerMonth float64        `json:"breakevenJobsPerMonth"`
	YearlyProjections     []ProviderYear `json:"yearlyProjections"`
}

// CalculateProviderROI computes monthly and annual profitability and a
// five-year projection growing revenue and expenses at a fixed 5% a year.
func CalculateProviderROI(data ProviderData) ProviderResult {
	var result ProviderResult

	result.MonthlyRevenue = data.RevenuePerJob * data.JobsPerMonth
	result.LeadsPerMonth = data.JobsPerMonth / (data.ClosingRate / constants.PercentageMultiplier)
	result.MonthlyLeadCost = result.LeadsPerMonth * data.LeadCost
	result.MonthlyTotalExpenses = data.OverheadCosts + data.LaborExpenses + data.MarketingSpend +
		result.MonthlyLeadCost + data.OtherExpenses
	result.MonthlyProfit = result.MonthlyRevenue - result.MonthlyTotalExpenses
	result.MonthlyROI = mathutil.Percentage(result.MonthlyProfit, result.MonthlyTotalExpenses)

	result.AnnualRevenue = result.MonthlyRevenue * constants.MonthsPerYear
	result.AnnualExpenses = result.MonthlyTotalExpenses * constants.MonthsPerYear
	result.AnnualProfit = result.MonthlyProfit * constants.MonthsPerYear

	result.CostPerJob = result.MonthlyTotalExpenses / data.JobsPerMonth
	result.ProfitPerJob = result.MonthlyProfit / data.JobsPerMonth
	result.BreakevenJobsPerMonth = result.MonthlyTotalExpenses / data.RevenuePerJob

	result.YearlyProjections = make([]ProviderYear, 0, constants.ProviderProjectionYears)
	cumulative := 0.0
	for year := 1; year <= constants.ProviderProjectionYears; year++ {
		growth := mathutil.Compound(constants.ProviderAnnualGrowth, year-1)
		entry := ProviderYear{
			Year:     year,
			Revenue:  result.AnnualRevenue * growth,
			Expenses: result.AnnualExpenses * growth,
		}
		entry.Profit = entry.Revenue - entry.Expenses
		entry.ROI = mathutil.Percentage(entry.Profit, entry.Expenses)
		cumulative += entry.Profit
		entry.CumulativeProfit = cumulative
		result.YearlyProjections = append(result.YearlyProjections, entry)
	}

	return result
}
