// Package roi computes return-on-investment projections for homeowners
// financing an improvement and for the contractors who sell them.
package roi

import (
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
)

// HomeownerData holds the inputs for a homeowner improvement.
type HomeownerData struct {
	InstallationCost     float64 `json:"installationCost" yaml:"installationCost" mapstructure:"installationCost"`
	AnnualSavings        float64 `json:"annualSavings" yaml:"annualSavings" mapstructure:"annualSavings"`
	MaintenanceFee       float64 `json:"maintenanceFee" yaml:"maintenanceFee" mapstructure:"maintenanceFee"`
	InterestRate         float64 `json:"interestRate" yaml:"interestRate" mapstructure:"interestRate"` // annual %
	LoanTerm             int     `json:"loanTerm" yaml:"loanTerm" mapstructure:"loanTerm"`             // years, 0 for cash
	EnergyPriceIncrease  float64 `json:"energyPriceIncrease" yaml:"energyPriceIncrease" mapstructure:"energyPriceIncrease"`
	RebatesAndIncentives float64 `json:"rebatesAndIncentives" yaml:"rebatesAndIncentives" mapstructure:"rebatesAndIncentives"`
}

// HomeownerYear is one year of a homeowner projection.
type HomeownerYear struct {
	Year             int     `json:"year"`
	Savings          float64 `json:"savings"`
	LoanPayments     float64 `json:"loanPayments"`
	Maintenance      float64 `json:"maintenance"`
	Costs            float64 `json:"costs"`
	NetSavings       float64 `json:"netSavings"`
	CumulativeReturn float64 `json:"cumulativeReturn"`
}

// HomeownerResult is the output of CalculateHomeownerROI.
type HomeownerResult struct {
	NetCost           float64         `json:"netCost"`
	MonthlyPayment    float64         `json:"monthlyPayment"`
	FirstYearCost     float64         `json:"firstYearCost"`
	FirstYearROI      float64         `json:"firstYearROI"`
	BreakEvenMonths   int             `json:"breakEvenMonths"`
	BreakEvenReached  bool            `json:"breakEvenReached"`
	YearlyProjections []HomeownerYear `json:"yearlyProjections"`
	TotalSavings      float64         `json:"totalSavings"`
	TotalCosts        float64         `json:"totalCosts"`
	NetReturn         float64         `json:"netReturn"`
	TotalROI          float64         `json:"totalROI"`
}

// Financed reports whether the improvement is paid through a loan.
func (d HomeownerData) Financed() bool {
	return d.LoanTerm > 0
}

// NetCost is the installation cost after rebates and incentives.
func (d HomeownerData) NetCost() float64 {
	return d.InstallationCost - d.RebatesAndIncentives
}

// CalculateHomeownerROI computes the financed payment, break-even month and
// a ten-year projection for a homeowner improvement.
func CalculateHomeownerROI(data HomeownerData) HomeownerResult {
	var result HomeownerResult
	result.NetCost = data.NetCost()

	if data.Financed() {
		result.MonthlyPayment = loans.MonthlyPayment(result.NetCost, data.InterestRate, data.LoanTerm)
		result.FirstYearCost = result.MonthlyPayment*constants.MonthsPerYear + data.MaintenanceFee
	} else {
		result.FirstYearCost = result.NetCost + data.MaintenanceFee
	}
	result.FirstYearROI = mathutil.Percentage(data.AnnualSavings-data.MaintenanceFee, result.NetCost)

	result.BreakEvenMonths, result.BreakEvenReached = breakEvenMonth(data, result.MonthlyPayment)

	result.YearlyProjections = make([]HomeownerYear, 0, constants.HomeownerProjectionYears)
	cumulative := 0.0
	growth := data.EnergyPriceIncrease / constants.PercentageMultiplier
	for year := 1; year <= constants.HomeownerProjectionYears; year++ {
		entry := HomeownerYear{
			Year:        year,
			Savings:     data.AnnualSavings * mathutil.Compound(growth, year-1),
			Maintenance: data.MaintenanceFee,
		}
		if data.Financed() && year <= data.LoanTerm {
			entry.LoanPayments = result.MonthlyPayment * constants.MonthsPerYear
		}
		entry.Costs = entry.Maintenance + entry.LoanPayments
		if !data.Financed() && year == 1 {
			entry.Costs += result.NetCost
		}
		entry.NetSavings = entry.Savings - entry.Costs
		cumulative += entry.NetSavings
		entry.CumulativeReturn = cumulative

		result.TotalSavings += entry.Savings
		result.TotalCosts += entry.Costs
		result.YearlyProjections = append(result.YearlyProjections, entry)
	}

	result.NetReturn = cumulative
	result.TotalROI = mathutil.Percentage(result.NetReturn, result.TotalCosts)

	return result
}

// breakEvenMonth walks forward month by month until the accumulated net
// savings cover the up-front investment. A cash purchase must recover the
// net cost; a financed one only has to turn cumulative cash flow
// non-negative. The search stops at MaxBreakEvenMonths.
func breakEvenMonth(data HomeownerData, monthlyPayment float64) (int, bool) {
	initialInvestment := 0.0
	if !data.Financed() {
		initialInvestment = data.NetCost()
	}

	monthlySavings := data.AnnualSavings / constants.MonthsPerYear
	monthlyMaintenance := data.MaintenanceFee / constants.MonthsPerYear
	loanMonths := data.LoanTerm * constants.MonthsPerYear

	cumulative := 0.0
	for month := 1; month <= constants.MaxBreakEvenMonths; month++ {
		cumulative += monthlySavings - monthlyMaintenance
		if month <= loanMonths {
			cumulative -= monthlyPayment
		}
		if cumulative >= initialInvestment {
			return month, true
		}
	}
	return constants.MaxBreakEvenMonths, false
}
