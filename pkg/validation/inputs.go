package validation

import (
	"fmt"

	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
)

// HomeownerWarnings flags inputs that produce degenerate projections.
// Calculations still run; the warnings only explain odd results.
func HomeownerWarnings(data roi.HomeownerData) []string {
	var warnings []string

	if data.LoanTerm < 0 {
		warnings = append(warnings, fmt.Sprintf("Loan term is negative (%d years) and is treated as a cash purchase", data.LoanTerm))
	}
	if data.LoanTerm == 0 && data.InterestRate != 0 {
		warnings = append(warnings, fmt.Sprintf("Interest rate %.2f%% is ignored because the loan term is 0 (cash purchase)", data.InterestRate))
	}
	if data.RebatesAndIncentives > data.InstallationCost {
		warnings = append(warnings, fmt.Sprintf("Rebates (%.2f) exceed installation cost (%.2f); net cost is negative",
			data.RebatesAndIncentives, data.InstallationCost))
	}
	if mathutil.IsZero(data.NetCost()) {
		warnings = append(warnings, "Net cost is 0; ROI percentages are undefined")
	}
	if data.AnnualSavings <= data.MaintenanceFee {
		warnings = append(warnings, fmt.Sprintf("Annual savings (%.2f) do not exceed the maintenance fee (%.2f); the improvement never breaks even",
			data.AnnualSavings, data.MaintenanceFee))
	}

	return warnings
}

// ProviderWarnings flags inputs that divide by zero.
func ProviderWarnings(data roi.ProviderData) []string {
	var warnings []string

	if data.ClosingRate <= 0 {
		warnings = append(warnings, "Closing rate is 0%; lead count and lead cost are infinite")
	} else if data.ClosingRate > 100 {
		warnings = append(warnings, fmt.Sprintf("Closing rate %.1f%% exceeds 100%%", data.ClosingRate))
	}
	if data.JobsPerMonth <= 0 {
		warnings = append(warnings, "Jobs per month is 0; per-job figures are undefined")
	}
	if data.RevenuePerJob <= 0 {
		warnings = append(warnings, "Revenue per job is 0; breakeven jobs per month is undefined")
	}

	return warnings
}

// QuoteWarnings flags quote inputs that cannot produce a payback period.
func QuoteWarnings(req quote.Request) []string {
	var warnings []string

	switch req.Niche {
	case quote.NicheSolar:
		if req.Solar.SystemSizeKW <= 0 {
			warnings = append(warnings, "Solar system size is 0 kW")
		}
	case quote.NicheHVAC:
		if req.HVAC.CurrentMonthlyEnergyCost <= 0 {
			warnings = append(warnings, "Current energy cost is 0; HVAC savings and payback are undefined")
		}
		if req.HVAC.SquareFootage <= 0 {
			warnings = append(warnings, "HVAC square footage is 0")
		}
	case quote.NicheRemodeling:
		if req.Remodeling.SquareFootage <= 0 {
			warnings = append(warnings, "Remodeling square footage is 0")
		}
	}

	return warnings
}
