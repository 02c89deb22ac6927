package quote

import (
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/rotisserie/eris"
)

// Savings escalate with energy prices in every savings series.
const energyEscalation = 0.03

// CostItem is one slice of a cost breakdown chart.
type CostItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// SavingsPoint is one year of a savings chart series.
type SavingsPoint struct {
	Year       int     `json:"year"`
	Savings    float64 `json:"savings"`
	Cumulative float64 `json:"cumulative"`
}

// Financing holds the fixed loan terms baked into a niche.
type Financing struct {
	Rate      float64 `json:"rate"`
	TermYears int     `json:"termYears"`
}

// Result is the common output of all niche quote calculators.
type Result struct {
	Niche           Niche          `json:"niche"`
	TotalCost       float64        `json:"totalCost"`
	Incentives      float64        `json:"incentives"`
	NetCost         float64        `json:"netCost"`
	Financing       Financing      `json:"financing"`
	MonthlyPayment  float64        `json:"monthlyPayment"`
	PaybackPeriod   float64        `json:"paybackPeriod"` // years
	ROI             float64        `json:"roi"`
	AnnualSavings   float64        `json:"annualSavings"`
	LifetimeSavings float64        `json:"lifetimeSavings"`
	Insights        []string       `json:"insights"`
	CostBreakdown   []CostItem     `json:"costBreakdown"`
	SavingsSeries   []SavingsPoint `json:"savingsSeries"`
}

// Request selects a niche and carries the matching input. Only the input
// for the selected niche is read.
type Request struct {
	Niche      Niche           `json:"niche" yaml:"niche" mapstructure:"niche"`
	Solar      SolarInput      `json:"solar" yaml:"solar" mapstructure:"solar"`
	HVAC       HVACInput       `json:"hvac" yaml:"hvac" mapstructure:"hvac"`
	Remodeling RemodelingInput `json:"remodeling" yaml:"remodeling" mapstructure:"remodeling"`
}

// Normalize canonicalizes the input of the selected niche.
func (req Request) Normalize() (Request, error) {
	var err error
	switch req.Niche {
	case NicheSolar:
		req.Solar, err = req.Solar.Normalize()
	case NicheHVAC:
		req.HVAC, err = req.HVAC.Normalize()
	case NicheRemodeling:
		req.Remodeling, err = req.Remodeling.Normalize()
	default:
		err = eris.Errorf("quote: unsupported niche %s", req.Niche)
	}
	return req, err
}

// Estimate dispatches the request to the calculator of its niche.
func Estimate(req Request) (Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return Result{}, err
	}
	switch req.Niche {
	case NicheSolar:
		return CalculateSolarQuote(req.Solar), nil
	case NicheHVAC:
		return CalculateHVACQuote(req.HVAC), nil
	default:
		return CalculateRemodelingQuote(req.Remodeling), nil
	}
}

// savingsSeries escalates annual savings for the chart horizon.
func savingsSeries(annualSavings float64) []SavingsPoint {
	series := make([]SavingsPoint, 0, constants.QuoteSeriesYears)
	cumulative := 0.0
	for year := 1; year <= constants.QuoteSeriesYears; year++ {
		savings := annualSavings * mathutil.Compound(energyEscalation, year-1)
		cumulative += savings
		series = append(series, SavingsPoint{Year: year, Savings: savings, Cumulative: cumulative})
	}
	return series
}

// lifetimeSavings sums escalating savings over the useful life of the system.
func lifetimeSavings(annualSavings float64, years int) float64 {
	total := 0.0
	for year := 1; year <= years; year++ {
		total += annualSavings * mathutil.Compound(energyEscalation, year-1)
	}
	return total
}

func split(total float64, shares []CostItem) []CostItem {
	items := make([]CostItem, 0, len(shares))
	for _, share := range shares {
		items = append(items, CostItem{Category: share.Category, Amount: total * share.Amount})
	}
	return items
}
