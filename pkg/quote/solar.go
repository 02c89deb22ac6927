package quote

import (
	"fmt"
	"math"

	"github.com/iwvelando/roi-forecast/pkg/format"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/rotisserie/eris"
)

const (
	solarCostPerWatt      = 2.75
	solarBatteryCost      = 12000.0
	solarTaxCreditPercent = 30.0
	solarElectricityRate  = 0.16 // $/kWh
	solarDefaultSunHours  = 4.5
	solarFinancingRate    = 6.99
	solarFinancingTerm    = 20
	solarSystemLifeYears  = 25
	solarDaysPerYear      = 365
	solarWattsPerKilowatt = 1000
	heavyShadingLossPct   = 35
	partialShadingLossPct = 15
)

// SolarInput describes a residential solar installation.
type SolarInput struct {
	SystemSizeKW   float64  `json:"systemSizeKW" yaml:"systemSizeKW" mapstructure:"systemSizeKW"`
	MonthlyBill    float64  `json:"monthlyBill" yaml:"monthlyBill" mapstructure:"monthlyBill"`
	SunHoursPerDay float64  `json:"sunHoursPerDay" yaml:"sunHoursPerDay" mapstructure:"sunHoursPerDay"`
	RoofType       RoofType `json:"roofType" yaml:"roofType" mapstructure:"roofType"`
	Shading        Shading  `json:"shading" yaml:"shading" mapstructure:"shading"`
	IncludeBattery bool     `json:"includeBattery" yaml:"includeBattery" mapstructure:"includeBattery"`
}

// Normalize returns the input with its categorical fields in canonical
// form. Empty values take defaults.
func (in SolarInput) Normalize() (SolarInput, error) {
	var err error
	if in.RoofType != "" {
		if in.RoofType, err = ParseRoofType(string(in.RoofType)); err != nil {
			return in, err
		}
	}
	if in.Shading != "" {
		if in.Shading, err = ParseShading(string(in.Shading)); err != nil {
			return in, err
		}
	}
	if in.SystemSizeKW < 0 {
		return in, eris.New("quote: solar system size must not be negative")
	}
	return in, nil
}

func roofMultiplier(roof RoofType) float64 {
	switch roof {
	case RoofMetal:
		return 1.05
	case RoofTile:
		return 1.20
	case RoofFlat:
		return 1.10
	case RoofAsphalt:
		return 1.00
	default:
		return 1.00
	}
}

func shadingFactor(shading Shading) float64 {
	switch shading {
	case ShadingPartial:
		return 1 - partialShadingLossPct/100.0
	case ShadingHeavy:
		return 1 - heavyShadingLossPct/100.0
	case ShadingNone:
		return 1.00
	default:
		return 1.00
	}
}

// AnnualProductionKWh estimates yearly generation of the array.
func (in SolarInput) AnnualProductionKWh() float64 {
	sunHours := in.SunHoursPerDay
	if sunHours <= 0 {
		sunHours = solarDefaultSunHours
	}
	shading := in.Shading
	if parsed, err := ParseShading(string(shading)); err == nil {
		shading = parsed
	}
	return in.SystemSizeKW * sunHours * solarDaysPerYear * shadingFactor(shading)
}

// CalculateSolarQuote prices a solar installation and its payback.
func CalculateSolarQuote(in SolarInput) Result {
	if canonical, err := in.Normalize(); err == nil {
		in = canonical
	}
	systemCost := in.SystemSizeKW * solarWattsPerKilowatt * solarCostPerWatt * roofMultiplier(in.RoofType)
	breakdown := split(systemCost, []CostItem{
		{Category: "Panels & Inverters", Amount: 0.55},
		{Category: "Installation Labor", Amount: 0.30},
		{Category: "Permits & Interconnection", Amount: 0.15},
	})

	total := systemCost
	if in.IncludeBattery {
		total += solarBatteryCost
		breakdown = append(breakdown, CostItem{Category: "Battery Storage", Amount: solarBatteryCost})
	}

	result := Result{
		Niche:         NicheSolar,
		TotalCost:     total,
		Incentives:    mathutil.ApplyPercentage(total, solarTaxCreditPercent),
		Financing:     Financing{Rate: solarFinancingRate, TermYears: solarFinancingTerm},
		CostBreakdown: breakdown,
	}
	result.NetCost = result.TotalCost - result.Incentives
	result.MonthlyPayment = loans.MonthlyPayment(result.NetCost, solarFinancingRate, solarFinancingTerm)

	production := in.AnnualProductionKWh()
	result.AnnualSavings = production * solarElectricityRate
	if in.MonthlyBill > 0 {
		result.AnnualSavings = math.Min(result.AnnualSavings, in.MonthlyBill*12)
	}
	result.PaybackPeriod = result.NetCost / result.AnnualSavings
	result.LifetimeSavings = lifetimeSavings(result.AnnualSavings, solarSystemLifeYears)
	result.ROI = mathutil.Percentage(result.LifetimeSavings-result.NetCost, result.NetCost)
	result.SavingsSeries = savingsSeries(result.AnnualSavings)

	result.Insights = []string{
		fmt.Sprintf("A %.1f kW system produces about %s kWh per year.",
			in.SystemSizeKW, format.Number(production)),
		fmt.Sprintf("The %.0f%% federal tax credit lowers your cost by %s.",
			solarTaxCreditPercent, format.Currency(result.Incentives)),
		fmt.Sprintf("Estimated payback in %.1f years with %s saved over %d years.",
			result.PaybackPeriod, format.Currency(result.LifetimeSavings), solarSystemLifeYears),
	}
	if in.IncludeBattery {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Battery storage adds %s and keeps critical loads running during outages.",
				format.Currency(solarBatteryCost)))
	}
	if in.Shading == ShadingHeavy {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Heavy shading cuts production by %d%%; trimming nearby trees would shorten payback.",
				heavyShadingLossPct))
	}

	return result
}
