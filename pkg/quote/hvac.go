package quote

import (
	"fmt"

	"github.com/iwvelando/roi-forecast/pkg/format"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/rotisserie/eris"
)

const (
	hvacDuctworkPerSqft = 4.00
	hvacFinancingRate   = 7.99
	hvacFinancingTerm   = 10
	hvacSystemLifeYears = 15
	hvacEquipmentShare  = 0.60
	hvacLaborShare      = 0.40
)

// HVACInput describes a heating and cooling replacement.
type HVACInput struct {
	SquareFootage            float64    `json:"squareFootage" yaml:"squareFootage" mapstructure:"squareFootage"`
	SystemType               SystemType `json:"systemType" yaml:"systemType" mapstructure:"systemType"`
	Efficiency               Efficiency `json:"efficiency" yaml:"efficiency" mapstructure:"efficiency"`
	CurrentMonthlyEnergyCost float64    `json:"currentMonthlyEnergyCost" yaml:"currentMonthlyEnergyCost" mapstructure:"currentMonthlyEnergyCost"`
	NeedsDuctwork            bool       `json:"needsDuctwork" yaml:"needsDuctwork" mapstructure:"needsDuctwork"`
}

// Normalize returns the input with its categorical fields in canonical
// form. Empty values take defaults.
func (in HVACInput) Normalize() (HVACInput, error) {
	var err error
	if in.SystemType != "" {
		if in.SystemType, err = ParseSystemType(string(in.SystemType)); err != nil {
			return in, err
		}
	}
	if in.Efficiency != "" {
		if in.Efficiency, err = ParseEfficiency(string(in.Efficiency)); err != nil {
			return in, err
		}
	}
	if in.SquareFootage < 0 {
		return in, eris.New("quote: square footage must not be negative")
	}
	return in, nil
}

func hvacCostPerSqft(system SystemType) float64 {
	switch system {
	case SystemHeatPump:
		return 7.00
	case SystemDuctless:
		return 8.50
	case SystemFurnace:
		return 4.00
	case SystemCentralAir:
		return 5.50
	default:
		return 5.50
	}
}

func efficiencyMultiplier(efficiency Efficiency) float64 {
	switch efficiency {
	case EfficiencyHigh:
		return 1.25
	case EfficiencyPremium:
		return 1.50
	case EfficiencyStandard:
		return 1.00
	default:
		return 1.00
	}
}

// efficiencySavingsPercent is the share of the current energy bill saved.
func efficiencySavingsPercent(efficiency Efficiency) float64 {
	switch efficiency {
	case EfficiencyHigh:
		return 25
	case EfficiencyPremium:
		return 35
	case EfficiencyStandard:
		return 15
	default:
		return 15
	}
}

// CalculateHVACQuote prices an HVAC replacement and its energy payback.
func CalculateHVACQuote(in HVACInput) Result {
	if canonical, err := in.Normalize(); err == nil {
		in = canonical
	}
	systemCost := in.SquareFootage * hvacCostPerSqft(in.SystemType) * efficiencyMultiplier(in.Efficiency)
	breakdown := split(systemCost, []CostItem{
		{Category: "Equipment", Amount: hvacEquipmentShare},
		{Category: "Installation Labor", Amount: hvacLaborShare},
	})

	total := systemCost
	if in.NeedsDuctwork {
		ductwork := in.SquareFootage * hvacDuctworkPerSqft
		total += ductwork
		breakdown = append(breakdown, CostItem{Category: "Ductwork", Amount: ductwork})
	}

	savingsPct := efficiencySavingsPercent(in.Efficiency)
	result := Result{
		Niche:         NicheHVAC,
		TotalCost:     total,
		NetCost:       total,
		Financing:     Financing{Rate: hvacFinancingRate, TermYears: hvacFinancingTerm},
		CostBreakdown: breakdown,
		AnnualSavings: mathutil.ApplyPercentage(in.CurrentMonthlyEnergyCost*12, savingsPct),
	}
	result.MonthlyPayment = loans.MonthlyPayment(result.NetCost, hvacFinancingRate, hvacFinancingTerm)
	result.PaybackPeriod = result.NetCost / result.AnnualSavings
	result.LifetimeSavings = lifetimeSavings(result.AnnualSavings, hvacSystemLifeYears)
	result.ROI = mathutil.Percentage(result.LifetimeSavings-result.NetCost, result.NetCost)
	result.SavingsSeries = savingsSeries(result.AnnualSavings)

	result.Insights = []string{
		fmt.Sprintf("A %s efficiency system cuts heating and cooling costs by about %.0f%%, or %s a year.",
			efficiencyLabel(in.Efficiency), savingsPct, format.Currency(result.AnnualSavings)),
		fmt.Sprintf("Financed over %d years at %.2f%%, the payment is %s per month.",
			hvacFinancingTerm, hvacFinancingRate, format.Currency(result.MonthlyPayment)),
		fmt.Sprintf("Over a %d-year service life the system saves %s.",
			hvacSystemLifeYears, format.Currency(result.LifetimeSavings)),
	}
	if in.NeedsDuctwork {
		result.Insights = append(result.Insights,
			fmt.Sprintf("Ductwork adds %s at %s per square foot.",
				format.Currency(in.SquareFootage*hvacDuctworkPerSqft), format.Currency(hvacDuctworkPerSqft)))
	}
	if in.SystemType == SystemHeatPump {
		result.Insights = append(result.Insights,
			"Heat pumps both heat and cool, so a separate furnace is not needed in mild climates.")
	}

	return result
}

func efficiencyLabel(efficiency Efficiency) string {
	if efficiency == "" {
		return string(EfficiencyStandard)
	}
	return string(efficiency)
}
