package quote

import (
	"fmt"
	"math"

	"github.com/iwvelando/roi-forecast/pkg/format"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/rotisserie/eris"
)

const (
	remodelFinancingRate = 8.99
	remodelFinancingTerm = 15
)

// RemodelingInput describes a remodeling project.
type RemodelingInput struct {
	ProjectType   ProjectType `json:"projectType" yaml:"projectType" mapstructure:"projectType"`
	SquareFootage float64     `json:"squareFootage" yaml:"squareFootage" mapstructure:"squareFootage"`
	Quality       Quality     `json:"quality" yaml:"quality" mapstructure:"quality"`
	PropertyValue float64     `json:"propertyValue" yaml:"propertyValue" mapstructure:"propertyValue"`
}

// Normalize returns the input with its categorical fields in canonical
// form. Empty values take defaults.
func (in RemodelingInput) Normalize() (RemodelingInput, error) {
	var err error
	if in.ProjectType != "" {
		if in.ProjectType, err = ParseProjectType(string(in.ProjectType)); err != nil {
			return in, err
		}
	}
	if in.Quality != "" {
		if in.Quality, err = ParseQuality(string(in.Quality)); err != nil {
			return in, err
		}
	}
	if in.SquareFootage < 0 {
		return in, eris.New("quote: square footage must not be negative")
	}
	return in, nil
}

func remodelCostPerSqft(project ProjectType) float64 {
	switch project {
	case ProjectBathroom:
		return 250
	case ProjectBasement:
		return 60
	case ProjectAddition:
		return 200
	case ProjectKitchen:
		return 150
	default:
		return 150
	}
}

func qualityMultiplier(quality Quality) float64 {
	switch quality {
	case QualityMidRange:
		return 1.5
	case QualityLuxury:
		return 2.5
	case QualityBasic:
		return 1.0
	default:
		return 1.0
	}
}

// valueRecoveryPercent is the share of the project cost recovered in resale value.
func valueRecoveryPercent(project ProjectType) float64 {
	switch project {
	case ProjectBathroom:
		return 67
	case ProjectBasement:
		return 70
	case ProjectAddition:
		return 65
	case ProjectKitchen:
		return 72
	default:
		return 72
	}
}

// CalculateRemodelingQuote prices a remodeling project. Remodels bring no
// recurring savings, so the payback period is always +Inf.
func CalculateRemodelingQuote(in RemodelingInput) Result {
	if canonical, err := in.Normalize(); err == nil {
		in = canonical
	}
	total := in.SquareFootage * remodelCostPerSqft(in.ProjectType) * qualityMultiplier(in.Quality)
	recovery := valueRecoveryPercent(in.ProjectType)
	valueAdded := total * recovery / 100

	result := Result{
		Niche:     NicheRemodeling,
		TotalCost: total,
		NetCost:   total,
		Financing: Financing{Rate: remodelFinancingRate, TermYears: remodelFinancingTerm},
		CostBreakdown: split(total, []CostItem{
			{Category: "Materials", Amount: 0.45},
			{Category: "Labor", Amount: 0.40},
			{Category: "Design & Permits", Amount: 0.10},
			{Category: "Contingency", Amount: 0.05},
		}),
		PaybackPeriod: math.Inf(1),
		ROI:           recovery,
		SavingsSeries: []SavingsPoint{},
	}
	result.MonthlyPayment = loans.MonthlyPayment(result.NetCost, remodelFinancingRate, remodelFinancingTerm)

	projectName := string(in.ProjectType)
	if projectName == "" {
		projectName = string(ProjectKitchen)
	}
	result.Insights = []string{
		fmt.Sprintf("A %s remodel typically recovers %.0f%% of its cost, adding about %s in home value.",
			projectName, recovery, format.Currency(valueAdded)),
		fmt.Sprintf("Financed over %d years at %.2f%%, the payment is %s per month.",
			remodelFinancingTerm, remodelFinancingRate, format.Currency(result.MonthlyPayment)),
	}
	if in.PropertyValue > 0 {
		result.Insights = append(result.Insights,
			fmt.Sprintf("The project costs %.1f%% of the current home value; the estimated value after completion is %s.",
				total/in.PropertyValue*100, format.Currency(in.PropertyValue+valueAdded)))
	}

	return result
}
