package form

import (
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/rotisserie/eris"
)

// Homeowner builds HomeownerData from form values.
func Homeowner(v Values) roi.HomeownerData {
	return roi.HomeownerData{
		InstallationCost:     v.Float("installationCost"),
		AnnualSavings:        v.Float("annualSavings"),
		MaintenanceFee:       v.Float("maintenanceFee"),
		InterestRate:         v.Float("interestRate"),
		LoanTerm:             v.Int("loanTerm"),
		EnergyPriceIncrease:  v.Float("energyPriceIncrease"),
		RebatesAndIncentives: v.Float("rebatesAndIncentives"),
	}
}

// Provider builds ProviderData from form values.
func Provider(v Values) roi.ProviderData {
	return roi.ProviderData{
		OverheadCosts:  v.Float("overheadCosts"),
		LaborExpenses:  v.Float("laborExpenses"),
		MarketingSpend: v.Float("marketingSpend"),
		RevenuePerJob:  v.Float("revenuePerJob"),
		JobsPerMonth:   v.Float("jobsPerMonth"),
		ClosingRate:    v.Float("closingRate"),
		LeadCost:       v.Float("leadCost"),
		OtherExpenses:  v.Float("otherExpenses"),
	}
}

// Solar builds a SolarInput. Categorical fields must name a known option
// when present.
func Solar(v Values) (quote.SolarInput, error) {
	in := quote.SolarInput{
		SystemSizeKW:   v.Float("systemSizeKW"),
		MonthlyBill:    v.Float("monthlyBill"),
		SunHoursPerDay: v.Float("sunHoursPerDay"),
		IncludeBattery: v.Bool("includeBattery"),
	}
	if s := v.String("roofType"); s != "" {
		roof, err := quote.ParseRoofType(s)
		if err != nil {
			return in, err
		}
		in.RoofType = roof
	}
	if s := v.String("shading"); s != "" {
		shading, err := quote.ParseShading(s)
		if err != nil {
			return in, err
		}
		in.Shading = shading
	}
	return in, nil
}

// HVAC builds an HVACInput.
func HVAC(v Values) (quote.HVACInput, error) {
	in := quote.HVACInput{
		SquareFootage:            v.Float("squareFootage"),
		CurrentMonthlyEnergyCost: v.Float("currentMonthlyEnergyCost"),
		NeedsDuctwork:            v.Bool("needsDuctwork"),
	}
	if s := v.String("systemType"); s != "" {
		system, err := quote.ParseSystemType(s)
		if err != nil {
			return in, err
		}
		in.SystemType = system
	}
	if s := v.String("efficiency"); s != "" {
		efficiency, err := quote.ParseEfficiency(s)
		if err != nil {
			return in, err
		}
		in.Efficiency = efficiency
	}
	return in, nil
}

// Remodeling builds a RemodelingInput.
func Remodeling(v Values) (quote.RemodelingInput, error) {
	in := quote.RemodelingInput{
		SquareFootage: v.Float("squareFootage"),
		PropertyValue: v.Float("propertyValue"),
	}
	if s := v.String("projectType"); s != "" {
		project, err := quote.ParseProjectType(s)
		if err != nil {
			return in, err
		}
		in.ProjectType = project
	}
	if s := v.String("quality"); s != "" {
		quality, err := quote.ParseQuality(s)
		if err != nil {
			return in, err
		}
		in.Quality = quality
	}
	return in, nil
}

// QuoteRequest builds a quote request for the given niche from its field set.
func QuoteRequest(niche quote.Niche, v Values) (quote.Request, error) {
	req := quote.Request{Niche: niche}
	var err error
	switch niche {
	case quote.NicheSolar:
		req.Solar, err = Solar(v)
	case quote.NicheHVAC:
		req.HVAC, err = HVAC(v)
	case quote.NicheRemodeling:
		req.Remodeling, err = Remodeling(v)
	default:
		return req, eris.Errorf("form: unsupported niche %s", niche)
	}
	if err != nil {
		return req, eris.Wrapf(err, "form: %s inputs", niche)
	}
	return req, nil
}
