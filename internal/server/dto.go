package server

import (
	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
)

// Response types mirror the calculator results with *float64 in place of
// float64 so that infinite and undefined values encode as null.

type homeownerResponse struct {
	Input             roi.HomeownerData   `json:"input"`
	NetCost           *float64            `json:"netCost"`
	MonthlyPayment    *float64            `json:"monthlyPayment"`
	FirstYearCost     *float64            `json:"firstYearCost"`
	FirstYearROI      *float64            `json:"firstYearROI"`
	BreakEvenMonths   int                 `json:"breakEvenMonths"`
	BreakEvenReached  bool                `json:"breakEvenReached"`
	YearlyProjections []homeownerYearJSON `json:"yearlyProjections"`
	TotalSavings      *float64            `json:"totalSavings"`
	TotalCosts        *float64            `json:"totalCosts"`
	NetReturn         *float64            `json:"netReturn"`
	TotalROI          *float64            `json:"totalROI"`
	Warnings          []string            `json:"warnings,omitempty"`
}

type homeownerYearJSON struct {
	Year             int      `json:"year"`
	Savings          *float64 `json:"savings"`
	LoanPayments     *float64 `json:"loanPayments"`
	Maintenance      *float64 `json:"maintenance"`
	Costs            *float64 `json:"costs"`
	NetSavings       *float64 `json:"netSavings"`
	CumulativeReturn *float64 `json:"cumulativeReturn"`
}

type providerResponse struct {
	Input                 roi.ProviderData   `json:"input"`
	MonthlyRevenue        *float64           `json:"monthlyRevenue"`
	LeadsPerMonth         *float64           `json:"leadsPerMonth"`
	MonthlyLeadCost       *float64           `json:"monthlyLeadCost"`
	MonthlyTotalExpenses  *float64           `json:"monthlyTotalExpenses"`
	MonthlyProfit         *float64           `json:"monthlyProfit"`
	MonthlyROI            *float64           `json:"monthlyROI"`
	AnnualRevenue         *float64           `json:"annualRevenue"`
	AnnualExpenses        *float64           `json:"annualExpenses"`
	AnnualProfit          *float64           `json:"annualProfit"`
	CostPerJob            *float64           `json:"costPerJob"`
	ProfitPerJob          *float64           `json:"profitPerJob"`
	BreakevenJobsPerMonth *float64           `json:"breakevenJobsPerMonth"`
	YearlyProjections     []providerYearJSON `json:"yearlyProjections"`
	Warnings              []string           `json:"warnings,omitempty"`
}

type providerYearJSON struct {
	Year             int      `json:"year"`
	Revenue          *float64 `json:"revenue"`
	Expenses         *float64 `json:"expenses"`
	Profit           *float64 `json:"profit"`
	ROI              *float64 `json:"roi"`
	CumulativeProfit *float64 `json:"cumulativeProfit"`
}

type quoteResponse struct {
	Name            string             `json:"name"`
	Niche           quote.Niche        `json:"niche"`
	TotalCost       *float64           `json:"totalCost"`
	Incentives      *float64           `json:"incentives"`
	NetCost         *float64           `json:"netCost"`
	Financing       quote.Financing    `json:"financing"`
	MonthlyPayment  *float64           `json:"monthlyPayment"`
	PaybackPeriod   *float64           `json:"paybackPeriod"`
	ROI             *float64           `json:"roi"`
	AnnualSavings   *float64           `json:"annualSavings"`
	LifetimeSavings *float64           `json:"lifetimeSavings"`
	Insights        []string           `json:"insights"`
	CostBreakdown   []costItemJSON     `json:"costBreakdown"`
	SavingsSeries   []savingsPointJSON `json:"savingsSeries"`
	Warnings        []string           `json:"warnings,omitempty"`
}

type costItemJSON struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
}

type savingsPointJSON struct {
	Year       int      `json:"year"`
	Savings    *float64 `json:"savings"`
	Cumulative *float64 `json:"cumulative"`
}

type amortizationResponse struct {
	Principal      float64         `json:"principal"`
	InterestRate   float64         `json:"interestRate"`
	TermYears      int             `json:"termYears"`
	MonthlyPayment *float64        `json:"monthlyPayment"`
	TotalInterest  *float64        `json:"totalInterest"`
	Schedule       []loans.Payment `json:"schedule"`
}

func buildHomeowner(s *forecast.HomeownerSection) homeownerResponse {
	r := s.Result
	years := make([]homeownerYearJSON, 0, len(r.YearlyProjections))
	for _, y := range r.YearlyProjections {
		years = append(years, homeownerYearJSON{
			Year:             y.Year,
			Savings:          mathutil.Finite(y.Savings),
			LoanPayments:     mathutil.Finite(y.LoanPayments),
			Maintenance:      mathutil.Finite(y.Maintenance),
			Costs:            mathutil.Finite(y.Costs),
			NetSavings:       mathutil.Finite(y.NetSavings),
			CumulativeReturn: mathutil.Finite(y.CumulativeReturn),
		})
	}
	return homeownerResponse{
		Input:             s.Input,
		NetCost:           mathutil.Finite(r.NetCost),
		MonthlyPayment:    mathutil.Finite(r.MonthlyPayment),
		FirstYearCost:     mathutil.Finite(r.FirstYearCost),
		FirstYearROI:      mathutil.Finite(r.FirstYearROI),
		BreakEvenMonths:   r.BreakEvenMonths,
		BreakEvenReached:  r.BreakEvenReached,
		YearlyProjections: years,
		TotalSavings:      mathutil.Finite(r.TotalSavings),
		TotalCosts:        mathutil.Finite(r.TotalCosts),
		NetReturn:         mathutil.Finite(r.NetReturn),
		TotalROI:          mathutil.Finite(r.TotalROI),
		Warnings:          s.Warnings,
	}
}

func buildProvider(s *forecast.ProviderSection) providerResponse {
	r := s.Result
	years := make([]providerYearJSON, 0, len(r.YearlyProjections))
	for _, y := range r.YearlyProjections {
		years = append(years, providerYearJSON{
			Year:             y.Year,
			Revenue:          mathutil.Finite(y.Revenue),
			Expenses:         mathutil.Finite(y.Expenses),
			Profit:           mathutil.Finite(y.Profit),
			ROI:              mathutil.Finite(y.ROI),
			CumulativeProfit: mathutil.Finite(y.CumulativeProfit),
		})
	}
	return providerResponse{
		Input:                 s.Input,
		MonthlyRevenue:        mathutil.Finite(r.MonthlyRevenue),
		LeadsPerMonth:         mathutil.Finite(r.LeadsPerMonth),
		MonthlyLeadCost:       mathutil.Finite(r.MonthlyLeadCost),
		MonthlyTotalExpenses:  mathutil.Finite(r.MonthlyTotalExpenses),
		MonthlyProfit:         mathutil.Finite(r.MonthlyProfit),
		MonthlyROI:            mathutil.Finite(r.MonthlyROI),
		AnnualRevenue:         mathutil.Finite(r.AnnualRevenue),
		AnnualExpenses:        mathutil.Finite(r.AnnualExpenses),
		AnnualProfit:          mathutil.Finite(r.AnnualProfit),
		CostPerJob:            mathutil.Finite(r.CostPerJob),
		ProfitPerJob:          mathutil.Finite(r.ProfitPerJob),
		BreakevenJobsPerMonth: mathutil.Finite(r.BreakevenJobsPerMonth),
		YearlyProjections:     years,
		Warnings:              s.Warnings,
	}
}

func buildQuote(s forecast.QuoteSection) quoteResponse {
	r := s.Result
	breakdown := make([]costItemJSON, 0, len(r.CostBreakdown))
	for _, item := range r.CostBreakdown {
		breakdown = append(breakdown, costItemJSON{Category: item.Category, Amount: mathutil.Finite(item.Amount)})
	}
	series := make([]savingsPointJSON, 0, len(r.SavingsSeries))
	for _, p := range r.SavingsSeries {
		series = append(series, savingsPointJSON{
			Year:       p.Year,
			Savings:    mathutil.Finite(p.Savings),
			Cumulative: mathutil.Finite(p.Cumulative),
		})
	}
	return quoteResponse{
		Name:            s.Name,
		Niche:           r.Niche,
		TotalCost:       mathutil.Finite(r.TotalCost),
		Incentives:      mathutil.Finite(r.Incentives),
		NetCost:         mathutil.Finite(r.NetCost),
		Financing:       r.Financing,
		MonthlyPayment:  mathutil.Finite(r.MonthlyPayment),
		PaybackPeriod:   mathutil.Finite(r.PaybackPeriod),
		ROI:             mathutil.Finite(r.ROI),
		AnnualSavings:   mathutil.Finite(r.AnnualSavings),
		LifetimeSavings: mathutil.Finite(r.LifetimeSavings),
		Insights:        r.Insights,
		CostBreakdown:   breakdown,
		SavingsSeries:   series,
		Warnings:        s.Warnings,
	}
}

func buildAmortization(s *forecast.AmortizationSection) amortizationResponse {
	return amortizationResponse{
		Principal:      s.Principal,
		InterestRate:   s.InterestRate,
		TermYears:      s.TermYears,
		MonthlyPayment: mathutil.Finite(s.MonthlyPayment),
		TotalInterest:  mathutil.Finite(s.TotalInterest),
		Schedule:       s.Schedule,
	}
}
