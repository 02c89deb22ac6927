// Package forecast defines the data structures related to a projection
// report and includes functions for computing it from a configuration.
package forecast

import (
	"fmt"

	"github.com/iwvelando/roi-forecast/internal/config"
	"github.com/iwvelando/roi-forecast/pkg/loans"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/iwvelando/roi-forecast/pkg/roi"
	"github.com/iwvelando/roi-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HomeownerSection pairs homeowner inputs with their projection.
type HomeownerSection struct {
	Input    roi.HomeownerData   `json:"input"`
	Result   roi.HomeownerResult `json:"result"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ProviderSection pairs provider inputs with their projection.
type ProviderSection struct {
	Input    roi.ProviderData   `json:"input"`
	Result   roi.ProviderResult `json:"result"`
	Warnings []string           `json:"warnings,omitempty"`
}

// QuoteSection is one niche quote.
type QuoteSection struct {
	Name     string        `json:"name"`
	Request  quote.Request `json:"-"`
	Result   quote.Result  `json:"result"`
	Warnings []string      `json:"warnings,omitempty"`
}

// AmortizationSection is a loan and its month-by-month schedule.
type AmortizationSection struct {
	Principal      float64         `json:"principal"`
	InterestRate   float64         `json:"interestRate"`
	TermYears      int             `json:"termYears"`
	MonthlyPayment float64         `json:"monthlyPayment"`
	TotalInterest  float64         `json:"totalInterest"`
	Schedule       []loans.Payment `json:"schedule"`
}

// Report holds every projection computed for one configuration.
type Report struct {
	Session      config.SessionConfig `json:"session"`
	Homeowner    *HomeownerSection    `json:"homeowner,omitempty"`
	Provider     *ProviderSection     `json:"provider,omitempty"`
	Quotes       []QuoteSection       `json:"quotes,omitempty"`
	Amortization *AmortizationSection `json:"amortization,omitempty"`
}

// Homeowner computes the homeowner section.
func Homeowner(logger *zap.Logger, data roi.HomeownerData) *HomeownerSection {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := roi.CalculateHomeownerROI(data)
	logger.Debug(fmt.Sprintf("homeowner break-even after %d months", result.BreakEvenMonths),
		zap.String("op", "forecast.Homeowner"),
		zap.Float64("netCost", result.NetCost),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
		zap.Bool("breakEvenReached", result.BreakEvenReached),
	)
	return &HomeownerSection{
		Input:    data,
		Result:   result,
		Warnings: validation.HomeownerWarnings(data),
	}
}

// Provider computes the provider section.
func Provider(logger *zap.Logger, data roi.ProviderData) *ProviderSection {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := roi.CalculateProviderROI(data)
	logger.Debug("computed provider projection",
		zap.String("op", "forecast.Provider"),
		zap.Float64("monthlyProfit", result.MonthlyProfit),
		zap.Float64("monthlyROI", result.MonthlyROI),
	)
	return &ProviderSection{
		Input:    data,
		Result:   result,
		Warnings: validation.ProviderWarnings(data),
	}
}

// Quote computes one quote section.
func Quote(logger *zap.Logger, name string, req quote.Request) (QuoteSection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	result, err := quote.Estimate(req)
	if err != nil {
		return QuoteSection{}, eris.Wrapf(err, "forecast: quote %q", name)
	}
	if name == "" {
		name = req.Niche.Title()
	}
	logger.Debug(fmt.Sprintf("estimated %s quote %s", req.Niche, name),
		zap.String("op", "forecast.Quote"),
		zap.Float64("totalCost", result.TotalCost),
		zap.Float64("paybackPeriod", result.PaybackPeriod),
	)
	return QuoteSection{
		Name:     name,
		Request:  req,
		Result:   result,
		Warnings: validation.QuoteWarnings(req),
	}, nil
}

// Amortization computes a loan schedule.
func Amortization(logger *zap.Logger, principal, rate float64, termYears int) (*AmortizationSection, error) {
	schedule, err := loans.NewScheduleGenerator(logger).Generate(principal, rate, termYears)
	if err != nil {
		return nil, err
	}
	return &AmortizationSection{
		Principal:      principal,
		InterestRate:   rate,
		TermYears:      termYears,
		MonthlyPayment: loans.MonthlyPayment(principal, rate, termYears),
		TotalInterest:  loans.TotalInterest(schedule),
		Schedule:       schedule,
	}, nil
}

// GetForecast computes every section present in the configuration. A
// financed homeowner improvement also gets its amortization schedule.
func GetForecast(logger *zap.Logger, conf config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &Report{Session: conf.Session}

	if conf.Homeowner != nil {
		report.Homeowner = Homeowner(logger, *conf.Homeowner)
		if conf.Homeowner.Financed() && report.Homeowner.Result.NetCost >= 0 {
			amortization, err := Amortization(logger, report.Homeowner.Result.NetCost,
				conf.Homeowner.InterestRate, conf.Homeowner.LoanTerm)
			if err != nil {
				return report, eris.Wrap(err, "forecast: homeowner amortization")
			}
			report.Amortization = amortization
		}
	}

	if conf.Provider != nil {
		report.Provider = Provider(logger, *conf.Provider)
	}

	for i, q := range conf.Quotes {
		req, err := q.Request(conf.Session.Niche)
		if err != nil {
			return report, err
		}
		section, err := Quote(logger, q.Name, req)
		if err != nil {
			return report, err
		}
		report.Quotes = append(report.Quotes, section)
		logger.Debug(fmt.Sprintf("processed quote %d of %d", i+1, len(conf.Quotes)),
			zap.String("op", "forecast.GetForecast"),
		)
	}

	return report, nil
}
