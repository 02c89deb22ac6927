// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/mathutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Payment holds the values for a given monthly payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// MonthlyRate converts an annual percentage rate into a periodic monthly rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// MonthlyPayment calculates the fixed monthly payment for a loan using the
// standard amortization formula. A zero rate degenerates to principal/n.
// Callers guarantee a positive term.
func MonthlyPayment(principal, annualInterestRate float64, termYears int) float64 {
	numPayments := termYears * constants.MonthsPerYear
	if annualInterestRate == 0 {
		return principal / float64(numPayments)
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(numPayments))
	return principal * periodicInterestRate * power / (power - 1.00)
}

// InterestPayment calculates the interest portion of a payment.
func InterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * MonthlyRate(annualInterestRate)
}

// TotalInterest sums the interest paid across a schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Interest
	}
	return total
}

// ScheduleGenerator produces month-by-month amortization tables.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate creates a complete amortization schedule for a fixed-rate loan.
// The final payment clears the remaining principal exactly.
func (g *ScheduleGenerator) Generate(principal, annualInterestRate float64, termYears int) ([]Payment, error) {
	if termYears <= 0 {
		return nil, eris.Errorf("loans: term must be positive, got %d years", termYears)
	}
	if principal < 0 {
		return nil, eris.Errorf("loans: principal must not be negative, got %.2f", principal)
	}

	numPayments := termYears * constants.MonthsPerYear
	monthlyPayment := MonthlyPayment(principal, annualInterestRate, termYears)
	schedule := make([]Payment, 0, numPayments)

	remaining := principal
	for month := 1; month <= numPayments; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = InterestPayment(remaining, annualInterestRate)
		current.Principal = monthlyPayment - current.Interest

		if month == numPayments || mathutil.Round(remaining-current.Principal) == 0 {
			// We will get machine error otherwise so just settle the balance.
			current.Principal = remaining
			current.Payment = remaining + current.Interest
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			if month != numPayments {
				g.logger.Debug(fmt.Sprintf("loan settled early at month %d of %d", month, numPayments),
					zap.String("op", "loans.Generate"),
				)
			}
			break
		}

		current.RemainingPrincipal = remaining - current.Principal
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.Generate"),
		zap.Float64("principal", principal),
		zap.Float64("rate", annualInterestRate),
		zap.Int("payments", len(schedule)),
		zap.Float64("monthlyPayment", monthlyPayment),
	)

	return schedule, nil
}
