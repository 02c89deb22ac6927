// Package output provides utilities for formatting and displaying projection reports.
package output

import (
	"io"
	"strings"

	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/format"
	"github.com/iwvelando/roi-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Render writes report to w in the named output format.
func Render(w io.Writer, outputFormat string, report *forecast.Report) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if report == nil {
		return eris.New("output: nil report")
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatXLSX:
		return XlsxFormat(w, report)
	default:
		return PrettyFormat(w, report)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *forecast.Report) error {
	pw := &prettyWriter{w: w, p: message.NewPrinter(language.English)}

	if report.Session.Name != "" || report.Session.Email != "" {
		pw.printf("Prepared for %s %s\n\n", report.Session.Name, angle(report.Session.Email))
	}

	if h := report.Homeowner; h != nil {
		r := h.Result
		pw.printf("--- Homeowner ROI ---\n")
		pw.printf("Net cost:         %s\n", format.Currency(r.NetCost))
		pw.printf("Monthly payment:  %s\n", format.Currency(r.MonthlyPayment))
		pw.printf("First-year cost:  %s\n", format.Currency(r.FirstYearCost))
		pw.printf("First-year ROI:   %s\n", format.Percent(r.FirstYearROI))
		if r.BreakEvenReached {
			pw.printf("Break-even:       month %d\n", r.BreakEvenMonths)
		} else {
			pw.printf("Break-even:       not within %d months\n", r.BreakEvenMonths)
		}
		pw.printf("Year | Savings       | Costs         | Net           | Cumulative\n")
		pw.printf("____ | _____________ | _____________ | _____________ | __________\n")
		for _, y := range r.YearlyProjections {
			pw.printf("%4d | $%12.2f | $%12.2f | $%12.2f | $%.2f\n",
				y.Year, y.Savings, y.Costs, y.NetSavings, y.CumulativeReturn)
		}
		pw.printf("Total ROI over %d years: %s (net return %s)\n",
			len(r.YearlyProjections), format.Percent(r.TotalROI), format.Currency(r.NetReturn))
		pw.warnings(h.Warnings)
		pw.printf("\n")
	}

	if p := report.Provider; p != nil {
		r := p.Result
		pw.printf("--- Provider ROI ---\n")
		pw.printf("Monthly revenue:  %s\n", format.Currency(r.MonthlyRevenue))
		pw.printf("Monthly expenses: %s\n", format.Currency(r.MonthlyTotalExpenses))
		pw.printf("Monthly profit:   %s\n", format.Currency(r.MonthlyProfit))
		pw.printf("Monthly ROI:      %s\n", format.Percent(r.MonthlyROI))
		pw.printf("Leads per month:  %s\n", format.Number(r.LeadsPerMonth))
		pw.printf("Cost per job:     %s\n", format.Currency(r.CostPerJob))
		pw.printf("Profit per job:   %s\n", format.Currency(r.ProfitPerJob))
		pw.printf("Break-even jobs:  %.1f per month\n", r.BreakevenJobsPerMonth)
		pw.printf("Year | Revenue       | Expenses      | Profit        | ROI\n")
		pw.printf("____ | _____________ | _____________ | _____________ | ___\n")
		for _, y := range r.YearlyProjections {
			pw.printf("%4d | $%12.2f | $%12.2f | $%12.2f | %s\n",
				y.Year, y.Revenue, y.Expenses, y.Profit, format.Percent(y.ROI))
		}
		pw.warnings(p.Warnings)
		pw.printf("\n")
	}

	for _, q := range report.Quotes {
		r := q.Result
		pw.printf("--- %s quote: %s ---\n", r.Niche.Title(), q.Name)
		pw.printf("Total cost:       %s\n", format.Currency(r.TotalCost))
		if r.Incentives > 0 {
			pw.printf("Incentives:       %s\n", format.Currency(r.Incentives))
		}
		pw.printf("Net cost:         %s\n", format.Currency(r.NetCost))
		pw.printf("Monthly payment:  %s (%.2f%% over %d years)\n",
			format.Currency(r.MonthlyPayment), r.Financing.Rate, r.Financing.TermYears)
		pw.printf("Payback period:   %s\n", format.Years(r.PaybackPeriod))
		pw.printf("ROI:              %s\n", format.Percent(r.ROI))
		for _, item := range r.CostBreakdown {
			pw.printf("  %-26s %s\n", item.Category, format.Currency(item.Amount))
		}
		for _, insight := range r.Insights {
			pw.printf("* %s\n", insight)
		}
		pw.warnings(q.Warnings)
		pw.printf("\n")
	}

	if a := report.Amortization; a != nil {
		pw.printf("--- Amortization: %s at %.2f%% over %d years ---\n",
			format.Currency(a.Principal), a.InterestRate, a.TermYears)
		pw.printf("Month | Payment    | Principal  | Interest   | Remaining\n")
		pw.printf("_____ | __________ | __________ | __________ | _________\n")
		for _, row := range a.Schedule {
			pw.printf("%5d | $%9.2f | $%9.2f | $%9.2f | $%.2f\n",
				row.Month, row.Payment, row.Principal, row.Interest, row.RemainingPrincipal)
		}
		pw.printf("Total interest: %s\n", format.Currency(a.TotalInterest))
	}

	return pw.err
}

// prettyWriter keeps the first write error so the report body reads linearly.
type prettyWriter struct {
	w   io.Writer
	p   *message.Printer
	err error
}

func (pw *prettyWriter) printf(msg string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, msg, args...)
}

func (pw *prettyWriter) warnings(warnings []string) {
	for _, warning := range warnings {
		pw.printf("! %s\n", warning)
	}
}

func angle(email string) string {
	if email == "" {
		return ""
	}
	return "<" + strings.TrimSpace(email) + ">"
}
