package output

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/rotisserie/eris"
)

// CsvFormat outputs the report in comma-separated value format. Each section
// is its own table, introduced by a single-cell title row and separated from
// the next by a blank row.
func CsvFormat(w io.Writer, report *forecast.Report) error {
	cw := csv.NewWriter(w)
	for i, table := range tables(report) {
		if i > 0 {
			if err := cw.Write([]string{""}); err != nil {
				return eris.Wrap(err, "output: write csv")
			}
		}
		if err := cw.Write([]string{table.title}); err != nil {
			return eris.Wrap(err, "output: write csv")
		}
		if err := cw.Write(table.header); err != nil {
			return eris.Wrap(err, "output: write csv")
		}
		if err := cw.WriteAll(table.rows); err != nil {
			return eris.Wrap(err, "output: write csv")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "output: flush csv")
	}
	return nil
}

// CsvString renders the report as CSV text.
func CsvString(report *forecast.Report) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// table is a titled grid shared by the CSV and XLSX renderers.
type table struct {
	title  string
	header []string
	rows   [][]string
	values [][]interface{}
}

func (t *table) add(values ...interface{}) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = cellText(v)
	}
	t.rows = append(t.rows, row)
	t.values = append(t.values, values)
}

func cellText(v interface{}) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return ""
	}
}

func tables(report *forecast.Report) []table {
	var out []table

	if h := report.Homeowner; h != nil {
		r := h.Result
		summary := table{title: "homeowner summary", header: []string{"metric", "value"}}
		summary.add("net cost", r.NetCost)
		summary.add("monthly payment", r.MonthlyPayment)
		summary.add("first-year cost", r.FirstYearCost)
		summary.add("first-year roi", r.FirstYearROI)
		summary.add("break-even months", r.BreakEvenMonths)
		summary.add("break-even reached", r.BreakEvenReached)
		summary.add("total savings", r.TotalSavings)
		summary.add("total costs", r.TotalCosts)
		summary.add("net return", r.NetReturn)
		summary.add("total roi", r.TotalROI)
		out = append(out, summary)

		years := table{
			title:  "homeowner projection",
			header: []string{"year", "savings", "loan payments", "maintenance", "costs", "net savings", "cumulative return"},
		}
		for _, y := range r.YearlyProjections {
			years.add(y.Year, y.Savings, y.LoanPayments, y.Maintenance, y.Costs, y.NetSavings, y.CumulativeReturn)
		}
		out = append(out, years)
	}

	if p := report.Provider; p != nil {
		r := p.Result
		summary := table{title: "provider summary", header: []string{"metric", "value"}}
		summary.add("monthly revenue", r.MonthlyRevenue)
		summary.add("leads per month", r.LeadsPerMonth)
		summary.add("monthly lead cost", r.MonthlyLeadCost)
		summary.add("monthly expenses", r.MonthlyTotalExpenses)
		summary.add("monthly profit", r.MonthlyProfit)
		summary.add("monthly roi", r.MonthlyROI)
		summary.add("annual revenue", r.AnnualRevenue)
		summary.add("annual expenses", r.AnnualExpenses)
		summary.add("annual profit", r.AnnualProfit)
		summary.add("cost per job", r.CostPerJob)
		summary.add("profit per job", r.ProfitPerJob)
		summary.add("break-even jobs per month", r.BreakevenJobsPerMonth)
		out = append(out, summary)

		years := table{
			title:  "provider projection",
			header: []string{"year", "revenue", "expenses", "profit", "roi", "cumulative profit"},
		}
		for _, y := range r.YearlyProjections {
			years.add(y.Year, y.Revenue, y.Expenses, y.Profit, y.ROI, y.CumulativeProfit)
		}
		out = append(out, years)
	}

	if len(report.Quotes) > 0 {
		quotes := table{
			title: "quotes",
			header: []string{"name", "niche", "total cost", "incentives", "net cost", "rate", "term years",
				"monthly payment", "payback years", "roi", "annual savings", "lifetime savings"},
		}
		for _, q := range report.Quotes {
			r := q.Result
			quotes.add(q.Name, r.Niche.String(), r.TotalCost, r.Incentives, r.NetCost, r.Financing.Rate,
				r.Financing.TermYears, r.MonthlyPayment, r.PaybackPeriod, r.ROI, r.AnnualSavings, r.LifetimeSavings)
		}
		out = append(out, quotes)
	}

	if a := report.Amortization; a != nil {
		schedule := table{
			title:  "amortization",
			header: []string{"month", "payment", "principal", "interest", "remaining principal"},
		}
		for _, row := range a.Schedule {
			schedule.add(row.Month, row.Payment, row.Principal, row.Interest, row.RemainingPrincipal)
		}
		out = append(out, schedule)
	}

	return out
}
