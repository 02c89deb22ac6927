package main

import (
	"strings"

	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/form"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inputFlags map[string]string

	amortizePrincipal float64
	amortizeRate      float64
	amortizeTerm      int
)

var homeownerCmd = &cobra.Command{
	Use:   "homeowner",
	Short: "Project homeowner ROI, break-even and ten-year savings",
	Example: `  roi-forecast homeowner
  roi-forecast homeowner --input installationCost=25000 --input loanTerm=10 --input interestRate=6.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		values, err := overlay(conf.Homeowner, inputFlags)
		if err != nil {
			return err
		}
		if values == nil {
			return eris.New("no homeowner inputs: add a homeowner section or pass --input")
		}
		data := form.Homeowner(values)

		report := &forecast.Report{Session: conf.Session, Homeowner: forecast.Homeowner(logger, data)}
		logWarnings(logger, "main.homeowner", report.Homeowner.Warnings)
		if data.Financed() && report.Homeowner.Result.NetCost >= 0 {
			report.Amortization, err = forecast.Amortization(logger, report.Homeowner.Result.NetCost, data.InterestRate, data.LoanTerm)
			if err != nil {
				return err
			}
		}
		return emit(cmd, logger, conf, report)
	},
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Project contractor monthly economics and five-year growth",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		values, err := overlay(conf.Provider, inputFlags)
		if err != nil {
			return err
		}
		if values == nil {
			return eris.New("no provider inputs: add a provider section or pass --input")
		}

		report := &forecast.Report{Session: conf.Session, Provider: forecast.Provider(logger, form.Provider(values))}
		logWarnings(logger, "main.provider", report.Provider.Warnings)
		return emit(cmd, logger, conf, report)
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote [niche]",
	Short: "Estimate a solar, HVAC or remodeling quote",
	Long: "Estimates quotes for one niche. With --input the quote is built from flags; " +
		"otherwise every quote of that niche in the inputs file is estimated. " +
		"The niche defaults to the session niche.",
	Example: `  roi-forecast quote solar --input systemSizeKW=8 --input monthlyBill=180
  roi-forecast quote hvac --input squareFootage=2000 --input systemType=heat-pump`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		nicheName := conf.Session.Niche
		if len(args) == 1 {
			nicheName = args[0]
		}
		niche, err := quote.ParseNiche(nicheName)
		if err != nil {
			return err
		}

		report := &forecast.Report{Session: conf.Session}
		if len(inputFlags) > 0 {
			req, err := form.QuoteRequest(niche, stringValues(inputFlags))
			if err != nil {
				return err
			}
			section, err := forecast.Quote(logger, "", req)
			if err != nil {
				return err
			}
			report.Quotes = append(report.Quotes, section)
		} else {
			for _, q := range conf.Quotes {
				req, err := q.Request(conf.Session.Niche)
				if err != nil {
					return err
				}
				if req.Niche != niche {
					continue
				}
				section, err := forecast.Quote(logger, q.Name, req)
				if err != nil {
					return err
				}
				report.Quotes = append(report.Quotes, section)
			}
		}
		if len(report.Quotes) == 0 {
			return eris.Errorf("no %s quotes: add one to the inputs file or pass --input", niche)
		}
		for _, q := range report.Quotes {
			logWarnings(logger, "main.quote", q.Warnings)
		}
		return emit(cmd, logger, conf, report)
	},
}

var amortizeCmd = &cobra.Command{
	Use:   "amortize",
	Short: "Print a month-by-month loan amortization schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		amortization, err := forecast.Amortization(logger, amortizePrincipal, amortizeRate, amortizeTerm)
		if err != nil {
			return err
		}
		return emit(cmd, logger, conf, &forecast.Report{Session: conf.Session, Amortization: amortization})
	},
}

func init() {
	for _, niche := range quote.Niches {
		quoteCmd.ValidArgs = append(quoteCmd.ValidArgs, niche.String())
	}
	quoteCmd.Long += " Niches: " + strings.Join(quoteCmd.ValidArgs, ", ") + "."

	for _, cmd := range []*cobra.Command{homeownerCmd, providerCmd, quoteCmd} {
		cmd.Flags().StringToStringVar(&inputFlags, "input", nil, "input field override as key=value (repeatable)")
		rootCmd.AddCommand(cmd)
	}

	amortizeCmd.Flags().Float64Var(&amortizePrincipal, "principal", 0, "amount financed")
	amortizeCmd.Flags().Float64Var(&amortizeRate, "rate", 0, "annual interest rate in percent")
	amortizeCmd.Flags().IntVar(&amortizeTerm, "term", 0, "loan term in years")
	_ = amortizeCmd.MarkFlagRequired("principal")
	_ = amortizeCmd.MarkFlagRequired("term")
	rootCmd.AddCommand(amortizeCmd)
}

// overlay merges key=value overrides onto a section of the inputs file. The
// section is round-tripped through YAML so its field names match the form
// keys. A nil section with no overrides yields nil.
func overlay[T any](section *T, overrides map[string]string) (form.Values, error) {
	values := form.Values{}
	present := false

	if section != nil {
		encoded, err := yaml.Marshal(section)
		if err != nil {
			return nil, eris.Wrap(err, "failed to encode inputs")
		}
		if err := yaml.Unmarshal(encoded, &values); err != nil {
			return nil, eris.Wrap(err, "failed to decode inputs")
		}
		present = true
	}

	for k, v := range overrides {
		values[strings.TrimSpace(k)] = v
		present = true
	}
	if !present {
		return nil, nil
	}
	return values, nil
}

func stringValues(m map[string]string) form.Values {
	values := make(form.Values, len(m))
	for k, v := range m {
		values[strings.TrimSpace(k)] = v
	}
	return values
}
