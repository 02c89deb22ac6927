package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/roi-forecast/internal/config"
	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/output"
	"github.com/iwvelando/roi-forecast/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation   string
	logLevel         string
	outputFormatFlag string
	outputFileFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "roi-forecast",
	Short: "Home improvement and contractor ROI calculator",
	Long: "Projects return on investment, payback and break-even for homeowner improvements, " +
		"contractor business economics and solar, HVAC and remodeling quotes.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to inputs file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, xlsx")
	rootCmd.PersistentFlags().StringVar(&outputFileFlag, "output-file", "", "write output to this file instead of stdout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfiguration reads the inputs file. A missing default file yields an
// empty configuration so calculator commands can run from flags alone.
func loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(configLocation)
	if err == nil {
		return conf, nil
	}
	if !cmd.Flags().Changed("config") {
		if _, statErr := os.Stat(configLocation); errors.Is(statErr, fs.ErrNotExist) {
			return config.LoadConfigurationFromReader(strings.NewReader(""))
		}
	}
	return nil, eris.Wrapf(err, "failed to load configuration at %s", configLocation)
}

// setup loads the inputs file and builds the logger every calculator
// command shares.
func setup(cmd *cobra.Command) (*config.Configuration, *zap.Logger, error) {
	conf, err := loadConfiguration(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.NewLogger(conf.Logging, logLevel)
	if err != nil {
		return nil, nil, eris.Wrap(err, "failed to initialize logger")
	}
	return conf, logger, nil
}

// emit writes the report in the format chosen by flag, then inputs file,
// then the pretty default.
func emit(cmd *cobra.Command, logger *zap.Logger, conf *config.Configuration, report *forecast.Report) error {
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	outputFile := conf.Output.File
	if outputFileFlag != "" {
		outputFile = outputFileFlag
	}
	if outputFile == "" {
		if outputFormat == constants.OutputFormatXLSX {
			return eris.New("xlsx output requires --output-file")
		}
		return output.Render(cmd.OutOrStdout(), outputFormat, report)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return eris.Wrapf(err, "failed to create output file %s", outputFile)
	}
	if err := output.Render(f, outputFormat, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "failed to close output file %s", outputFile)
	}
	logger.Info(fmt.Sprintf("wrote %s output to %s", outputFormat, outputFile),
		zap.String("op", "main.emit"),
	)
	return nil
}

func logWarnings(logger *zap.Logger, op string, warnings []string) {
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}
}
