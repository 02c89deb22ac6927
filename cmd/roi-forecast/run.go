package main

import (
	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute every projection in the inputs file",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		logWarnings(logger, "main.run", conf.ValidateConfiguration())
		if conf.Empty() {
			return eris.Errorf("nothing to compute in %s", configLocation)
		}

		report, err := forecast.GetForecast(logger, *conf)
		if err != nil {
			logger.Error("failed to compute forecast",
				zap.String("op", "main.run"),
				zap.Error(err),
			)
			return err
		}
		return emit(cmd, logger, conf, report)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
