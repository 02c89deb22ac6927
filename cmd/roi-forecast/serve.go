package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/roi-forecast/internal/config"
	"github.com/iwvelando/roi-forecast/internal/server"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout  = 10 * time.Second
	cachePingTimeout = 5 * time.Second
)

var (
	serverConfigLocation string
	serveAddress         string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := server.LoadConfig(serverConfigLocation)
		if err != nil {
			return eris.Wrapf(err, "failed to load server configuration at %s", serverConfigLocation)
		}
		if serveAddress != "" {
			cfg.Address = serveAddress
		}

		logger, err := config.NewLogger(cfg.Logging, logLevel)
		if err != nil {
			return eris.Wrap(err, "failed to initialize logger")
		}
		defer func() {
			_ = logger.Sync()
		}()

		pingCtx, cancelPing := context.WithTimeout(ctx, cachePingTimeout)
		handler, resultCache, err := server.NewHandlerFromConfig(pingCtx, logger, cfg, version)
		cancelPing()
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server", zap.String("op", "main.serve"))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown failed", zap.String("op", "main.serve"), zap.Error(err))
			}
			if err := resultCache.Close(); err != nil {
				logger.Error("cache close failed", zap.String("op", "main.serve"), zap.Error(err))
			}
		}()

		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.String("cache", cfg.Cache.Backend),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from server config)")
	rootCmd.AddCommand(serveCmd)
}
