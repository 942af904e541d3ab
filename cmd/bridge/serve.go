package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"usdc_bridge/internal/infrastructure/restapi"
	"usdc_bridge/internal/pkg/logger"
	"usdc_bridge/internal/pkg/metrics"
	"usdc_bridge/internal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	app, err := newApplication(configPath)
	if err != nil {
		return err
	}
	zapLogger := app.zapLogger
	defer zapLogger.Sync() //nolint:errcheck

	shutdownTracer, err := tracing.InitTracer(app.cfg.Tracing.OTLPEndpoint)
	if err != nil {
		zapLogger.Warn("Tracing disabled", zap.Error(err))
	}
	defer shutdownTracer()

	metrics.MustRegisterMetrics()

	if app.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewBridgeHandler(app.routeService, logger.NewZapAdapter(zapLogger.Named("http")))
	router := restapi.SetupRouter(handler, zapLogger, app.cfg.Server)

	srv := &http.Server{
		Addr:         ":" + app.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(app.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(app.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(app.cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-quit:
	}
	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	zapLogger.Info("Server exiting")
	return nil
}
