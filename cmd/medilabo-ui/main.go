package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/config"
	"github.com/abernathy-clinic/medilabo-ui/internal/gateway"
	v1 "github.com/abernathy-clinic/medilabo-ui/internal/handler/v1"
	"github.com/abernathy-clinic/medilabo-ui/internal/service"
	"github.com/abernathy-clinic/medilabo-ui/internal/session"
	"github.com/abernathy-clinic/medilabo-ui/pkg/logger"
	"github.com/abernathy-clinic/medilabo-ui/pkg/metrics"
	"github.com/abernathy-clinic/medilabo-ui/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	collector := metrics.NewCollector("medilabo_ui")

	gw := gateway.NewClient(cfg.Gateway, log.Named("gateway"), collector)
	sessions := session.NewExtractor(cfg.Gateway.SessionCookieName)
	patientViews := service.NewPatientViewService(gw, log.Named("patient_view"), collector)

	patients := v1.NewPatientHandler(patientViews, sessions, log.Named("handler"))
	router := v1.NewRouter(cfg, patients, log.Named("http"), collector)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("gateway", cfg.Gateway.BaseURL),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
