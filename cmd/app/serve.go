package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"stockdesk/internal/adapter"
	"stockdesk/internal/database"
	httpdelivery "stockdesk/internal/delivery/http"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
	"stockdesk/internal/usecase"
	"stockdesk/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the prediction purge scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(cfg.Database.URL, log); err != nil {
				return err
			}
		}

		// Initialize database
		db, err := infra.NewDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		// Initialize repositories
		holdingRepo := repository.NewHoldingRepository(db)
		positionRepo := repository.NewPositionRepository(db)
		orderRepo := repository.NewOrderRepository(db)
		userRepo := repository.NewUserRepository(db)
		barRepo := repository.NewStockBarRepository(db)
		predictionRepo := repository.NewPredictionRepository(db)

		// Initialize ML bridge
		mlBridge := adapter.NewMLBridge(cfg.ML, log)

		log.Info("Checking ML service health...", logger.Field("url", cfg.ML.URL))
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mlBridge.HealthCheck(healthCtx); err != nil {
			log.Warn("ML service is not available; prediction endpoints will fail until it is running",
				logger.ErrorField(err))
		} else {
			log.Info("ML service is healthy")
		}
		cancel()

		// Initialize services
		predictionService := usecase.NewPredictionService(mlBridge, predictionRepo, usecase.PredictionOptions{
			TTL:          cfg.Predictions.TTL,
			ModelVersion: cfg.Predictions.ModelVersion,
			HistoryLimit: cfg.Predictions.HistoryLimit,
			Coalesce:     cfg.ML.CoalescePredictions,
		}, log)
		authService := usecase.NewAuthService(userRepo, log)

		// Expired predictions are hidden on read; the scheduler reclaims the rows
		scheduler := infra.NewScheduler(predictionRepo, cfg.Predictions.PurgeSchedule, log)
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Stop()

		// Initialize HTTP router
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true

		httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
			AuthHandler:       httpdelivery.NewAuthHandler(authService, log),
			PredictionHandler: httpdelivery.NewPredictionHandler(predictionService, log),
			PortfolioHandler:  httpdelivery.NewPortfolioHandler(holdingRepo, positionRepo, orderRepo, log),
			MarketDataHandler: httpdelivery.NewMarketDataHandler(barRepo, log),
			HealthHandler:     httpdelivery.NewHealthHandler(db, mlBridge),
			AdminAPIKey:       cfg.Auth.AdminAPIKey,
			Logger:            log,
		})

		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		srv := &http.Server{
			Addr:        addr,
			Handler:     e,
			ReadTimeout: 15 * time.Second,
			// Training requests can run as long as the ML client allows
			WriteTimeout: cfg.ML.Timeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			log.Info("Server starting",
				logger.Field("addr", addr),
				logger.Field("env", cfg.Server.Env),
				logger.Field("ml_service_url", cfg.ML.URL),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		select {
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		case <-ctx.Done():
		}

		log.Info("Shutting down server...")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info("Server exited gracefully")
		return nil
	},
}
