package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hospvida/hospital-admin-bff/internal/config"
	"github.com/hospvida/hospital-admin-bff/internal/handler"
	"github.com/hospvida/hospital-admin-bff/internal/infra/cache"
	"github.com/hospvida/hospital-admin-bff/internal/infra/hospital"
	"github.com/hospvida/hospital-admin-bff/internal/infra/observability"
	"github.com/hospvida/hospital-admin-bff/internal/infra/resilience"
	"github.com/hospvida/hospital-admin-bff/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("hospital_api_url", cfg.HospitalAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_attempts", cfg.MaxAttempts),
		zap.Duration("base_delay", cfg.BaseDelay),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "hospital-admin-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	envelopeCache := cache.New(cfg.CacheTTL)
	defer envelopeCache.Close()

	// --- Resilience ---
	policy := resilience.RetryPolicy{
		MaxAttempts:       cfg.MaxAttempts,
		BaseDelay:         cfg.BaseDelay,
		MaxDelay:          cfg.MaxDelay,
		BackoffMultiplier: cfg.BackoffMultiplier,
	}
	cb := resilience.NewCircuitBreaker("hospital-api")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Hospital API client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	probe := hospital.NewProbe(httpClient, cfg.HospitalAPIURL, cfg.ProbeTimeout, cfg.ProbeInterval, logger)
	hospitalClient := hospital.NewClient(httpClient, cfg.HospitalAPIURL, cb, policy, bulkhead, probe, metrics, logger)

	// --- Services ---
	patientSvc := service.NewPatientService(hospitalClient, envelopeCache, metrics, logger)
	schedulingSvc := service.NewSchedulingService(hospitalClient, envelopeCache, metrics, logger)
	overviewSvc := service.NewOverviewService(patientSvc, schedulingSvc, metrics, logger)
	authSvc := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTAccessTTL, logger)

	// --- Router ---
	router := handler.NewRouter(patientSvc, schedulingSvc, overviewSvc, authSvc, probe, metrics, logger, cfg.AllowedOrigins)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
