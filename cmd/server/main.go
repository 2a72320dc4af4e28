package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ricirt/accounts-api/internal/api"
	"github.com/ricirt/accounts-api/internal/auth"
	"github.com/ricirt/accounts-api/internal/config"
	"github.com/ricirt/accounts-api/internal/db"
	"github.com/ricirt/accounts-api/internal/health"
	"github.com/ricirt/accounts-api/internal/metrics"
	"github.com/ricirt/accounts-api/internal/ratelimiter"
	"github.com/ricirt/accounts-api/internal/repository"
	"github.com/ricirt/accounts-api/internal/service"
	"github.com/ricirt/accounts-api/internal/worker"
)

func main() {
	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	users := repository.NewPgUserRepository(pool)
	roles := repository.NewPgRoleRepository(pool)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL)
	svc := service.NewUserService(users, roles, tokens, logger)

	checker := health.NewChecker(pool, cfg.Environment, cfg.Version, logger,
		health.WithTimeout(cfg.HealthCheckTimeout),
		health.WithObserver(m.ObserveHealthCheck),
	)
	limiter := ratelimiter.New(cfg.RateLimitPerClient, 10*time.Minute)

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	probe := worker.NewHealthProbe(checker, cfg.HealthProbeInterval, logger)
	go probe.Run(workerCtx)
	go limiter.RunSweeper(workerCtx, time.Minute)

	// ---- HTTP server ----
	router := api.NewRouter(checker, svc, limiter, m, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("version", cfg.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	cancelWorkers()

	logger.Info("server stopped cleanly")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", "accounts-api"))
}
