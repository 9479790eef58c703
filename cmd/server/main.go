package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaclient/user-api/config"
	"github.com/eaclient/user-api/internal/health"
	"github.com/eaclient/user-api/internal/infrastructure"
	ctxlog "github.com/eaclient/user-api/internal/log"
	"github.com/eaclient/user-api/internal/metrics"
	"github.com/eaclient/user-api/internal/seed"
	httptransport "github.com/eaclient/user-api/internal/transport/http"
	"github.com/eaclient/user-api/internal/transport/http/handler"
	"github.com/eaclient/user-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	stores, err := infrastructure.Open(ctx, cfg)
	if err != nil {
		stop()
		log.Fatalf("store: %v", err)
	}
	defer stores.Close()

	logger.Info("store ready", "backend", stores.Backend)

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, stores.Users, stores.AuthUsers, logger); err != nil {
			stop()
			log.Fatalf("seed: %v", err)
		}
	}

	userUsecase := usecase.NewUserUsecase(stores.Users)
	userHandler := handler.NewUserHandler(userUsecase, logger)

	authUsecase := usecase.NewAuthUsecase(stores.AuthUsers)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(stores.Pinger, stores.Backend, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, userHandler, authHandler, authUsecase),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	flusher := newSnapshotFlusher(cfg, stores, logger)
	if flusher != nil {
		flusher.Start()
	}

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	if flusher != nil {
		flusher.Stop()
		// Last flush so a clean shutdown loses nothing since the previous tick.
		if err := stores.Memory.SaveSnapshot(cfg.SnapshotPath); err != nil {
			logger.Error("final snapshot", "error", err)
		}
	}
}

// newSnapshotFlusher schedules periodic snapshots of the memory backend.
// Returns nil when the configured backend persists on its own or flushing is
// disabled.
func newSnapshotFlusher(cfg *config.Config, stores *infrastructure.Stores, logger *slog.Logger) *cron.Cron {
	if stores.Memory == nil || cfg.SnapshotSchedule == "" || cfg.SnapshotPath == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.SnapshotSchedule, func() {
		start := time.Now()
		if err := stores.Memory.SaveSnapshot(cfg.SnapshotPath); err != nil {
			logger.Error("store snapshot", "error", err)
			metrics.SnapshotsTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
		metrics.SnapshotsTotal.WithLabelValues("ok").Inc()
	})
	if err != nil {
		log.Fatalf("snapshot schedule: %v", err)
	}

	logger.Info("snapshot flusher enabled", "schedule", cfg.SnapshotSchedule, "path", cfg.SnapshotPath)
	return c
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
