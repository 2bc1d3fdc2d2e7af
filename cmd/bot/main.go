// Package main provides the entry point for the BetPulse signal daemon.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betpulse/internal/bot"
	"github.com/yourusername/betpulse/internal/config"
	"github.com/yourusername/betpulse/internal/database"
	"github.com/yourusername/betpulse/internal/health"
	"github.com/yourusername/betpulse/internal/logger"
	"github.com/yourusername/betpulse/internal/metrics"
	"github.com/yourusername/betpulse/internal/repository"
	"github.com/yourusername/betpulse/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	configPath := os.Getenv("BETPULSE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"build_date":  BuildDate,
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("BetPulse signal daemon starting")

	stdLog := log.New(os.Stdout, "betpulse: ", log.LstdFlags)

	if os.Getenv("XRAY_ENABLED") == "true" {
		daemonAddr := os.Getenv("XRAY_DAEMON_ADDR")
		if daemonAddr == "" {
			daemonAddr = "localhost:2000"
		}
		if err := tracing.Initialize(tracing.Config{
			ServiceName:  "betpulse-bot",
			Enabled:      true,
			SamplingRate: 0.1,
			DaemonAddr:   daemonAddr,
		}, appLog); err != nil {
			appLog.WithError(err).Warn("Failed to initialize X-Ray tracing")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established and schema verified")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	metrics.InitRegistry()

	orchestrator, err := bot.NewOrchestrator(ctx, cfg, db, repos, appLog, stdLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create orchestrator")
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
		Pipeline:    orchestrator,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg, appLog)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := orchestrator.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start orchestrator")
	}
	healthServer.SetReady(true)

	status := orchestrator.GetStatus()
	appLog.WithFields(logrus.Fields{
		"sports":          status.Sports,
		"jobs":            status.ScheduledJobs,
		"publishing":      status.PublishingEnabled,
		"circuit_breaker": status.CircuitBreakerState.String(),
	}).Info("BetPulse is running")

	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := orchestrator.Stop(); err != nil {
		appLog.WithError(err).Error("Error during orchestrator shutdown")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Shutdown complete")
}

func serveMetrics(cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.WithFields(logrus.Fields{
		"port": cfg.Metrics.Port,
		"path": cfg.Metrics.Path,
	}).Info("Metrics server starting")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Error("Metrics server error")
	}
}
