package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/brauni/hydrarr/internal/bot"
	"github.com/brauni/hydrarr/internal/config"
	"github.com/brauni/hydrarr/internal/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	defer cfg.Logger.Sync()

	cfg.Logger.Info("Starting Hydrarr",
		zap.String("services_file", cfg.Services.File),
		zap.String("page_origin", cfg.Services.PageOrigin),
		zap.Duration("request_timeout", cfg.Services.RequestTimeout))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Create bot instance
	botInstance, err := bot.NewBot(cfg, m)
	if err != nil {
		cfg.Logger.Fatal("Failed to create bot instance",
			zap.Error(err))
	}

	cfg.Logger.Info("Bot created successfully",
		zap.String("bot_info", botInstance.GetBotInfo()))

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, registry, cfg.Logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				cfg.Logger.Error("Metrics server stopped with error",
					zap.Error(err))
				cancel()
			}
		}()
	}

	// Start bot in a goroutine
	go func() {
		if err := botInstance.Start(); err != nil {
			cfg.Logger.Error("Bot stopped with error",
				zap.Error(err))
			cancel()
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-sigChan:
		cfg.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()))
	case <-ctx.Done():
		cfg.Logger.Info("Context cancelled, shutting down")
	}

	// Graceful shutdown
	botInstance.Stop()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			cfg.Logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
		shutdownCancel()
	}
	cfg.Logger.Info("Hydrarr shutdown complete")
}
