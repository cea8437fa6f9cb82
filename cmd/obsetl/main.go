package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-obs-pipeline/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/weather-obs-pipeline/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-obs-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/weather-obs-pipeline/internal/config"
	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
	"github.com/couchcryptid/weather-obs-pipeline/internal/observability"
	"github.com/couchcryptid/weather-obs-pipeline/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Seed from RANDOM_SEED when set so a run can be reproduced exactly.
	seed := cfg.RandomSeed
	if !cfg.SeedSet {
		seed = domain.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("sampling seeded", "seed", seed, "explicit", cfg.SeedSet)

	reader := csvfile.NewReader(cfg.InputPath, logger)
	p := pipeline.New(logger, metrics, cfg.SampleSize, rng)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	raw, err := reader.Load()
	if err != nil {
		logger.Error("failed to load observations", "path", cfg.InputPath, "error", err)
		os.Exit(1)
	}

	result, err := p.Run(raw)
	if err != nil {
		logger.Error("pipeline error", "error", err)
		os.Exit(1)
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		if err := writer.PublishResult(ctx, result); err != nil {
			logger.Error("kafka publish error", "error", err)
		}
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("serving results", "addr", cfg.HTTPAddr)
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
