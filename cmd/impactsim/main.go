package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/asteroid-impact-service/internal/adapter/kafka"
	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/asteroid-impact-service/internal/adapter/snapshot"
	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/couchcryptid/asteroid-impact-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	snapCfg := snapshot.DefaultConfig(cfg.SnapshotDir)
	snapCfg.Logger = logger
	store, err := snapshot.Open(snapCfg)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err, "dir", cfg.SnapshotDir)
		os.Exit(1)
	}

	// NEO feed (feature-flagged via NEO_ENABLED).
	var apiFeed httpadapter.AsteroidFeed
	var resolver domain.AsteroidResolver
	if cfg.NEOEnabled {
		client := neows.NewClient(cfg, metrics, logger)
		feed := neows.NewCachedFeed(client, neows.CacheConfig{
			Size:  cfg.NEOCacheSize,
			TTL:   cfg.NEOCacheTTL,
			Store: store,
		}, metrics, logger)
		apiFeed, resolver = feed, feed
		metrics.FeedEnabled.Set(1)
		logger.Info("neo feed enabled", "cache_size", cfg.NEOCacheSize, "cache_ttl", cfg.NEOCacheTTL, "rate_limit", cfg.NEORateLimit)
	} else {
		logger.Info("neo feed disabled")
	}

	// Scenario pipeline (feature-flagged via KAFKA_ENABLED).
	var ready sharedobs.ReadinessChecker = httpadapter.AlwaysReady{}
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	pipelineDone := make(chan struct{})
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		simulator := pipeline.NewScenarioSimulator(resolver, metrics, logger)
		p := pipeline.New(reader, simulator, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			defer close(pipelineDone)
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		close(pipelineDone)
		logger.Info("scenario pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, apiFeed, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("snapshot store close error", "error", err)
	}
	observability.ShutdownTracing(shutdownCtx, shutdownTracing, logger)

	logger.Info("shutdown complete")
}
