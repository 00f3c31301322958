package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/waterkaart/flood-risk-engine/internal/adapter/feeds"
	"github.com/waterkaart/flood-risk-engine/internal/adapter/httpapi"
	kafkaadapter "github.com/waterkaart/flood-risk-engine/internal/adapter/kafka"
	"github.com/waterkaart/flood-risk-engine/internal/aggregate"
	"github.com/waterkaart/flood-risk-engine/internal/config"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
	"github.com/waterkaart/flood-risk-engine/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	zones := feeds.NewZoneClient(cfg.ZoneFeedURL, cfg.FeedTimeout, logger)
	depths := feeds.NewDepthClient(cfg.DepthFeedURL, cfg.FeedTimeout, logger)

	// Summary publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher aggregate.SummaryPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSummaryTopic, logger)
		publisher = kafkaPublisher
		logger.Info("summary publishing enabled", "topic", cfg.KafkaSummaryTopic)
	} else {
		logger.Info("summary publishing disabled")
	}

	aggregator := aggregate.New(zones, depths, publisher, logger, metrics, cfg.FeedTimeout)
	cache := aggregate.NewCache(aggregator, cfg.CacheTTL, nil, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, cache, aggregator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.WarmupEnabled {
		go warmup(ctx, cache, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// warmup primes the cache for every scenario so the first client request is
// served hot. Failures are logged and left to the next request to retry.
func warmup(ctx context.Context, cache *aggregate.Cache, logger *slog.Logger) {
	for _, scenario := range domain.Scenarios {
		go func() {
			if _, err := cache.Get(ctx, scenario); err != nil {
				logger.Warn("warmup failed", "scenario", scenario, "error", err)
				return
			}
			logger.Info("warmup complete", "scenario", scenario)
		}()
	}
}
