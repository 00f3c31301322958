package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream feeds.
	ZoneFeedURL  string
	DepthFeedURL string
	FeedTimeout  time.Duration

	// Scenario cache.
	CacheTTL time.Duration

	// Warmup prefetches all scenarios concurrently at startup.
	WarmupEnabled bool

	// Kafka summary publishing (disabled when no brokers are configured).
	KafkaBrokers      []string
	KafkaSummaryTopic string
	KafkaEnabled      bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	feedTimeout, err := parseDurationEnv("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDurationEnv("CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ZoneFeedURL:  envOrDefault("ZONE_FEED_URL", "https://data.risicokaart.example/overstromingen/zones"),
		DepthFeedURL: envOrDefault("DEPTH_FEED_URL", "https://data.risicokaart.example/overstromingen/waterdiepte"),
		FeedTimeout:  feedTimeout,

		CacheTTL:      cacheTTL,
		WarmupEnabled: os.Getenv("WARMUP_ENABLED") == "true",

		KafkaBrokers:      brokers,
		KafkaSummaryTopic: envOrDefault("KAFKA_SUMMARY_TOPIC", "flood-risk-summaries"),
		KafkaEnabled:      kafkaEnabled,
	}

	if cfg.ZoneFeedURL == "" {
		return nil, errors.New("ZONE_FEED_URL is required")
	}
	if cfg.DepthFeedURL == "" {
		return nil, errors.New("DEPTH_FEED_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
