package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ServiceName     string

	// NASA NeoWs feed configuration.
	NEOAPIURL    string
	NEOAPIKey    string
	NEOEnabled   bool
	NEOTimeout   time.Duration
	NEOCacheTTL  time.Duration
	NEOCacheSize int
	NEORateLimit float64

	// SnapshotDir is the badger directory; empty keeps snapshots in memory.
	SnapshotDir string

	// Scenario pipeline configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	TracingEnabled     bool
	TracingSampleRatio float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	neoTimeout, err := parsePositiveDuration("NEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	neoCacheTTL, err := parsePositiveDuration("NEO_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NEO_RATE_LIMIT", "0.5"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NEO_RATE_LIMIT")
	}

	sampleRatio, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("TRACING_SAMPLE_RATIO", "1.0"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, errors.New("invalid TRACING_SAMPLE_RATIO")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ServiceName:     sharedcfg.EnvOrDefault("SERVICE_NAME", "impact-sim"),

		NEOAPIURL:    sharedcfg.EnvOrDefault("NEO_API_URL", "https://api.nasa.gov/neo/rest/v1/feed"),
		NEOAPIKey:    sharedcfg.EnvOrDefault("NEO_API_KEY", "DEMO_KEY"),
		NEOEnabled:   parseBool("NEO_ENABLED", true),
		NEOTimeout:   neoTimeout,
		NEOCacheTTL:  neoCacheTTL,
		NEOCacheSize: parseCacheSize(),
		NEORateLimit: rateLimit,

		SnapshotDir: os.Getenv("SNAPSHOT_DIR"),

		KafkaEnabled:       parseBool("KAFKA_ENABLED", false),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "impact-scenarios"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "impact-simulations"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "impact-sim"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		TracingEnabled:     parseBool("TRACING_ENABLED", false),
		TracingSampleRatio: sampleRatio,
	}

	if cfg.NEOEnabled && cfg.NEOAPIURL == "" {
		return nil, errors.New("NEO_ENABLED is true but NEO_API_URL is not set")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}

func parseCacheSize() int {
	if s := os.Getenv("NEO_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 32
}
