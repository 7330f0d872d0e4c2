// Package config loads service settings from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Notifier kinds.
const (
	NotifierLocal = "local"
	NotifierRedis = "redis"
)

// Config holds application configuration.
type Config struct {
	SpannerDB string
	GRPCPort  string
	HTTPPort  string

	Logger LoggerConfig

	// Notifier selects how rate changes reach other instances: "local" or "redis".
	Notifier      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	KafkaBrokers []string
	KafkaTopic   string

	// ResyncSchedule is a cron expression for re-reading rates; empty disables it.
	ResyncSchedule string

	RelayBatchSize int64
	RelayInterval  time.Duration

	OutboxRetention time.Duration
}

// LoggerConfig controls zap output.
type LoggerConfig struct {
	Mode       string // "production" or "development"
	Level      string
	FileEnable bool
	Filename   string
}

// Load reads the environment, optionally seeded from .env files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		SpannerDB: getEnvOrDefault("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/jewel-pricing-db"),
		GRPCPort:  getEnvOrDefault("GRPC_PORT", "9090"),
		HTTPPort:  getEnvOrDefault("HTTP_PORT", "8080"),
		Logger: LoggerConfig{
			Mode:       getEnvOrDefault("LOG_MODE", "development"),
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			FileEnable: cast.ToBool(getEnvOrDefault("LOG_FILE_ENABLE", "false")),
			Filename:   getEnvOrDefault("LOG_FILE", "logs/jewel-pricing.log"),
		},
		Notifier:        strings.ToLower(getEnvOrDefault("RATE_NOTIFIER", NotifierLocal)),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         cast.ToInt(getEnvOrDefault("REDIS_DB", "0")),
		RedisChannel:    getEnvOrDefault("REDIS_RATE_CHANNEL", "metal_rates.changed"),
		KafkaBrokers:    splitList(getEnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:      getEnvOrDefault("KAFKA_TOPIC", "jewel-pricing.events"),
		ResyncSchedule:  os.Getenv("RATE_RESYNC_SCHEDULE"),
		RelayBatchSize:  cast.ToInt64(getEnvOrDefault("RELAY_BATCH_SIZE", "100")),
		RelayInterval:   cast.ToDuration(getEnvOrDefault("RELAY_INTERVAL", "2s")),
		OutboxRetention: cast.ToDuration(getEnvOrDefault("OUTBOX_RETENTION", "168h")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Notifier {
	case NotifierLocal, NotifierRedis:
	default:
		return fmt.Errorf("RATE_NOTIFIER must be %q or %q, got %q", NotifierLocal, NotifierRedis, c.Notifier)
	}
	if c.SpannerDB == "" {
		return fmt.Errorf("SPANNER_DATABASE is required")
	}
	if c.RelayBatchSize <= 0 {
		return fmt.Errorf("RELAY_BATCH_SIZE must be positive")
	}
	if c.RelayInterval <= 0 {
		return fmt.Errorf("RELAY_INTERVAL must be a positive duration")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
