package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "filetrack/pkg/platform/strings"
)

// Config captures process-level configuration. Populated from the
// environment so main stays lean.
type Config struct {
	Addr          string
	JWTSigningKey string

	// PostgresDSN selects durable storage; empty means in-memory stores
	// (useful for local development and tests).
	PostgresDSN string

	// RedisURL enables the directory read-through cache; empty disables it.
	RedisURL string

	// KafkaBrokers enables the Kafka notification publisher; empty falls
	// back to the in-process queue with a logging worker.
	KafkaBrokers []string
	KafkaTopic   string

	// LockWait bounds how long a routing call waits for the per-file lock
	// before failing with a retryable conflict.
	LockWait time.Duration

	// ConflictRetries bounds internal retries of the store-level version
	// check before surfacing conflict to the caller.
	ConflictRetries int
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("FILETRACK_ADDR", ":8080"),
		JWTSigningKey:   envOr("FILETRACK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PostgresDSN:     os.Getenv("FILETRACK_POSTGRES_DSN"),
		RedisURL:        os.Getenv("FILETRACK_REDIS_URL"),
		KafkaTopic:      envOr("FILETRACK_KAFKA_TOPIC", "filetrack.routing"),
		LockWait:        envDurationOr("FILETRACK_LOCK_WAIT", 2*time.Second),
		ConflictRetries: envIntOr("FILETRACK_CONFLICT_RETRIES", 3),
	}
	if brokers := os.Getenv("FILETRACK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = platformstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
