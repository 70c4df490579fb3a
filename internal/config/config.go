package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Config struct {
	HTTPAddr string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	KafkaBrokers []string
	KafkaTopic   string

	OutboxInterval  time.Duration
	OutboxBatchSize int

	MaxCascadeDepth int

	LogLevel  string
	LogFormat string
}

// RelayEnabled reports whether outbox records should be pushed to Kafka.
func (c Config) RelayEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.StoreDriver != StoreMemory
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:     envOr("HTTP_ADDR", ":8081"),
		StoreDriver:  strings.ToLower(envOr("STORE_DRIVER", StoreMemory)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   envOr("SQLITE_PATH", "workflow.db"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOr("KAFKA_TOPIC", "workflow-events"),
		LogLevel:     strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(envOr("LOG_FORMAT", LogFormatJSON)),
	}

	var err error
	if cfg.OutboxInterval, err = durationEnv("OUTBOX_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBatchSize, err = intEnv("OUTBOX_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.MaxCascadeDepth, err = intEnv("MAX_CASCADE_DEPTH", 16); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is empty")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is empty")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is empty")
	}
	if c.OutboxInterval <= 0 {
		return fmt.Errorf("OUTBOX_INTERVAL must be positive, got: %v", c.OutboxInterval)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got: %d", c.OutboxBatchSize)
	}
	if c.MaxCascadeDepth <= 0 {
		return fmt.Errorf("MAX_CASCADE_DEPTH must be positive, got: %d", c.MaxCascadeDepth)
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatConsole {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
