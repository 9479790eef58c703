package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"3001" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// StoreBackend picks the record-store implementation at startup; the
	// HTTP layer is identical for all three.
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite" validate:"required,oneof=memory sqlite postgres"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"data/ea-client.db"`
	DatabaseURL  string `env:"DATABASE_URL" validate:"required_if=StoreBackend postgres"`

	// Memory backend only: where and how often to flush a JSON snapshot.
	// An empty schedule disables flushing entirely.
	SnapshotPath     string `env:"SNAPSHOT_PATH" envDefault:"data/ea-client.json"`
	SnapshotSchedule string `env:"SNAPSHOT_SCHEDULE" envDefault:"@every 30s"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	// SeedDemoData inserts the demo admin account and two sample users on
	// startup when the store is empty.
	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
