package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server configuration, loaded from environment variables
type Config struct {
	// HTTP server
	Host string `env:"SHUTTLEDAY_HOST" envDefault:""`
	Port int    `env:"SHUTTLEDAY_PORT" envDefault:"8080"`

	// Storage backend ("memory" or "redis")
	StorageType string `env:"SHUTTLEDAY_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"SHUTTLEDAY_REDIS_URL" envDefault:"redis://localhost:6379"`

	// Event publishing over AMQP (disabled when the URL is empty)
	AMQPURL      string `env:"SHUTTLEDAY_AMQP_URL" envDefault:""`
	AMQPExchange string `env:"SHUTTLEDAY_AMQP_EXCHANGE" envDefault:"shuttleday.events"`

	// Engine tuning
	CorrectionWindow     time.Duration `env:"SHUTTLEDAY_CORRECTION_WINDOW" envDefault:"5s"`
	DefaultMatchDuration time.Duration `env:"SHUTTLEDAY_DEFAULT_MATCH_DURATION" envDefault:"15m"`

	// Logging ("debug", "info", "warn", "error")
	LogLevel string `env:"SHUTTLEDAY_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
