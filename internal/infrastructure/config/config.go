package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, default=dev-secret-key"`
	// JWTExpiresSeconds is the access token lifetime (default 1 hour).
	JWTExpiresSeconds int    `env:"JWT_EXPIRES_SECONDS, default=3600"`
	LogLevel          string `env:"LOG_LEVEL, default=info"`

	Postgres PostgresConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	// URL is required: startup fails when it is absent.
	URL string `env:"DATABASE_URL, required"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL returns the configured access token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresSeconds) * time.Second
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
