package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// RedisConfig describes the stream that fired notifications are published to.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, required"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	Stream   string `env:"REDIS_STREAM, default=traytimer_notifications"`
	// MaxLen caps the stream length approximately. Zero keeps every entry.
	MaxLen int64 `env:"REDIS_STREAM_MAXLEN, default=1000"`
}

func NewRedisConfigFromEnv() (*RedisConfig, error) {
	return newRedisConfig(envconfig.OsLookuper())
}

func newRedisConfig(lookuper envconfig.Lookuper) (*RedisConfig, error) {
	var cfg RedisConfig
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if cfg.Stream == "" {
		return nil, fmt.Errorf("REDIS_STREAM must not be empty")
	}
	if cfg.MaxLen < 0 {
		return nil, fmt.Errorf("REDIS_STREAM_MAXLEN must not be negative, got %d", cfg.MaxLen)
	}
	return &cfg, nil
}
