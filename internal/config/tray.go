package config

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

const (
	SinkLog     = "log"
	SinkDBus    = "dbus"
	SinkRedis   = "redis"
	SinkDiscord = "discord"

	HistoryMemory   = "memory"
	HistoryPostgres = "postgres"
)

var knownSinks = []string{SinkLog, SinkDBus, SinkRedis, SinkDiscord}

type TrayConfig struct {
	AppName     string   `env:"TRAYTIMER_APP_NAME, default=TeaReminder"`
	PresetsFile string   `env:"TRAYTIMER_PRESETS, default=presets.json"`
	IconDir     string   `env:"TRAYTIMER_ICON_DIR, default=icons"`
	Sinks       []string `env:"TRAYTIMER_SINKS, default=log"`
	History     string   `env:"TRAYTIMER_HISTORY, default=memory"`
	LogLevel    string   `env:"TRAYTIMER_LOG_LEVEL, default=info"`
}

func NewTrayConfigFromEnv() (*TrayConfig, error) {
	return newTrayConfig(envconfig.OsLookuper())
}

func newTrayConfig(lookuper envconfig.Lookuper) (*TrayConfig, error) {
	var cfg TrayConfig
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	for i, sink := range cfg.Sinks {
		sink = strings.ToLower(strings.TrimSpace(sink))
		if !slices.Contains(knownSinks, sink) {
			return nil, fmt.Errorf("unknown sink %q in TRAYTIMER_SINKS, expected one of %s", sink, strings.Join(knownSinks, ", "))
		}
		cfg.Sinks[i] = sink
	}
	if len(cfg.Sinks) == 0 {
		return nil, fmt.Errorf("TRAYTIMER_SINKS must name at least one sink")
	}

	cfg.History = strings.ToLower(cfg.History)
	if cfg.History != HistoryMemory && cfg.History != HistoryPostgres {
		return nil, fmt.Errorf("TRAYTIMER_HISTORY must be %q or %q, got %q", HistoryMemory, HistoryPostgres, cfg.History)
	}

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *TrayConfig) Level() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
