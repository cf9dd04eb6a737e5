package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sethvargo/go-envconfig"
)

// DiscordConfig describes the bot that posts fired notifications to a channel.
type DiscordConfig struct {
	Token     string `env:"DISCORD_TOKEN, required"`
	ChannelID string `env:"DISCORD_CHANNEL_ID, required"`
}

func NewDiscordConfigFromEnv() (*DiscordConfig, error) {
	return newDiscordConfig(envconfig.OsLookuper())
}

func newDiscordConfig(lookuper envconfig.Lookuper) (*DiscordConfig, error) {
	var cfg DiscordConfig
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	// Channel IDs are snowflakes.
	if _, err := strconv.ParseUint(cfg.ChannelID, 10, 64); err != nil {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID %q is not a channel id", cfg.ChannelID)
	}
	return &cfg, nil
}
