package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/glizzus/traytimer/internal/config"
	"github.com/glizzus/traytimer/internal/datalayer"
	"github.com/glizzus/traytimer/internal/generator"
	"github.com/glizzus/traytimer/internal/handler"
	"github.com/glizzus/traytimer/internal/notify"
	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/repository"
	"github.com/glizzus/traytimer/internal/schedule"
)

const historySaveTimeout = 5 * time.Second

func loadConfig() (*config.TrayConfig, error) {
	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			slog.Debug("No .env file found, continuing without it")
		} else {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg, err := config.NewTrayConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadPresets(path string) ([]reminder.Preset, error) {
	p, err := config.LoadPresets(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("No presets file found, using the built-in presets", "path", path)
		return reminder.DefaultPresets, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load presets from %s: %w", path, err)
	}
	return reminder.PresetsFromConfig(p), nil
}

// cleanup collects the close functions of everything run opens.
type cleanup []func()

func (c *cleanup) add(f func()) {
	*c = append(*c, f)
}

func (c cleanup) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func buildSinks(ctx context.Context, cfg *config.TrayConfig, sessionID string, closers *cleanup) ([]notify.Sink, error) {
	var sinks []notify.Sink
	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkLog:
			sinks = append(sinks, &notify.LogSink{Logger: slog.Default()})

		case config.SinkDBus:
			sink, err := notify.NewDBusSink(cfg.AppName, cfg.IconDir)
			if err != nil {
				return nil, err
			}
			closers.add(func() {
				if err := sink.Close(); err != nil {
					slog.Warn("failed to close session bus connection", "error", err)
				}
			})
			sinks = append(sinks, sink)

		case config.SinkRedis:
			redisCfg, err := config.NewRedisConfigFromEnv()
			if err != nil {
				return nil, fmt.Errorf("failed to load redis config: %w", err)
			}
			client := redis.NewClient(&redis.Options{
				Addr:     redisCfg.Addr,
				Password: redisCfg.Password,
				DB:       redisCfg.DB,
			})
			if err := client.Ping(ctx).Err(); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("failed to reach redis: %w", err)
			}
			closers.add(func() {
				if err := client.Close(); err != nil {
					slog.Warn("failed to close redis client", "error", err)
				}
			})
			sinks = append(sinks, notify.NewRedisStreamSink(client, redisCfg.Stream, sessionID).WithMaxLen(redisCfg.MaxLen))

		case config.SinkDiscord:
			discordCfg, err := config.NewDiscordConfigFromEnv()
			if err != nil {
				return nil, fmt.Errorf("failed to load discord config: %w", err)
			}
			session, err := notify.NewDiscordSession(discordCfg.Token)
			if err != nil {
				return nil, err
			}
			closers.add(func() {
				if err := session.Close(); err != nil {
					slog.Warn("failed to close discord session", "error", err)
				}
			})
			sinks = append(sinks, notify.NewDiscordSink(session, discordCfg.ChannelID))
		}
	}
	return sinks, nil
}

func buildHistory(ctx context.Context, cfg *config.TrayConfig, closers *cleanup) (repository.HistoryRepository, error) {
	if cfg.History != config.HistoryPostgres {
		return repository.NewMemoryHistoryRepository(), nil
	}

	pool, err := datalayer.NewPostgresPoolFromEnv(ctx)
	if err != nil {
		return nil, err
	}
	closers.add(pool.Close)

	if err := datalayer.MigratePostgres(pool); err != nil {
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}
	return repository.NewPostgresHistoryRepository(pool), nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(cfg.Level())

	presets, err := loadPresets(cfg.PresetsFile)
	if err != nil {
		return err
	}

	sessionID, err := (&generator.UUIDV4Generator{}).Next()
	if err != nil {
		return fmt.Errorf("failed to generate session id: %w", err)
	}
	logger := slog.Default().With("session", sessionID)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers cleanup
	defer closers.run()

	sinks, err := buildSinks(ctx, cfg, sessionID, &closers)
	if err != nil {
		return err
	}
	var sink notify.Sink = notify.MultiSink(sinks)
	if len(sinks) == 1 {
		sink = sinks[0]
	}
	history, err := buildHistory(ctx, cfg, &closers)
	if err != nil {
		return err
	}

	svc := reminder.NewService(sink, presets, logger,
		schedule.WithObserver(repository.Recorder(history, sessionID, historySaveTimeout)),
	)
	defer svc.Shutdown()

	logger.Info("traytimer started", "presets", len(presets), "sinks", cfg.Sinks, "history", cfg.History)

	shell := handler.NewShell(svc, history, c.App.Writer)
	if err := shell.Execute(ctx, "menu"); err != nil {
		return err
	}
	if err := shell.Run(ctx, os.Stdin); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	if pending := len(svc.Pending()); pending > 0 {
		logger.Info("cancelling pending notifications", "count", pending)
	}
	return nil
}
