// Package notify delivers fired notifications: to the log, to the desktop
// notification daemon over D-Bus, to a Redis stream, or to a Discord channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glizzus/traytimer/internal/schedule"
)

// Sink is re-exported so callers need not import schedule to implement one.
type Sink = schedule.Sink

// iconer is implemented by payloads that carry an icon file name.
type iconer interface {
	Icon() string
}

func iconOf(d schedule.Delivery) string {
	if i, ok := d.Payload.(iconer); ok {
		return i.Icon()
	}
	return ""
}

// LogSink writes every delivery to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) Deliver(ctx context.Context, d schedule.Delivery) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(
		ctx,
		"Notification",
		slog.Uint64("id", uint64(d.ID)),
		slog.String("title", d.Title),
		slog.String("body", d.Body),
		slog.Time("fireAt", d.FireAt),
		slog.Bool("overdue", d.Overdue),
	)
	return nil
}

var _ Sink = (*LogSink)(nil)

// MultiSink delivers to every sink in order and joins their errors.
// A failing sink does not prevent delivery to the others.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, d schedule.Delivery) error {
	var errs []error
	for i, s := range m {
		if err := s.Deliver(ctx, d); err != nil {
			errs = append(errs, fmt.Errorf("sink %d (%T): %w", i, s, err))
		}
	}
	return errors.Join(errs...)
}

var _ Sink = MultiSink(nil)
