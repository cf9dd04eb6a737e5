package reminder

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glizzus/traytimer/internal/schedule"
)

// Service is the front end the tray menus talk to. It owns a scheduling
// engine and re-arms recurring reminders after each delivery.
type Service struct {
	engine  *schedule.Engine
	presets []Preset
	logger  *slog.Logger
}

// NewService starts an engine that delivers to sink. The options are passed
// to the engine; the service adds its own observer.
func NewService(sink schedule.Sink, presets []Preset, logger *slog.Logger, opts ...schedule.Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		presets: presets,
		logger:  logger,
	}
	opts = append([]schedule.Option{schedule.WithLogger(logger)}, opts...)
	opts = append(opts, schedule.WithObserver(s.rearm))
	s.engine = schedule.NewEngine(sink, opts...)
	return s
}

func (s *Service) Presets() []Preset {
	return s.presets
}

// Now returns the current time according to the engine.
func (s *Service) Now() time.Time {
	return s.engine.Now()
}

// Brew starts the preset at index i, counting from zero.
func (s *Service) Brew(i int) (schedule.ID, error) {
	if i < 0 || i >= len(s.presets) {
		return 0, fmt.Errorf("no preset number %d", i+1)
	}
	p := s.presets[i]
	return s.engine.After(p, p.Duration())
}

// Sleep delivers text once d has elapsed. A duration of zero or less is
// delivered immediately with the overdue title.
func (s *Service) Sleep(d time.Duration, text string) (schedule.ID, error) {
	return s.engine.After(Message{Text: text, Overdue: d <= 0}, d)
}

// WaitUntil delivers text at the given time. A time that has already passed
// is delivered immediately with the overdue title.
func (s *Service) WaitUntil(at time.Time, text string) (schedule.ID, error) {
	overdue := !at.After(s.engine.Now())
	if overdue {
		s.logger.Warn("requested time already passed, delivering now", slog.Time("at", at), slog.String("text", text))
	}
	return s.engine.Schedule(Message{Text: text, Overdue: overdue}, at)
}

// Repeat delivers text every time the cron expression matches, until the
// currently pending occurrence is cancelled.
func (s *Service) Repeat(cron, text string) (schedule.ID, error) {
	cron = strings.TrimSpace(cron)
	next, err := schedule.NextFireTime(cron, s.engine.Now())
	if err != nil {
		return 0, err
	}
	return s.engine.Schedule(Recurring{Cron: cron, Text: text}, next)
}

func (s *Service) Cancel(id schedule.ID) bool {
	return s.engine.Cancel(id)
}

func (s *Service) Get(id schedule.ID) (schedule.Notification, error) {
	return s.engine.Get(id)
}

// Pending returns the pending reminders, soonest first.
func (s *Service) Pending() []schedule.Notification {
	return s.engine.List()
}

func (s *Service) Shutdown() {
	s.engine.Shutdown()
}

func (s *Service) rearm(ev schedule.Event) {
	if ev.State != schedule.StateDelivered {
		return
	}
	r, ok := ev.Notification.Payload.(Recurring)
	if !ok {
		return
	}

	after := ev.Notification.FireAt
	if now := s.engine.Now(); now.After(after) {
		after = now
	}
	next, err := schedule.NextFireTime(r.Cron, after)
	if err != nil {
		s.logger.Error("failed to compute next occurrence", slog.String("cron", r.Cron), slog.Any("error", err))
		return
	}

	id, err := s.engine.Schedule(r, next)
	switch {
	case errors.Is(err, schedule.ErrEngineStopped):
		s.logger.Debug("not re-arming recurring reminder after shutdown", slog.String("cron", r.Cron))
	case err != nil:
		s.logger.Error("failed to re-arm recurring reminder", slog.String("cron", r.Cron), slog.Any("error", err))
	default:
		s.logger.Debug(
			"re-armed recurring reminder",
			slog.Uint64("id", uint64(id)),
			slog.String("cron", r.Cron),
			slog.Time("next", next),
		)
	}
}
