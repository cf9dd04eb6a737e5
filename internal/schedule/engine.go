package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glizzus/traytimer/internal/generator"
)

// ErrorHandler receives sink failures. It runs on the delivering goroutine,
// after the delivery stopped counting as in flight.
type ErrorHandler func(n Notification, err error)

// Observer receives every terminal transition. It runs outside the engine's
// locks, so it may call back into the engine.
type Observer func(ev Event)

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithIDGenerator replaces the ID sequence. Generated IDs must be strictly
// increasing.
func WithIDGenerator(ids generator.Generator[uint64]) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(e *Engine) {
		e.onError = h
	}
}

// WithObserver adds an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine schedules notifications and delivers each one to its sink exactly
// once, unless it is cancelled first. Removing an entry from the registry is
// what decides between delivery and cancellation.
type Engine struct {
	sink      Sink
	clock     Clock
	ids       generator.Generator[uint64]
	registry  *Registry
	logger    *slog.Logger
	onError   ErrorHandler
	observers []Observer

	// ctx is handed to the sink and cancelled by Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards timers and stopped, and orders inflight.Add before Shutdown's
	// Wait. It is always taken before the registry lock.
	mu       sync.Mutex
	timers   map[ID]Timer
	stopped  bool
	inflight sync.WaitGroup
}

// NewEngine returns a running engine that delivers to sink.
func NewEngine(sink Sink, opts ...Option) *Engine {
	e := &Engine{
		sink:   sink,
		clock:  SystemClock{},
		logger: slog.Default(),
		timers: make(map[ID]Timer),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.onError == nil {
		e.onError = func(n Notification, err error) {
			e.logger.Error(
				"failed to deliver notification",
				slog.Uint64("id", uint64(n.ID)),
				slog.String("title", n.Payload.Title()),
				slog.Any("error", err),
			)
		}
	}
	e.registry = NewRegistry(e.ids)
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

// Schedule registers p for delivery at fireAt and returns its ID. A deadline
// that is not in the future is delivered right away, still passing through
// the registry.
func (e *Engine) Schedule(p Payload, fireAt time.Time) (ID, error) {
	if p == nil {
		return 0, errors.New("schedule: payload must not be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return 0, ErrEngineStopped
	}

	now := e.clock.Now()
	if fireAt.Before(now) {
		fireAt = now
	}

	id, err := e.registry.Insert(Notification{
		Payload:   p,
		CreatedAt: now,
		FireAt:    fireAt,
	})
	if err != nil {
		return 0, fmt.Errorf("schedule: %w", err)
	}

	delay := fireAt.Sub(now)
	if delay <= 0 {
		go e.fire(id)
	} else {
		e.timers[id] = e.clock.AfterFunc(delay, func() { e.fire(id) })
	}

	e.logger.Debug(
		"scheduled notification",
		slog.Uint64("id", uint64(id)),
		slog.String("title", p.Title()),
		slog.Duration("in", delay),
	)
	return id, nil
}

// After schedules p for delivery once d has elapsed.
func (e *Engine) After(p Payload, d time.Duration) (ID, error) {
	return e.Schedule(p, e.clock.Now().Add(d))
}

// Cancel removes a pending notification and stops its timer. It returns false
// when the notification was already delivered, cancelled, or never existed.
func (e *Engine) Cancel(id ID) bool {
	e.mu.Lock()
	n, err := e.registry.Remove(id)
	if err != nil {
		e.mu.Unlock()
		return false
	}
	timer := e.timers[id]
	delete(e.timers, id)
	e.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}

	e.logger.Debug("cancelled notification", slog.Uint64("id", uint64(id)))
	e.emit(Event{Notification: n, State: StateCancelled, At: e.clock.Now()})
	return true
}

func (e *Engine) Get(id ID) (Notification, error) {
	return e.registry.Get(id)
}

// List returns the pending notifications, soonest deadline first.
func (e *Engine) List() []Notification {
	return e.registry.Snapshot()
}

func (e *Engine) Len() int {
	return e.registry.Len()
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Shutdown cancels every pending notification without delivering it and
// waits for sink calls already in progress. Their context is cancelled.
// Observers of those deliveries may still be running when it returns.
// Schedule fails with ErrEngineStopped afterwards. It may be called from an
// observer or error handler.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.inflight.Wait()
		return
	}
	e.stopped = true
	timers := e.timers
	e.timers = make(map[ID]Timer)
	cancelled := e.registry.Drain()
	e.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
	e.cancel()
	e.inflight.Wait()

	e.logger.Debug("engine stopped", slog.Int("cancelled", len(cancelled)))
	now := e.clock.Now()
	for _, n := range cancelled {
		e.emit(Event{Notification: n, State: StateCancelled, At: now})
	}
}

// fire claims id from the registry and delivers it. Losing the claim means
// the notification was cancelled first.
func (e *Engine) fire(id ID) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	n, err := e.registry.Remove(id)
	if err != nil {
		e.mu.Unlock()
		return
	}
	delete(e.timers, id)
	e.inflight.Add(1)
	e.mu.Unlock()

	e.deliver(n)
}

// deliver hands n to the sink and reports the outcome. Only the sink call is
// counted as in flight, so handlers and observers may call Shutdown.
func (e *Engine) deliver(n Notification) {
	d := Delivery{
		ID:      n.ID,
		Title:   n.Payload.Title(),
		Body:    n.Payload.Body(),
		Payload: n.Payload,
		FireAt:  n.FireAt,
		Overdue: n.Overdue(),
	}

	err := e.sink.Deliver(e.ctx, d)
	e.inflight.Done()

	ev := Event{Notification: n, State: StateDelivered}
	if err != nil {
		derr := &DeliveryError{ID: n.ID, Err: err}
		ev.Err = derr
		e.onError(n, derr)
	} else {
		e.logger.Debug("delivered notification", slog.Uint64("id", uint64(n.ID)))
	}

	ev.At = e.clock.Now()
	e.emit(ev)
}

func (e *Engine) emit(ev Event) {
	for _, o := range e.observers {
		o(ev)
	}
}
