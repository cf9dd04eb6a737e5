// Package scheduletest provides a manual clock and a recording sink for
// tests of code built on package schedule.
package scheduletest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/glizzus/traytimer/internal/schedule"
)

// Clock is a schedule.Clock whose time only moves when Advance is called.
// Due timers run synchronously inside Advance, in deadline order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*timer
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) schedule.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &timer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that became due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*timer
	for _, t := range c.timers {
		if !t.done && !t.at.After(c.now) {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *timer) int { return a.at.Compare(b.at) })
	for _, t := range due {
		t.f()
	}
}

// Active counts timers that have neither fired nor been stopped.
func (c *Clock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

var _ schedule.Clock = (*Clock)(nil)

type timer struct {
	clock *Clock
	at    time.Time
	f     func()
	done  bool
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Sink records deliveries and returns Err from every Deliver call.
type Sink struct {
	mu         sync.Mutex
	deliveries []schedule.Delivery
	Err        error
}

func (s *Sink) Deliver(ctx context.Context, d schedule.Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, d)
	return s.Err
}

func (s *Sink) Delivered() []schedule.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.deliveries)
}

// Count returns how many times id was delivered.
func (s *Sink) Count(id schedule.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.deliveries {
		if d.ID == id {
			n++
		}
	}
	return n
}

var _ schedule.Sink = (*Sink)(nil)

// Events collects observer events and lets tests wait for them.
type Events struct {
	mu     sync.Mutex
	events []schedule.Event
	ch     chan schedule.Event
}

func NewEvents() *Events {
	return &Events{ch: make(chan schedule.Event, 1024)}
}

// Observe is a schedule.Observer.
func (r *Events) Observe(ev schedule.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.ch <- ev
}

// Next waits up to timeout for the next event.
func (r *Events) Next(timeout time.Duration) (schedule.Event, bool) {
	select {
	case ev := <-r.ch:
		return ev, true
	case <-time.After(timeout):
		return schedule.Event{}, false
	}
}

func (r *Events) All() []schedule.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
