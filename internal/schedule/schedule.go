package schedule

import (
	"context"
	"time"
)

// ID identifies a scheduled notification. IDs are assigned in increasing
// order by the registry and are never reused by the same engine.
type ID uint64

// Payload is the caller's data carried by a notification. The scheduler only
// reads the title and body, which it passes to the sink on delivery.
type Payload interface {
	Title() string
	Body() string
}

// Notification is a pending entry. It is never modified once inserted.
type Notification struct {
	ID        ID
	Payload   Payload
	CreatedAt time.Time
	FireAt    time.Time
}

// Duration is the delay that was requested when the notification was scheduled.
func (n Notification) Duration() time.Duration {
	return n.FireAt.Sub(n.CreatedAt)
}

// Remaining is the time left until delivery, or zero once the deadline passed.
func (n Notification) Remaining(now time.Time) time.Duration {
	if d := n.FireAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Overdue reports whether the requested deadline had already passed at
// scheduling time, so that the notification was delivered immediately.
func (n Notification) Overdue() bool {
	return !n.FireAt.After(n.CreatedAt)
}

// Delivery is what a Sink receives when a notification fires.
type Delivery struct {
	ID      ID
	Title   string
	Body    string
	Payload Payload
	FireAt  time.Time
	Overdue bool
}

// Sink delivers fired notifications. Deliver is called at most once per
// notification and is never retried.
type Sink interface {
	Deliver(ctx context.Context, d Delivery) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, d Delivery) error

func (f SinkFunc) Deliver(ctx context.Context, d Delivery) error {
	return f(ctx, d)
}

var _ Sink = SinkFunc(nil)

// State is the lifecycle state of a notification.
type State int

const (
	StatePending State = iota
	StateDelivered
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDelivered:
		return "delivered"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Event describes a terminal transition of a notification. Err is set when
// the sink failed to deliver it.
type Event struct {
	Notification Notification
	State        State
	Err          error
	At           time.Time
}
