package schedule

import "time"

// Timer is a pending callback that can be stopped before it runs.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock is the engine's source of time and timers.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock uses the time package. Times returned by Now carry a monotonic
// clock reading, so deadlines derived from them ignore wall clock changes.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var _ Clock = SystemClock{}
