package schedule_test

import (
	"testing"
	"time"

	"github.com/glizzus/traytimer/internal/schedule"
	"github.com/glizzus/traytimer/internal/schedule/scheduletest"
)

type message string

func (m message) Title() string { return string(m) }
func (m message) Body() string  { return "body of " + string(m) }

func newFakeClock() *scheduletest.Clock {
	return scheduletest.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
}

func waitEvent(t *testing.T, events *scheduletest.Events) schedule.Event {
	t.Helper()
	ev, ok := events.Next(5 * time.Second)
	if !ok {
		t.Fatalf("timed out waiting for an engine event")
	}
	return ev
}
