package reminder_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/schedule"
	"github.com/glizzus/traytimer/internal/schedule/scheduletest"
)

var start = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...schedule.Option) (*reminder.Service, *scheduletest.Clock, *scheduletest.Sink) {
	t.Helper()
	clock := scheduletest.NewClock(start)
	sink := &scheduletest.Sink{}
	opts = append([]schedule.Option{schedule.WithClock(clock)}, opts...)
	svc := reminder.NewService(sink, reminder.DefaultPresets, nil, opts...)
	t.Cleanup(svc.Shutdown)
	return svc, clock, sink
}

func TestServiceBrew(t *testing.T) {
	svc, clock, sink := newTestService(t)

	// Index 3 is the three minute green tea.
	id, err := svc.Brew(3)
	if err != nil {
		t.Fatalf("Brew returned error: %v", err)
	}
	n, err := svc.Get(id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if n.Duration() != 3*time.Minute {
		t.Errorf("scheduled duration = %v; want 3m", n.Duration())
	}

	clock.Advance(3 * time.Minute)
	delivered := sink.Delivered()
	if len(delivered) != 1 {
		t.Fatalf("delivered %d notifications; want 1", len(delivered))
	}
	if delivered[0].Title != "Your Tea is ready!" {
		t.Errorf("Title = %q; want the tea title", delivered[0].Title)
	}

	for _, i := range []int{-1, len(reminder.DefaultPresets)} {
		if _, err := svc.Brew(i); err == nil {
			t.Errorf("Brew(%d) expected error", i)
		}
	}
}

func TestServiceSleep(t *testing.T) {
	svc, clock, sink := newTestService(t)

	id, err := svc.Sleep(90*time.Second, "stretch")
	if err != nil {
		t.Fatalf("Sleep returned error: %v", err)
	}
	if got := len(svc.Pending()); got != 1 {
		t.Fatalf("Pending has %d entries; want 1", got)
	}

	clock.Advance(90 * time.Second)
	if sink.Count(id) != 1 {
		t.Fatalf("message was not delivered at its deadline")
	}
	d := sink.Delivered()[0]
	if d.Body != "stretch" || d.Overdue {
		t.Errorf("unexpected delivery: %+v", d)
	}
}

func TestServiceSleepZero(t *testing.T) {
	events := scheduletest.NewEvents()
	svc, _, sink := newTestService(t, schedule.WithObserver(events.Observe))

	id, err := svc.Sleep(0, "now")
	if err != nil {
		t.Fatalf("Sleep returned error: %v", err)
	}
	if _, ok := events.Next(5 * time.Second); !ok {
		t.Fatalf("timed out waiting for the immediate delivery")
	}
	if sink.Count(id) != 1 {
		t.Fatalf("message was not delivered")
	}
	d := sink.Delivered()[0]
	if d.Title != "NOTIFICATION IN THE PAST!!!!" || !d.Overdue {
		t.Errorf("zero sleep delivered as %q with Overdue=%v; want the overdue title and flag", d.Title, d.Overdue)
	}
}

func TestServiceWaitUntil(t *testing.T) {
	t.Run("future time", func(t *testing.T) {
		svc, clock, sink := newTestService(t)

		at := reminder.TodayAt(start, 9, 30, 0)
		id, err := svc.WaitUntil(at, "standup")
		if err != nil {
			t.Fatalf("WaitUntil returned error: %v", err)
		}
		n, err := svc.Get(id)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if !n.FireAt.Equal(at) {
			t.Errorf("FireAt = %v; want %v", n.FireAt, at)
		}

		clock.Advance(30 * time.Minute)
		if sink.Count(id) != 1 {
			t.Errorf("message was not delivered at %v", at)
		}
	})

	t.Run("past time is delivered now with the overdue title", func(t *testing.T) {
		events := scheduletest.NewEvents()
		svc, _, sink := newTestService(t, schedule.WithObserver(events.Observe))

		id, err := svc.WaitUntil(reminder.TodayAt(start, 8, 0, 0), "too late")
		if err != nil {
			t.Fatalf("WaitUntil returned error: %v", err)
		}

		ev, ok := events.Next(5 * time.Second)
		if !ok {
			t.Fatalf("timed out waiting for the overdue delivery")
		}
		if ev.Notification.ID != id || ev.State != schedule.StateDelivered {
			t.Fatalf("unexpected event: %+v", ev)
		}
		d := sink.Delivered()[0]
		if d.Title != "NOTIFICATION IN THE PAST!!!!" || !d.Overdue {
			t.Errorf("unexpected delivery: %+v", d)
		}
	})
}

func TestServiceRepeat(t *testing.T) {
	svc, clock, sink := newTestService(t)

	first, err := svc.Repeat("*/5 * * * *", "blink")
	if err != nil {
		t.Fatalf("Repeat returned error: %v", err)
	}
	n, err := svc.Get(first)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if want := start.Add(5 * time.Minute); !n.FireAt.Equal(want) {
		t.Errorf("first occurrence at %v; want %v", n.FireAt, want)
	}

	clock.Advance(5 * time.Minute)
	if sink.Count(first) != 1 {
		t.Fatalf("first occurrence was not delivered")
	}

	pending := svc.Pending()
	if len(pending) != 1 {
		t.Fatalf("Pending has %d entries after the first occurrence; want 1", len(pending))
	}
	next := pending[0]
	if next.ID == first {
		t.Errorf("re-armed occurrence reused ID %d", first)
	}
	if want := start.Add(10 * time.Minute); !next.FireAt.Equal(want) {
		t.Errorf("next occurrence at %v; want %v", next.FireAt, want)
	}

	if !svc.Cancel(next.ID) {
		t.Fatalf("Cancel of the re-armed occurrence returned false")
	}
	clock.Advance(time.Hour)
	if got := len(sink.Delivered()); got != 1 {
		t.Errorf("delivered %d notifications after cancelling; want 1", got)
	}
	if got := len(svc.Pending()); got != 0 {
		t.Errorf("Pending has %d entries after cancelling; want 0", got)
	}

	if _, err := svc.Repeat("not a cron", "x"); err == nil {
		t.Errorf("Repeat with an invalid expression expected error")
	}
}

func TestServiceRepeatStopsAfterShutdown(t *testing.T) {
	svc, clock, _ := newTestService(t)

	if _, err := svc.Repeat("@hourly", "drink"); err != nil {
		t.Fatalf("Repeat returned error: %v", err)
	}
	svc.Shutdown()
	clock.Advance(3 * time.Hour)

	if got := len(svc.Pending()); got != 0 {
		t.Errorf("Pending has %d entries after Shutdown; want 0", got)
	}
	if _, err := svc.Sleep(time.Minute, "x"); !errors.Is(err, schedule.ErrEngineStopped) {
		t.Errorf("Sleep after Shutdown error = %v; want ErrEngineStopped", err)
	}
}
