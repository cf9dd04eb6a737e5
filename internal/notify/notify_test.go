package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/glizzus/traytimer/internal/notify"
	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/schedule"
)

var fireAt = time.Date(2024, 3, 1, 9, 3, 0, 0, time.UTC)

func teaDelivery() schedule.Delivery {
	tea := reminder.Tea{Name: "Green", Time: 3 * time.Minute}
	return schedule.Delivery{
		ID:      7,
		Title:   tea.Title(),
		Body:    tea.Body(),
		Payload: tea,
		FireAt:  fireAt,
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := &notify.LogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	if err := sink.Deliver(context.Background(), teaDelivery()); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"msg=Notification", "id=7", `title="Your Tea is ready!"`, "overdue=false"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestMultiSink(t *testing.T) {
	errFirst := errors.New("first failed")
	var calls []string
	sink := notify.MultiSink{
		schedule.SinkFunc(func(ctx context.Context, d schedule.Delivery) error {
			calls = append(calls, "first")
			return errFirst
		}),
		schedule.SinkFunc(func(ctx context.Context, d schedule.Delivery) error {
			calls = append(calls, "second")
			return nil
		}),
	}

	err := sink.Deliver(context.Background(), teaDelivery())
	if !errors.Is(err, errFirst) {
		t.Errorf("Deliver error = %v; want it to wrap %v", err, errFirst)
	}
	if diff := cmp.Diff([]string{"first", "second"}, calls); diff != "" {
		t.Errorf("sink calls mismatch (-want +got):\n%s", diff)
	}

	if err := (notify.MultiSink{}).Deliver(context.Background(), teaDelivery()); err != nil {
		t.Errorf("empty MultiSink returned error: %v", err)
	}
}

type fakeNotificationsObject struct {
	method string
	args   []interface{}
	err    error
}

func (o *fakeNotificationsObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.method = method
	o.args = args
	if o.err != nil {
		return &dbus.Call{Err: o.err}
	}
	return &dbus.Call{Body: []interface{}{uint32(41)}}
}

func TestDBusSink(t *testing.T) {
	obj := &fakeNotificationsObject{}
	sink := notify.NewDBusSinkWithObject(obj, "TeaReminder", "/usr/share/traytimer/icons")

	if err := sink.Deliver(context.Background(), teaDelivery()); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	if obj.method != "org.freedesktop.Notifications.Notify" {
		t.Errorf("called method %q; want org.freedesktop.Notifications.Notify", obj.method)
	}
	want := []interface{}{
		"TeaReminder",
		uint32(0),
		"/usr/share/traytimer/icons/tea.png",
		"Your Tea is ready!",
		"Green tea is ready to drink! \nEnjoy!",
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(notify.UrgencyNormal)},
		notify.ExpiresNever,
	}
	if diff := cmp.Diff(want, obj.args, cmp.Comparer(func(a, b dbus.Variant) bool {
		return a.String() == b.String()
	})); diff != "" {
		t.Errorf("Notify arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestDBusSinkOverdueIsCritical(t *testing.T) {
	obj := &fakeNotificationsObject{}
	sink := notify.NewDBusSinkWithObject(obj, "NotificationCreator", "")

	msg := reminder.Message{Text: "stand up", Overdue: true}
	err := sink.Deliver(context.Background(), schedule.Delivery{
		ID:      1,
		Title:   msg.Title(),
		Body:    msg.Body(),
		Payload: msg,
		Overdue: true,
	})
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}

	if icon := obj.args[2]; icon != "bell.png" {
		t.Errorf("icon = %v; want bell.png", icon)
	}
	hints := obj.args[6].(map[string]dbus.Variant)
	if got := hints["urgency"].Value(); got != notify.UrgencyCritical {
		t.Errorf("urgency = %v; want %v", got, notify.UrgencyCritical)
	}
}

func TestDBusSinkCallError(t *testing.T) {
	callErr := errors.New("org.freedesktop.DBus.Error.ServiceUnknown")
	sink := notify.NewDBusSinkWithObject(&fakeNotificationsObject{err: callErr}, "TeaReminder", "")

	if err := sink.Deliver(context.Background(), teaDelivery()); !errors.Is(err, callErr) {
		t.Errorf("Deliver error = %v; want it to wrap %v", err, callErr)
	}
}
