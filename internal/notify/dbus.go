package notify

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"github.com/glizzus/traytimer/internal/schedule"
)

const (
	NotificationsInterface = "org.freedesktop.Notifications"
	NotificationsPath      = "/org/freedesktop/Notifications"
)

// Urgency levels of the desktop notification specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// ExpiresNever keeps the notification on screen until it is dismissed.
const ExpiresNever int32 = 0

// notificationsObject is the part of dbus.BusObject the sink uses.
type notificationsObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusSink shows deliveries as desktop notifications through the
// org.freedesktop.Notifications service on the session bus.
type DBusSink struct {
	conn    *dbus.Conn
	obj     notificationsObject
	appName string
	iconDir string
}

// NewDBusSink connects to the session bus.
func NewDBusSink(appName, iconDir string) (*DBusSink, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s := newDBusSink(conn.Object(NotificationsInterface, NotificationsPath), appName, iconDir)
	s.conn = conn
	return s, nil
}

func newDBusSink(obj notificationsObject, appName, iconDir string) *DBusSink {
	return &DBusSink{
		obj:     obj,
		appName: appName,
		iconDir: iconDir,
	}
}

func (s *DBusSink) Deliver(ctx context.Context, d schedule.Delivery) error {
	icon := iconOf(d)
	if icon != "" && s.iconDir != "" {
		icon = filepath.Join(s.iconDir, icon)
	}

	urgency := UrgencyNormal
	if d.Overdue {
		urgency = UrgencyCritical
	}

	call := s.obj.CallWithContext(
		ctx,
		NotificationsInterface+".Notify",
		0,
		s.appName,
		uint32(0),
		icon,
		d.Title,
		d.Body,
		[]string{},
		map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgency)},
		ExpiresNever,
	)
	if call.Err != nil {
		return fmt.Errorf("failed to show desktop notification: %w", call.Err)
	}

	var serverID uint32
	if err := call.Store(&serverID); err != nil {
		return fmt.Errorf("unexpected reply from notification server: %w", err)
	}
	return nil
}

// Close closes the session bus connection if the sink opened one.
func (s *DBusSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

var _ Sink = (*DBusSink)(nil)
