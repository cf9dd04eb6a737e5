// Package reminder defines the kinds of notifications the tray utilities
// schedule and the service that schedules them.
package reminder

import (
	"fmt"
	"time"

	"github.com/glizzus/traytimer/internal/config"
	"github.com/glizzus/traytimer/internal/duration"
	"github.com/glizzus/traytimer/internal/schedule"
)

type Kind int

const (
	KindTea Kind = iota
	KindWater
	KindMessage
	KindRecurring
)

func (k Kind) String() string {
	switch k {
	case KindTea:
		return "tea"
	case KindWater:
		return "water"
	case KindMessage:
		return "message"
	case KindRecurring:
		return "recurring"
	default:
		return "unknown"
	}
}

const (
	IconTea       = "tea.png"
	IconWater     = "water.png"
	IconBell      = "bell.png"
	IconHourglass = "hourglass.png"
)

// Reminder is a notification payload. The set of implementations is closed:
// Tea, Water, Message and Recurring.
type Reminder interface {
	schedule.Payload
	Kind() Kind
	Icon() string
	// Label is the text shown for the reminder in a menu.
	Label() string

	isReminder()
}

// Preset is a reminder with a fixed brewing time.
type Preset interface {
	Reminder
	Duration() time.Duration
}

type Tea struct {
	Name string
	Time time.Duration
}

func (t Tea) Kind() Kind { return KindTea }
func (t Tea) Icon() string { return IconTea }
func (t Tea) Duration() time.Duration { return t.Time }
func (t Tea) Title() string { return "Your Tea is ready!" }
func (t Tea) Body() string { return fmt.Sprintf("%s tea is ready to drink! \nEnjoy!", t.Name) }
func (t Tea) Label() string { return fmt.Sprintf("%s (%s)", t.Name, duration.Format(t.Time)) }
func (Tea) isReminder() {}

type Water struct {
	Name string
	Time time.Duration
}

func (w Water) Kind() Kind { return KindWater }
func (w Water) Icon() string { return IconWater }
func (w Water) Duration() time.Duration { return w.Time }
func (w Water) Title() string { return fmt.Sprintf("Your water for %s is ready!", w.Name) }
func (w Water) Body() string { return "" }
func (w Water) Label() string {
	return fmt.Sprintf("Water: %s (%s)", w.Name, duration.Format(w.Time))
}
func (Water) isReminder() {}

// Message is a free-form reminder created with "sleep" or "wait until".
type Message struct {
	Text string
	// Overdue is set when the requested time had already passed.
	Overdue bool
}

func (m Message) Kind() Kind { return KindMessage }
func (m Message) Icon() string { return IconBell }
func (m Message) Body() string { return m.Text }
func (m Message) Label() string {
	return m.Text
}
func (m Message) Title() string {
	if m.Overdue {
		return "NOTIFICATION IN THE PAST!!!!"
	}
	return "DANGER, DANGER!!! EXTERMINATE !!!"
}
func (Message) isReminder() {}

// Recurring is a message that is scheduled again after every delivery.
type Recurring struct {
	Cron string
	Text string
}

func (r Recurring) Kind() Kind { return KindRecurring }
func (r Recurring) Icon() string { return IconBell }
func (r Recurring) Title() string { return "Reminder" }
func (r Recurring) Body() string { return r.Text }
func (r Recurring) Label() string { return fmt.Sprintf("%s (every %s)", r.Text, r.Cron) }
func (Recurring) isReminder() {}

var (
	_ Preset   = Tea{}
	_ Preset   = Water{}
	_ Reminder = Message{}
	_ Reminder = Recurring{}
)

// DefaultPresets are used when no presets file is available.
var DefaultPresets = []Preset{
	Water{Name: "Yerba", Time: duration.MustParse("10m")},
	Water{Name: "Green Tea", Time: duration.MustParse("5m")},
	Tea{Name: "Fruits Tea", Time: duration.MustParse("5m")},
	Tea{Name: "Green Tea", Time: duration.MustParse("3m")},
	Tea{Name: "White Tea - longer", Time: duration.MustParse("1m 30s")},
	Tea{Name: "White Tea - shorter", Time: duration.MustParse("60")},
}

// PresetsFromConfig returns the configured water presets followed by the tea presets.
func PresetsFromConfig(c *config.Presets) []Preset {
	presets := make([]Preset, 0, len(c.Water)+len(c.Tea))
	for _, w := range c.Water {
		presets = append(presets, Water{Name: w.Name, Time: w.Time})
	}
	for _, t := range c.Tea {
		presets = append(presets, Tea{Name: t.Name, Time: t.Time})
	}
	return presets
}

// TodayAt returns the given time of day on now's date, in now's location.
func TodayAt(now time.Time, hour, minute, second int) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location())
}
