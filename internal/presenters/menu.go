package presenters

import (
	"fmt"
	"time"

	"github.com/glizzus/traytimer/internal/duration"
	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/schedule"
)

type ItemKind int

const (
	ItemSeparator ItemKind = iota
	// ItemPreset starts the preset at Index when activated.
	ItemPreset
	// ItemPending cancels the notification with ID when activated.
	ItemPending
	ItemSleep
	ItemWaitUntil
	ItemExit
)

// MenuItem is one row of the tray menu.
type MenuItem struct {
	Kind  ItemKind
	Label string
	Icon  string
	Index int
	ID    schedule.ID
}

var separator = MenuItem{Kind: ItemSeparator}

// PendingLabel renders "<time left> to <label>".
func PendingLabel(n schedule.Notification, now time.Time) string {
	label := n.Payload.Title()
	if r, ok := n.Payload.(reminder.Reminder); ok {
		label = r.Label()
	}
	return fmt.Sprintf("%s to %s", duration.Format(n.Remaining(now)), label)
}

// BuildMenu lays out the menu: water presets, tea presets, pending
// notifications, the ad-hoc actions and Exit, with separators between groups.
// pending is expected in the order returned by the engine.
func BuildMenu(presets []reminder.Preset, pending []schedule.Notification, now time.Time) []MenuItem {
	var water, tea []MenuItem
	for i, p := range presets {
		item := MenuItem{Kind: ItemPreset, Label: p.Label(), Icon: p.Icon(), Index: i}
		if p.Kind() == reminder.KindWater {
			water = append(water, item)
		} else {
			tea = append(tea, item)
		}
	}

	var items []MenuItem
	appendGroup := func(group []MenuItem) {
		if len(group) == 0 {
			return
		}
		if len(items) > 0 {
			items = append(items, separator)
		}
		items = append(items, group...)
	}

	appendGroup(water)
	appendGroup(tea)

	var waiting []MenuItem
	for _, n := range pending {
		waiting = append(waiting, MenuItem{
			Kind:  ItemPending,
			Label: PendingLabel(n, now),
			Icon:  reminder.IconHourglass,
			ID:    n.ID,
		})
	}
	appendGroup(waiting)

	appendGroup([]MenuItem{
		{Kind: ItemSleep, Label: "Sleep ...", Icon: reminder.IconBell},
		{Kind: ItemWaitUntil, Label: "Wait until ...", Icon: reminder.IconBell},
	})
	appendGroup([]MenuItem{{Kind: ItemExit, Label: "Exit"}})

	return items
}
