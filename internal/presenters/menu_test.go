package presenters_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/glizzus/traytimer/internal/presenters"
	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/schedule"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestPendingLabel(t *testing.T) {
	tests := []struct {
		name string
		n    schedule.Notification
		want string
	}{
		{
			name: "tea with minutes and seconds left",
			n: schedule.Notification{
				Payload: reminder.Tea{Name: "Green Tea", Time: 3 * time.Minute},
				FireAt:  now.Add(2*time.Minute + 30*time.Second),
			},
			want: "2m 30s to Green Tea (3m)",
		},
		{
			name: "water",
			n: schedule.Notification{
				Payload: reminder.Water{Name: "Yerba", Time: 10 * time.Minute},
				FireAt:  now.Add(10 * time.Minute),
			},
			want: "10m to Water: Yerba (10m)",
		},
		{
			name: "message about to fire",
			n: schedule.Notification{
				Payload: reminder.Message{Text: "stretch"},
				FireAt:  now.Add(-time.Second),
			},
			want: "0s to stretch",
		},
		{
			name: "recurring",
			n: schedule.Notification{
				Payload: reminder.Recurring{Cron: "0 * * * *", Text: "drink water"},
				FireAt:  now.Add(45 * time.Second),
			},
			want: "45s to drink water (every 0 * * * *)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenters.PendingLabel(tt.n, now); got != tt.want {
				t.Errorf("PendingLabel() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestBuildMenu(t *testing.T) {
	presets := []reminder.Preset{
		reminder.Tea{Name: "Green Tea", Time: 3 * time.Minute},
		reminder.Water{Name: "Yerba", Time: 10 * time.Minute},
		reminder.Tea{Name: "White Tea", Time: 90 * time.Second},
	}

	tests := []struct {
		name    string
		pending []schedule.Notification
		want    []presenters.MenuItem
	}{
		{
			name: "no pending notifications",
			want: []presenters.MenuItem{
				{Kind: presenters.ItemPreset, Label: "Water: Yerba (10m)", Icon: "water.png", Index: 1},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemPreset, Label: "Green Tea (3m)", Icon: "tea.png", Index: 0},
				{Kind: presenters.ItemPreset, Label: "White Tea (1m 30s)", Icon: "tea.png", Index: 2},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemSleep, Label: "Sleep ...", Icon: "bell.png"},
				{Kind: presenters.ItemWaitUntil, Label: "Wait until ...", Icon: "bell.png"},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemExit, Label: "Exit"},
			},
		},
		{
			name: "pending notifications",
			pending: []schedule.Notification{
				{ID: 4, Payload: reminder.Message{Text: "stretch"}, FireAt: now.Add(20 * time.Second)},
				{ID: 2, Payload: presets[0], FireAt: now.Add(time.Minute)},
			},
			want: []presenters.MenuItem{
				{Kind: presenters.ItemPreset, Label: "Water: Yerba (10m)", Icon: "water.png", Index: 1},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemPreset, Label: "Green Tea (3m)", Icon: "tea.png", Index: 0},
				{Kind: presenters.ItemPreset, Label: "White Tea (1m 30s)", Icon: "tea.png", Index: 2},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemPending, Label: "20s to stretch", Icon: "hourglass.png", ID: 4},
				{Kind: presenters.ItemPending, Label: "1m to Green Tea (3m)", Icon: "hourglass.png", ID: 2},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemSleep, Label: "Sleep ...", Icon: "bell.png"},
				{Kind: presenters.ItemWaitUntil, Label: "Wait until ...", Icon: "bell.png"},
				{Kind: presenters.ItemSeparator},
				{Kind: presenters.ItemExit, Label: "Exit"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := presenters.BuildMenu(presets, tt.pending, now)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildMenu() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("no presets", func(t *testing.T) {
		got := presenters.BuildMenu(nil, nil, now)
		if got[0].Kind != presenters.ItemSleep {
			t.Errorf("first item = %+v; want the Sleep action", got[0])
		}
	})
}
