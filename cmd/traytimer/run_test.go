package main

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/glizzus/traytimer/internal/config"
	"github.com/glizzus/traytimer/internal/notify"
	"github.com/glizzus/traytimer/internal/reminder"
)

func TestBuildSinksLogOnly(t *testing.T) {
	var closers cleanup
	sinks, err := buildSinks(t.Context(), &config.TrayConfig{Sinks: []string{config.SinkLog}}, "session", &closers)
	if err != nil {
		t.Fatalf("buildSinks returned error: %v", err)
	}
	if len(sinks) != 1 {
		t.Fatalf("buildSinks returned %d sinks; want 1", len(sinks))
	}
	if _, ok := sinks[0].(*notify.LogSink); !ok {
		t.Errorf("sink is %T; want *notify.LogSink", sinks[0])
	}
	if len(closers) != 0 {
		t.Errorf("log sink registered %d close functions; want 0", len(closers))
	}
}

func TestCleanupRunsInReverse(t *testing.T) {
	var order []int
	var c cleanup
	for i := range 3 {
		c.add(func() { order = append(order, i) })
	}
	c.run()
	if diff := cmp.Diff([]int{2, 1, 0}, order); diff != "" {
		t.Errorf("cleanup order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPresetsFallsBackToDefaults(t *testing.T) {
	got, err := loadPresets(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("loadPresets returned error: %v", err)
	}
	if diff := cmp.Diff(reminder.DefaultPresets, got); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
}
