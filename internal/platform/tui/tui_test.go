package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/director"
	"github.com/koyoi/falls/internal/storage"
)

func newHub(t *testing.T, capture bool) *Hub {
	t.Helper()
	dir := t.TempDir()
	if capture {
		body := []byte(`{"capture":{"w":64,"h":64,"output":"m.png"}}`)
		if err := os.WriteFile(filepath.Join(dir, director.CaptureFile), body, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	d := director.New(director.Options{WatchDir: dir, OutputDir: t.TempDir()})
	d.Start()
	return NewHub(d)
}

func TestHubTickAndSnapshot(t *testing.T) {
	hub := newHub(t, false)
	hub.Tick(0.1)
	p := hub.Tick(0.1)
	if p.Tick != 2 || hub.Snapshot().Tick != 2 {
		t.Errorf("Expected 2 ticks, got %d / %d", p.Tick, hub.Snapshot().Tick)
	}
	if hub.TriggerCapture() {
		t.Error("Expected no capture request")
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := newHub(t, false)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := hub.Run(ctx, 100)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if hub.Snapshot().Tick == 0 {
		t.Error("Expected the loop to tick")
	}
}

func TestMonitorDrivesTicks(t *testing.T) {
	hub := newHub(t, false)
	m := NewMonitorModel(hub, nil, MonitorOptions{Drive: true})

	now := time.Now()
	model, cmd := m.Update(TickMsg(now))
	if cmd == nil {
		t.Fatal("Expected next tick to be scheduled")
	}
	model, _ = model.(MonitorModel).Update(TickMsg(now.Add(100 * time.Millisecond)))
	mm := model.(MonitorModel)
	if mm.Params().Tick != 2 {
		t.Errorf("Expected 2 ticks, got %d", mm.Params().Tick)
	}
	if mm.Params().ForceTime < 0.099 || mm.Params().ForceTime > 0.101 {
		t.Errorf("Expected measured delta, got %v", mm.Params().ForceTime)
	}
}

func TestMonitorObserverDoesNotTick(t *testing.T) {
	hub := newHub(t, false)
	m := NewMonitorModel(hub, nil, MonitorOptions{})
	m.Update(TickMsg(time.Now()))
	if hub.Snapshot().Tick != 0 {
		t.Errorf("Observer ticked the director")
	}
}

func TestMonitorCaptureKey(t *testing.T) {
	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}

	hub := newHub(t, true)
	model, _ := NewMonitorModel(hub, nil, MonitorOptions{AllowCapture: true}).Update(press)
	if got := model.(MonitorModel).Status(); got != "capture armed" {
		t.Errorf("Unexpected status %q", got)
	}

	model, _ = NewMonitorModel(hub, nil, MonitorOptions{}).Update(press)
	if got := model.(MonitorModel).Status(); !strings.Contains(got, "disabled") {
		t.Errorf("Unexpected status %q", got)
	}

	model, _ = NewMonitorModel(newHub(t, false), nil, MonitorOptions{AllowCapture: true}).Update(press)
	if got := model.(MonitorModel).Status(); !strings.Contains(got, "no capture") {
		t.Errorf("Unexpected status %q", got)
	}
}

func TestMonitorView(t *testing.T) {
	m := NewMonitorModel(newHub(t, false), nil, MonitorOptions{Title: "test"})
	view := m.View()
	for _, want := range []string{"Preset", "Force", "Sequence", "Capture", "(default)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestArrow(t *testing.T) {
	tests := []struct {
		v    core.Vec2
		want string
	}{
		{core.Vec2{X: 1}, "→"},
		{core.Vec2{Y: 1}, "↓"},
		{core.Vec2{X: -1}, "←"},
		{core.Vec2{Y: -1}, "↑"},
		{core.Vec2{X: 1, Y: 1}, "↘"},
		{core.Vec2{X: 1, Y: -0.1}, "→"},
		{core.Zero, "·"},
	}
	for _, tt := range tests {
		if got := arrow(tt.v); got != tt.want {
			t.Errorf("arrow(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

type fakeLister struct {
	entries []storage.CaptureEntry
	err     error
}

func (f fakeLister) RecentCaptures(int) ([]storage.CaptureEntry, error) {
	return f.entries, f.err
}

func TestJournalModel(t *testing.T) {
	entries := []storage.CaptureEntry{
		{Kind: "sequence", Width: 64, Height: 64, Output: "b.png", Paths: []string{"/o/b_0000.png", "/o/b_0001.png"}},
		{Kind: "image", Width: 1920, Height: 1080, Output: "a.png", Error: "boom"},
	}
	m := NewJournalModel(fakeLister{entries: entries}, 120, 30)
	rows := journalRows(m.entries)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][3] != "2" || rows[0][4] != "b_0000.png" || rows[0][5] != "ok" {
		t.Errorf("Unexpected first row %v", rows[0])
	}
	if rows[1][2] != "1920x1080" || rows[1][5] != "failed" {
		t.Errorf("Unexpected second row %v", rows[1])
	}

	empty := NewJournalModel(fakeLister{}, 80, 24)
	if !strings.Contains(empty.View(), "No captures") {
		t.Error("Expected empty message")
	}

	failing := NewJournalModel(fakeLister{err: errors.New("db gone")}, 80, 24)
	if !strings.Contains(failing.View(), "db gone") {
		t.Error("Expected load error in view")
	}
}
