package terminal

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
	"studyclock/internal/ui/display"
	"studyclock/internal/ui/preferences"
)

type fakeClock struct {
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func newTestModel(t *testing.T, phases []model.Phase) (*Model, *timekeeper.TimeKeeper, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	keeper, err := timekeeper.New(phases, timekeeper.Config{Clock: clock})
	if err != nil {
		t.Fatalf("timekeeper.New: %v", err)
	}
	return New(keeper, Options{Settings: preferences.DefaultSettings()}), keeper, clock
}

func press(m *Model, keys string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	return cmd
}

func TestStartStopReset(t *testing.T) {
	m, keeper, clock := newTestModel(t, model.DefaultPhases())

	press(m, "s")
	if keeper.Snapshot().Status != timekeeper.StatusRunning {
		t.Fatal("s should start the timer")
	}

	clock.now = clock.now.Add(90 * time.Second)
	m.Update(tickMsg(clock.now))
	if m.snapshot.Remaining != 20*time.Minute-90*time.Second {
		t.Fatalf("remaining after tick = %s", m.snapshot.Remaining)
	}
	if !strings.Contains(m.View(), "18:30") {
		t.Fatalf("view missing countdown:\n%s", m.View())
	}

	press(m, "r")
	if keeper.Snapshot().Status != timekeeper.StatusRunning {
		t.Fatal("reset must be ignored while running")
	}

	press(m, "p")
	if keeper.Snapshot().State != timekeeper.StatePaused {
		t.Fatalf("state after stop = %s, want paused", keeper.Snapshot().State)
	}
	if view := m.View(); !strings.Contains(view, display.IdleHeading) || !strings.Contains(view, "💡 ") {
		t.Fatalf("paused view at the first phase should read ready with a quote:\n%s", view)
	}

	press(m, "r")
	if keeper.Snapshot().State != timekeeper.StateIdle {
		t.Fatalf("state after reset = %s, want idle", keeper.Snapshot().State)
	}
	if !strings.Contains(m.View(), display.IdleHeading) {
		t.Fatalf("idle view missing heading:\n%s", m.View())
	}
}

func TestTickReturnsNextTick(t *testing.T) {
	m, _, clock := newTestModel(t, model.DefaultPhases())
	if m.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}
	if _, cmd := m.Update(tickMsg(clock.now)); cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
}

func TestSessionCompleteBanner(t *testing.T) {
	m, _, clock := newTestModel(t, []model.Phase{
		{Name: "A", Duration: 2 * time.Second, Color: model.StudyColor},
		{Name: "B", Duration: time.Second, Color: model.BreakColor},
	})

	press(m, "s")
	clock.now = clock.now.Add(2 * time.Second)
	m.Update(tickMsg(clock.now))
	if m.snapshot.Index != 1 {
		t.Fatalf("index = %d, want 1", m.snapshot.Index)
	}
	if m.flash != "A finished" {
		t.Fatalf("flash = %q, want phase notice", m.flash)
	}

	clock.now = clock.now.Add(time.Second)
	m.Update(tickMsg(clock.now))
	view := m.View()
	if !m.snapshot.Complete || !strings.Contains(view, display.CompleteHeading) {
		t.Fatalf("expected completion view:\n%s", view)
	}
	if !strings.Contains(view, "Completed Sessions: 1") {
		t.Fatalf("stats not updated:\n%s", view)
	}

	press(m, "s")
	if m.snapshot.Complete {
		t.Fatal("start should clear the completion banner")
	}
}

func TestSettingsFormReconfigures(t *testing.T) {
	m, keeper, _ := newTestModel(t, model.DefaultPhases())
	var saved *preferences.Settings
	m.onSettings = func(settings preferences.Settings) error {
		saved = &settings
		return nil
	}

	press(m, "s")
	press(m, "c")
	if !m.editing {
		t.Fatal("c should open settings")
	}
	if m.inputs[0].Value() != "20" {
		t.Fatalf("study field = %q, want 20", m.inputs[0].Value())
	}
	m.inputs[0].SetValue("45")
	m.inputs[2].SetValue("99")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.editing {
		t.Fatal("enter should close settings")
	}
	snapshot := keeper.Snapshot()
	if snapshot.Status != timekeeper.StatusStopped || snapshot.Index != 0 {
		t.Fatalf("reconfigure should stop and rewind: %+v", snapshot)
	}
	if snapshot.Phases[0].Duration != 45*time.Minute || snapshot.Phases[2].Duration != 15*time.Minute {
		t.Fatalf("phases = %+v", snapshot.Phases)
	}
	if saved == nil || saved.Study != 45*time.Minute {
		t.Fatalf("settings not persisted: %+v", saved)
	}
}

func TestSettingsSaveErrorIsReported(t *testing.T) {
	m, _, _ := newTestModel(t, model.DefaultPhases())
	m.onSettings = func(preferences.Settings) error { return errors.New("disk full") }

	press(m, "c")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.flash, "disk full") {
		t.Fatalf("flash = %q, want save error", m.flash)
	}
}

func TestSettingsCancel(t *testing.T) {
	m, keeper, _ := newTestModel(t, model.DefaultPhases())
	press(m, "c")
	m.inputs[0].SetValue("5")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Fatal("esc should close settings")
	}
	if keeper.Snapshot().Phases[0].Duration != 20*time.Minute {
		t.Fatal("cancel must not reconfigure")
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, model.DefaultPhases())
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Study Session: 20 minutes", 10); got != "Study S..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
