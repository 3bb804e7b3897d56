package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
	"studyclock/internal/ui/preferences"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadSettingsFile: %v", err)
	}
	if settings != preferences.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)
	want := preferences.DefaultSettings()
	want.Study = 45 * time.Minute
	want.SoundEnabled = false
	want.Volume = 0.25
	want.PlanFile = "/tmp/plan.toml"

	if err := SaveSettingsFile(path, want); err != nil {
		t.Fatalf("SaveSettingsFile: %v", err)
	}
	got, err := LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFile: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestPartialSettingsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	if err := os.WriteFile(path, []byte("break_minutes: 99\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFile: %v", err)
	}
	if got.Study != 20*time.Minute {
		t.Fatalf("Study = %s, want default 20m", got.Study)
	}
	if got.Break != 30*time.Minute {
		t.Fatalf("Break = %s, want clamped 30m", got.Break)
	}
	if !got.SoundEnabled || !got.RestoreState {
		t.Fatalf("missing booleans should keep defaults: %+v", got)
	}
}

func TestSettingsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	if err := os.WriteFile(path, []byte("study_minutes: [oops"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSettingsFile(path); err == nil || !strings.Contains(err.Error(), "parse settings yaml") {
		t.Fatalf("LoadSettingsFile error = %v, want parse error", err)
	}
}

func TestDecodePlan(t *testing.T) {
	phases, err := DecodePlan(`
[[phase]]
name = "Deep Work"
minutes = 50

[[phase]]
name = "  Stretch "
seconds = 90
color = "#123456"

[[phase]]
minutes = 1
seconds = 30
`)
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	if len(phases) != 3 {
		t.Fatalf("len(phases) = %d, want 3", len(phases))
	}
	if phases[0].Duration != 50*time.Minute || phases[0].Color != model.StudyColor {
		t.Fatalf("phase 0 = %+v", phases[0])
	}
	if phases[1].Name != "Stretch" || phases[1].Duration != 90*time.Second || phases[1].Color != "#123456" {
		t.Fatalf("phase 1 = %+v", phases[1])
	}
	if phases[2].Name != "Phase 3" || phases[2].Duration != 90*time.Second {
		t.Fatalf("phase 2 = %+v", phases[2])
	}
}

func TestDecodePlanRejects(t *testing.T) {
	cases := map[string]string{
		"empty":        ``,
		"zero":         "[[phase]]\nname = \"x\"\n",
		"unknown key":  "[[phase]]\nname = \"x\"\nminutes = 1\nhours = 2\n",
		"bad color":    "[[phase]]\nminutes = 1\ncolor = \"blue\"\n",
		"syntax error": "[[phase]\n",
		"negative":     "[[phase]]\nminutes = -1\nseconds = 120\n",
		"huge minutes": "[[phase]]\nminutes = 9223372036854775807\n",
		"over a day":   "[[phase]]\nminutes = 1440\nseconds = 1\n",
	}
	for name, data := range cases {
		if _, err := DecodePlan(data); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDecodePlanAcceptsFullDay(t *testing.T) {
	phases, err := DecodePlan("[[phase]]\nminutes = 1440\n")
	if err != nil {
		t.Fatalf("DecodePlan: %v", err)
	}
	if phases[0].Duration != maxPlanPhase {
		t.Fatalf("duration = %s, want %s", phases[0].Duration, maxPlanPhase)
	}
}

func TestLoadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(path, []byte("[[phase]]\nname = \"Read\"\nminutes = 2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	phases, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if len(phases) != 1 || phases[0].Name != "Read" {
		t.Fatalf("phases = %+v", phases)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", snapshotFileName)
	if _, err := LoadSnapshot(path); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("LoadSnapshot missing = %v, want ErrNoSnapshot", err)
	}

	want := timekeeper.PersistedState{
		Phases:    model.DefaultPhases(),
		Index:     2,
		Remaining: 75 * time.Second,
		Sessions:  4,
		Studied:   2 * time.Hour,
	}
	if err := SaveSnapshot(path, want); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got.Index != want.Index || got.Remaining != want.Remaining || got.Sessions != want.Sessions || got.Studied != want.Studied {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
	if len(got.Phases) != 3 || got.Phases[1] != want.Phases[1] {
		t.Fatalf("phases = %+v", got.Phases)
	}
}

func TestSnapshotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), snapshotFileName)
	if err := os.WriteFile(path, []byte{0xc1, 0x00}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSnapshot(path); err == nil || errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("LoadSnapshot corrupt = %v, want decode error", err)
	}
}

func TestHistoryRecordAndSummary(t *testing.T) {
	history, err := OpenHistory("")
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer history.Close()
	ctx := context.Background()

	empty, err := history.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if empty.Sessions != 0 || empty.Studied != 0 || !empty.LastEnded.IsZero() {
		t.Fatalf("empty summary = %+v", empty)
	}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := NewSessionRecord(model.DefaultPhases(), base)
	second := NewSessionRecord(model.StandardPhases(time.Minute, time.Minute, time.Minute), base.Add(time.Hour))
	for _, record := range []SessionRecord{first, second} {
		if err := history.Record(ctx, record); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	summary, err := history.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Sessions != 2 {
		t.Fatalf("Sessions = %d, want 2", summary.Sessions)
	}
	if summary.Studied != 33*time.Minute {
		t.Fatalf("Studied = %s, want 33m", summary.Studied)
	}

	recent, err := history.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != second.ID {
		t.Fatalf("Recent = %+v, want newest record", recent)
	}
	if !strings.Contains(recent[0].Phases, model.SprintPhaseName) {
		t.Fatalf("phases summary %q missing sprint", recent[0].Phases)
	}
}

func TestRecordSessionsFromEvents(t *testing.T) {
	history, err := OpenHistory("")
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer history.Close()

	events := make(chan timekeeper.Event, 3)
	events <- timekeeper.Event{Type: timekeeper.EventProgress}
	events <- timekeeper.Event{
		Type:     timekeeper.EventSessionComplete,
		Snapshot: timekeeper.Snapshot{Phases: model.DefaultPhases()},
		At:       time.Now(),
	}
	close(events)

	if err := RecordSessions(context.Background(), history, events); err != nil {
		t.Fatalf("RecordSessions: %v", err)
	}
	summary, err := history.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Sessions != 1 || summary.Studied != 30*time.Minute {
		t.Fatalf("summary = %+v, want 1 session of 30m", summary)
	}
}
