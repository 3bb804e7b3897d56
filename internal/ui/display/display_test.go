package display

import (
	"image/color"
	"testing"
	"time"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
)

func snapshotAt(state timekeeper.State, index int) timekeeper.Snapshot {
	phases := model.DefaultPhases()
	snapshot := timekeeper.Snapshot{
		Status:     timekeeper.StatusStopped,
		State:      state,
		Index:      index,
		PhaseCount: len(phases),
		Phases:     phases,
		Phase:      phases[index],
		Remaining:  phases[index].Duration,
		Complete:   state == timekeeper.StateComplete,
	}
	if state == timekeeper.StateRunning {
		snapshot.Status = timekeeper.StatusRunning
	}
	return snapshot
}

func TestHeadingFor(t *testing.T) {
	cases := []struct {
		state timekeeper.State
		index int
		want  Heading
	}{
		{timekeeper.StateIdle, 0, Heading{IdleHeading, model.IdleColor}},
		{timekeeper.StateComplete, 0, Heading{CompleteHeading, model.CompleteColor}},
		{timekeeper.StateRunning, 1, Heading{model.BreakPhaseName, model.BreakColor}},
		{timekeeper.StatePaused, 2, Heading{model.SprintPhaseName, model.SprintColor}},
		{timekeeper.StatePaused, 0, Heading{IdleHeading, model.IdleColor}},
		{timekeeper.StateRunning, 0, Heading{model.StudyPhaseName, model.StudyColor}},
	}
	for _, tc := range cases {
		if got := HeadingFor(snapshotAt(tc.state, tc.index)); got != tc.want {
			t.Fatalf("HeadingFor(%s, %d) = %+v, want %+v", tc.state, tc.index, got, tc.want)
		}
	}
}

func TestShowsQuote(t *testing.T) {
	cases := []struct {
		state timekeeper.State
		index int
		want  bool
	}{
		{timekeeper.StateIdle, 0, true},
		{timekeeper.StatePaused, 0, true},
		{timekeeper.StateComplete, 0, false},
		{timekeeper.StatePaused, 1, false},
		{timekeeper.StateRunning, 0, false},
	}
	for _, tc := range cases {
		if got := ShowsQuote(snapshotAt(tc.state, tc.index)); got != tc.want {
			t.Fatalf("ShowsQuote(%s, %d) = %v, want %v", tc.state, tc.index, got, tc.want)
		}
	}
}

func TestControlsFor(t *testing.T) {
	if got := ControlsFor(snapshotAt(timekeeper.StateRunning, 0)); got != (Controls{Stop: true}) {
		t.Fatalf("running controls = %+v", got)
	}
	if got := ControlsFor(snapshotAt(timekeeper.StatePaused, 1)); got != (Controls{Start: true, Reset: true}) {
		t.Fatalf("paused controls = %+v", got)
	}
}

func TestPhaseLines(t *testing.T) {
	lines := PhaseLines(snapshotAt(timekeeper.StateRunning, 1))
	marks := [3]string{lines[0].Mark, lines[1].Mark, lines[2].Mark}
	if marks != [3]string{MarkDone, MarkCurrent, MarkPending} {
		t.Fatalf("marks = %v", marks)
	}
	if lines[0].Duration != "20 minutes" {
		t.Fatalf("duration label = %q", lines[0].Duration)
	}

	for _, line := range PhaseLines(snapshotAt(timekeeper.StateComplete, 0)) {
		if !line.Done {
			t.Fatalf("complete session should mark %q done", line.Name)
		}
	}
}

func TestFormatting(t *testing.T) {
	cases := map[time.Duration]string{
		0:                              "00:00",
		-time.Second:                   "00:00",
		59 * time.Second:               "00:59",
		20 * time.Minute:               "20:00",
		75*time.Minute + 5*time.Second: "75:05",
		1500 * time.Millisecond:        "00:01",
	}
	for input, want := range cases {
		if got := FormatClock(input); got != want {
			t.Fatalf("FormatClock(%s) = %q, want %q", input, got, want)
		}
	}
	if got := FormatPhaseDuration(time.Minute); got != "1 minute" {
		t.Fatalf("FormatPhaseDuration(1m) = %q", got)
	}
	if got := FormatPhaseDuration(90 * time.Second); got != "1m30s" {
		t.Fatalf("FormatPhaseDuration(90s) = %q", got)
	}
	if got := FormatStudied(90 * time.Minute); got != "90 min" {
		t.Fatalf("FormatStudied = %q", got)
	}
}

func TestRGBA(t *testing.T) {
	if got := RGBA(model.StudyColor); got != (color.NRGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 0xFF}) {
		t.Fatalf("RGBA(study) = %+v", got)
	}
	if got := RGBA("nope"); got != RGBA(model.IdleColor) {
		t.Fatalf("RGBA fallback = %+v", got)
	}
}
