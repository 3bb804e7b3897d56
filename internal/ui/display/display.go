// Package display turns timer snapshots into the text and colors both hosts render.
package display

import (
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
)

// Headings shown outside a running phase.
const (
	IdleHeading     = "Ready to start"
	CompleteHeading = "Session Complete! 🎉"
)

// Phase list marks.
const (
	MarkDone    = "✅"
	MarkCurrent = "▶️"
	MarkPending = "⏳"
)

// Heading is the title line and its hex color.
type Heading struct {
	Text  string
	Color string
}

// PhaseLine is one entry of the phase list.
type PhaseLine struct {
	Mark     string
	Name     string
	Duration string
	Color    string
	Done     bool
	Current  bool
}

// Controls reports which control actions are currently meaningful.
type Controls struct {
	Start bool
	Stop  bool
	Reset bool
}

// HeadingFor picks the title for snapshot. A timer stopped at the first
// phase reads as ready, paused or not.
func HeadingFor(snapshot timekeeper.Snapshot) Heading {
	switch {
	case snapshot.State == timekeeper.StateComplete:
		return Heading{Text: CompleteHeading, Color: model.CompleteColor}
	case atFirstPhase(snapshot):
		return Heading{Text: IdleHeading, Color: model.IdleColor}
	default:
		return Heading{Text: snapshot.Phase.Name, Color: colorOr(snapshot.Phase.Color, model.StudyColor)}
	}
}

// ShowsQuote reports whether a motivation quote belongs on screen.
func ShowsQuote(snapshot timekeeper.Snapshot) bool {
	return !snapshot.Complete && atFirstPhase(snapshot)
}

func atFirstPhase(snapshot timekeeper.Snapshot) bool {
	return snapshot.Status == timekeeper.StatusStopped && snapshot.Index == 0
}

// TimerColor is the hex color of the countdown.
func TimerColor(snapshot timekeeper.Snapshot) string {
	if snapshot.State == timekeeper.StateComplete {
		return model.CompleteColor
	}
	return colorOr(snapshot.Phase.Color, model.StudyColor)
}

// ControlsFor enables Start while stopped, Stop while running and Reset
// while not running.
func ControlsFor(snapshot timekeeper.Snapshot) Controls {
	running := snapshot.Status == timekeeper.StatusRunning
	return Controls{
		Start: !running && snapshot.Index < snapshot.PhaseCount,
		Stop:  running,
		Reset: !running,
	}
}

// PhaseLines lists every phase with its progress mark. A completed session
// marks all phases done.
func PhaseLines(snapshot timekeeper.Snapshot) []PhaseLine {
	lines := make([]PhaseLine, 0, len(snapshot.Phases))
	for i, phase := range snapshot.Phases {
		line := PhaseLine{
			Name:     phase.Name,
			Duration: FormatPhaseDuration(phase.Duration),
			Color:    colorOr(phase.Color, model.IdleColor),
		}
		switch {
		case snapshot.Complete || i < snapshot.Index:
			line.Mark = MarkDone
			line.Done = true
		case i == snapshot.Index:
			line.Mark = MarkCurrent
			line.Current = true
		default:
			line.Mark = MarkPending
		}
		lines = append(lines, line)
	}
	return lines
}

// FormatClock renders remaining time as MM:SS. Minutes are not wrapped
// into hours.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int64(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatPhaseDuration renders a phase length for the phase list.
func FormatPhaseDuration(duration time.Duration) string {
	if duration%time.Minute == 0 {
		minutes := int64(duration / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	return duration.String()
}

// FormatStudied renders credited study time in minutes.
func FormatStudied(studied time.Duration) string {
	return fmt.Sprintf("%d min", int64(studied/time.Minute))
}

// Stats is the one-line statistics summary.
func Stats(snapshot timekeeper.Snapshot) string {
	return fmt.Sprintf("Completed Sessions: %d   Total Study Time: %s", snapshot.Sessions, FormatStudied(snapshot.Studied))
}

// RGBA converts a #RRGGBB string to a color, falling back to the idle grey.
func RGBA(hex string) color.NRGBA {
	parsed, err := colorful.Hex(hex)
	if err != nil {
		parsed, _ = colorful.Hex(model.IdleColor)
	}
	r, g, b := parsed.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func colorOr(hex, fallback string) string {
	if hex == "" {
		return fallback
	}
	return hex
}
