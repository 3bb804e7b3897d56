package preferences

import (
	"time"

	"studyclock/internal/core/model"
)

// Bounds accepted by the settings form, in minutes.
const (
	MinStudyMinutes  = 1
	MaxStudyMinutes  = 60
	MinBreakMinutes  = 1
	MaxBreakMinutes  = 30
	MinSprintMinutes = 1
	MaxSprintMinutes = 15
)

// Settings defines editable user preferences.
type Settings struct {
	Study  time.Duration
	Break  time.Duration
	Sprint time.Duration

	SoundEnabled bool
	Volume       float64

	// PlanFile points at a TOML phase plan that replaces the three standard phases.
	PlanFile     string
	RestoreState bool
}

// DefaultSettings returns default settings for the study clock.
func DefaultSettings() Settings {
	return Settings{
		Study:        20 * time.Minute,
		Break:        8 * time.Minute,
		Sprint:       2 * time.Minute,
		SoundEnabled: true,
		Volume:       0.8,
		RestoreState: true,
	}
}

// Phases converts settings to the standard phase sequence.
func (settings Settings) Phases() []model.Phase {
	return model.StandardPhases(settings.Study, settings.Break, settings.Sprint)
}

// Clamped returns settings with every duration forced into the form bounds
// and volume into [0, 1].
func (settings Settings) Clamped() Settings {
	settings.Study = clampMinutes(settings.Study, MinStudyMinutes, MaxStudyMinutes)
	settings.Break = clampMinutes(settings.Break, MinBreakMinutes, MaxBreakMinutes)
	settings.Sprint = clampMinutes(settings.Sprint, MinSprintMinutes, MaxSprintMinutes)
	if settings.Volume < 0 {
		settings.Volume = 0
	}
	if settings.Volume > 1 {
		settings.Volume = 1
	}
	return settings
}

func clampMinutes(value time.Duration, minMinutes, maxMinutes int) time.Duration {
	minutes := int(value / time.Minute)
	if minutes < minMinutes {
		minutes = minMinutes
	}
	if minutes > maxMinutes {
		minutes = maxMinutes
	}
	return time.Duration(minutes) * time.Minute
}
