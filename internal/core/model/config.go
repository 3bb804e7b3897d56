package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPhase reports a phase list the timer cannot run.
var ErrInvalidPhase = errors.New("invalid phase")

// Phase is one named timed segment of a study session.
type Phase struct {
	Name     string        `msgpack:"name"`
	Duration time.Duration `msgpack:"duration"`
	Color    string        `msgpack:"color"`
}

// Default phase names and colors.
const (
	StudyPhaseName  = "Study Session"
	BreakPhaseName  = "Short Break"
	SprintPhaseName = "Final Sprint"

	StudyColor  = "#FF6B6B"
	BreakColor  = "#4ECDC4"
	SprintColor = "#45B7D1"

	IdleColor     = "#95A5A6"
	CompleteColor = "#27AE60"
)

// DefaultPhases returns the stock study, break and sprint sequence.
func DefaultPhases() []Phase {
	return StandardPhases(20*time.Minute, 8*time.Minute, 2*time.Minute)
}

// StandardPhases builds the three-phase sequence with custom durations.
func StandardPhases(study, rest, sprint time.Duration) []Phase {
	return []Phase{
		{Name: StudyPhaseName, Duration: study, Color: StudyColor},
		{Name: BreakPhaseName, Duration: rest, Color: BreakColor},
		{Name: SprintPhaseName, Duration: sprint, Color: SprintColor},
	}
}

// ValidatePhases checks that phases is non-empty and every duration is a
// positive whole number of seconds.
func ValidatePhases(phases []Phase) error {
	if len(phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidPhase)
	}
	for i, phase := range phases {
		if phase.Duration <= 0 {
			return fmt.Errorf("%w: phase %d (%q) has non-positive duration %s", ErrInvalidPhase, i, phase.Name, phase.Duration)
		}
		if phase.Duration%time.Second != 0 {
			return fmt.Errorf("%w: phase %d (%q) duration %s is not whole seconds", ErrInvalidPhase, i, phase.Name, phase.Duration)
		}
		if phase.Color != "" {
			if _, err := colorful.Hex(phase.Color); err != nil {
				return fmt.Errorf("%w: phase %d (%q) color %q", ErrInvalidPhase, i, phase.Name, phase.Color)
			}
		}
	}
	return nil
}

// TotalDuration sums the durations of phases.
func TotalDuration(phases []Phase) time.Duration {
	var total time.Duration
	for _, phase := range phases {
		total += phase.Duration
	}
	return total
}

// ClonePhases returns a copy of phases that does not share backing storage.
func ClonePhases(phases []Phase) []Phase {
	return append([]Phase(nil), phases...)
}
