package storage

import (
	"fmt"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"studyclock/internal/core/model"
)

type planFile struct {
	Phases []planPhase `toml:"phase"`
}

type planPhase struct {
	Name    string `toml:"name"`
	Minutes int    `toml:"minutes"`
	Seconds int    `toml:"seconds"`
	Color   string `toml:"color"`
}

// Longest phase a plan may declare.
const maxPlanPhase = 24 * time.Hour

var planPalette = []string{model.StudyColor, model.BreakColor, model.SprintColor}

// LoadPlan reads a TOML phase plan:
//
//	[[phase]]
//	name = "Deep Work"
//	minutes = 50
//	color = "#FF6B6B"
func LoadPlan(path string) ([]model.Phase, error) {
	var file planFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse plan %s: unknown key %q", path, undecoded[0].String())
	}
	return planPhases(file)
}

// DecodePlan parses a TOML phase plan from memory.
func DecodePlan(data string) ([]model.Phase, error) {
	var file planFile
	meta, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse plan: unknown key %q", undecoded[0].String())
	}
	return planPhases(file)
}

func planPhases(file planFile) ([]model.Phase, error) {
	phases := make([]model.Phase, 0, len(file.Phases))
	for i, entry := range file.Phases {
		name := norm.NFC.String(strings.TrimSpace(entry.Name))
		if name == "" {
			name = fmt.Sprintf("Phase %d", i+1)
		}
		color := strings.TrimSpace(entry.Color)
		if color == "" {
			color = planPalette[i%len(planPalette)]
		}
		duration, err := planDuration(entry)
		if err != nil {
			return nil, fmt.Errorf("plan: phase %d: %w", i+1, err)
		}
		phases = append(phases, model.Phase{
			Name:     name,
			Duration: duration,
			Color:    color,
		})
	}
	if err := model.ValidatePhases(phases); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return phases, nil
}

func planDuration(entry planPhase) (time.Duration, error) {
	minutes, err := safecast.Conv[uint32](entry.Minutes)
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %d", model.ErrInvalidPhase, entry.Minutes)
	}
	seconds, err := safecast.Conv[uint32](entry.Seconds)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %d", model.ErrInvalidPhase, entry.Seconds)
	}
	if time.Duration(minutes) > maxPlanPhase/time.Minute || time.Duration(seconds) > maxPlanPhase/time.Second {
		return 0, fmt.Errorf("%w: longer than %s", model.ErrInvalidPhase, maxPlanPhase)
	}
	duration := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if duration > maxPlanPhase {
		return 0, fmt.Errorf("%w: longer than %s", model.ErrInvalidPhase, maxPlanPhase)
	}
	return duration, nil
}
