package timekeeper

import (
	"time"

	"studyclock/internal/core/model"
)

// Status is the stored run status of the timer.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
)

// State is the derived mode shown to users.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateComplete State = "complete"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventPhaseAdvance    EventType = "phase_advance"
	EventSessionComplete EventType = "session_complete"
)

// Snapshot is the render view of the timer at one instant.
type Snapshot struct {
	Status     Status
	State      State
	Index      int
	PhaseCount int
	Phase      model.Phase
	Phases     []model.Phase
	Remaining  time.Duration
	Progress   float64
	Sessions   int
	Studied    time.Duration
	Complete   bool
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// Finished is the phase that ended for phase_advance and session_complete.
	Finished model.Phase
	At       time.Time
}
