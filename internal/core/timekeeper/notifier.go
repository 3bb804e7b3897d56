package timekeeper

import (
	"time"

	"studyclock/internal/core/model"
)

// NotificationKind distinguishes a phase boundary from a finished session.
type NotificationKind int

const (
	NotifyPhaseComplete NotificationKind = iota
	NotifySessionComplete
)

func (kind NotificationKind) String() string {
	switch kind {
	case NotifyPhaseComplete:
		return "phase_complete"
	case NotifySessionComplete:
		return "session_complete"
	default:
		return "unknown"
	}
}

// Notification is delivered once per boundary crossing.
type Notification struct {
	Kind     NotificationKind
	Phase    model.Phase
	Sessions int
	At       time.Time
}

// Notifier plays sounds or shows messages for timer milestones.
// It is called without the TimeKeeper lock held.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls fn.
func (fn NotifierFunc) Notify(notification Notification) {
	fn(notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
