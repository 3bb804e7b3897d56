package notify

import (
	"fmt"

	"studyclock/internal/core/timekeeper"
)

// Message returns the user-facing title and body for notification.
func Message(notification timekeeper.Notification) (string, string) {
	switch notification.Kind {
	case timekeeper.NotifySessionComplete:
		return "Session Complete! 🎉", fmt.Sprintf("Congratulations! You've completed a full study session (%d so far).", notification.Sessions)
	default:
		return notification.Phase.Name + " finished", "Time for the next phase."
	}
}
