// Package notify holds Notifier adapters for timer milestones.
package notify

import (
	"log"

	"studyclock/internal/core/timekeeper"
)

// Log writes one line per notification.
type Log struct {
	Logger *log.Logger
}

// Notify logs notification.
func (notifier Log) Notify(notification timekeeper.Notification) {
	logger := notifier.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch notification.Kind {
	case timekeeper.NotifySessionComplete:
		logger.Printf("session %d complete", notification.Sessions)
	default:
		logger.Printf("phase complete: %s", notification.Phase.Name)
	}
}

// Multi fans a notification out to every non-nil notifier in order.
type Multi []timekeeper.Notifier

// Notify forwards notification.
func (notifiers Multi) Notify(notification timekeeper.Notification) {
	for _, notifier := range notifiers {
		if notifier != nil {
			notifier.Notify(notification)
		}
	}
}
