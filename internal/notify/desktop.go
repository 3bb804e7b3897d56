package notify

import (
	"fyne.io/fyne/v2"

	"studyclock/internal/core/timekeeper"
)

// Desktop posts notifications through the fyne app.
type Desktop struct {
	App fyne.App
}

// Notify sends a desktop notification.
func (notifier Desktop) Notify(notification timekeeper.Notification) {
	if notifier.App == nil {
		return
	}
	title, body := Message(notification)
	fyne.Do(func() {
		notifier.App.SendNotification(fyne.NewNotification(title, body))
	})
}
