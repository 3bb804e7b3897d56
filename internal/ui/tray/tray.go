package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"studyclock/internal/core/timekeeper"
	"studyclock/internal/ui/display"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow     func()
	OnStart    func()
	OnStop     func()
	OnReset    func()
	OnSettings func()
	OnQuit     func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
	callbacks  Callbacks
	status     string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    display.IdleHeading,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.startItem = fyne.NewMenuItem("Start", invoke(func() func() { return manager.callbacks.OnStart }))
	manager.stopItem = fyne.NewMenuItem("Stop", invoke(func() func() { return manager.callbacks.OnStop }))
	manager.stopItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(func() func() { return manager.callbacks.OnReset }))

	manager.refreshStatus()
	return manager
}

// SetSnapshot updates the status line and enabled actions.
func (manager *Manager) SetSnapshot(snapshot timekeeper.Snapshot) {
	heading := display.HeadingFor(snapshot)
	manager.status = heading.Text
	if snapshot.State == timekeeper.StateRunning || snapshot.State == timekeeper.StatePaused {
		manager.status = fmt.Sprintf("%s %s", heading.Text, display.FormatClock(snapshot.Remaining))
	}
	if snapshot.State == timekeeper.StatePaused {
		manager.status += " (paused)"
	}

	controls := display.ControlsFor(snapshot)
	manager.startItem.Disabled = !controls.Start
	manager.stopItem.Disabled = !controls.Stop
	manager.resetItem.Disabled = !controls.Reset
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Study Clock",
		manager.statusItem,
		fyne.NewMenuItem("Show Clock", invoke(func() func() { return manager.callbacks.OnShow })),
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.stopItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings", invoke(func() func() { return manager.callbacks.OnSettings })),
		fyne.NewMenuItem("Quit", invoke(func() func() { return manager.callbacks.OnQuit })),
	))
}

func invoke(pick func() func()) func() {
	return func() {
		if handler := pick(); handler != nil {
			handler()
		}
	}
}
