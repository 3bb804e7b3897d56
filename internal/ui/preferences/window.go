package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)
	study    *widget.Entry
	rest     *widget.Entry
	sprint   *widget.Entry
	sound    *widget.Check
	volume   *widget.Slider
	save     *widget.Button
	cancel   *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Study Clock Settings")

	study := widget.NewEntry()
	rest := widget.NewEntry()
	sprint := widget.NewEntry()

	sound := widget.NewCheck("Play a sound when a phase ends", nil)

	volume := widget.NewSlider(0, 1)
	volume.Step = 0.05

	warning := widget.NewLabel("Changing settings will reset the current timer!")
	warning.Importance = widget.WarningImportance

	form := container.NewVBox(
		widget.NewLabelWithStyle("Customize Timer Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		warning,
		container.NewHBox(widget.NewLabel("Study"), study, widget.NewLabel(rangeHint(MinStudyMinutes, MaxStudyMinutes))),
		container.NewHBox(widget.NewLabel("Break"), rest, widget.NewLabel(rangeHint(MinBreakMinutes, MaxBreakMinutes))),
		container.NewHBox(widget.NewLabel("Sprint"), sprint, widget.NewLabel(rangeHint(MinSprintMinutes, MaxSprintMinutes))),
		sound,
		widget.NewLabel("Volume"),
		volume,
	)

	saveButton := widget.NewButton("Apply Settings", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))

	prefs := &Window{
		window: window,
		onSave: onSave,
		study:  study,
		rest:   rest,
		sprint: sprint,
		sound:  sound,
		volume: volume,
		save:   saveButton,
		cancel: cancelButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Settings returns the last applied settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.study.SetText(strconv.Itoa(int(settings.Study / time.Minute)))
	prefs.rest.SetText(strconv.Itoa(int(settings.Break / time.Minute)))
	prefs.sprint.SetText(strconv.Itoa(int(settings.Sprint / time.Minute)))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.volume.SetValue(settings.Volume)
}

func (prefs *Window) handleSave() {
	prefs.settings = ApplyForm(prefs.settings, prefs.study.Text, prefs.rest.Text, prefs.sprint.Text)
	prefs.settings.SoundEnabled = prefs.sound.Checked
	prefs.settings.Volume = prefs.volume.Value
	prefs.settings = prefs.settings.Clamped()
	prefs.UpdateSettings(prefs.settings)

	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// ApplyForm parses minute fields into settings. Non-numeric or non-positive
// fields keep their previous value, and the result is clamped to the form
// bounds.
func ApplyForm(settings Settings, study, rest, sprint string) Settings {
	if minutes, ok := parsePositiveInt(study); ok {
		settings.Study = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(rest); ok {
		settings.Break = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(sprint); ok {
		settings.Sprint = time.Duration(minutes) * time.Minute
	}
	return settings.Clamped()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func rangeHint(minMinutes, maxMinutes int) string {
	return fmt.Sprintf("min (%d-%d)", minMinutes, maxMinutes)
}
