package clockface

import (
	"context"
	"math/rand"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"studyclock/internal/core/timekeeper"
	"studyclock/internal/ui/animation"
	"studyclock/internal/ui/display"
	"studyclock/resources"
)

const (
	headingTextSize = 26
	timerTextSize   = 72
	phaseTextSize   = 15
)

// Callbacks defines clock control handlers.
type Callbacks struct {
	OnStart    func()
	OnStop     func()
	OnReset    func()
	OnSettings func()
}

// Window is the main clock face.
type Window struct {
	window      fyne.Window
	callbacks   Callbacks
	heading     *canvas.Text
	timer       *canvas.Text
	progress    *widget.ProgressBar
	start       *widget.Button
	stop        *widget.Button
	reset       *widget.Button
	settings    *widget.Button
	phases      *fyne.Container
	stats       *widget.Label
	quote       *widget.Label
	celebration *widget.Label
	engine      *animation.Engine
	cancelCtx   context.CancelFunc
	rng         *rand.Rand
	lastState   timekeeper.State
	quoteShown  bool
}

// New creates the clock window. It is hidden until Show is called.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Study Clock")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	heading := canvas.NewText(display.IdleHeading, display.RGBA(""))
	heading.Alignment = fyne.TextAlignCenter
	heading.TextStyle = fyne.TextStyle{Bold: true}
	heading.TextSize = headingTextSize

	timer := canvas.NewText("--:--", display.RGBA(""))
	timer.Alignment = fyne.TextAlignCenter
	timer.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timer.TextSize = timerTextSize

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	clock := &Window{
		window:      window,
		callbacks:   callbacks,
		heading:     heading,
		timer:       timer,
		progress:    progress,
		phases:      container.NewVBox(),
		stats:       widget.NewLabel(""),
		quote:       widget.NewLabel(""),
		celebration: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true}),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	clock.quote.Wrapping = fyne.TextWrapWord
	clock.quote.TextStyle = fyne.TextStyle{Italic: true}

	clock.start = widget.NewButton("▶️ Start", clock.handle(func() func() { return clock.callbacks.OnStart }))
	clock.stop = widget.NewButton("⏸️ Stop", clock.handle(func() func() { return clock.callbacks.OnStop }))
	clock.reset = widget.NewButton("🔄 Reset", clock.handle(func() func() { return clock.callbacks.OnReset }))
	clock.settings = widget.NewButton("⚙️ Settings", clock.handle(func() func() { return clock.callbacks.OnSettings }))
	clock.engine = animation.New(animation.DefaultConfig(), clock.SetCelebration)

	controls := container.NewHBox(layout.NewSpacer(), clock.start, clock.stop, clock.reset, layout.NewSpacer(), clock.settings)
	content := container.NewVBox(
		heading,
		timer,
		progress,
		controls,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Timer Phases:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		clock.phases,
		widget.NewSeparator(),
		clock.stats,
		clock.celebration,
		clock.quote,
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(460, 560))

	clock.quote.SetText(resources.RandomQuote(clock.rng))
	clock.quoteShown = true
	return clock
}

// Window exposes the underlying fyne window.
func (clock *Window) Window() fyne.Window {
	return clock.window
}

// Show displays the clock and brings it to front.
func (clock *Window) Show() {
	clock.window.Show()
	clock.window.RequestFocus()
}

// Render redraws the clock from snapshot. It must run on the fyne goroutine.
func (clock *Window) Render(snapshot timekeeper.Snapshot) {
	heading := display.HeadingFor(snapshot)
	clock.heading.Text = heading.Text
	clock.heading.Color = display.RGBA(heading.Color)
	clock.heading.Refresh()

	clock.timer.Text = display.FormatClock(snapshot.Remaining)
	clock.timer.Color = display.RGBA(display.TimerColor(snapshot))
	clock.timer.Refresh()

	clock.progress.SetValue(snapshot.Progress)
	clock.applyControls(display.ControlsFor(snapshot))
	clock.renderPhases(snapshot)
	clock.stats.SetText(display.Stats(snapshot))
	clock.applyState(snapshot.State)
	clock.applyQuote(display.ShowsQuote(snapshot))
}

// SetCelebration replaces the celebration text from any goroutine.
func (clock *Window) SetCelebration(text string) {
	fyne.Do(func() {
		clock.celebration.SetText(text)
	})
}

// Close stops the celebration animation.
func (clock *Window) Close() {
	clock.stopEngine()
	clock.engine.Stop()
}

func (clock *Window) applyState(state timekeeper.State) {
	previous := clock.lastState
	clock.lastState = state
	if state == previous {
		return
	}

	clock.stopEngine()
	if state == timekeeper.StateComplete {
		ctx, cancel := context.WithCancel(context.Background())
		clock.cancelCtx = cancel
		clock.engine.Celebrate(ctx, display.CompleteHeading)
		return
	}
	clock.celebration.SetText("")
}

// applyQuote draws a fresh quote each time the timer comes back to rest.
func (clock *Window) applyQuote(show bool) {
	if show && !clock.quoteShown {
		clock.quote.SetText(resources.RandomQuote(clock.rng))
	}
	clock.quoteShown = show
	if show {
		clock.quote.Show()
		return
	}
	clock.quote.Hide()
}

func (clock *Window) applyControls(controls display.Controls) {
	setEnabled(clock.start, controls.Start)
	setEnabled(clock.stop, controls.Stop)
	setEnabled(clock.reset, controls.Reset)
}

func (clock *Window) renderPhases(snapshot timekeeper.Snapshot) {
	lines := display.PhaseLines(snapshot)
	objects := make([]fyne.CanvasObject, 0, len(lines))
	for _, line := range lines {
		text := canvas.NewText(line.Mark+" "+line.Name+": "+line.Duration, display.RGBA(line.Color))
		text.TextSize = phaseTextSize
		text.TextStyle = fyne.TextStyle{Bold: line.Current}
		if line.Done {
			text.Color = display.RGBA("")
		}
		objects = append(objects, text)
	}
	clock.phases.Objects = objects
	clock.phases.Refresh()
}

func (clock *Window) handle(pick func() func()) func() {
	return func() {
		if handler := pick(); handler != nil {
			handler()
		}
	}
}

func (clock *Window) stopEngine() {
	if clock.cancelCtx != nil {
		clock.cancelCtx()
		clock.cancelCtx = nil
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
