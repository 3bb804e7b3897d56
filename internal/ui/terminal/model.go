package terminal

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"studyclock/internal/core/model"
	"studyclock/internal/core/timekeeper"
	"studyclock/internal/notify"
	"studyclock/internal/ui/display"
	"studyclock/internal/ui/preferences"
	"studyclock/resources"
)

const (
	defaultWidth    = 60
	minPhaseWidth   = 20
	settingsWarning = "⚠️ Changing settings will reset the current timer!"
)

// Options configures the terminal clock.
type Options struct {
	// TickInterval is how often the clock polls the timer. Defaults to one second.
	TickInterval time.Duration
	Settings     preferences.Settings
	// OnSettings persists settings applied from the settings form.
	OnSettings func(preferences.Settings) error
}

type tickMsg time.Time

// Model is the bubbletea model of the terminal clock.
type Model struct {
	keeper     *timekeeper.TimeKeeper
	interval   time.Duration
	keys       keyMap
	help       help.Model
	bar        progress.Model
	inputs     []textinput.Model
	focus      int
	editing    bool
	settings   preferences.Settings
	onSettings func(preferences.Settings) error
	snapshot   timekeeper.Snapshot
	quote      string
	flash      string
	rng        *rand.Rand
	width      int
}

// New creates a terminal clock bound to keeper.
func New(keeper *timekeeper.TimeKeeper, options Options) *Model {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}

	bar := progress.New(progress.WithSolidFill(model.StudyColor), progress.WithoutPercentage())
	bar.Width = defaultWidth

	terminalModel := &Model{
		keeper:     keeper,
		interval:   options.TickInterval,
		keys:       defaultKeyMap(),
		help:       help.New(),
		bar:        bar,
		inputs:     newSettingsInputs(),
		settings:   options.Settings,
		onSettings: options.OnSettings,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		width:      defaultWidth,
	}
	terminalModel.observe(keeper.Snapshot())
	return terminalModel
}

// Run starts the terminal program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, keeper *timekeeper.TimeKeeper, options Options) error {
	program := tea.NewProgram(New(keeper, options), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run terminal clock: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.observe(m.keeper.Tick())
		return m, m.tick()
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
			m.help.Width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m, m.updateSettings(msg)
		}
		return m, m.updateClock(msg)
	}
	return m, nil
}

func (m *Model) updateClock(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.keeper.Start()
		m.flash = ""
	case key.Matches(msg, m.keys.Stop):
		m.keeper.Stop()
	case key.Matches(msg, m.keys.Reset):
		m.keeper.Reset()
		m.flash = ""
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()
	}
	m.observe(m.keeper.Snapshot())
	return nil
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeSettings()
		return nil
	case key.Matches(msg, m.keys.Apply):
		m.applySettings()
		return nil
	case key.Matches(msg, m.keys.Next):
		step := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			step = len(m.inputs) - 1
		}
		return m.focusInput((m.focus + step) % len(m.inputs))
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) openSettings() tea.Cmd {
	m.editing = true
	values := []time.Duration{m.settings.Study, m.settings.Break, m.settings.Sprint}
	for i := range m.inputs {
		m.inputs[i].SetValue(strconv.FormatInt(int64(values[i]/time.Minute), 10))
	}
	return m.focusInput(0)
}

func (m *Model) closeSettings() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) applySettings() {
	updated := preferences.ApplyForm(m.settings, m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value())
	if err := m.keeper.Reconfigure(updated.Phases()); err != nil {
		m.flash = err.Error()
		return
	}
	m.settings = updated
	m.flash = "✅ Settings updated!"
	if m.onSettings != nil {
		if err := m.onSettings(updated); err != nil {
			m.flash = fmt.Sprintf("settings applied but not saved: %v", err)
		}
	}
	m.closeSettings()
	m.observe(m.keeper.Snapshot())
}

func (m *Model) focusInput(index int) tea.Cmd {
	m.focus = index
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == index {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

// observe records snapshot and reacts to state and phase transitions.
func (m *Model) observe(snapshot timekeeper.Snapshot) {
	previous := m.snapshot
	m.snapshot = snapshot

	if display.ShowsQuote(snapshot) && (!display.ShowsQuote(previous) || m.quote == "") {
		m.quote = resources.RandomQuote(m.rng)
	}
	if previous.Status == timekeeper.StatusRunning && snapshot.Index != previous.Index && !snapshot.Complete {
		title, _ := notify.Message(timekeeper.Notification{Kind: timekeeper.NotifyPhaseComplete, Phase: previous.Phase})
		m.flash = title
	}
	if snapshot.Complete && !previous.Complete {
		m.flash = ""
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	snapshot := m.snapshot
	heading := display.HeadingFor(snapshot)
	timerColor := display.TimerColor(snapshot)

	titleStyle := lipgloss.NewStyle().Bold(true)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(heading.Color))
	timerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 2).Foreground(lipgloss.Color(timerColor))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(model.IdleColor))

	var b strings.Builder
	b.WriteString(titleStyle.Render("🕐 Study Clock"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("A Pomodoro-style timer for focused study sessions"))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render(heading.Text))
	b.WriteString("\n")
	b.WriteString(timerStyle.Render(display.FormatClock(snapshot.Remaining)))
	b.WriteString("\n")

	m.bar.FullColor = timerColor
	b.WriteString(m.bar.ViewAs(snapshot.Progress))
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.settingsView())
		b.WriteString("\n")
		b.WriteString(m.help.View(settingsKeyMap{keys: m.keys}))
		return b.String()
	}

	b.WriteString(titleStyle.Render("Timer Phases:"))
	b.WriteString("\n")
	phaseWidth := max(m.width-4, minPhaseWidth)
	for _, line := range display.PhaseLines(snapshot) {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(line.Color))
		switch {
		case line.Done:
			style = mutedStyle.Strikethrough(true)
		case line.Current:
			style = style.Bold(true)
		default:
			style = mutedStyle
		}
		text := truncate(fmt.Sprintf("%s %s: %s", line.Mark, line.Name, line.Duration), phaseWidth)
		b.WriteString("  " + style.Render(text) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(display.Stats(snapshot)))
	b.WriteString("\n\n")

	switch {
	case snapshot.Complete:
		_, body := notify.Message(timekeeper.Notification{Kind: timekeeper.NotifySessionComplete, Sessions: snapshot.Sessions})
		banner := lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(model.CompleteColor)).
			Foreground(lipgloss.Color(model.CompleteColor)).
			Padding(0, 1)
		b.WriteString(banner.Render("🎉 " + body))
		b.WriteString("\n")
	case display.ShowsQuote(snapshot) && m.quote != "":
		b.WriteString(lipgloss.NewStyle().Italic(true).Render(truncate("💡 "+m.quote, max(m.width, minPhaseWidth))))
		b.WriteString("\n")
	}
	if m.flash != "" {
		b.WriteString(m.flash)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) settingsView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Customize Timer Durations"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(settingsWarning))
	b.WriteString("\n")
	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func newSettingsInputs() []textinput.Model {
	labels := []struct {
		prompt   string
		min, max int
	}{
		{"Study", preferences.MinStudyMinutes, preferences.MaxStudyMinutes},
		{"Break", preferences.MinBreakMinutes, preferences.MaxBreakMinutes},
		{"Sprint", preferences.MinSprintMinutes, preferences.MaxSprintMinutes},
	}
	inputs := make([]textinput.Model, 0, len(labels))
	for _, label := range labels {
		input := textinput.New()
		input.Prompt = fmt.Sprintf("%-7s (%d-%d min): ", label.prompt, label.min, label.max)
		input.CharLimit = 3
		input.Width = 4
		inputs = append(inputs, input)
	}
	return inputs
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
