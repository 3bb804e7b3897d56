package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Stop     key.Binding
	Reset    key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding

	Next   key.Binding
	Apply  key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start")),
		Stop:     key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "stop")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Settings: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "settings")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Next:   key.NewBinding(key.WithKeys("tab", "shift+tab", "down", "up"), key.WithHelp("tab", "next field")),
		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Start, keys.Stop, keys.Reset, keys.Settings, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Start, keys.Stop, keys.Reset},
		{keys.Settings, keys.Help, keys.Quit},
	}
}

type settingsKeyMap struct {
	keys keyMap
}

func (settings settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{settings.keys.Next, settings.keys.Apply, settings.keys.Cancel}
}

func (settings settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{settings.ShortHelp()}
}
