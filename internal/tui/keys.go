package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextPane key.Binding

	// Actions
	Search          key.Binding
	Submit          key.Binding
	Cancel          key.Binding
	Quit            key.Binding
	Help            key.Binding
	PickLibrary     key.Binding
	ShowHistory     key.Binding
	ClearHistory    key.Binding
	ToggleTag       key.Binding
	SelectAllTags   key.Binding
	ToggleAvailable key.Binding
	QuickFilter     key.Binding
	HistoryBack     key.Binding
	HistoryForward  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		PickLibrary: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "library"),
		),
		ShowHistory: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "history"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear history"),
		),
		ToggleTag: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle tag"),
		),
		SelectAllTags: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "all libraries"),
		),
		ToggleAvailable: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "available only"),
		),
		QuickFilter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter titles"),
		),
		HistoryBack: key.NewBinding(
			key.WithKeys("alt+left", "ctrl+o"),
			key.WithHelp("C-o", "back"),
		),
		HistoryForward: key.NewBinding(
			key.WithKeys("alt+right", "ctrl+n"),
			key.WithHelp("C-n", "forward"),
		),
	}
}

// Keys is the global keymap instance
var Keys = DefaultKeyMap()
