package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding

	// Actions
	Quit          key.Binding
	Help          key.Binding
	Escape        key.Binding
	Search        key.Binding
	Filter        key.Binding
	Save          key.Binding
	ToggleWatched key.Binding
	Delete        key.Binding
	Play          key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
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
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab", "next filter"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab", "prev filter"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("s", "ctrl+f"),
			key.WithHelp("s", "search videos"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter saved"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "save video"),
		),
		ToggleWatched: key.NewBinding(
			key.WithKeys("w", " "),
			key.WithHelp("w", "toggle watched"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d", "delete"),
			key.WithHelp("x", "delete"),
		),
		Play: key.NewBinding(
			key.WithKeys("p", "o"),
			key.WithHelp("p", "play"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// LibraryHelp returns the bindings shown on the help screen for the saved list
func (k KeyMap) LibraryHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Play, k.ToggleWatched, k.Delete, k.Filter, k.Search, k.Help, k.Quit}
}

// SearchHelp returns the bindings shown on the help screen for search results
func (k KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Save, k.Play, k.Search, k.Escape}
}
