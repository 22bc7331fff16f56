package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for both screens
type KeyMap struct {
	// Kiosk navigation
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	// Room display
	Start    key.Binding
	Pause    key.Binding
	Reset    key.Binding
	Next     key.Binding
	Previous key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→", "next step"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "h", "b"),
			key.WithHelp("←", "previous step"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// KioskHelp returns the bindings shown on the kiosk status bar
func (k KeyMap) KioskHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back}
}

// RoomHelp returns the bindings shown on the room status bar
func (k KeyMap) RoomHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Reset, k.Previous, k.Next}
}
