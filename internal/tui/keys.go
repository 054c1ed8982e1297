package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	Display key.Binding
	Appear  key.Binding
	Random  key.Binding
	Copy    key.Binding
	Clear   key.Binding

	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Display, k.Appear, k.Random, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Display, k.Appear, k.Random},
		{k.Copy, k.Clear},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings. Plain letters are left
// to the text input.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Display: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show text"),
		),
		Appear: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "show again"),
		),
		Random: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "show random number"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy label text"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear input"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
	}
}
