package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	Parent  key.Binding
	Refresh key.Binding
	Cancel  key.Binding
	Details key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open"),
	),
	Parent: key.NewBinding(
		key.WithKeys("backspace", "h", "left"),
		key.WithHelp("backspace", "parent"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("c", "esc"),
		key.WithHelp("c", "cancel"),
	),
	Details: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "details"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
