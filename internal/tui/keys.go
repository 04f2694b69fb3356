package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Escape   key.Binding
	Delete   key.Binding
	Up       key.Binding
	Down     key.Binding
	Reload   key.Binding

	// Pivot table toggles
	Type       key.Binding
	Transpose  key.Binding
	Raw        key.Binding
	Trial      key.Binding
	Period     key.Binding
	Expand     key.Binding
	Format     key.Binding
	Properties key.Binding
	Info       key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete snapshot"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "move down"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
	Type: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "balance type"),
	),
	Transpose: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "transpose"),
	),
	Raw: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "raw signs"),
	),
	Trial: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "trial balance"),
	),
	Period: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "period totals"),
	),
	Expand: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "expand"),
	),
	Format: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "format"),
	),
	Properties: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "properties"),
	),
	Info: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "container info"),
	),
}
