package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Timeframes
	NextTimeframe key.Binding
	PrevTimeframe key.Binding
	Week          key.Binding
	Month         key.Binding
	Year          key.Binding

	// View modes
	ToggleView key.Binding

	// Application
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp/Ctrl+B", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn/Ctrl+F", "page down"),
		),

		// Timeframes
		NextTimeframe: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "wider timeframe"),
		),
		PrevTimeframe: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "narrower timeframe"),
		),
		Week: key.NewBinding(
			key.WithKeys("w", "1"),
			key.WithHelp("w", "week"),
		),
		Month: key.NewBinding(
			key.WithKeys("m", "2"),
			key.WithHelp("m", "month"),
		),
		Year: key.NewBinding(
			key.WithKeys("y", "3"),
			key.WithHelp("y", "year"),
		),

		// View modes
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "report/budgets"),
		),

		// Application
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/Esc", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTimeframe, k.NextTimeframe, k.ToggleView, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.PrevTimeframe, k.NextTimeframe, k.Week, k.Month, k.Year},
		{k.ToggleView, k.Refresh, k.Help, k.Quit},
	}
}
