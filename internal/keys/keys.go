// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the review view.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextFile key.Binding
	PrevFile key.Binding

	// Review actions
	ToggleViewed  key.Binding
	MarkAllViewed key.Binding
	Undo          key.Binding
	NextUnviewed  key.Binding

	// Card actions
	ToggleExpand key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	WordDiff     key.Binding
	FullFile     key.Binding

	// External actions
	OpenEditor key.Binding
	Reveal     key.Binding
	YankPath   key.Binding

	// General
	Refresh key.Binding
	Summary key.Binding
	LogView key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("J", "tab"),
			key.WithHelp("J", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("K", "shift+tab"),
			key.WithHelp("K", "previous file"),
		),

		// Review actions
		ToggleViewed: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle viewed"),
		),
		MarkAllViewed: key.NewBinding(
			key.WithKeys("V"),
			key.WithHelp("V", "mark all viewed"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo mark"),
		),
		NextUnviewed: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next unviewed"),
		),

		// Card actions
		ToggleExpand: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand/collapse file"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),
		WordDiff: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle word diff"),
		),
		FullFile: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "show full file"),
		),

		// External actions
		OpenEditor: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "open in editor"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "reveal in file manager"),
		),
		YankPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy file path"),
		),

		// General
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh diff"),
		),
		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "review summary"),
		),
		LogView: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log tail"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "go back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleViewed, k.NextUnviewed, k.ToggleExpand, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom, k.NextFile, k.PrevFile}, // Navigation
		{k.ToggleViewed, k.MarkAllViewed, k.Undo, k.NextUnviewed},                     // Review
		{k.ToggleExpand, k.ExpandAll, k.CollapseAll, k.WordDiff, k.FullFile},          // Cards
		{k.OpenEditor, k.Reveal, k.YankPath},                                          // External
		{k.Refresh, k.Summary, k.LogView, k.Help, k.Escape, k.Quit},                   // General
	}
}
