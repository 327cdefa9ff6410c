// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat view.
type KeyMap struct {
	Submit    key.Binding
	Reset     key.Binding
	NextReply key.Binding
	PrevReply key.Binding
	RateUp    key.Binding
	RateDown  key.Binding
	Copy      key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
// Bindings avoid printable keys so typing is never intercepted.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "new conversation"),
		),
		NextReply: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next reply"),
		),
		PrevReply: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous reply"),
		),
		RateUp: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "👍"),
		),
		RateDown: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "👎"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy reply"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "page down"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.RateUp, k.RateDown, k.Reset, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Reset, k.Quit},
		{k.NextReply, k.PrevReply, k.RateUp, k.RateDown, k.Copy},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Help},
	}
}

// newHelp styles the help view to match the status bar.
func newHelp(theme *styles.Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = theme.StatusKey
	h.Styles.ShortDesc = theme.StatusDesc
	h.Styles.FullKey = theme.StatusKey
	h.Styles.FullDesc = theme.StatusDesc
	return h
}
