// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the full-screen chat view for the TUI.
//
// The Model is a Bubble Tea model that renders the transcript in a scrolling
// viewport with an input line below it. It owns the transcript and hands a
// View to the chat controller; continuations from the controller arrive as
// ContinuationMsg values and run inside Update.
//
// # Key Types
//
//   - Model: The Bubble Tea model
//   - Options: Backend, theme, UI settings and logger
//   - KeyMap: Key bindings, also used to render help
//
// # Key Bindings
//
//	Enter          send the input (or run a /command)
//	Ctrl+R         reset the conversation
//	Tab/Shift+Tab  select a bot reply
//	Ctrl+T/Ctrl+X  rate the selected reply 👍 / 👎
//	Ctrl+Y         copy the selected reply
//	PgUp/PgDn      scroll
//	F1             toggle help
//	Ctrl+C         quit
//
// # Usage
//
//	m := chat.New(chat.Options{Backend: client, Theme: theme})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
//	m.Shutdown()
package chat
