// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling for the helpdesk TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values, so the same palette works on
light and dark terminals.

	Cyan / Purple       - Brand and selection accents
	UserBubble*         - User messages
	BotBubble*          - Bot replies and announcements
	FeedbackMarkedBg/Fg - The control that recorded a rating

# Theme (theme.go)

NewTheme detects the terminal with termenv, or honors an explicit "dark" or
"light" mode, and builds every lipgloss.Style the views use.

	theme := styles.NewTheme("auto")
	fmt.Println(theme.UserBubble.Render("👤 hello"))
*/
package styles
