// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderURL   lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble   lipgloss.Style
	BotBubble    lipgloss.Style
	Announcement lipgloss.Style
	Timestamp    lipgloss.Style
	Selected     lipgloss.Style

	// ==========================================================================
	// FEEDBACK CONTROLS
	// ==========================================================================

	FeedbackLabel    lipgloss.Style
	FeedbackButton   lipgloss.Style
	FeedbackMarked   lipgloss.Style
	FeedbackDisabled lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS BAR
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	StatusKey      lipgloss.Style
	StatusDesc     lipgloss.Style
	Spinner        lipgloss.Style

	// ==========================================================================
	// TEXT
	// ==========================================================================

	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// NewTheme builds a theme for mode "auto", "dark" or "light".
// Auto asks the terminal for its background.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.HeaderURL = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1)
	t.Announcement = lipgloss.NewStyle().
		Foreground(Emerald).
		Italic(true).
		Padding(0, 1)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)
	t.Selected = lipgloss.NewStyle().
		BorderForeground(Purple).
		Bold(true)

	t.FeedbackLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		MarginLeft(2)
	t.FeedbackButton = lipgloss.NewStyle().
		Background(FeedbackIdleBg).
		Padding(0, 1).
		MarginLeft(1)
	t.FeedbackMarked = lipgloss.NewStyle().
		Background(FeedbackMarkedBg).
		Foreground(FeedbackMarkedFg).
		Padding(0, 1).
		MarginLeft(1)
	t.FeedbackDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true).
		Padding(0, 1).
		MarginLeft(1)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.StatusDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)

	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Success = lipgloss.NewStyle().Foreground(Emerald)
	t.Error = lipgloss.NewStyle().Foreground(Rose)
}

// Glamour returns the glamour style name matching the theme.
func (t *Theme) Glamour() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// RenderSuccess prefixes msg with the success indicator.
func (t *Theme) RenderSuccess(msg string) string {
	return t.Success.Render("[OK] " + msg)
}

// RenderError prefixes msg with the error indicator.
func (t *Theme) RenderError(msg string) string {
	return t.Error.Render("[X] " + msg)
}
