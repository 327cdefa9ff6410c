// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/helpdesk-tui/internal/transcript"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	parts := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
	}
	if m.showHelp {
		parts = append(parts, m.help.FullHelpView(m.keys.FullHelp()))
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// =============================================================================
// HEADER AND STATUS BAR
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("helpdesk")
	url := m.theme.HeaderURL.Render(util.TruncateWidth(m.url, max(m.width/2, 10)))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(url) - 2
	if gap < 1 {
		return m.theme.Header.Width(m.width).Render(title)
	}
	return m.theme.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + url)
}

func (m Model) renderStatusBar() string {
	var left string
	if n := m.client.InFlight(); n > 0 {
		left = m.spinner.View() + " " + m.theme.StatusDesc.Render(fmt.Sprintf("waiting on %d request(s)", n))
	} else if m.notice != "" {
		left = m.notice
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders the whole transcript for the viewport.
func (m Model) renderMessages() string {
	if m.screen.tr.IsEmpty() {
		return m.theme.Muted.Render("  No messages yet. Ask the support bot anything.")
	}

	msgs := m.screen.tr.Messages()
	selected := m.selectedReply()
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, selected != nil && msg.ID == selected.ID))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg *transcript.Message, selected bool) string {
	bubbleWidth := m.width - 6
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var block string
	switch {
	case msg.IsUser():
		body := strings.Join(util.Wrap(msg.Display(), bubbleWidth-4), "\n")
		block = m.theme.UserBubble.Render(body)

	case msg.Feedback == nil:
		// The reset announcement.
		block = m.theme.Announcement.Render(msg.Display())

	default:
		body := msg.Display()
		if m.ui.Markdown {
			body = msg.Sender.Prefix() + m.md.render(msg.ID, msg.Text, bubbleWidth-4)
		} else {
			body = strings.Join(util.Wrap(body, bubbleWidth-4), "\n")
		}
		style := m.theme.BotBubble
		if selected {
			style = style.Inherit(m.theme.Selected).BorderForeground(m.theme.Selected.GetBorderTopForeground())
		}
		block = style.Render(body) + "\n" + m.renderFeedback(msg.Feedback, selected)
	}

	if m.ui.ShowTimestamps {
		block = m.theme.Timestamp.Render(msg.Timestamp.Format("15:04")) + "\n" + block
	}
	return block
}

// renderFeedback draws the "Feedback:" label and the two controls.
func (m Model) renderFeedback(pair *transcript.FeedbackPair, selected bool) string {
	label := "Feedback:"
	if selected {
		label = "▸ " + label
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.FeedbackLabel.Render(label),
		m.renderControl(pair, transcript.RatingUp),
		m.renderControl(pair, transcript.RatingDown),
	)
}

func (m Model) renderControl(pair *transcript.FeedbackPair, r transcript.Rating) string {
	switch {
	case pair.Marked(r):
		return m.theme.FeedbackMarked.Render(r.Glyph())
	case !pair.Enabled():
		return m.theme.FeedbackDisabled.Render(r.Glyph())
	default:
		return m.theme.FeedbackButton.Render(r.Glyph())
	}
}
