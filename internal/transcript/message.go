// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// Prefix returns the glyph rendered before the message text.
func (s Sender) Prefix() string {
	switch s {
	case SenderUser:
		return "👤 "
	case SenderBot:
		return "🤖 "
	default:
		return ""
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// AnnouncementText is the bot message shown after a successful reset.
const AnnouncementText = "New conversation started!"

// Message is a single rendered line of the transcript.
// Messages are immutable once appended; only the attached FeedbackPair
// changes state.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	Timestamp time.Time

	// Feedback is the control pair for a bot reply. Nil for user messages
	// and for the reset announcement.
	Feedback *FeedbackPair
}

// NewUserMessage creates a message sent by the user.
func NewUserMessage(text string) *Message {
	return newMessage(SenderUser, text)
}

// NewBotMessage creates a reply message from the bot.
func NewBotMessage(text string) *Message {
	return newMessage(SenderBot, text)
}

// NewAnnouncement creates the synthetic bot message shown after a reset.
func NewAnnouncement() *Message {
	return newMessage(SenderBot, AnnouncementText)
}

func newMessage(sender Sender, text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// IsUser reports whether the user sent the message.
func (m *Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsBot reports whether the bot sent the message.
func (m *Message) IsBot() bool {
	return m.Sender == SenderBot
}

// Display returns the text as rendered, with the sender prefix.
func (m *Message) Display() string {
	return m.Sender.Prefix() + m.Text
}
