// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

// Transcript is the ordered list of messages shown to the user.
// It only grows, except for Clear.
type Transcript struct {
	messages []*Message
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds a message at the end.
func (t *Transcript) Append(msg *Message) {
	if msg == nil {
		return
	}
	t.messages = append(t.messages, msg)
}

// AttachFeedback binds pair to msg. A message holds at most one pair, and
// only bot messages take one; other calls are ignored and return false.
func (t *Transcript) AttachFeedback(msg *Message, pair *FeedbackPair) bool {
	if msg == nil || pair == nil || !msg.IsBot() || msg.Feedback != nil {
		return false
	}
	msg.Feedback = pair
	return true
}

// Clear removes every message.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Messages returns the messages in insertion order.
// The slice must not be modified.
func (t *Transcript) Messages() []*Message {
	return t.messages
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// IsEmpty reports whether the transcript has no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.messages) == 0
}

// Last returns the most recent message, or nil.
func (t *Transcript) Last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// LastBotReply returns the most recent bot message carrying feedback controls.
func (t *Transcript) LastBotReply() *Message {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if m := t.messages[i]; m.IsBot() && m.Feedback != nil {
			return m
		}
	}
	return nil
}

// Replies returns the bot messages that carry feedback controls, oldest first.
func (t *Transcript) Replies() []*Message {
	var out []*Message
	for _, m := range t.messages {
		if m.IsBot() && m.Feedback != nil {
			out = append(out, m)
		}
	}
	return out
}

// IndexOf returns the position of the message with the given ID, or -1.
func (t *Transcript) IndexOf(id string) int {
	for i, m := range t.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}
