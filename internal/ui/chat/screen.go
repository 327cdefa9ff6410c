// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/helpdesk-tui/internal/transcript"
)

// screen is the View handed to the chat controller. It owns the transcript
// and records the effects the controller asked for; Model applies them to
// its widgets after each call. Only the Bubble Tea loop touches it.
type screen struct {
	tr *transcript.Transcript

	dirty       bool
	clearInput  bool
	scrollToEnd bool
}

func newScreen() *screen {
	return &screen{tr: transcript.New()}
}

func (s *screen) AppendMessage(msg *transcript.Message) {
	s.tr.Append(msg)
	s.dirty = true
}

func (s *screen) AttachFeedback(msg *transcript.Message, pair *transcript.FeedbackPair) {
	if s.tr.AttachFeedback(msg, pair) {
		s.dirty = true
	}
}

func (s *screen) FeedbackChanged(*transcript.FeedbackPair) {
	s.dirty = true
}

func (s *screen) ClearInput() {
	s.clearInput = true
}

func (s *screen) ClearTranscript() {
	s.tr.Clear()
	s.dirty = true
}

func (s *screen) ScrollToEnd() {
	s.scrollToEnd = true
}

// effects returns and resets the pending effects.
func (s *screen) effects() (dirty, clearInput, scrollToEnd bool) {
	dirty, clearInput, scrollToEnd = s.dirty, s.clearInput, s.scrollToEnd
	s.dirty, s.clearInput, s.scrollToEnd = false, false, false
	return
}
