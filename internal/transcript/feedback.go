// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// RATING
// =============================================================================

// Rating is a thumbs-up or thumbs-down verdict on a bot reply.
type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// Glyph returns the wire and display form of the rating.
func (r Rating) Glyph() string {
	switch r {
	case RatingUp:
		return "👍"
	case RatingDown:
		return "👎"
	default:
		return ""
	}
}

// Valid reports whether r is a known rating.
func (r Rating) Valid() bool {
	return r == RatingUp || r == RatingDown
}

// ParseRating accepts "up", "down", "+", "-" or the glyphs themselves.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "+", "👍":
		return RatingUp, nil
	case "down", "-", "👎":
		return RatingDown, nil
	}
	return "", fmt.Errorf("unknown rating %q", s)
}

// =============================================================================
// FEEDBACK EVENT
// =============================================================================

// FeedbackEvent is the triple sent to the service when a control is activated.
// It is not retained after the request resolves.
type FeedbackEvent struct {
	OriginalInput string
	BotReply      string
	Rating        Rating
}

// =============================================================================
// FEEDBACK PAIR
// =============================================================================

// FeedbackPair is the up/down control pair attached to one bot reply.
// Both controls start enabled. After the first recorded rating the pair
// is disabled as a unit and the activated control is marked.
type FeedbackPair struct {
	ID            string
	OriginalInput string
	BotReply      string

	disabled  bool
	activated Rating
}

// NewFeedbackPair creates an enabled pair bound to (input, reply).
func NewFeedbackPair(originalInput, botReply string) *FeedbackPair {
	return &FeedbackPair{
		ID:            uuid.NewString(),
		OriginalInput: originalInput,
		BotReply:      botReply,
	}
}

// Enabled reports whether the controls still accept activation.
func (p *FeedbackPair) Enabled() bool {
	return !p.disabled
}

// Activated returns the marked rating, if any.
func (p *FeedbackPair) Activated() (Rating, bool) {
	if p.activated == "" {
		return "", false
	}
	return p.activated, true
}

// Marked reports whether the control for r is the marked one.
func (p *FeedbackPair) Marked(r Rating) bool {
	return p.activated != "" && p.activated == r
}

// Event builds the feedback triple for rating r.
func (p *FeedbackPair) Event(r Rating) FeedbackEvent {
	return FeedbackEvent{
		OriginalInput: p.OriginalInput,
		BotReply:      p.BotReply,
		Rating:        r,
	}
}

// Record disables the pair and marks r. It returns false, leaving the pair
// untouched, if the pair is already disabled or r is not a valid rating.
func (p *FeedbackPair) Record(r Rating) bool {
	if p.disabled || !r.Valid() {
		return false
	}
	p.disabled = true
	p.activated = r
	return true
}
