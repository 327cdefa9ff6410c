// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserInput string `json:"user_input"`
}

// FeedbackRequest is the body of POST /feedback.
// Feedback carries the rating glyph ("👍" or "👎").
type FeedbackRequest struct {
	OriginalInput string `json:"original_input"`
	BotReply      string `json:"bot_reply"`
	Feedback      string `json:"feedback"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	// Response is the bot reply. Nil when the service omitted the field.
	Response *string `json:"response"`

	// OriginalInput echoes the user input as the service received it.
	OriginalInput string `json:"original_input,omitempty"`
}

// Reply returns the reply text, or "" if none was present.
func (r *ChatResponse) Reply() string {
	if r == nil || r.Response == nil {
		return ""
	}
	return *r.Response
}

// StatusResponse is returned by /feedback and /reset.
type StatusResponse struct {
	Message string `json:"message,omitempty"`
}

// ServiceError is the error body the service sends with non-2xx statuses.
type ServiceError struct {
	Error string `json:"error"`
}
