// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the chat transcript shown to the user.
//
// # Key Types
//
//   - Message: One rendered chat line from the user or the bot
//   - Rating: Thumbs up or thumbs down
//   - FeedbackPair: The two feedback controls attached to a bot reply
//   - FeedbackEvent: The (input, reply, rating) triple sent to the service
//   - Transcript: Ordered, append-only list of messages
//
// # Usage
//
//	t := transcript.New()
//	t.Append(transcript.NewUserMessage("hello"))
//	reply := transcript.NewBotMessage("hi")
//	t.Append(reply)
//	t.AttachFeedback(reply, transcript.NewFeedbackPair("hello", "hi"))
//
// A Transcript is owned by a single view and is not safe for concurrent use.
// Mutations happen on the view's event loop.
package transcript
