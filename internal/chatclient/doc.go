// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatclient implements the chat controller shared by every view.
//
// The controller owns no rendering. It is built with an explicit View, a
// Backend and a Post function that schedules work on the view's event loop.
// Network calls run on their own goroutines; when one resolves its
// continuation is posted back, so the view is only ever mutated from its
// own loop.
//
// # Key Types
//
//   - Client: Submits messages and feedback, resets the conversation
//   - View: What the controller needs from a transcript view
//   - Backend: The three service calls (satisfied by *backend.Client)
//
// # Usage
//
//	c := chatclient.New(chatclient.Options{
//	    Backend: backend.NewClient(),
//	    View:    view,
//	    Post:    queue.Post,
//	    Logger:  logger,
//	})
//	c.SubmitMessage(input)
//
// # Failure Handling
//
// Failures are logged and otherwise dropped. Nothing is retried and no
// error reaches the user: a failed chat leaves the user message in place,
// a failed feedback leaves the controls enabled, and a failed reset leaves
// the transcript untouched.
//
// # Ordering
//
// Requests are neither cancelled nor timed out. Continuations apply in the
// order responses arrive, so a reset that resolves after a reply clears
// that reply too.
package chatclient
