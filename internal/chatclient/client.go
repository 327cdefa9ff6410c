// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jeranaias/helpdesk-tui/internal/backend"
	"github.com/jeranaias/helpdesk-tui/internal/transcript"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is the chat service as seen by the controller.
type Backend interface {
	Chat(ctx context.Context, input string) (*backend.ChatResponse, error)
	Feedback(ctx context.Context, fb backend.FeedbackRequest) error
	Reset(ctx context.Context) error
}

// View is the transcript view the controller drives. Every method is
// called on the view's event loop.
type View interface {
	// AppendMessage renders msg at the end of the transcript.
	AppendMessage(msg *transcript.Message)

	// AttachFeedback renders an enabled control pair under msg.
	AttachFeedback(msg *transcript.Message, pair *transcript.FeedbackPair)

	// FeedbackChanged re-renders pair after it was disabled and marked.
	FeedbackChanged(pair *transcript.FeedbackPair)

	// ClearInput empties the input field.
	ClearInput()

	// ClearTranscript removes every rendered message.
	ClearTranscript()

	// ScrollToEnd shows the newest message.
	ScrollToEnd()
}

// Options configures a Client.
type Options struct {
	Backend Backend
	View    View

	// Post schedules a continuation on the view's event loop. If nil,
	// continuations run on the request goroutine.
	Post func(fn func())

	// Logger receives failures. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is the chat controller.
//
// SubmitMessage, SubmitFeedback and ResetConversation must be called from
// the view's event loop. They return immediately; network work continues
// in the background.
type Client struct {
	backend Backend
	view    View
	post    func(fn func())
	log     zerolog.Logger

	wg       sync.WaitGroup
	inFlight atomic.Int32
}

// New creates a controller. Backend and View are required.
func New(opts Options) *Client {
	if opts.Backend == nil {
		panic("chatclient: Backend is required")
	}
	if opts.View == nil {
		panic("chatclient: View is required")
	}

	post := opts.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "chatclient").Logger()
	}

	return &Client{
		backend: opts.Backend,
		view:    opts.View,
		post:    post,
		log:     log,
	}
}

// InFlight returns the number of unresolved requests.
func (c *Client) InFlight() int {
	return int(c.inFlight.Load())
}

// Wait blocks until every started request has resolved and posted its
// continuation. It does not wait for the continuations to run.
// A request stops counting as in flight once its continuation is posted.
func (c *Client) Wait() {
	c.wg.Wait()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SubmitMessage sends the trimmed input to the service.
//
// Blank input is ignored. Otherwise the user message is rendered and the
// input cleared before the request starts. A successful reply is rendered
// with a fresh feedback pair, then the transcript scrolls to the end.
// It reports whether a request was started.
func (c *Client) SubmitMessage(rawInput string) bool {
	input := strings.TrimSpace(rawInput)
	if input == "" {
		return false
	}

	c.view.AppendMessage(transcript.NewUserMessage(input))
	c.view.ClearInput()

	c.start(func(ctx context.Context) func() {
		resp, err := c.backend.Chat(ctx, input)
		if err != nil {
			return func() {
				c.log.Error().Err(err).Str("kind", failureKind(err)).Str("input", input).Msg("CHAT_REQUEST_FAILED")
			}
		}

		reply := resp.Reply()
		if resp.OriginalInput != "" && resp.OriginalInput != input {
			c.log.Debug().Str("sent", input).Str("echoed", resp.OriginalInput).Msg("CHAT_INPUT_ECHO_MISMATCH")
		}

		return func() {
			msg := transcript.NewBotMessage(reply)
			c.view.AppendMessage(msg)
			c.view.AttachFeedback(msg, transcript.NewFeedbackPair(input, reply))
			c.view.ScrollToEnd()
			c.log.Debug().Str("message_id", msg.ID).Int("reply_len", len(reply)).Msg("CHAT_REPLY_RENDERED")
		}
	})
	return true
}

// SubmitFeedback sends a rating for the (originalInput, botReply) pair.
//
// On success the pair is disabled and the rated control marked. On failure
// the pair stays enabled so the user can try again. Activating a pair that
// is already disabled does nothing. It reports whether a request was started.
func (c *Client) SubmitFeedback(originalInput, botReply string, rating transcript.Rating, pair *transcript.FeedbackPair) bool {
	if pair == nil || !pair.Enabled() {
		return false
	}
	if !rating.Valid() {
		c.log.Warn().Str("rating", string(rating)).Msg("FEEDBACK_INVALID_RATING")
		return false
	}

	req := backend.FeedbackRequest{
		OriginalInput: originalInput,
		BotReply:      botReply,
		Feedback:      rating.Glyph(),
	}

	c.start(func(ctx context.Context) func() {
		if err := c.backend.Feedback(ctx, req); err != nil {
			return func() {
				c.log.Error().Err(err).Str("kind", failureKind(err)).Str("pair_id", pair.ID).Str("rating", string(rating)).Msg("FEEDBACK_REQUEST_FAILED")
			}
		}
		return func() {
			if !pair.Record(rating) {
				// A second click resolved after the first one was recorded.
				c.log.Debug().Str("pair_id", pair.ID).Msg("FEEDBACK_ALREADY_RECORDED")
				return
			}
			c.view.FeedbackChanged(pair)
			c.log.Info().Str("pair_id", pair.ID).Str("rating", string(rating)).Msg("FEEDBACK_RECORDED")
		}
	})
	return true
}

// Rate submits r for pair using the exchange captured when the pair was
// attached.
func (c *Client) Rate(pair *transcript.FeedbackPair, r transcript.Rating) bool {
	if pair == nil {
		return false
	}
	ev := pair.Event(r)
	return c.SubmitFeedback(ev.OriginalInput, ev.BotReply, ev.Rating, pair)
}

// ResetConversation asks the service to start over. On success the
// transcript is cleared and a single announcement is rendered.
func (c *Client) ResetConversation() {
	c.start(func(ctx context.Context) func() {
		if err := c.backend.Reset(ctx); err != nil {
			return func() {
				c.log.Error().Err(err).Str("kind", failureKind(err)).Msg("RESET_REQUEST_FAILED")
			}
		}
		return func() {
			c.view.ClearTranscript()
			c.view.AppendMessage(transcript.NewAnnouncement())
			c.view.ScrollToEnd()
			c.log.Info().Msg("CONVERSATION_RESET")
		}
	})
}

// start runs call on a new goroutine and posts the continuation it returns.
func (c *Client) start(call func(ctx context.Context) func()) {
	c.wg.Add(1)
	c.inFlight.Add(1)
	go func() {
		defer c.wg.Done()
		cont := call(context.Background())
		c.post(cont)
		c.inFlight.Add(-1)
	}()
}

// failureKind classifies a request error for the log.
func failureKind(err error) string {
	var ce *backend.ClientError
	if errors.As(err, &ce) {
		return ce.Type.String()
	}
	return "other"
}
