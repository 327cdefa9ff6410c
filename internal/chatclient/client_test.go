// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatclient

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/helpdesk-tui/internal/backend"
	"github.com/jeranaias/helpdesk-tui/internal/backend/backendtest"
	"github.com/jeranaias/helpdesk-tui/internal/dispatch"
	"github.com/jeranaias/helpdesk-tui/internal/transcript"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// recordingView keeps a transcript and a log of calls made against it.
type recordingView struct {
	tr         *transcript.Transcript
	calls      []string
	inputClear int
	changed    []*transcript.FeedbackPair
}

func newRecordingView() *recordingView {
	return &recordingView{tr: transcript.New()}
}

func (v *recordingView) AppendMessage(msg *transcript.Message) {
	v.calls = append(v.calls, "append:"+msg.Display())
	v.tr.Append(msg)
}

func (v *recordingView) AttachFeedback(msg *transcript.Message, pair *transcript.FeedbackPair) {
	v.calls = append(v.calls, "feedback:"+msg.Text)
	v.tr.AttachFeedback(msg, pair)
}

func (v *recordingView) FeedbackChanged(pair *transcript.FeedbackPair) {
	v.calls = append(v.calls, "feedback-changed")
	v.changed = append(v.changed, pair)
}

func (v *recordingView) ClearInput() {
	v.calls = append(v.calls, "clear-input")
	v.inputClear++
}

func (v *recordingView) ClearTranscript() {
	v.calls = append(v.calls, "clear")
	v.tr.Clear()
}

func (v *recordingView) ScrollToEnd() {
	v.calls = append(v.calls, "scroll")
}

func (v *recordingView) displays() []string {
	var out []string
	for _, m := range v.tr.Messages() {
		out = append(out, m.Display())
	}
	return out
}

type harness struct {
	srv    *backendtest.Server
	queue  *dispatch.Queue
	view   *recordingView
	client *Client
	logs   *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := backendtest.NewServer()
	queue := dispatch.NewQueue()
	view := newRecordingView()
	logs := &bytes.Buffer{}
	logger := zerolog.New(logs)

	h := &harness{
		srv:   srv,
		queue: queue,
		view:  view,
		logs:  logs,
	}
	h.client = New(Options{
		Backend: backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: srv.URL}),
		View:    view,
		Post:    func(fn func()) { queue.Post(fn) },
		Logger:  &logger,
	})

	t.Cleanup(func() {
		h.client.Wait()
		queue.Close()
		srv.Close()
	})
	return h
}

// on runs fn on the view's event loop and waits for it.
func (h *harness) on(fn func()) {
	h.queue.Post(fn)
	h.queue.Sync()
}

// settle waits for every request and its continuation.
func (h *harness) settle() {
	h.client.Wait()
	h.queue.Sync()
}

// stubBackend lets a test observe state at call time.
type stubBackend struct {
	mu       sync.Mutex
	chatFn   func(input string) (*backend.ChatResponse, error)
	calls    int
	feedback []backend.FeedbackRequest
}

func (s *stubBackend) Chat(_ context.Context, input string) (*backend.ChatResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.chatFn(input)
}

func (s *stubBackend) Feedback(_ context.Context, fb backend.FeedbackRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.feedback = append(s.feedback, fb)
	return nil
}

func (s *stubBackend) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("reset unavailable")
}

func reply(s string) *backend.ChatResponse {
	return &backend.ChatResponse{Response: &s}
}

func TestClient_NoGoroutinesLeft(t *testing.T) {
	defer goleak.VerifyNone(t)

	view := newRecordingView()
	queue := dispatch.NewQueue()
	stub := &stubBackend{chatFn: func(string) (*backend.ChatResponse, error) { return reply("ok"), nil }}
	c := New(Options{Backend: stub, View: view, Post: func(fn func()) { queue.Post(fn) }})

	queue.Post(func() {
		c.SubmitMessage("a")
		c.SubmitFeedback("a", "ok", transcript.RatingUp, transcript.NewFeedbackPair("a", "ok"))
		c.ResetConversation()
	})
	queue.Sync()
	c.Wait()
	queue.Close()

	assert.Zero(t, c.InFlight())
}

// =============================================================================
// CONSTRUCTION TESTS
// =============================================================================

func TestNew_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { New(Options{View: newRecordingView()}) })
	assert.Panics(t, func() { New(Options{Backend: &stubBackend{}}) })
}

// =============================================================================
// SUBMIT MESSAGE TESTS
// =============================================================================

func TestSubmitMessage_Exchange(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply("hello", "hi")

	h.on(func() { h.client.SubmitMessage("  hello \n") })
	h.settle()

	if diff := cmp.Diff([]string{"👤 hello", "🤖 hi"}, h.view.displays()); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}

	last := h.view.tr.Last()
	require.NotNil(t, last.Feedback, "bot reply should carry a feedback pair")
	assert.True(t, last.Feedback.Enabled())
	assert.Equal(t, "hello", last.Feedback.OriginalInput)
	assert.Equal(t, "hi", last.Feedback.BotReply)

	want := []string{"append:👤 hello", "clear-input", "append:🤖 hi", "feedback:hi", "scroll"}
	if diff := cmp.Diff(want, h.view.calls); diff != "" {
		t.Errorf("view calls mismatch (-want +got):\n%s", diff)
	}

	reqs := h.srv.RequestsTo("/chat")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"user_input":"hello"}`, reqs[0].Body)
}

func TestSubmitMessage_BlankInputIsNoop(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n  "} {
		stub := &stubBackend{}
		view := newRecordingView()
		c := New(Options{Backend: stub, View: view})

		assert.False(t, c.SubmitMessage(in))
		c.Wait()

		assert.Empty(t, view.calls, "input %q should not render", in)
		assert.Zero(t, stub.calls, "input %q should not hit the network", in)
	}
}

func TestSubmitMessage_RendersUserMessageBeforeRequest(t *testing.T) {
	view := newRecordingView()
	var seen []string
	stub := &stubBackend{chatFn: func(string) (*backend.ChatResponse, error) {
		seen = view.displays()
		return reply("ok"), nil
	}}

	// Inline continuations: the view is only touched by this goroutine
	// and the request goroutine, one after the other.
	c := New(Options{Backend: stub, View: view})
	require.True(t, c.SubmitMessage("hello"))
	c.Wait()

	assert.Equal(t, []string{"👤 hello"}, seen)
	assert.Equal(t, 1, view.inputClear)
}

func TestSubmitMessage_FailureKeepsUserMessage(t *testing.T) {
	tests := []struct {
		name    string
		failure backendtest.Failure
	}{
		{"server error", backendtest.Status500},
		{"malformed json", backendtest.BadJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.Fail("/chat", tt.failure)

			h.on(func() { h.client.SubmitMessage("hello") })
			h.settle()

			assert.Equal(t, []string{"👤 hello"}, h.view.displays())
			assert.Contains(t, h.logs.String(), "CHAT_REQUEST_FAILED")
		})
	}
}

func TestSubmitMessage_ServiceUnreachable(t *testing.T) {
	h := newHarness(t)
	h.srv.Close()

	h.on(func() { h.client.SubmitMessage("anyone there?") })
	h.settle()

	assert.Equal(t, []string{"👤 anyone there?"}, h.view.displays())
	assert.Contains(t, h.logs.String(), "CHAT_REQUEST_FAILED")
}

func TestSubmitMessage_RepliesApplyInResolutionOrder(t *testing.T) {
	view := newRecordingView()
	queue := dispatch.NewQueue()
	defer queue.Close()

	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	stub := &stubBackend{chatFn: func(input string) (*backend.ChatResponse, error) {
		<-release[input]
		return reply("re: " + input), nil
	}}
	c := New(Options{Backend: stub, View: view, Post: func(fn func()) { queue.Post(fn) }})

	queue.Post(func() {
		c.SubmitMessage("first")
		c.SubmitMessage("second")
	})
	queue.Sync()
	assert.Equal(t, 2, c.InFlight())

	close(release["second"])
	require.Eventually(t, func() bool { return c.InFlight() == 1 }, waitFor, tick)
	close(release["first"])
	c.Wait()
	queue.Sync()

	want := []string{"👤 first", "👤 second", "🤖 re: second", "🤖 re: first"}
	assert.Equal(t, want, view.displays())
}

// =============================================================================
// FEEDBACK TESTS
// =============================================================================

func TestSubmitFeedback_Success(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply("hello", "hi")

	h.on(func() { h.client.SubmitMessage("hello") })
	h.settle()
	pair := h.view.tr.Last().Feedback
	require.NotNil(t, pair)

	h.on(func() { h.client.SubmitFeedback(pair.OriginalInput, pair.BotReply, transcript.RatingUp, pair) })
	h.settle()

	reqs := h.srv.RequestsTo("/feedback")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"original_input":"hello","bot_reply":"hi","feedback":"👍"}`, reqs[0].Body)

	assert.False(t, pair.Enabled())
	assert.True(t, pair.Marked(transcript.RatingUp))
	assert.False(t, pair.Marked(transcript.RatingDown))
	require.Len(t, h.view.changed, 1)
	assert.Same(t, pair, h.view.changed[0])
}

func TestSubmitFeedback_FailureLeavesControlsEnabled(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail("/feedback", backendtest.Status500)

	pair := transcript.NewFeedbackPair("hello", "hi")
	h.on(func() { h.client.SubmitFeedback("hello", "hi", transcript.RatingDown, pair) })
	h.settle()

	assert.True(t, pair.Enabled())
	_, marked := pair.Activated()
	assert.False(t, marked)
	assert.Empty(t, h.view.changed)
	assert.Contains(t, h.logs.String(), "FEEDBACK_REQUEST_FAILED")

	// A retry after the service recovers is recorded.
	h.srv.Fail("/feedback", backendtest.OK)
	h.on(func() { h.client.SubmitFeedback("hello", "hi", transcript.RatingDown, pair) })
	h.settle()

	assert.False(t, pair.Enabled())
	assert.True(t, pair.Marked(transcript.RatingDown))
	assert.Len(t, h.srv.RequestsTo("/feedback"), 2)
}

func TestSubmitFeedback_NoContentCountsAsSuccess(t *testing.T) {
	h := newHarness(t)
	h.srv.Fail("/feedback", backendtest.NoContent)

	pair := transcript.NewFeedbackPair("hello", "hi")
	h.on(func() { h.client.SubmitFeedback("hello", "hi", transcript.RatingUp, pair) })
	h.settle()

	assert.False(t, pair.Enabled())
	assert.True(t, pair.Marked(transcript.RatingUp))
	require.Len(t, h.view.changed, 1)
	assert.NotContains(t, h.logs.String(), "FEEDBACK_REQUEST_FAILED")
}

func TestSubmitFeedback_DisabledPairIsNoop(t *testing.T) {
	stub := &stubBackend{}
	view := newRecordingView()
	c := New(Options{Backend: stub, View: view})

	pair := transcript.NewFeedbackPair("a", "b")
	require.True(t, pair.Record(transcript.RatingUp))

	assert.False(t, c.SubmitFeedback("a", "b", transcript.RatingDown, pair))
	assert.False(t, c.SubmitFeedback("a", "b", transcript.RatingUp, nil))
	assert.False(t, c.SubmitFeedback("a", "b", transcript.Rating("meh"), transcript.NewFeedbackPair("a", "b")))
	c.Wait()
	assert.Zero(t, stub.calls)
}

func TestRate_UsesCapturedExchange(t *testing.T) {
	stub := &stubBackend{}
	view := newRecordingView()
	c := New(Options{Backend: stub, View: view})

	pair := transcript.NewFeedbackPair("where is my order?", "It shipped.")
	assert.False(t, c.Rate(nil, transcript.RatingUp))
	require.True(t, c.Rate(pair, transcript.RatingDown))
	c.Wait()

	require.Len(t, stub.feedback, 1)
	assert.Equal(t, backend.FeedbackRequest{
		OriginalInput: "where is my order?",
		BotReply:      "It shipped.",
		Feedback:      "👎",
	}, stub.feedback[0])
	assert.True(t, pair.Marked(transcript.RatingDown))
}

func TestSubmitFeedback_DoubleClickMarksFirstResolved(t *testing.T) {
	stub := &stubBackend{}
	view := newRecordingView()
	queue := dispatch.NewQueue()
	defer queue.Close()
	c := New(Options{Backend: stub, View: view, Post: func(fn func()) { queue.Post(fn) }})

	pair := transcript.NewFeedbackPair("a", "b")
	queue.Post(func() {
		c.SubmitFeedback("a", "b", transcript.RatingUp, pair)
		c.SubmitFeedback("a", "b", transcript.RatingDown, pair)
	})
	c.Wait()
	queue.Sync()

	// Both requests go out; only one control ends up marked.
	assert.Len(t, stub.feedback, 2)
	r, ok := pair.Activated()
	require.True(t, ok)
	assert.True(t, r == transcript.RatingUp || r == transcript.RatingDown)
	assert.Len(t, view.changed, 1)
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestResetConversation_Success(t *testing.T) {
	h := newHarness(t)

	h.on(func() {
		h.client.SubmitMessage("one")
		h.client.SubmitMessage("two")
	})
	h.settle()
	require.Equal(t, 4, h.view.tr.Len())

	h.on(func() { h.client.ResetConversation() })
	h.settle()

	require.Equal(t, 1, h.view.tr.Len())
	msg := h.view.tr.Last()
	assert.True(t, msg.IsBot())
	assert.Equal(t, transcript.AnnouncementText, msg.Text)
	assert.Nil(t, msg.Feedback)

	reqs := h.srv.RequestsTo("/reset")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Body)
}

func TestResetConversation_FailureKeepsTranscript(t *testing.T) {
	tests := []struct {
		name    string
		failure backendtest.Failure
	}{
		{"server error", backendtest.Status500},
		{"malformed json", backendtest.BadJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.srv.Reply("hello", "hi")
			h.on(func() { h.client.SubmitMessage("hello") })
			h.settle()

			h.srv.Fail("/reset", tt.failure)
			h.on(func() { h.client.ResetConversation() })
			h.settle()

			assert.Equal(t, []string{"👤 hello", "🤖 hi"}, h.view.displays())
			assert.Contains(t, h.logs.String(), "RESET_REQUEST_FAILED")
		})
	}
}

func TestResetConversation_LateResetClearsReply(t *testing.T) {
	h := newHarness(t)
	h.srv.Hold("/reset")

	h.on(func() { h.client.ResetConversation() })
	h.on(func() { h.client.SubmitMessage("hello") })
	require.Eventually(t, func() bool { return h.client.InFlight() == 1 }, waitFor, tick)
	h.queue.Sync()
	require.Len(t, h.view.tr.Messages(), 2)

	h.srv.Release("/reset")
	h.settle()

	assert.Equal(t, []string{"🤖 " + transcript.AnnouncementText}, h.view.displays())
}

func TestResetConversation_LateReplyJoinsNewConversation(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply("hello", "hi")
	h.srv.Hold("/chat")

	h.on(func() { h.client.SubmitMessage("hello") })
	h.on(func() { h.client.ResetConversation() })
	require.Eventually(t, func() bool { return h.client.InFlight() == 1 }, waitFor, tick)
	h.queue.Sync()
	require.Equal(t, []string{"🤖 " + transcript.AnnouncementText}, h.view.displays())

	h.srv.Release("/chat")
	h.settle()

	assert.Equal(t, []string{"🤖 " + transcript.AnnouncementText, "🤖 hi"}, h.view.displays())
	assert.NotNil(t, h.view.tr.Last().Feedback)
}

func TestResetConversation_StubFailureLogged(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := zerolog.New(logs)
	view := newRecordingView()
	view.tr.Append(transcript.NewUserMessage("keep me"))

	c := New(Options{Backend: &stubBackend{}, View: view, Logger: &logger})
	c.ResetConversation()
	c.Wait()

	assert.Equal(t, []string{"👤 keep me"}, view.displays())
	assert.Contains(t, logs.String(), "reset unavailable")
}

func TestFailureKind_LogsEveryErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&backend.ClientError{Type: backend.ErrTypeInvalid, Op: "chat"}, `"kind":"invalid"`},
		{&backend.ClientError{Type: backend.ErrTypeRateLimit, Op: "chat"}, `"kind":"rate_limit"`},
		{&backend.ClientError{Type: backend.ErrTypeStatus, Op: "chat", Status: 502}, `"kind":"status"`},
		{errors.New("boom"), `"kind":"other"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			logs := &bytes.Buffer{}
			logger := zerolog.New(logs)
			stub := &stubBackend{chatFn: func(string) (*backend.ChatResponse, error) { return nil, tt.err }}

			c := New(Options{Backend: stub, View: newRecordingView(), Logger: &logger})
			c.SubmitMessage("hello")
			c.Wait()

			assert.Contains(t, logs.String(), "CHAT_REQUEST_FAILED")
			assert.Contains(t, logs.String(), tt.want)
		})
	}
}
