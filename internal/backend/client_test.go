// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/helpdesk-tui/internal/backend"
	"github.com/jeranaias/helpdesk-tui/internal/backend/backendtest"
)

func newClient(t *testing.T, url string) *backend.Client {
	t.Helper()
	return backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: url})
}

// =============================================================================
// CONFIGURATION TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := backend.NewClientWithConfig(nil)
	if c.BaseURL() != backend.DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), backend.DefaultBaseURL)
	}

	c = backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: "http://example.test/"})
	if c.BaseURL() != "http://example.test" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.Reply("hello", "hi")

	resp, err := newClient(t, srv.URL).Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Reply())
	assert.Equal(t, "hello", resp.OriginalInput)

	reqs := srv.RequestsTo("/chat")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"user_input":"hello"}`, reqs[0].Body)
}

func TestChat_EmptyReplyIsValid(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.Reply("ping", "")

	resp, err := newClient(t, srv.URL).Chat(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "", resp.Reply())
}

func TestChat_MissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"original_input":"x"}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL).Chat(context.Background(), "x")
	require.Error(t, err)

	var ce *backend.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, backend.ErrTypeInvalid, ce.Type)
	assert.Equal(t, "chat", ce.Op)
}

func TestChat_ServiceErrorBody(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()

	// The fake rejects empty input the way the real service does.
	_, err := newClient(t, srv.URL).Chat(context.Background(), "")
	require.Error(t, err)
	assert.True(t, backend.IsStatusError(err))
	assert.Contains(t, err.Error(), "Missing user_input")

	var ce *backend.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadRequest, ce.Status)
}

func TestChat_Failures(t *testing.T) {
	tests := []struct {
		name    string
		failure backendtest.Failure
		check   func(error) bool
	}{
		{"server error", backendtest.Status500, backend.IsStatusError},
		{"malformed json", backendtest.BadJSON, backend.IsDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.NewServer()
			defer srv.Close()
			srv.Fail("/chat", tt.failure)

			resp, err := newClient(t, srv.URL).Chat(context.Background(), "hello")
			assert.Nil(t, resp)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestChat_Unreachable(t *testing.T) {
	srv := backendtest.NewServer()
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, backend.IsConnectionError(err))
}

// =============================================================================
// FEEDBACK TESTS
// =============================================================================

func TestFeedback_SendsTriple(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()

	err := newClient(t, srv.URL).Feedback(context.Background(), backend.FeedbackRequest{
		OriginalInput: "hello",
		BotReply:      "hi",
		Feedback:      "👍",
	})
	require.NoError(t, err)

	reqs := srv.RequestsTo("/feedback")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"original_input":"hello","bot_reply":"hi","feedback":"👍"}`, reqs[0].Body)
}

func TestFeedback_StatusFailure(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.Fail("/feedback", backendtest.Status500)

	err := newClient(t, srv.URL).Feedback(context.Background(), backend.FeedbackRequest{Feedback: "👎"})
	assert.True(t, backend.IsStatusError(err))
}

func TestFeedback_ResponseBodyIgnored(t *testing.T) {
	tests := []struct {
		name    string
		failure backendtest.Failure
	}{
		{"no content", backendtest.NoContent},
		{"not json", backendtest.BadJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backendtest.NewServer()
			defer srv.Close()
			srv.Fail("/feedback", tt.failure)

			err := newClient(t, srv.URL).Feedback(context.Background(), backend.FeedbackRequest{Feedback: "👍"})
			assert.NoError(t, err)
		})
	}
}

func TestFeedback_EmptyOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).Feedback(context.Background(), backend.FeedbackRequest{Feedback: "👎"})
	assert.NoError(t, err)
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestReset_EmptyBody(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()

	require.NoError(t, newClient(t, srv.URL).Reset(context.Background()))

	reqs := srv.RequestsTo("/reset")
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Body)
}

func TestReset_ResponseMustBeJSON(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()
	srv.Fail("/reset", backendtest.BadJSON)

	err := newClient(t, srv.URL).Reset(context.Background())
	assert.True(t, backend.IsDecodeError(err))
}

// =============================================================================
// PACING TESTS
// =============================================================================

func TestRateLimit_ContextCancelled(t *testing.T) {
	srv := backendtest.NewServer()
	defer srv.Close()

	c := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 0.001,
	})

	// The first request consumes the single token.
	require.NoError(t, c.Reset(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Reset(ctx)

	var ce *backend.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, backend.ErrTypeRateLimit, ce.Type)
}

func TestErrorType_String(t *testing.T) {
	if got := backend.ErrTypeDecode.String(); got != "decode" {
		t.Errorf("ErrTypeDecode.String() = %q, want %q", got, "decode")
	}
	if got := backend.ErrorType(99).String(); got != "unknown" {
		t.Errorf("ErrorType(99).String() = %q, want %q", got, "unknown")
	}
}
