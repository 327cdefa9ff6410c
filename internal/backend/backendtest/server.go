// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backendtest provides an in-process fake of the support chat
// service for tests.
//
// The fake mirrors the real service's wire behavior: /chat answers with
// {"response", "original_input"} or 400 {"error":"Missing user_input"},
// /feedback and /reset answer with {"message": ...}. Each endpoint can be
// switched into a failure mode, and every request is recorded.
package backendtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Failure selects how an endpoint misbehaves.
type Failure int

const (
	// OK answers normally.
	OK Failure = iota
	// Status500 answers 500 with an {"error"} body.
	Status500
	// BadJSON answers 200 with a body that is not JSON.
	BadJSON
	// NoContent answers 204 with no body.
	NoContent
)

// Request is one recorded call.
type Request struct {
	Path string
	Body string
}

// Server is a fake chat service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]string
	fallback func(input string) string
	failures map[string]Failure
	gates    map[string]chan struct{}
	requests []Request
}

// NewServer starts a fake service. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		replies:  make(map[string]string),
		failures: make(map[string]Failure),
		gates:    make(map[string]chan struct{}),
		fallback: func(input string) string { return "echo: " + input },
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/chat", s.handleChat)
	r.Post("/feedback", s.handleFeedback)
	r.Post("/reset", s.handleReset)

	s.Server = httptest.NewServer(r)
	return s
}

// Reply fixes the bot reply for one input.
func (s *Server) Reply(input, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[input] = reply
}

// Fail sets the failure mode for path ("/chat", "/feedback", "/reset").
func (s *Server) Fail(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = f
}

// Hold makes requests to path block until Release is called.
func (s *Server) Hold(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[path] = make(chan struct{})
}

// Release unblocks requests held on path.
func (s *Server) Release(path string) {
	s.mu.Lock()
	gate, ok := s.gates[path]
	delete(s.gates, path)
	s.mu.Unlock()
	if ok {
		close(gate)
	}
}

// Close releases any held requests and shuts the server down.
func (s *Server) Close() {
	s.mu.Lock()
	gates := s.gates
	s.gates = make(map[string]chan struct{})
	s.mu.Unlock()
	for _, gate := range gates {
		close(gate)
	}
	s.Server.Close()
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns recorded requests for one path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{Path: r.URL.Path, Body: string(body)})
		gate := s.gates[r.URL.Path]
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failure(path string) Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[path]
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, "/chat") {
		return
	}

	var req struct {
		UserInput string `json:"user_input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserInput == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing user_input"})
		return
	}

	s.mu.Lock()
	reply, ok := s.replies[req.UserInput]
	if !ok {
		reply = s.fallback(req.UserInput)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"response":       reply,
		"original_input": req.UserInput,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, "/feedback") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Feedback saved successfully"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, "/reset") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

// fail writes the configured failure for path and reports whether it did.
func (s *Server) fail(w http.ResponseWriter, path string) bool {
	switch s.failure(path) {
	case Status500:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal failure"})
		return true
	case BadJSON:
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>oops</html>"))
		return true
	case NoContent:
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
