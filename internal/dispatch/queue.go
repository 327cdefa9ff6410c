// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch provides a single-goroutine event queue.
//
// A Queue runs posted functions one at a time in post order, so state
// touched only from posted functions needs no locking. Line-mode views use
// it as their event loop; the TUI uses bubbletea's own loop instead.
//
// # Usage
//
//	q := dispatch.NewQueue()
//	defer q.Close()
//	q.Post(func() { view.AppendMessage(msg) })
//	q.Sync() // wait until everything posted so far has run
package dispatch

import (
	"sync"
)

// Queue executes posted functions sequentially on its own goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	closed  bool
	done    chan struct{}
}

// NewQueue starts a queue. Callers must Close it.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Post schedules fn. It never blocks. Posts after Close are dropped and
// Post reports false.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Sync blocks until every function posted before the call has run.
func (q *Queue) Sync() {
	barrier := make(chan struct{})
	if !q.Post(func() { close(barrier) }) {
		return
	}
	<-barrier
}

// Close runs what is already queued, then stops the goroutine.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}
