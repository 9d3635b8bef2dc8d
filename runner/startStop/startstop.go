/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package startStop holds the concrete, atomically-swappable run state a
// Runner stores between Start/Stop/Restart calls: the cancel func of the
// active run, its start time and its last error.
package startStop

import (
	"context"
	"sync"
	"time"
)

// StartStop is the mutable run state of a single Runner instance. It is
// designed to be held inside an atomic.Value so Start/Stop can swap it
// without the caller holding a lock across the whole lifecycle.
type StartStop interface {
	MarkStarted(cancel context.CancelFunc)
	MarkStopped(err error)
	Cancel()
	IsRunning() bool
	Uptime() time.Duration
	LastError() error
}

type state struct {
	mu      sync.Mutex
	running bool
	since   time.Time
	cancel  context.CancelFunc
	lastErr error
}

// New returns a zero StartStop, not running.
func New() StartStop {
	return &state{}
}

func (s *state) MarkStarted(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = true
	s.since = time.Now()
	s.cancel = cancel
}

func (s *state) MarkStopped(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.cancel = nil
	s.lastErr = err
}

func (s *state) Cancel() {
	s.mu.Lock()
	c := s.cancel
	s.mu.Unlock()

	if c != nil {
		c()
	}
}

func (s *state) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *state) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return 0
	}
	return time.Since(s.since)
}

func (s *state) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
