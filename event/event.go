/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package event implements the worker's cooperative event loop: the
// abstract readiness demultiplexer, the red-black-tree timer wheel, the
// posted-event queues, and the instance-bit bookkeeping that lets a batch
// of stale readiness notifications be dropped safely after their owning
// connection has already been recycled.
package event

import "time"

// Kind distinguishes the read and write half of a full-duplex descriptor;
// each half gets its own Event record, its own handler, and its own timer.
type Kind uint8

const (
	Read Kind = iota
	Write
)

// Handler is invoked when an Event becomes ready, is posted, or times out.
// timedOut is set when the call is the timer subsystem firing the event's
// deadline rather than the demultiplexer reporting readiness.
type Handler func(ev *Event, timedOut bool)

// Event is the readiness record for one direction of one descriptor, or a
// bare timer with no associated I/O. Every field here mirrors the source's
// ngx_event_t: an owner back-reference, a ready flag, an active flag
// tracked by the demultiplexer, a timer-tree node, delayed-post queue
// linkage, the handler, and the instance (generation) bit toggled on reuse.
type Event struct {
	Owner   interface{}
	Kind    Kind
	Handler Handler

	ready  bool
	active bool

	instance uint32

	timerNode *rbNode

	posted   bool
	postNext *Event
	postPrev *Event
	accept   bool
}

// Reset prepares e for reuse by a freshly accepted connection: it clears
// all transient flags and bumps the instance bit so any readiness entry
// already sitting in a demultiplexer batch for the previous owner of this
// slot is recognized as stale on dispatch.
func (e *Event) Reset(owner interface{}, kind Kind, handler Handler) {
	e.Owner = owner
	e.Kind = kind
	e.Handler = handler
	e.ready = false
	e.active = false
	e.timerNode = nil
	e.posted = false
	e.postNext, e.postPrev = nil, nil
	e.accept = false
	e.instance++
}

// Instance returns the event's current generation, to be embedded in the
// Cookie recorded with the demultiplexer backend at registration time.
func (e *Event) Instance() uint32 { return e.instance }

// Ready reports whether the demultiplexer has marked e readable/writable
// since the last time the loop processed it.
func (e *Event) Ready() bool { return e.ready }

// SetReady is called by a Demultiplexer backend when it recovers a live
// (non-stale) Cookie for e out of a readiness batch.
func (e *Event) SetReady(v bool) { e.ready = v }

// Active reports whether e is currently registered with a Demultiplexer.
func (e *Event) Active() bool { return e.active }

func (e *Event) setActive(v bool) { e.active = v }

// HasTimer reports whether e currently has a live timer in a Timers tree.
func (e *Event) HasTimer() bool { return e.timerNode != nil }

func deadlineFromNow(d time.Duration) int64 {
	return time.Now().Add(d).UnixNano()
}
