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

package event

import (
	"sync"
	"time"
)

// Timers is the red-black-tree timer wheel keyed by (deadline, insertion
// order): Add inserts, Cancel removes, and Expire removes and fires every
// node whose deadline has passed. The tree's minimum gives the next wake
// deadline a Demultiplexer.Process should block for.
//
// A single Timers tree is owned by one worker loop and therefore needs no
// locking of its own; WorkerResolution exists only so the signal-driven
// clock-update variant (SIGALRM-equivalent) can read Now() cheaply.
type Timers struct {
	mu   sync.Mutex
	tree rbTree
	seq  uint64
}

// NewTimers returns an empty timer wheel.
func NewTimers() *Timers {
	return &Timers{}
}

// Add schedules ev to fire after d, replacing any timer it already holds.
func (t *Timers) Add(ev *Event, d time.Duration) {
	t.Cancel(ev)

	t.mu.Lock()
	t.seq++
	n := &rbNode{deadline: deadlineFromNow(d), seq: t.seq, owner: ev}
	t.tree.insert(n)
	ev.timerNode = n
	t.mu.Unlock()
}

// Cancel removes ev's timer, if any. Safe to call on an event with no
// live timer.
func (t *Timers) Cancel(ev *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.timerNode == nil {
		return
	}
	t.tree.remove(ev.timerNode)
	ev.timerNode = nil
}

// NextDeadline returns the earliest scheduled deadline and true, or false
// if no timer is pending. The worker loop subtracts time.Now() from this
// to derive the Demultiplexer.Process timeout.
func (t *Timers) NextDeadline() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.tree.min()
	if n == nil {
		return time.Time{}, false
	}
	return time.Unix(0, n.deadline), true
}

// Expire removes and returns every Event whose deadline is at or before
// now, in deadline order. Each returned Event's timer has already been
// detached; it is the caller's responsibility to invoke Handler with
// timedOut=true — mirroring the source's "firing removes the node, then
// invokes the handler" sequencing so a handler that reschedules the same
// event during its own callback is never confused with the node it is
// currently removing.
func (t *Timers) Expire(now time.Time) []*Event {
	deadline := now.UnixNano()

	t.mu.Lock()
	defer t.mu.Unlock()

	var fired []*Event
	for {
		n := t.tree.min()
		if n == nil || n.deadline > deadline {
			break
		}
		t.tree.remove(n)
		n.owner.timerNode = nil
		fired = append(fired, n.owner)
	}
	return fired
}

// Len reports how many timers are currently scheduled.
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.size
}
