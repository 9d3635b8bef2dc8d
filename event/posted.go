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

// PostedQueue is a FIFO of events deferred to run later in the same turn
// instead of immediately: the source keeps a dedicated accept-events queue
// that always drains before the general posted-events queue, so a batch of
// new connections never starves the bodies of requests already in flight,
// while still being processed before the loop blocks again.
type PostedQueue struct {
	head, tail *Event
	n          int
}

// Post appends ev to the queue. Posting an already-queued event is a no-op.
func (q *PostedQueue) Post(ev *Event) {
	if ev.posted {
		return
	}
	ev.posted = true
	ev.postNext = nil
	ev.postPrev = q.tail

	if q.tail != nil {
		q.tail.postNext = ev
	} else {
		q.head = ev
	}
	q.tail = ev
	q.n++
}

// Remove drops ev from the queue without running it, used when an event is
// cancelled (its instance bit flipped) before its turn comes up.
func (q *PostedQueue) Remove(ev *Event) {
	if !ev.posted {
		return
	}

	if ev.postPrev != nil {
		ev.postPrev.postNext = ev.postNext
	} else {
		q.head = ev.postNext
	}
	if ev.postNext != nil {
		ev.postNext.postPrev = ev.postPrev
	} else {
		q.tail = ev.postPrev
	}

	ev.posted = false
	ev.postNext, ev.postPrev = nil, nil
	q.n--
}

// Len reports the number of events currently queued.
func (q *PostedQueue) Len() int { return q.n }

// Drain removes every event from the queue, in FIFO order, and invokes fn
// on each. Events posted by fn itself while appended to the queue's tail
// are picked up in the same Drain call, matching the source's
// "while not empty, pop head, run handler" loop — a handler that reposts
// its own event is therefore processed again before Drain returns, never
// carried over into the next worker turn.
func (q *PostedQueue) Drain(fn func(ev *Event)) {
	for q.head != nil {
		ev := q.head
		q.Remove(ev)
		fn(ev)
	}
}
