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

package ipc

import "sync"

// Registry is the supervisor-side bookkeeping of one Channel per worker
// slot. Starting worker k broadcasts OPEN_CHANNEL for k to every
// already-registered peer, then registers k itself, so any worker can
// later reach any other directly (spec.md §4.2).
type Registry struct {
	mu      sync.Mutex
	bySlot  map[int]*Channel
	pidSlot map[int]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		bySlot:  make(map[int]*Channel),
		pidSlot: make(map[int]int),
	}
}

// Open registers slot's channel, first broadcasting OPEN_CHANNEL carrying
// slot/pid/fd to every peer already registered, then adding slot to the
// registry. fd is a descriptor number meaningful to the *receiving*
// worker's own fd table in a true cross-worker-dial setup; this port
// carries it informationally since Go workers reach peers through the
// supervisor-relayed Channel rather than dialing raw fds directly.
func (r *Registry) Open(slot, pid, fd int, ch *Channel) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	msg := Message{Cmd: OpenChannel, Slot: slot, PID: pid, FD: fd}
	for _, peer := range r.bySlot {
		if err := peer.Send(msg); err != nil {
			errs = append(errs, err)
		}
	}

	r.bySlot[slot] = ch
	r.pidSlot[pid] = slot
	return errs
}

// Close broadcasts CLOSE_CHANNEL for slot to every remaining peer and
// removes it from the registry.
func (r *Registry) Close(slot int) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.bySlot[slot]
	if !ok {
		return nil
	}

	var errs []error
	msg := Message{Cmd: CloseChannel, Slot: slot}
	for s, peer := range r.bySlot {
		if s == slot {
			continue
		}
		if err := peer.Send(msg); err != nil {
			errs = append(errs, err)
		}
	}

	_ = ch.Close()
	delete(r.bySlot, slot)
	for pid, s := range r.pidSlot {
		if s == slot {
			delete(r.pidSlot, pid)
		}
	}
	return errs
}

// Broadcast sends cmd to every registered worker, collecting per-peer
// errors instead of aborting on the first failure — a dead worker's
// channel failing to take TERMINATE must not stop the others from
// receiving it.
func (r *Registry) Broadcast(cmd Command) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	msg := Message{Cmd: cmd}
	for _, peer := range r.bySlot {
		if err := peer.Send(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Lookup returns the channel registered for slot.
func (r *Registry) Lookup(slot int) (*Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.bySlot[slot]
	return ch, ok
}

// Len reports the number of currently registered channels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bySlot)
}
