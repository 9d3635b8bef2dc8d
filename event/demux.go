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
	"time"

	liberr "github.com/sabouaram/edgecore/errors"
)

// Flags modify how an Event is (re)armed with a Demultiplexer backend.
type Flags uint8

const (
	// EdgeTriggered requests one-shot, edge-triggered delivery where the
	// backend supports it (epoll-like). Level-triggered backends ignore it.
	EdgeTriggered Flags = 1 << iota
	// Oneshot disables the event after its next delivery until re-added.
	Oneshot
)

// Demultiplexer is the abstract readiness-based poller every concrete
// back-end (epoll-like, kqueue-like, a portable level-triggered fallback)
// implements. The worker loop's only blocking call per turn is Process;
// everything else below is synchronous.
type Demultiplexer interface {
	// Add registers ev (already bound to a live fd via its Owner) for
	// readiness notifications of the given kind.
	Add(ev *Event, fd int, flags Flags) error
	// Del unregisters ev. Safe to call on an event not currently active.
	Del(ev *Event, fd int, flags Flags) error
	// Notify arms a dedicated wake object so any goroutine can interrupt a
	// blocked Process call; the posted handler then runs inside the loop.
	Notify(handler Handler) error
	// Wake triggers the handler registered via Notify.
	Wake() error
	// Process blocks for up to timeout (or indefinitely if timeout < 0)
	// and delivers every ready event to the posted queue via Post. It
	// returns the number of events delivered.
	Process(timeout time.Duration, posted *PostedQueue) (int, error)
	// Close releases backend resources (epoll/kqueue fd, notify fd).
	Close() error
}

const (
	// ErrorBackendCreate indicates the OS-level polling primitive could
	// not be created (epoll_create1/kqueue failed).
	ErrorBackendCreate liberr.CodeError = iota + liberr.MinPkgEvent
	// ErrorBackendRegister indicates a registration (add/modify/delete)
	// with the OS-level polling primitive failed.
	ErrorBackendRegister
	// ErrorNotifyCreate indicates the wake/notify primitive could not be
	// created (eventfd/pipe).
	ErrorNotifyCreate
)

func init() {
	if liberr.ExistInMapMessage(ErrorBackendCreate) {
		panic("error code collision in package event")
	}
	liberr.RegisterIdFctMessage(ErrorBackendCreate, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorBackendCreate:
		return "cannot create event demultiplexer backend"
	case ErrorBackendRegister:
		return "cannot register event with demultiplexer backend"
	case ErrorNotifyCreate:
		return "cannot create notify object"
	}
	return liberr.NullMessage
}
