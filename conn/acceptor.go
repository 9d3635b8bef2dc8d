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

package conn

import (
	"net"

	"github.com/sabouaram/edgecore/shm"
)

// AcceptHandler is invoked for every accepted connection, already drawn
// from the Pool and with Proto left nil for the content pipeline to fill
// in (spec.md §4.6 begins parsing on the connection's first readable
// byte, not at accept time).
type AcceptHandler func(c *Connection)

// Acceptor owns one or more Listeners plus the Pool they accept into, and
// optionally participates in the cross-worker accept mutex (spec.md §4.5)
// so that, without SO_REUSEPORT-style kernel load balancing, only one
// worker at a time keeps its listeners registered and accepting.
type Acceptor struct {
	pool      *Pool
	listeners []*Listener

	mutex    shm.Mutex // nil disables the accept mutex (always-registered mode)
	holding  bool
	onAccept AcceptHandler
	onError  func(error)
}

// NewAcceptor binds an Acceptor to pool. A nil mutex means every worker
// keeps its listeners registered unconditionally (relying on
// SO_REUSEPORT/EPOLLEXCLUSIVE-equivalent kernel balancing instead — see
// spec.md §9 Open Question (a); this port picks the accept-mutex path as
// the default and documents it in DESIGN.md).
func NewAcceptor(pool *Pool, mutex shm.Mutex, onAccept AcceptHandler, onError func(error)) *Acceptor {
	return &Acceptor{pool: pool, mutex: mutex, onAccept: onAccept, onError: onError}
}

// AddListener registers l with the acceptor. Listeners are cloned once per
// worker by the caller before being added here.
func (a *Acceptor) AddListener(l *Listener) {
	a.listeners = append(a.listeners, l)
}

// TryEnable attempts to take the accept mutex (if configured) and, on
// success, spawns one accept goroutine per listener. It is a no-op if the
// mutex is already held or unavailable, matching "at most one worker
// holds the mutex" (spec.md §4.5).
func (a *Acceptor) TryEnable() bool {
	if a.mutex == nil {
		a.holding = true
	} else if !a.holding {
		if !a.mutex.TryLock() {
			return false
		}
		a.holding = true
	}

	for _, l := range a.listeners {
		go a.acceptLoop(l)
	}
	return true
}

// Disable releases the accept mutex, the way the source releases it
// before processing request bodies so another worker gets a turn at the
// next readiness check. The accept goroutines spawned by TryEnable exit on
// their listener's next Close, not here; Disable is a bookkeeping-only
// release in this port since Go listeners cannot be "un-registered"
// without being closed (see DESIGN.md on the per-listener-goroutine
// accept model).
func (a *Acceptor) Disable() {
	if a.mutex != nil && a.holding {
		a.mutex.Unlock()
	}
	a.holding = false
}

// Holding reports whether this acceptor currently owns the accept mutex
// (or always does, in no-mutex mode).
func (a *Acceptor) Holding() bool { return a.holding }

func (a *Acceptor) acceptLoop(l *Listener) {
	for {
		nc, err := l.Accept()
		if err != nil {
			if a.onError != nil {
				a.onError(err)
			}
			return
		}
		a.dispatch(nc)
	}
}

func (a *Acceptor) dispatch(nc net.Conn) {
	c, err := a.pool.Acquire(func(victim *Connection) {
		if victim.Closing {
			return
		}
		victim.Closing = true
		if victim.Read.Handler != nil {
			victim.Read.Handler(victim.Read, false)
		}
	})
	if err != nil {
		_ = nc.Close()
		if a.onError != nil {
			a.onError(err)
		}
		return
	}
	c.Conn = nc
	if a.onAccept != nil {
		a.onAccept(c)
	}
}
