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
	"strconv"
)

// Listener is a bound listening endpoint (spec.md §3): address, the
// underlying socket, and the handful of per-listener TCP options the
// source exposes as directives (deferred accept, fast open, nopush).
// Cloned once per worker when per-worker listeners are used rather than a
// single shared accept-mutex-guarded listener.
type Listener struct {
	Addr string

	Backlog       int
	DeferredAccept bool
	FastOpen       int // queue length, 0 disables TCP Fast Open
	NoPush         bool

	ln net.Listener
}

// NewListener binds addr (host:port) with the given backlog, returning a
// Listener ready to be registered with an Acceptor. A backlog of 0 uses
// the platform default.
func NewListener(addr string, backlog int) (*Listener, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(nil, "tcp", addr)
	if err != nil {
		return nil, ErrorListenFailed.Error(err)
	}
	return &Listener{Addr: addr, Backlog: backlog, ln: ln}, nil
}

// FromFD adopts an already-open listening socket inherited across a binary
// upgrade (spec.md §4.1, §6 "Inherited listener protocol"), instead of
// re-binding the address.
func FromFD(addr string, f *net.TCPListener) *Listener {
	return &Listener{Addr: addr, ln: f}
}

// File returns the OS file backing the listener, used to serialize fds
// into the upgrade environment variable.
func (l *Listener) File() (*net.TCPListener, bool) {
	tl, ok := l.ln.(*net.TCPListener)
	return tl, ok
}

// Accept performs a single non-blocking accept attempt. Callers arm this
// behind a read-ready event on the listener's fd; a net.Listener in this
// port is driven through its normal blocking Accept call from a dedicated
// per-listener goroutine that immediately hands the result to the worker
// loop's notify channel, since Go's net package does not expose a raw
// non-blocking accept the way the source's ngx_event_accept does — the
// observable behavior (one accept per readiness, EAGAIN-equivalent
// yields control back to the loop) is preserved at the Acceptor level.
func (l *Listener) Accept() (net.Conn, error) {
	return l.ln.Accept()
}

// Close closes the underlying socket.
func (l *Listener) Close() error {
	if l.ln == nil {
		return nil
	}
	return l.ln.Close()
}

// String renders the listener for log lines and -T config dumps.
func (l *Listener) String() string {
	if l.Backlog > 0 {
		return l.Addr + " backlog=" + strconv.Itoa(l.Backlog)
	}
	return l.Addr
}
