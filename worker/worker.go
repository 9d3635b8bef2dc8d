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

package worker

import (
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sabouaram/edgecore/conn"
	"github.com/sabouaram/edgecore/event"
	"github.com/sabouaram/edgecore/httpcore"
	"github.com/sabouaram/edgecore/logger"
	"github.com/sabouaram/edgecore/shm"
	"github.com/sabouaram/edgecore/upstream"
)

// Route binds a location URI prefix to the upstream pool requests under it
// proxy to (spec.md §4.6 "find config" / §4.7).
type Route struct {
	Prefix   string
	Balancer *upstream.RoundRobin
}

// Config is everything one worker process needs to start serving: the
// listeners it inherited from the supervisor, the routing table, and the
// tuning knobs a Cycle carries (spec.md §3 worker_connections et al.).
type Config struct {
	Listeners   []*conn.Listener
	Connections int
	Routes      []Route

	// AcceptMutex, if non-nil, is the cross-worker accept mutex (spec.md
	// §4.5); nil means this worker always keeps its listeners registered.
	AcceptMutex shm.Mutex

	MaxHeaderSize int
	IdleTimeout   time.Duration
	DialTimeout   time.Duration

	Log logger.Logger
}

// Worker is the per-process request-serving loop: one connection Pool, one
// Acceptor, and one event Demultiplexer/Timers pair driving every
// connection that is idle between requests. A connection actively
// processing a request runs synchronously on its own goroutine instead of
// yielding through the demultiplexer — see DESIGN.md's "event loop vs
// goroutine-per-request" note for why that split, not epoll for every byte,
// is the idiomatic Go rendering of spec.md §4's cooperative model.
type Worker struct {
	cfg Config

	pool     *conn.Pool
	acceptor *conn.Acceptor
	demux    event.Demultiplexer
	timers   *event.Timers
	posted   *event.PostedQueue

	routes []Route

	log logger.Logger

	closing int32
}

// New builds a Worker from cfg. It creates the connection pool and the
// platform demultiplexer (spec.md §4.3/§4.4) up front; Serve does the
// actual accepting.
func New(cfg Config) (*Worker, error) {
	if cfg.Connections <= 0 {
		cfg.Connections = 1024
	}
	if cfg.MaxHeaderSize <= 0 {
		cfg.MaxHeaderSize = 8192
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 75 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	routes := append([]Route(nil), cfg.Routes...)
	sort.Slice(routes, func(i, j int) bool { return len(routes[i].Prefix) > len(routes[j].Prefix) })

	demux, err := event.NewDemultiplexer()
	if err != nil {
		return nil, err
	}

	w := &Worker{
		cfg:    cfg,
		pool:   conn.NewPool(cfg.Connections),
		demux:  demux,
		timers: event.NewTimers(),
		posted: &event.PostedQueue{},
		routes: routes,
		log:    cfg.Log,
	}

	w.acceptor = conn.NewAcceptor(w.pool, cfg.AcceptMutex, w.onAccept, w.onAcceptError)
	for _, l := range cfg.Listeners {
		w.acceptor.AddListener(l)
	}
	if err := demux.Notify(func(ev *event.Event, timedOut bool) {}); err != nil {
		_ = demux.Close()
		return nil, err
	}
	return w, nil
}

// Serve enables accepting and runs the cooperative loop until ctx is
// cancelled: block in the demultiplexer for at most the next timer
// deadline, drain whatever it posted (idle connections that became
// readable again, or were closed by their peer), then expire and fire any
// timer past its deadline (spec.md §4.4 "the timer tree's minimum bounds
// how long Process may block").
func (w *Worker) Serve(ctx context.Context) error {
	if !w.acceptor.TryEnable() {
		return ErrorAcceptUnavailable.Error()
	}
	defer w.acceptor.Disable()
	defer w.demux.Close()

	for {
		select {
		case <-ctx.Done():
			atomic.StoreInt32(&w.closing, 1)
			return nil
		default:
		}

		timeout := time.Second
		if deadline, ok := w.timers.NextDeadline(); ok {
			if till := time.Until(deadline); till < timeout {
				timeout = till
			}
		}
		if timeout < 0 {
			timeout = 0
		}

		if _, err := w.demux.Process(timeout, w.posted); err != nil {
			w.log.Warning("event demultiplexer process failed", err)
		}

		w.posted.Drain(func(ev *event.Event) {
			if ev.Handler != nil {
				ev.Handler(ev, false)
			}
		})
		for _, ev := range w.timers.Expire(time.Now()) {
			if ev.Handler != nil {
				ev.Handler(ev, true)
			}
		}
	}
}

func (w *Worker) onAcceptError(err error) {
	if atomic.LoadInt32(&w.closing) == 1 {
		return
	}
	w.log.Warning("accept failed", err)
}

// onAccept is the conn.AcceptHandler: every newly accepted connection
// starts out actively processing a request, so it is handed to its own
// goroutine immediately rather than registered with the demultiplexer
// (which only ever sees a connection once it goes idle between requests,
// via parkIdle).
func (w *Worker) onAccept(c *conn.Connection) {
	go w.serveConnection(c)
}

func (w *Worker) serveConnection(c *conn.Connection) {
	for {
		req, ok := w.readRequest(c)
		if !ok {
			w.release(c)
			return
		}

		route, found := w.matchRoute(req.URI)
		switch {
		case !found:
			w.writeStatus(c, 404)
		default:
			if err := w.proxy(c, req, route); err != nil {
				w.log.Warning("upstream proxy failed", err)
				w.writeStatus(c, 502)
			}
		}
		req.Finalize()

		if !req.KeepAlive {
			w.release(c)
			return
		}
		if !w.parkIdle(c) {
			return
		}
	}
}

// readRequest blocks reading off c.Conn until the header block is fully
// parsed (spec.md §4.6 phases run once a full request line + headers are
// available). A parse error or a read error both end the connection.
func (w *Worker) readRequest(c *conn.Connection) (*httpcore.Request, bool) {
	req := httpcore.NewRequest(c.Arena)
	c.Proto = req

	p := httpcore.NewParser(req, w.cfg.MaxHeaderSize)
	buf := make([]byte, 4096)

	for !p.Done() {
		n, err := c.Conn.Read(buf)
		if err != nil {
			return nil, false
		}
		if _, err := p.Feed(buf[:n]); err != nil {
			return nil, false
		}
	}
	return req, true
}

func (w *Worker) matchRoute(uri string) (Route, bool) {
	for _, r := range w.routes {
		if strings.HasPrefix(uri, r.Prefix) {
			return r, true
		}
	}
	return Route{}, false
}

// proxy dials a peer from route.Balancer's weighted round robin, retrying
// across the tried-bitmap budget on connect failure exactly as upstream.Try
// models (spec.md §4.7), writes the inbound request line/headers to it, and
// copies its response straight back to the client connection.
func (w *Worker) proxy(c *conn.Connection, req *httpcore.Request, route Route) error {
	peers := route.Balancer.AllPeers()
	try := upstream.NewTry(len(peers), len(peers))

	for {
		peer, err := route.Balancer.Pick(try)
		if err != nil {
			return ErrorUpstreamUnreachable.Error(err)
		}

		upConn, dialErr := net.DialTimeout("tcp", peer.Addr, w.cfg.DialTimeout)
		if dialErr != nil {
			peer.OnFailure()
			if try.Exhausted() {
				return ErrorUpstreamUnreachable.Error(dialErr)
			}
			continue
		}

		err = w.roundTrip(c, req, upConn)
		_ = upConn.Close()
		if err != nil {
			peer.OnFailure()
			if try.Exhausted() {
				return err
			}
			continue
		}
		peer.OnSuccess()
		return nil
	}
}

func (w *Worker) roundTrip(c *conn.Connection, req *httpcore.Request, upConn net.Conn) error {
	if err := writeUpstreamRequest(upConn, req); err != nil {
		return err
	}
	_, err := io.Copy(c.Conn, upConn)
	return err
}

func writeUpstreamRequest(w io.Writer, req *httpcore.Request) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\r\n", req.Method, req.URI, req.Version)
	for _, h := range req.Headers.Slice() {
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (w *Worker) writeStatus(c *conn.Connection, status int) {
	body := fmt.Sprintf("%d\n", status)
	fmt.Fprintf(c.Conn, "HTTP/1.1 %d error\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s", status, len(body), body)
}

func (w *Worker) release(c *conn.Connection) {
	_ = c.Conn.Close()
	w.pool.Release(c)
}

// parkIdle marks c reusable and registers its read side with the
// demultiplexer so the worker notices either the next request's first byte
// or the peer closing, without a goroutine permanently blocked in Read.
// Registration failure (pool exhaustion aside) closes the connection rather
// than leaking an un-polled idle socket.
func (w *Worker) parkIdle(c *conn.Connection) bool {
	w.pool.MarkReusable(c)

	c.Read.Reset(c, event.Read, func(ev *event.Event, timedOut bool) {
		w.timers.Cancel(c.Read)
		_ = w.demux.Del(c.Read, fd(c), 0)

		switch {
		case c.Closing:
			// Pool.Acquire reclaimed this slot for a new connection
			// before this one went idle past IdleTimeout; Acquire owns
			// the freelist bookkeeping for the slot, so this handler
			// only closes the superseded socket.
			if c.Conn != nil {
				_ = c.Conn.Close()
			}
		case timedOut:
			w.release(c)
		default:
			w.pool.UnmarkReusable(c)
			go w.serveConnection(c)
		}
	})

	fdv := fd(c)
	if fdv < 0 {
		w.release(c)
		return false
	}
	if err := w.demux.Add(c.Read, fdv, event.EdgeTriggered); err != nil {
		w.release(c)
		return false
	}
	w.timers.Add(c.Read, w.cfg.IdleTimeout)
	return true
}

// fd extracts the raw descriptor behind c.Conn for demultiplexer
// registration. Only a net.Conn backed by an *os.File (what
// conn.Listener.Accept produces) supports this; anything else can't be
// parked idle and parkIdle closes the connection instead.
func fd(c *conn.Connection) int {
	sc, ok := c.Conn.(syscall.Conn)
	if !ok {
		return -1
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1
	}

	descriptor := -1
	if err := raw.Control(func(p uintptr) { descriptor = int(p) }); err != nil {
		return -1
	}
	return descriptor
}
