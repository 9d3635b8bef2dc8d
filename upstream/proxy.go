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

package upstream

import (
	"context"
	"net"
	"time"

	"github.com/sabouaram/edgecore/logger"
)

// NextUpstreamRule decides whether a finished attempt should be retried
// against a different peer, configured per spec.md §4.7's
// "proxy_next_upstream" surface.
type NextUpstreamRule struct {
	OnError   bool
	OnTimeout bool
	Statuses  map[int]bool
}

// Retryable reports whether the outcome of one attempt (a transport error,
// or a response with the given status) should trigger a rewind to peer
// selection.
func (n NextUpstreamRule) Retryable(err error, timedOut bool, status int) bool {
	if err != nil && n.OnError {
		return true
	}
	if timedOut && n.OnTimeout {
		return true
	}
	if n.Statuses != nil && n.Statuses[status] {
		return true
	}
	return false
}

// Dialer is the subset of net.Dialer Proxy needs, made an interface so
// tests can substitute an in-memory pipe instead of a real socket.
type Dialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// Proxy drives one client request's upstream lifecycle: select a peer,
// connect, send the prepared request, parse the response, and on a
// retryable outcome rewind to peer selection against a different peer from
// the same request's unexhausted set (spec.md §4.7).
type Proxy struct {
	Balancer Balancer
	Dialer   Dialer
	Rule     NextUpstreamRule

	ConnectTimeout time.Duration
	SendTimeout    time.Duration
	ReadTimeout    time.Duration

	log logger.Logger
}

// NewProxy returns a Proxy over the given balancer and dialer.
func NewProxy(balancer Balancer, dialer Dialer, rule NextUpstreamRule, log logger.Logger) *Proxy {
	return &Proxy{Balancer: balancer, Dialer: dialer, Rule: rule, log: log}
}

// Outcome is returned by Do: the peer that ultimately served the request
// (or the last one attempted, on final failure), the connection (nil on
// failure), and how many attempts were made.
type Outcome struct {
	Peer     *Peer
	Conn     net.Conn
	Attempts int
	Err      error
}

// RequestFunc sends req over conn and returns the parsed response status,
// or an error / timedOut if the exchange failed. It is supplied by
// httpcore so this package stays free of HTTP parsing concerns.
type RequestFunc func(ctx context.Context, conn net.Conn) (status int, timedOut bool, err error)

// Do runs the full connect/send/receive/retry loop for one request,
// budgeted by tries. Each failed or retryable attempt marks its peer
// tried and OnFailure'd before Do rewinds to Balancer.Pick for the next
// one; the final successful attempt's peer is OnSuccess'd.
func (p *Proxy) Do(ctx context.Context, tries int, fn RequestFunc) Outcome {
	peerCount := 0
	if rr, ok := p.Balancer.(*RoundRobin); ok {
		peerCount = len(rr.primary) + len(rr.backup)
	}
	try := NewTry(peerCount, tries)

	var lastErr error
	attempts := 0

	for !try.Exhausted() {
		peer, err := p.Balancer.Pick(try)
		if err != nil {
			return Outcome{Attempts: attempts, Err: err}
		}
		attempts++

		conn, err := p.dial(ctx, peer.Addr)
		if err != nil {
			peer.OnFailure()
			lastErr = err
			if p.log != nil {
				p.log.Warning("upstream connect failed", peer.Addr, err)
			}
			continue
		}

		status, timedOut, err := fn(ctx, conn)
		if err != nil || (p.Rule.Retryable(err, timedOut, status)) {
			_ = conn.Close()
			peer.OnFailure()
			lastErr = err
			continue
		}

		peer.OnSuccess()
		return Outcome{Peer: peer, Conn: conn, Attempts: attempts}
	}

	return Outcome{Attempts: attempts, Err: lastErr}
}

func (p *Proxy) dial(ctx context.Context, addr string) (net.Conn, error) {
	timeout := p.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := p.Dialer.DialContext(dctx, "tcp", addr)
	if err != nil {
		return nil, ErrorConnectFailed.Error(err)
	}
	return conn, nil
}
