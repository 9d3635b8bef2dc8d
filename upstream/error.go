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

// Package upstream implements the proxy subsystem: the per-upstream peer
// set, the weighted round-robin balancer, the connect/send/receive/retry
// lifecycle, and the buffered pipe with disk spill used when a client is
// slower than its upstream.
package upstream

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorNoPeers indicates an upstream has no peer eligible for
	// selection (all down, tried, or over max_conns/max_fails).
	ErrorNoPeers liberr.CodeError = iota + liberr.MinPkgUpstream
	// ErrorTriesExhausted indicates the request's tries budget was spent
	// across both tiers without a successful response.
	ErrorTriesExhausted
	// ErrorConnectFailed indicates a non-blocking connect to a peer failed.
	ErrorConnectFailed
	// ErrorSendFailed indicates writing the request to the peer failed.
	ErrorSendFailed
	// ErrorBadResponse indicates the peer's response could not be parsed.
	ErrorBadResponse
)

func init() {
	if liberr.ExistInMapMessage(ErrorNoPeers) {
		panic("error code collision in package upstream")
	}
	liberr.RegisterIdFctMessage(ErrorNoPeers, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorNoPeers:
		return "no eligible upstream peer"
	case ErrorTriesExhausted:
		return "upstream retry budget exhausted"
	case ErrorConnectFailed:
		return "upstream connect failed"
	case ErrorSendFailed:
		return "upstream send failed"
	case ErrorBadResponse:
		return "upstream response malformed"
	}
	return liberr.NullMessage
}
