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

// Package worker is the per-process request-serving loop (spec.md §2/§4):
// it owns one connection Pool, one event Demultiplexer driving idle
// keep-alive connections and timers, and the glue that feeds a freshly
// accepted connection through the httpcore phase engine and out to an
// upstream RoundRobin.
package worker

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorAcceptUnavailable indicates the accept mutex could never be
	// acquired for this worker's listeners.
	ErrorAcceptUnavailable liberr.CodeError = iota + liberr.MinPkgWorker
	// ErrorNoRoute indicates no configured Route prefix matched the
	// request URI.
	ErrorNoRoute
	// ErrorUpstreamUnreachable indicates every peer of the matched
	// route's balancer failed to connect.
	ErrorUpstreamUnreachable
)

func init() {
	if liberr.ExistInMapMessage(ErrorAcceptUnavailable) {
		panic("error code collision in package worker")
	}
	liberr.RegisterIdFctMessage(ErrorAcceptUnavailable, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorAcceptUnavailable:
		return "accept mutex never acquired"
	case ErrorNoRoute:
		return "no matching route"
	case ErrorUpstreamUnreachable:
		return "upstream unreachable on every peer"
	}
	return liberr.NullMessage
}
