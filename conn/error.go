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

// Package conn implements the fixed-size connection pool, the read/write
// event records paired with each slot, the reusable keep-alive LRU, and
// the non-blocking listener/acceptor with its optional cross-worker accept
// mutex.
package conn

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorPoolExhausted indicates every connection slot is in use and the
	// reusable LRU is empty, so an accepted socket must be dropped.
	ErrorPoolExhausted liberr.CodeError = iota + liberr.MinPkgConn
	// ErrorListenFailed indicates the listening socket could not be
	// created or bound.
	ErrorListenFailed
	// ErrorAcceptFailed indicates an accept(2)-equivalent call returned a
	// non-EAGAIN error.
	ErrorAcceptFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorPoolExhausted) {
		panic("error code collision in package conn")
	}
	liberr.RegisterIdFctMessage(ErrorPoolExhausted, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorPoolExhausted:
		return "connection pool exhausted"
	case ErrorListenFailed:
		return "listen failed"
	case ErrorAcceptFailed:
		return "accept failed"
	}
	return liberr.NullMessage
}
