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

// Package ipc implements the full-duplex, fixed-size-record channel the
// supervisor establishes with each worker before fork, and that workers use
// to relay OPEN_CHANNEL introductions to every peer (spec.md §4.2).
package ipc

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorSocketPair indicates the socketpair(2)-equivalent full-duplex
	// pipe could not be created before fork.
	ErrorSocketPair liberr.CodeError = iota + liberr.MinPkgIPC
	// ErrorChannelClosed indicates a Send was attempted on a channel whose
	// peer has already gone away.
	ErrorChannelClosed
	// ErrorShortRead indicates a frame's declared length did not match the
	// bytes actually available before the peer closed.
	ErrorShortRead
	// ErrorDecode indicates a frame's CBOR payload failed to decode into a
	// Message.
	ErrorDecode
)

func init() {
	if liberr.ExistInMapMessage(ErrorSocketPair) {
		panic("error code collision in package ipc")
	}
	liberr.RegisterIdFctMessage(ErrorSocketPair, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorSocketPair:
		return "cannot create ipc socket pair"
	case ErrorChannelClosed:
		return "ipc channel closed"
	case ErrorShortRead:
		return "ipc frame truncated"
	case ErrorDecode:
		return "cannot decode ipc frame"
	}
	return liberr.NullMessage
}
