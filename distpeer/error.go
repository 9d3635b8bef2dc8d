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

// Package distpeer replicates upstream peer health (down/fails/
// effective_weight) across a fleet of edgecore instances over a small
// dragonboat raft group, so a peer an instance marks down is eventually
// observed by its siblings. It is an additive expansion beyond spec.md: the
// single-process balancer in upstream works correctly with distpeer absent.
package distpeer

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorNotStarted indicates an operation was attempted before Start.
	ErrorNotStarted liberr.CodeError = iota + liberr.MinPkgDistPeer
	// ErrorProposeFailed indicates a health report could not be replicated
	// to the raft group within its timeout.
	ErrorProposeFailed
	// ErrorDecodeFailed indicates a replicated log entry could not be
	// decoded into a peerReport.
	ErrorDecodeFailed
	// ErrorUnknownPeer indicates a report named an address not present in
	// the local watch set.
	ErrorUnknownPeer
)

func init() {
	if liberr.ExistInMapMessage(ErrorNotStarted) {
		panic("error code collision in package distpeer")
	}
	liberr.RegisterIdFctMessage(ErrorNotStarted, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorNotStarted:
		return "distpeer gossip not started"
	case ErrorProposeFailed:
		return "failed to replicate peer health report"
	case ErrorDecodeFailed:
		return "failed to decode replicated peer report"
	case ErrorUnknownPeer:
		return "report names a peer outside the watch set"
	}
	return liberr.NullMessage
}
