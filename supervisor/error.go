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

// Package supervisor implements the master process: it forks/execs workers,
// blocks on the signal table of spec.md §4.1, reaps exited workers and
// respawns them, and drives the hot binary upgrade and cache-helper process
// handshakes.
package supervisor

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorNoFreeSlot indicates the process table has no free entry for a
	// new worker (every slot already holds a live pid).
	ErrorNoFreeSlot liberr.CodeError = iota + liberr.MinPkgSupervisor
	// ErrorForkFailed indicates the os/exec re-exec of a worker process
	// could not be started.
	ErrorForkFailed
	// ErrorUnknownSlot indicates an operation referenced a worker slot
	// outside the process table's bounds.
	ErrorUnknownSlot
	// ErrorUpgradeInProgress indicates a second hot-upgrade was requested
	// while one was already in flight.
	ErrorUpgradeInProgress
)

func init() {
	if liberr.ExistInMapMessage(ErrorNoFreeSlot) {
		panic("error code collision in package supervisor")
	}
	liberr.RegisterIdFctMessage(ErrorNoFreeSlot, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorNoFreeSlot:
		return "no free worker slot in process table"
	case ErrorForkFailed:
		return "cannot start worker process"
	case ErrorUnknownSlot:
		return "worker slot out of range"
	case ErrorUpgradeInProgress:
		return "binary upgrade already in progress"
	}
	return liberr.NullMessage
}
