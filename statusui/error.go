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

// Package statusui exposes a local-only admin surface over a running
// edgecore instance: a gin HTTP status API (connections, upstream peer
// weights, cache occupancy) and a bubbletea terminal dashboard
// (`edgecored top`). Neither is part of the request-serving data path of
// spec.md; both are read-only operational views over the same snapshot
// types the core already exposes (conn.Pool, upstream.RoundRobin,
// rcache.Index).
package statusui

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorSnapshotFailed indicates a status snapshot could not be
	// assembled from one of the watched subsystems.
	ErrorSnapshotFailed liberr.CodeError = iota + liberr.MinPkgStatusUI
)

func init() {
	if liberr.ExistInMapMessage(ErrorSnapshotFailed) {
		panic("error code collision in package statusui")
	}
	liberr.RegisterIdFctMessage(ErrorSnapshotFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorSnapshotFailed:
		return "failed to assemble status snapshot"
	}
	return liberr.NullMessage
}
