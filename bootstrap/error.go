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

// Package bootstrap fetches the supervisor's cold-start seed bundle (a TLS
// certificate bundle, a response-cache snapshot archive, or similar warm
// data) from one configured backend before the first fork, so workers
// inherit warm files instead of populating them lazily (spec.md has no
// analogue for this; it is a fleet-deployment convenience this expansion
// adds ahead of supervisor.Start).
package bootstrap

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorNoBackend indicates Fetch was called with no backend configured.
	ErrorNoBackend liberr.CodeError = iota + liberr.MinPkgBootstrap
	// ErrorFetchFailed indicates the configured backend could not produce
	// the requested artifact.
	ErrorFetchFailed
	// ErrorWriteFailed indicates the fetched bundle could not be written
	// to its destination path.
	ErrorWriteFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorNoBackend) {
		panic("error code collision in package bootstrap")
	}
	liberr.RegisterIdFctMessage(ErrorNoBackend, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorNoBackend:
		return "no bootstrap backend configured"
	case ErrorFetchFailed:
		return "bootstrap seed fetch failed"
	case ErrorWriteFailed:
		return "cannot write fetched seed bundle to disk"
	}
	return liberr.NullMessage
}
