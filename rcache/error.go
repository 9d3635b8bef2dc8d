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

// Package rcache implements the response cache's in-memory key index, its
// nutsdb-backed durable mirror, and the background manager/loader pair
// (spec.md §4.8).
package rcache

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorKeyInFlight indicates a second request tried to originate a
	// fetch for a key another request is already updating.
	ErrorKeyInFlight liberr.CodeError = iota + liberr.MinPkgRCache
	// ErrorKeyNotFound indicates a lookup found no entry for the key.
	ErrorKeyNotFound
	// ErrorStoreOpen indicates the nutsdb durable index could not be
	// opened.
	ErrorStoreOpen
	// ErrorStoreIO indicates a read or write against the durable index
	// failed.
	ErrorStoreIO
)

func init() {
	if liberr.ExistInMapMessage(ErrorKeyInFlight) {
		panic("error code collision in package rcache")
	}
	liberr.RegisterIdFctMessage(ErrorKeyInFlight, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorKeyInFlight:
		return "cache key update already in flight"
	case ErrorKeyNotFound:
		return "cache key not found"
	case ErrorStoreOpen:
		return "cannot open durable cache index"
	case ErrorStoreIO:
		return "durable cache index read/write failed"
	}
	return liberr.NullMessage
}
