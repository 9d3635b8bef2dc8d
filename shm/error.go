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

// Package shm implements the named shared-memory zone registry, its slab
// allocator, and the hybrid atomic+semaphore / file-lock mutex contract
// every zone is guarded by.
package shm

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorZoneExists indicates a zone of the same name was already
	// registered in this cycle.
	ErrorZoneExists liberr.CodeError = iota + liberr.MinPkgShm
	// ErrorZoneNotFound indicates a lookup by name found no registered zone.
	ErrorZoneNotFound
	// ErrorZoneTooSmall indicates the requested size cannot hold even one
	// page of the slab allocator's minimum size class.
	ErrorZoneTooSmall
	// ErrorSlabExhausted indicates a zone's slab allocator has no free
	// page left for the requested size class.
	ErrorSlabExhausted
	// ErrorMutexBackend indicates the configured mutex backend could not
	// be constructed (e.g. file-lock temp file creation failed).
	ErrorMutexBackend
)

func init() {
	if liberr.ExistInMapMessage(ErrorZoneExists) {
		panic("error code collision in package shm")
	}
	liberr.RegisterIdFctMessage(ErrorZoneExists, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorZoneExists:
		return "shared zone already registered"
	case ErrorZoneNotFound:
		return "shared zone not found"
	case ErrorZoneTooSmall:
		return "shared zone too small for slab page size"
	case ErrorSlabExhausted:
		return "slab allocator exhausted for this zone"
	case ErrorMutexBackend:
		return "cannot construct shared-memory mutex backend"
	}
	return liberr.NullMessage
}
