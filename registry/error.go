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

// Package registry persists the upstream peer list (address, weight, tier)
// through a gorm-backed table, so that `-t`/`-T` and reconfiguration can
// diff a proposed cycle's upstream blocks against a durable record instead
// of only the in-memory Cycle (spec.md §3's Cycle is still the runtime
// source of truth; registry is optional operational persistence).
package registry

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorOpenFailed indicates the backing gorm database could not be
	// opened or migrated.
	ErrorOpenFailed liberr.CodeError = iota + liberr.MinPkgRegistry
	// ErrorNotFound indicates a lookup found no row for the given pool name.
	ErrorNotFound
	// ErrorSaveFailed indicates a peer list could not be persisted.
	ErrorSaveFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorOpenFailed) {
		panic("error code collision in package registry")
	}
	liberr.RegisterIdFctMessage(ErrorOpenFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorOpenFailed:
		return "cannot open durable peer registry"
	case ErrorNotFound:
		return "no registry row for upstream pool"
	case ErrorSaveFailed:
		return "failed to persist upstream peer list"
	}
	return liberr.NullMessage
}
