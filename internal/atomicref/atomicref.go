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

// Package atomicref gives the current-cycle global state a clear
// single-writer, many-reader shape: the supervisor (or, in-process, the
// reconfigure path) replaces the pointer; every worker-loop callback reads
// it without locking. This is the Go-idiomatic rendering of "the current
// cycle is process-wide state with one writer" called for in the source.
package atomicref

import "sync/atomic"

// Ref is an atomically-swappable reference to an immutable value of type T.
// Readers call Load and keep using the returned pointer for the remainder
// of their turn even if a concurrent Store lands in between; the old value
// is retained by the GC until the last reader drops it.
type Ref[T any] struct {
	p atomic.Pointer[T]
}

// New returns a Ref already holding val.
func New[T any](val *T) *Ref[T] {
	r := &Ref[T]{}
	r.p.Store(val)
	return r
}

// Load returns the current value. Nil until the first Store.
func (r *Ref[T]) Load() *T {
	return r.p.Load()
}

// Store replaces the current value.
func (r *Ref[T]) Store(val *T) {
	r.p.Store(val)
}

// Swap replaces the current value and returns the previous one.
func (r *Ref[T]) Swap(val *T) *T {
	return r.p.Swap(val)
}

// CompareAndSwap atomically swaps old for new if the current value is old
// by pointer identity.
func (r *Ref[T]) CompareAndSwap(old, new *T) bool {
	return r.p.CompareAndSwap(old, new)
}
