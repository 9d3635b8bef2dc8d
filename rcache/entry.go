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

package rcache

import "time"

// State is an Entry's lifecycle state (spec.md §4.8).
type State int

const (
	StateNew State = iota
	StateUpdating
	StateStale
)

// Entry is one cache key's bookkeeping record: content-addressed file
// path, reference count, lifecycle state and expiration. The body itself
// lives on disk under Path; Entry never holds response bytes.
type Entry struct {
	Key    string
	Path   string // content-addressed, multi-level directory per spec.md §4.8
	State  State
	Expire time.Time

	refs int

	// LRU linkage, owned by Index.
	prev, next *Entry
	lastUsed   time.Time
}

// Expired reports whether the entry's expiration has passed as of now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.Expire.IsZero() && now.After(e.Expire)
}
