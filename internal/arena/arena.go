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

// Package arena models the scoped allocation pools that back each
// connection and each request: a single growable block handed out in slices,
// reset in one call instead of freed piece by piece. A request arena is
// attached to its connection's arena as a child so that resetting the
// connection also drops everything its last request ever carried.
package arena

import "sync"

const defaultBlockSize = 4096

// Arena is a bump allocator over one or more fixed blocks. It is not safe
// for concurrent use: every Arena is owned by exactly one connection or
// request, which the single-threaded worker loop never touches from two
// callbacks at once.
type Arena struct {
	blockSize int
	blocks    [][]byte
	off       int

	parent   *Arena
	children []*Arena
}

// New returns an Arena whose blocks are allocated blockSize bytes at a time.
// A blockSize of zero uses a 4KiB default, matching one page.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &Arena{blockSize: blockSize}
}

// Child returns a new Arena whose lifetime is bounded by a's: Reset or
// Release on a also releases every child. This models the request-pool
// attached to its connection-pool in the source.
func (a *Arena) Child() *Arena {
	c := New(a.blockSize)
	c.parent = a
	a.children = append(a.children, c)
	return c
}

// Alloc returns a zeroed slice of length n drawn from the arena's current
// block, growing the arena with a fresh block if the current one cannot
// satisfy the request. The returned slice must not be retained past the
// arena's Reset.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}

	if len(a.blocks) > 0 {
		cur := a.blocks[len(a.blocks)-1]
		if len(cur)-a.off >= n {
			b := cur[a.off : a.off+n : a.off+n]
			a.off += n
			return b
		}
	}

	size := a.blockSize
	if n > size {
		size = n
	}
	a.blocks = append(a.blocks, make([]byte, size))
	a.off = n
	return a.blocks[len(a.blocks)-1][:n:n]
}

// Reset drops every allocation made since the arena (or its last Reset) was
// created, recursively resetting every child arena, and reuses the first
// block to avoid re-allocating on the connection's next request.
func (a *Arena) Reset() {
	for _, c := range a.children {
		c.Reset()
	}
	a.children = a.children[:0]

	if len(a.blocks) > 1 {
		a.blocks = a.blocks[:1]
	}
	a.off = 0
}

// Release detaches the arena from its parent and discards all blocks. Call
// this only when the owning connection or request will never be reused.
func (a *Arena) Release() {
	for _, c := range a.children {
		c.Release()
	}
	a.children = nil
	a.blocks = nil
	a.off = 0
	a.parent = nil
}

// pool recycles top-level arenas of the default block size, mirroring how
// the connection pool hands out pre-allocated records instead of calling
// the allocator on every accept.
var pool = sync.Pool{New: func() interface{} { return New(defaultBlockSize) }}

// Acquire returns a reset Arena from the shared pool.
func Acquire() *Arena {
	return pool.Get().(*Arena)
}

// Put resets a and returns it to the shared pool.
func Put(a *Arena) {
	a.Reset()
	pool.Put(a)
}
