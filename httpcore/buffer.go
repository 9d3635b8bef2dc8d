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

package httpcore

import "os"

// Buffer describes either an in-memory range or a file range, plus the
// flag set every filter in the chain inspects before forwarding or
// absorbing it (spec.md §3). Filter modules must not mutate a Buffer they
// do not own; a recycled Buffer must be returned to its owner before the
// chain that referenced it is reused.
type Buffer struct {
	// Memory range: Data[Pos:Last] is the live slice, Data[Start:End] the
	// full backing allocation.
	Data              []byte
	Start, End        int
	Pos, Last         int

	// File range: used when InFile is set instead of Data.
	File         *os.File
	FilePos      int64
	FileLast     int64

	LastBuf     bool
	Flush       bool
	InFile      bool
	Temporary   bool
	Memory      bool
	Mmap        bool
	Recycled    bool
	Sync        bool
	LastInChain bool
}

// Len reports the number of live bytes the Buffer currently describes.
func (b *Buffer) Len() int {
	if b.InFile {
		return int(b.FileLast - b.FilePos)
	}
	return b.Last - b.Pos
}

// Chain is a singly-linked list of Buffer references — not of Buffers
// themselves, mirroring the source's ngx_chain_t wrapping a pointer to a
// possibly-shared ngx_buf_t.
type Chain struct {
	Buf  *Buffer
	Next *Chain
}

// Append returns the chain with c appended as its new tail, walking from
// head; head may be nil.
func Append(head, c *Chain) *Chain {
	if head == nil {
		return c
	}
	n := head
	for n.Next != nil {
		n = n.Next
	}
	n.Next = c
	return head
}

// UpdateSent advances every buffer at the head of chain by n bytes sent,
// dropping fully-consumed links, and returns the (possibly new) head. This
// is the "write followed by update_sent(n) advances exactly n bytes"
// round-trip property (spec.md §8).
func UpdateSent(head *Chain, n int) *Chain {
	for head != nil && n > 0 {
		b := head.Buf
		avail := b.Len()
		if avail > n {
			if b.InFile {
				b.FilePos += int64(n)
			} else {
				b.Pos += n
			}
			n = 0
			break
		}
		n -= avail
		if b.InFile {
			b.FilePos = b.FileLast
		} else {
			b.Pos = b.Last
		}
		head = head.Next
	}
	return head
}

// Len sums Buffer.Len() across the chain starting at c.
func Len(c *Chain) int {
	total := 0
	for n := c; n != nil; n = n.Next {
		total += n.Buf.Len()
	}
	return total
}

// Bytes materializes chain c into one contiguous slice; used by tests and
// by filters that must see the whole body at once (e.g. an SSI scan).
// Buffers backed by a file are read via ReadAt, not loaded in bulk by any
// other path in the pipeline.
func Bytes(c *Chain) ([]byte, error) {
	out := make([]byte, 0, Len(c))
	for n := c; n != nil; n = n.Next {
		b := n.Buf
		if b.InFile {
			buf := make([]byte, b.Len())
			if _, err := b.File.ReadAt(buf, b.FilePos); err != nil {
				return nil, err
			}
			out = append(out, buf...)
		} else {
			out = append(out, b.Data[b.Pos:b.Last]...)
		}
	}
	return out, nil
}

// MemoryBuffer wraps b as a Buffer whose live range is the whole slice.
func MemoryBuffer(b []byte) *Buffer {
	return &Buffer{Data: b, Start: 0, End: len(b), Pos: 0, Last: len(b), Memory: true}
}
