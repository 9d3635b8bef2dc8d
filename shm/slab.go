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

package shm

import "github.com/bits-and-blooms/bitset"

// pageSize is the slab allocator's page granularity: every page serves
// objects of exactly one size class, matching ngx_slab_page_t semantics.
const pageSize = 4096

// sizeClasses are the object sizes a Slab can serve below half a page.
// Sizes at or above pageSize/2 are served whole-page ("exact" class
// collapses into pageSize/2 here since Go has no sub-word bitmap packing
// trick to preserve beyond that point).
var sizeClasses = []int{8, 16, 32, 64, 128, 256, 512, 1024, 2048}

// page is one pageSize-bytes subdivision of a Slab's backing buffer. Small
// classes track occupancy with a bitset sized to the number of objects per
// page, mirroring the in-page bitmap occupancy the source keeps in the
// page descriptor for "exact" and smaller classes.
type page struct {
	class  int // size class index into sizeClasses, or -1 for a large/whole-page alloc
	used   int
	bitmap *bitset.BitSet
}

// Slab is a fixed-size-class allocator over one shared zone's backing
// buffer. It exists to give named zones (peer health tables, the response
// cache index) a fixed-overhead allocation strategy instead of calling the
// Go heap allocator for cross-worker state, modeling ngx_slab_pool_t.
type Slab struct {
	buf   []byte
	pages []*page

	free [][]int // free[classIdx] = indices into pages with a free slot
}

// NewSlab carves size bytes into pageSize pages, all initially unassigned.
func NewSlab(size int) (*Slab, error) {
	if size < pageSize {
		return nil, ErrorZoneTooSmall.Error()
	}
	n := size / pageSize
	s := &Slab{
		buf:   make([]byte, n*pageSize),
		pages: make([]*page, n),
		free:  make([][]int, len(sizeClasses)),
	}
	return s, nil
}

func classFor(n int) int {
	for i, c := range sizeClasses {
		if n <= c {
			return i
		}
	}
	return -1
}

// Alloc returns a byte slice of at least n bytes drawn from a size-class
// page, allocating a fresh page from the free-page list if every existing
// page of that class is full.
func (s *Slab) Alloc(n int) ([]byte, error) {
	ci := classFor(n)
	if ci < 0 {
		return s.allocLarge(n)
	}
	objSize := sizeClasses[ci]
	perPage := pageSize / objSize

	for _, pi := range s.free[ci] {
		p := s.pages[pi]
		if p.used < perPage {
			idx, ok := p.bitmap.NextClear(0)
			if ok && int(idx) < perPage {
				p.bitmap.Set(idx)
				p.used++
				if p.used == perPage {
					s.free[ci] = removeIdx(s.free[ci], pi)
				}
				off := pi*pageSize + int(idx)*objSize
				return s.buf[off : off+n : off+objSize], nil
			}
		}
	}

	pi, ok := s.newPage(ci)
	if !ok {
		return nil, ErrorSlabExhausted.Error()
	}
	p := s.pages[pi]
	p.bitmap.Set(0)
	p.used = 1
	s.free[ci] = append(s.free[ci], pi)
	off := pi * pageSize
	return s.buf[off : off+n : off+objSize], nil
}

func (s *Slab) allocLarge(n int) ([]byte, error) {
	need := (n + pageSize - 1) / pageSize
	run := 0
	start := -1
	for i, p := range s.pages {
		if p == nil {
			if start < 0 {
				start = i
			}
			run++
			if run == need {
				for j := start; j < start+need; j++ {
					s.pages[j] = &page{class: -1, used: 1}
				}
				off := start * pageSize
				return s.buf[off : off+n : off+need*pageSize], nil
			}
		} else {
			start, run = -1, 0
		}
	}
	return nil, ErrorSlabExhausted.Error()
}

func (s *Slab) newPage(class int) (int, bool) {
	objSize := sizeClasses[class]
	perPage := pageSize / objSize
	for i, p := range s.pages {
		if p == nil {
			s.pages[i] = &page{class: class, bitmap: bitset.New(uint(perPage))}
			return i, true
		}
	}
	return 0, false
}

// Free releases b, previously returned by Alloc, back to its page. A page
// whose occupancy drops to zero is returned to the global free-page list
// by clearing its class assignment so a future Alloc of any size can claim
// it, mirroring the source's page-coalescing on full release.
func (s *Slab) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	off := addrOffset(s.buf, b)
	pi := off / pageSize
	if pi < 0 || pi >= len(s.pages) || s.pages[pi] == nil {
		return
	}
	p := s.pages[pi]
	if p.class < 0 {
		s.pages[pi] = nil
		return
	}
	objSize := sizeClasses[p.class]
	slot := (off % pageSize) / objSize
	if !p.bitmap.Test(uint(slot)) {
		return
	}
	p.bitmap.Clear(uint(slot))
	p.used--
	if p.used == 0 {
		s.free[p.class] = removeIdx(s.free[p.class], pi)
		s.pages[pi] = nil
	}
}

func addrOffset(base, sub []byte) int {
	return int(uintptrOf(sub) - uintptrOf(base))
}

func removeIdx(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
