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

import "strings"

// Header is one parsed request or response header: the original-case
// name (kept for re-emission) plus its value.
type Header struct {
	Name  string
	Value string
}

// wellKnown are the headers the source's perfect-hash table recognizes
// and stores in a dedicated slot in addition to the generic list (spec.md
// §4.6). A map lookup stands in for the perfect hash here; the externally
// observable behavior — O(1) recognition regardless of list length — is
// the same.
var wellKnown = map[string]bool{
	"host": true, "connection": true, "content-length": true,
	"transfer-encoding": true, "content-type": true, "user-agent": true,
	"cookie": true, "accept-encoding": true, "range": true,
	"if-modified-since": true, "if-none-match": true, "authorization": true,
	"x-forwarded-for": true, "upgrade": true,
}

// HeaderList holds every parsed header in arrival order plus a lowercased
// lookup index, so Get is O(1) while Slice() preserves the wire order a
// byte-identical round-trip needs (spec.md §8).
type HeaderList struct {
	list  []Header
	index map[string][]int
}

// NewHeaderList returns an empty HeaderList.
func NewHeaderList() *HeaderList {
	return &HeaderList{index: make(map[string][]int)}
}

// Add appends a header, lowercasing name only for the lookup index — the
// original case is preserved for re-emission.
func (h *HeaderList) Add(name, value string) {
	key := strings.ToLower(name)
	h.index[key] = append(h.index[key], len(h.list))
	h.list = append(h.list, Header{Name: name, Value: value})
}

// Get returns the first value for name (case-insensitively), and whether
// it was present.
func (h *HeaderList) Get(name string) (string, bool) {
	idx, ok := h.index[strings.ToLower(name)]
	if !ok || len(idx) == 0 {
		return "", false
	}
	return h.list[idx[0]].Value, true
}

// Values returns every value for name in arrival order.
func (h *HeaderList) Values(name string) []string {
	idx := h.index[strings.ToLower(name)]
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, h.list[i].Value)
	}
	return out
}

// IsWellKnown reports whether name is one of the headers recognized into
// a dedicated slot rather than only the generic list.
func IsWellKnown(name string) bool {
	return wellKnown[strings.ToLower(name)]
}

// Slice returns every header in arrival order, for byte-identical
// round-trip emission.
func (h *HeaderList) Slice() []Header { return h.list }

// Len reports how many headers are held.
func (h *HeaderList) Len() int { return len(h.list) }
