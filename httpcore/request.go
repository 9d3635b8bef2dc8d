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

import (
	"github.com/sabouaram/edgecore/internal/arena"
)

// ModuleID indexes a per-module context slot on a Request, the Go
// rendering of the source's function-pointer-table "contexts" array
// (spec.md §9 Module linkage).
type ModuleID int

// postponedNode is one entry of a Request's postponed queue: either a
// child Subrequest not yet (fully) written, or a buffered Chain produced
// while this request was not the one permitted to write.
type postponedNode struct {
	sub   *Request
	chain *Chain
	next  *postponedNode
}

// Request is the HTTP request state machine's per-request record
// (spec.md §3): parse cursors, headers, URI, per-module contexts, parent/
// subrequest links, the postponed queue, and the body buffer.
type Request struct {
	Arena *arena.Arena

	Method  string
	URI     string
	Args    string
	Ext     string
	Version string

	Headers    *HeaderList
	Host       string
	KeepAlive  bool
	ChunkedIn  bool
	BodyLength int64

	// Phase engine state (spec.md §4.6).
	phaseIndex int
	Location   *Location

	// Subrequest tree.
	Parent   *Request
	children []*Request

	refs int

	postHead, postTail *postponedNode
	// postCursor/postStarted track how far Postpone.advance has descended
	// into this request's own postponed queue; see postpone.go.
	postCursor  *postponedNode
	postStarted bool
	// writable is true only for the one request (root or a subrequest)
	// currently permitted to push bytes to the connection's output chain,
	// per the postpone filter's invariant (spec.md §4.6, §8 invariant 3).
	writable bool

	modules map[ModuleID]any

	Body     *BodyReader
	Finalized bool

	// Status is set by the phase engine or an upstream response and
	// consumed by the header-installer filter.
	Status int

	done chan struct{}
}

// NewRequest returns a fresh root Request drawn from arena a.
func NewRequest(a *arena.Arena) *Request {
	return &Request{
		Arena:    a,
		Headers:  NewHeaderList(),
		writable: true,
		refs:     1,
		modules:  make(map[ModuleID]any),
		done:     make(chan struct{}),
	}
}

// Context returns the per-module context slot for id, creating it via new
// if absent.
func (r *Request) Context(id ModuleID, new func() any) any {
	if v, ok := r.modules[id]; ok {
		return v
	}
	v := new()
	r.modules[id] = v
	return v
}

// Subrequest spawns a child request sharing the connection but with its
// own arena, parse state and postponed queue, appended as the last entry
// of r's postponed queue (the tree's preorder position it will occupy for
// output purposes) per spec.md §4.6.
func (r *Request) Subrequest(uri string) *Request {
	child := &Request{
		Arena:   r.Arena.Child(),
		Headers: NewHeaderList(),
		URI:     uri,
		Parent:  r,
		refs:    1,
		modules: make(map[ModuleID]any),
		done:    make(chan struct{}),
	}
	r.children = append(r.children, child)
	r.postAppend(&postponedNode{sub: child})
	r.refs++
	return child
}

func (r *Request) postAppend(n *postponedNode) {
	if r.postTail == nil {
		r.postHead, r.postTail = n, n
		return
	}
	r.postTail.next = n
	r.postTail = n
}

// AddRef increments the request's reference count, mirroring the source's
// r->count used to defer destruction until every subrequest and posted
// callback referencing r has finished.
func (r *Request) AddRef() { r.refs++ }

// Finalize decrements the reference count and, if it reaches zero,
// performs cleanup exactly once — finalize is idempotent (spec.md §7:
// "calling finalize twice on the same request is a no-op after the
// first").
func (r *Request) Finalize() {
	r.refs--
	if r.refs > 0 {
		return
	}
	if r.Finalized {
		return
	}
	r.Finalized = true
	close(r.done)
	if r.Body != nil {
		r.Body.Close()
	}
}

// Done returns a channel closed when the request has fully finalized,
// i.e. refs reached zero including every subrequest.
func (r *Request) Done() <-chan struct{} { return r.done }

// PhaseIndex returns the phase-list index the engine should resume at the
// next time this request is re-entered by an event (spec.md §4.6's
// re-entrant "a later event posts the request back to resume at the
// recorded phase index").
func (r *Request) PhaseIndex() int { return r.phaseIndex }

// SetPhaseIndex records the resume point for the next re-entry.
func (r *Request) SetPhaseIndex(i int) { r.phaseIndex = i }
