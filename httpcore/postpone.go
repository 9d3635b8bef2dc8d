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

// Postpone enforces spec.md §4.6's subrequest output ordering: the
// connection keeps a single pointer (active) to the one request currently
// permitted to write; everyone else's output is buffered on its own
// postponed queue until its turn comes, so bytes reach the client in
// preorder of the subrequest tree regardless of completion order
// (invariant 3, ported from ngx_http_postpone_filter_module.c).
type Postpone struct {
	active *Request
}

// NewPostpone returns a Postpone with root initially permitted to write.
func NewPostpone(root *Request) *Postpone {
	return &Postpone{active: root}
}

// Active returns the request currently permitted to write.
func (p *Postpone) Active() *Request { return p.active }

// Produce is called whenever r generates an output chain. If r is the
// active request, the chain is returned immediately for sending;
// otherwise it is appended to r's own postponed queue, to be flushed when
// r eventually becomes active (spec.md: "a subrequest that produces data
// while not permitted appends to its own postponed queue").
func (p *Postpone) Produce(r *Request, chain *Chain) *Chain {
	if r == p.active {
		return chain
	}
	r.postAppend(&postponedNode{chain: chain})
	return nil
}

// Finish is called when the active request has nothing further to
// produce (its own phases/filters have reached the end, or the client
// disconnected early — spec.md §9 Open Question (c): buffered postponed
// data belonging to a since-abandoned request is simply dropped rather
// than stalling the parent, by never being flushed here). It advances the
// connection's permitted-writer pointer to the next node in preorder and
// returns whatever buffered chain that advance immediately makes
// available to send.
func (p *Postpone) Finish(r *Request) *Chain {
	if p.active != r {
		return nil
	}
	active, out := advance(r)
	p.active = active
	return out
}

// advance walks r's own postponed queue from its saved cursor; an
// unvisited chain node is returned directly (r stays active — it was the
// request's own earlier-buffered output reaching its point in sequence);
// an unvisited subrequest node hands control to that subrequest,
// immediately flushing whatever it already buffered while inactive. If
// r's queue is exhausted, control returns to r's parent, whose cursor was
// already left pointing just past r's own node by the descent that made r
// active in the first place.
func advance(r *Request) (*Request, *Chain) {
	if !r.postStarted {
		r.postCursor = r.postHead
		r.postStarted = true
	}

	node := r.postCursor
	if node == nil {
		if r.Parent == nil {
			return r, nil
		}
		return advance(r.Parent)
	}
	r.postCursor = node.next

	if node.chain != nil {
		return r, node.chain
	}
	return node.sub, flushBuffered(node.sub)
}

// flushBuffered drains every contiguous chain node queued at the front of
// sub's own postponed queue (data sub produced while inactive), stopping
// at the first subrequest node, which is left for sub's own future
// advance call to descend into.
func flushBuffered(sub *Request) *Chain {
	if !sub.postStarted {
		sub.postCursor = sub.postHead
		sub.postStarted = true
	}

	var head, tail *Chain
	for sub.postCursor != nil && sub.postCursor.chain != nil {
		c := sub.postCursor.chain
		if head == nil {
			head, tail = c, c
		} else {
			tail.Next = c
			tail = c
		}
		sub.postCursor = sub.postCursor.next
	}
	return head
}
