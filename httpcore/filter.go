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

// HeaderFilter runs once per request, immediately before the first body
// buffer is sent; it may adjust status/headers but must not alter the
// body chain.
type HeaderFilter func(r *Request) error

// BodyFilter runs once per buffer chain produced for r. It returns the
// (possibly transformed) chain to forward to the next filter, or an error
// to abort output. A filter that buffers (postpone, SSI) may return a nil
// chain while holding data internally until it has enough to emit.
type BodyFilter func(r *Request, in *Chain) (*Chain, error)

// FilterChain is the output pipeline every response chain passes through:
// header filters run once, body filters run per chain, both in the
// install order of spec.md §4.6 ("write, chunked, range, SSI/subrequest,
// postpone, copy, gzip, charset, header-installer" — note the chain runs
// header-installer LAST on output, i.e. first in the list a consumer
// would register since each filter is installed with the next filter's
// pointer already known, building the chain back-to-front at startup).
type FilterChain struct {
	headers []HeaderFilter
	body    []BodyFilter
}

// NewFilterChain returns an empty FilterChain; filters are appended in
// the order they should run.
func NewFilterChain() *FilterChain {
	return &FilterChain{}
}

// InstallHeader appends a header filter to run after every previously
// installed one.
func (f *FilterChain) InstallHeader(h HeaderFilter) { f.headers = append(f.headers, h) }

// InstallBody appends a body filter to run after every previously
// installed one.
func (f *FilterChain) InstallBody(b BodyFilter) { f.body = append(f.body, b) }

// RunHeaders invokes every installed header filter in order, stopping at
// the first error.
func (f *FilterChain) RunHeaders(r *Request) error {
	for _, h := range f.headers {
		if err := h(r); err != nil {
			return err
		}
	}
	return nil
}

// RunBody pushes chain through every installed body filter in order; a
// filter returning a nil chain with no error absorbs the input (it is
// buffering) and output stops there for this call.
func (f *FilterChain) RunBody(r *Request, chain *Chain) (*Chain, error) {
	cur := chain
	for _, b := range f.body {
		if cur == nil {
			break
		}
		var err error
		cur, err = b(r, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
