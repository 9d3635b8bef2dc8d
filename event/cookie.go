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

package event

// Cookie is the value a Demultiplexer backend stores as the opaque
// readiness token for one registered fd. The source packs a one-bit
// generation into the connection pointer itself; here it is a small value
// type carrying both the connection-pool index and the generation so the
// backend never dereferences a stale pointer to find out it is stale.
type Cookie struct {
	Index      uint32
	Generation uint32
}

// Pack encodes a Cookie into the single 64-bit value epoll-like backends
// hand back verbatim on every readiness notification (e.g. epoll_event.data.u64).
func (c Cookie) Pack() uint64 {
	return uint64(c.Index)<<32 | uint64(c.Generation)
}

// Unpack reverses Pack.
func Unpack(v uint64) Cookie {
	return Cookie{Index: uint32(v >> 32), Generation: uint32(v)}
}

// Stale reports whether a Cookie recovered from a readiness batch no
// longer matches the live generation recorded for that pool slot — the
// single correctness mechanism protecting against a batch of events
// surfacing after their owning connection has already been closed and the
// slot reused (invariant 2 of the runtime: any dispatched event either
// matches its registration-time generation or is dropped silently).
func (c Cookie) Stale(currentGeneration uint32) bool {
	return c.Generation != currentGeneration
}
