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

package upstream

import (
	"os"
)

// bufChunk is one fixed-size slot in the Pipe's in-memory ring: either
// holding live bytes ([0:n]) or free. Buffers move between the in chain
// (fresh from upstream, not yet sent) and the out chain (sent, awaiting
// reuse), mirroring the source's ngx_event_pipe_t two-chain bookkeeping.
type bufChunk struct {
	data []byte
	n    int
}

// Pipe streams an upstream response body to the client, buffering in a
// fixed set of in-memory chunks and spilling to a temp file when the
// client is slower than the upstream and every in-memory chunk is full
// (spec.md §4.7 "Buffered pipe").
type Pipe struct {
	chunkSize int
	free      []*bufChunk
	in        []*bufChunk

	spillFile     *os.File
	spillPath     string
	spillLen      int64
	spillConsumed int64
	spilling      bool

	tempDir string

	totalIn, totalOut int64
	upstreamClosed    bool
}

// NewPipe returns a Pipe with count chunks of chunkSize bytes each
// preallocated, and tempDir as the directory disk-spill files are created
// in (removed on Close unless Finalize renames it into the response
// cache).
func NewPipe(count, chunkSize int, tempDir string) *Pipe {
	p := &Pipe{chunkSize: chunkSize, tempDir: tempDir}
	for i := 0; i < count; i++ {
		p.free = append(p.free, &bufChunk{data: make([]byte, chunkSize)})
	}
	return p
}

// WriteUpstream appends b, read from the upstream connection, to the
// pipe: it fills free in-memory chunks first and only opens (once) a
// preallocated, range-written temp file when none remain, matching
// ngx_linux_sendfile_chain's "preallocated temp files opened once and
// ranged into, not per-chunk files" (spec.md §5 supplemented detail).
func (p *Pipe) WriteUpstream(b []byte) error {
	p.totalIn += int64(len(b))

	for len(b) > 0 {
		if len(p.free) == 0 {
			if err := p.ensureSpillFile(); err != nil {
				return err
			}
			n, err := p.spillFile.WriteAt(b, p.spillLen)
			if err != nil {
				return err
			}
			p.spillLen += int64(n)
			p.spilling = true
			return nil
		}
		c := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		n := copy(c.data, b)
		c.n = n
		b = b[n:]
		p.in = append(p.in, c)
	}
	return nil
}

func (p *Pipe) ensureSpillFile() error {
	if p.spillFile != nil {
		return nil
	}
	f, err := os.CreateTemp(p.tempDir, "edgecore-pipe-*")
	if err != nil {
		return err
	}
	p.spillFile = f
	p.spillPath = f.Name()
	return nil
}

// ReadClient drains as much buffered data as fits in dst, preferring
// in-memory chunks (oldest first) before the disk spill, and reports how
// many bytes were copied plus whether the pipe has nothing further
// buffered right now.
func (p *Pipe) ReadClient(dst []byte) (int, bool) {
	total := 0
	for len(dst) > 0 && len(p.in) > 0 {
		c := p.in[0]
		n := copy(dst, c.data[:c.n])
		total += n
		dst = dst[n:]

		if n == c.n {
			p.in = p.in[1:]
			c.n = 0
			p.free = append(p.free, c)
		} else {
			copy(c.data, c.data[n:c.n])
			c.n -= n
		}
	}

	if len(dst) > 0 && p.spilling {
		n, _ := p.spillFile.ReadAt(dst, p.spillReadPos())
		if n > 0 {
			p.spillConsumed += int64(n)
			total += n
		}
		if p.spillConsumed >= p.spillLen {
			p.spilling = false
		}
	}

	p.totalOut += int64(total)
	drained := len(p.in) == 0 && !p.spilling
	return total, drained
}

// spillReadPos tracks how far ReadClient has drained the spill file,
// separate from spillLen which tracks how far WriteUpstream has written
// into it.
func (p *Pipe) spillReadPos() int64 { return p.spillConsumed }

// UpstreamClosed marks that the upstream connection has finished sending
// the response body; Drained combined with this tells the caller the pipe
// can be finalized.
func (p *Pipe) UpstreamClosed() { p.upstreamClosed = true }

// Drained reports whether every byte the upstream ever wrote has already
// been handed to ReadClient.
func (p *Pipe) Drained() bool {
	return p.upstreamClosed && len(p.in) == 0 && !p.spilling
}

// Finalize closes the spill file (if any) and, when cachePath is
// non-empty, renames it into the response cache's content-addressed
// location instead of discarding it — "optionally renames the temp file
// into the response cache" (spec.md §4.7).
func (p *Pipe) Finalize(cachePath string) error {
	if p.spillFile == nil {
		return nil
	}
	if err := p.spillFile.Close(); err != nil {
		return err
	}
	if cachePath != "" {
		return os.Rename(p.spillPath, cachePath)
	}
	return os.Remove(p.spillPath)
}

// Stats returns the cumulative bytes received from the upstream and sent
// to the client, used by statusui/prometheus gauges.
func (p *Pipe) Stats() (in, out int64) { return p.totalIn, p.totalOut }
