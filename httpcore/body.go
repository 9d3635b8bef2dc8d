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
	"os"
	"strconv"
)

// BodyReader accumulates a request body either fully in memory, below
// MemoryThreshold, or spooled to a preallocated temp file once that
// threshold is crossed (spec.md §4.6). Chunked input is dechunked by a
// sub-state-machine before reaching either destination.
type BodyReader struct {
	MemoryThreshold int64

	mem      []byte
	file     *os.File
	filePath string
	written  int64

	chunked      bool
	chunkLeft    int64
	chunkState   chunkState
	sizeLineBuf  []byte
	tempDir      string
}

type chunkState int

const (
	chunkSize chunkState = iota
	chunkSizeCR
	chunkData
	chunkDataCR
	chunkDataLF
	chunkTrailerCR
	chunkDone
)

// NewBodyReader returns a BodyReader that spills to tempDir once more than
// memThreshold bytes have been written. chunked selects dechunking.
func NewBodyReader(memThreshold int64, tempDir string, chunked bool) *BodyReader {
	return &BodyReader{MemoryThreshold: memThreshold, tempDir: tempDir, chunked: chunked}
}

// Write appends raw bytes already off the wire (post-dechunking if
// Chunked is handled by WriteChunked instead) to the body, transparently
// spilling to disk once MemoryThreshold is crossed.
func (b *BodyReader) Write(p []byte) (int, error) {
	if b.file == nil && b.written+int64(len(p)) > b.MemoryThreshold {
		if err := b.spill(); err != nil {
			return 0, err
		}
	}
	if b.file != nil {
		n, err := b.file.WriteAt(p, b.written)
		b.written += int64(n)
		return n, err
	}
	b.mem = append(b.mem, p...)
	b.written += int64(len(p))
	return len(p), nil
}

func (b *BodyReader) spill() error {
	f, err := os.CreateTemp(b.tempDir, "edgecore-body-*")
	if err != nil {
		return ErrorBodyTooLarge.Error(err)
	}
	if len(b.mem) > 0 {
		if _, err := f.WriteAt(b.mem, 0); err != nil {
			return err
		}
	}
	b.file = f
	b.filePath = f.Name()
	b.mem = nil
	return nil
}

// WriteChunked feeds raw wire bytes through the dechunking sub-state-
// machine, writing decoded data through Write as each chunk's bytes
// arrive, and reports whether the terminating zero-length chunk plus
// trailer CRLF has been seen.
func (b *BodyReader) WriteChunked(p []byte) (done bool, err error) {
	i := 0
	for i < len(p) {
		c := p[i]
		switch b.chunkState {
		case chunkSize:
			switch {
			case c == '\r':
				b.chunkState = chunkSizeCR
			case c == ';':
				// chunk extension: ignore until CR
			case isHex(c):
				b.sizeLineBuf = append(b.sizeLineBuf, c)
			}
		case chunkSizeCR:
			if c != '\n' {
				return false, ErrorInvalidHeader.Error()
			}
			n, perr := strconv.ParseInt(string(b.sizeLineBuf), 16, 64)
			if perr != nil {
				return false, ErrorInvalidHeader.Error()
			}
			b.sizeLineBuf = nil
			b.chunkLeft = n
			if n == 0 {
				b.chunkState = chunkTrailerCR
			} else {
				b.chunkState = chunkData
			}
		case chunkData:
			take := int64(len(p) - i)
			if take > b.chunkLeft {
				take = b.chunkLeft
			}
			if take > 0 {
				if _, werr := b.Write(p[i : i+int(take)]); werr != nil {
					return false, werr
				}
				i += int(take)
				b.chunkLeft -= take
				continue
			}
			b.chunkState = chunkDataCR
			continue
		case chunkDataCR:
			if c != '\r' {
				return false, ErrorInvalidHeader.Error()
			}
			b.chunkState = chunkDataLF
		case chunkDataLF:
			if c != '\n' {
				return false, ErrorInvalidHeader.Error()
			}
			b.chunkState = chunkSize
		case chunkTrailerCR:
			if c == '\n' {
				b.chunkState = chunkDone
				return true, nil
			}
		case chunkDone:
			return true, nil
		}
		i++
	}
	return b.chunkState == chunkDone, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Bytes returns the whole body materialized in memory (reading the spill
// file if one was used). Intended for small-body content handlers, not
// for the proxy path which streams instead.
func (b *BodyReader) Bytes() ([]byte, error) {
	if b.file == nil {
		return b.mem, nil
	}
	out := make([]byte, b.written)
	_, err := b.file.ReadAt(out, 0)
	return out, err
}

// Close releases the spill file, if any.
func (b *BodyReader) Close() {
	if b.file != nil {
		_ = b.file.Close()
		_ = os.Remove(b.filePath)
	}
}

// Len reports how many body bytes have been written so far.
func (b *BodyReader) Len() int64 { return b.written }
