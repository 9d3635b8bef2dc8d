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
	"strconv"
	"strings"
)

// parseState drives the byte-at-a-time request-line/header state machine
// (spec.md §4.6): whatever bytes one read produces are consumed; a
// partial request line or header is resumed on the next readable event
// instead of re-parsing from scratch.
type parseState int

const (
	stateMethod parseState = iota
	stateURI
	stateVersion
	stateRequestLineCR
	stateRequestLineLF
	stateHeaderName
	stateHeaderValue
	stateHeaderLineCR
	stateHeaderLineLF
	stateHeadersDone
	stateDone
)

// Parser incrementally parses a request line and header block out of
// successive Feed calls, each carrying whatever bytes the last non-
// blocking read produced. maxHeaderSize bounds the total bytes consumed
// before a blank line is seen (spec.md §7 "header too large").
type Parser struct {
	state parseState

	buf           []byte
	maxHeaderSize int

	method, uri, version string
	curName, curValue     strings.Builder

	Req *Request
}

// NewParser returns a Parser that will fill req as it consumes bytes.
func NewParser(req *Request, maxHeaderSize int) *Parser {
	if maxHeaderSize <= 0 {
		maxHeaderSize = 8192
	}
	return &Parser{Req: req, maxHeaderSize: maxHeaderSize}
}

// Done reports whether the header block has been fully parsed.
func (p *Parser) Done() bool { return p.state == stateDone }

// Feed consumes b, returning the number of bytes consumed (always
// len(b) unless headers finish mid-slice, in which case the remainder is
// the start of the body and must be handed to the BodyReader) and an
// error if the input is malformed or exceeds maxHeaderSize.
func (p *Parser) Feed(b []byte) (consumed int, err error) {
	for i, c := range b {
		p.buf = append(p.buf, c)
		if len(p.buf) > p.maxHeaderSize {
			return i, ErrorHeaderTooLarge.Error()
		}

		if err := p.step(c); err != nil {
			return i + 1, err
		}
		if p.state == stateDone {
			return i + 1, nil
		}
	}
	return len(b), nil
}

func (p *Parser) step(c byte) error {
	switch p.state {
	case stateMethod:
		if c == ' ' {
			p.state = stateURI
			return nil
		}
		p.method += string(c)
	case stateURI:
		if c == ' ' {
			p.state = stateVersion
			return nil
		}
		p.uri += string(c)
	case stateVersion:
		switch c {
		case '\r':
			p.state = stateRequestLineCR
		case '\n':
			return p.finishRequestLine()
		default:
			p.version += string(c)
		}
	case stateRequestLineCR:
		if c != '\n' {
			return ErrorInvalidRequestLine.Error()
		}
		return p.finishRequestLine()
	case stateHeaderName:
		switch c {
		case ':':
			p.state = stateHeaderValue
		case '\r':
			p.state = stateHeaderLineCR
		case '\n':
			return p.finishHeaderLine()
		default:
			p.curName.WriteByte(c)
		}
	case stateHeaderValue:
		switch c {
		case '\r':
			p.state = stateHeaderLineCR
		case '\n':
			return p.finishHeaderLine()
		default:
			if p.curValue.Len() == 0 && c == ' ' {
				return nil
			}
			p.curValue.WriteByte(c)
		}
	case stateHeaderLineCR:
		if c != '\n' {
			return ErrorInvalidHeader.Error()
		}
		return p.finishHeaderLine()
	}
	return nil
}

func (p *Parser) finishRequestLine() error {
	if p.method == "" || p.uri == "" || p.version == "" {
		return ErrorInvalidRequestLine.Error()
	}
	p.Req.Method = p.method
	p.splitURI(p.uri)
	p.Req.Version = p.version
	p.state = stateHeaderName
	return nil
}

func (p *Parser) splitURI(uri string) {
	path := uri
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		path = uri[:i]
		p.Req.Args = uri[i+1:]
	}
	p.Req.URI = path
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsRune(path[i:], '/') {
		p.Req.Ext = path[i+1:]
	}
}

// finishHeaderLine handles either one complete header (curName non-empty)
// or the blank line terminating the header block (curName empty), so it
// is reached whether the line ended CRLF or a bare LF.
func (p *Parser) finishHeaderLine() error {
	if p.curName.Len() == 0 {
		p.state = stateDone
		return p.installWellKnown()
	}
	name := p.curName.String()
	value := strings.TrimSpace(p.curValue.String())
	p.Req.Headers.Add(name, value)
	p.curName.Reset()
	p.curValue.Reset()
	p.state = stateHeaderName
	return nil
}

// installWellKnown copies recognized headers into the Request's dedicated
// fields once the whole block is parsed.
func (p *Parser) installWellKnown() error {
	if v, ok := p.Req.Headers.Get("host"); ok {
		p.Req.Host = v
	}
	if v, ok := p.Req.Headers.Get("connection"); ok {
		p.Req.KeepAlive = strings.EqualFold(v, "keep-alive")
	} else {
		p.Req.KeepAlive = p.Req.Version == "HTTP/1.1"
	}
	if v, ok := p.Req.Headers.Get("transfer-encoding"); ok && strings.EqualFold(v, "chunked") {
		p.Req.ChunkedIn = true
	} else if v, ok := p.Req.Headers.Get("content-length"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return ErrorInvalidHeader.Error()
		}
		p.Req.BodyLength = n
	}
	return nil
}
