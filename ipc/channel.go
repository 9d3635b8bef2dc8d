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

package ipc

import (
	"encoding/binary"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/fxamacker/cbor/v2"

	liberr "github.com/sabouaram/edgecore/errors"
)

// frameMax bounds a single frame so a corrupt peer cannot make Recv
// allocate unbounded memory; every real Message is a handful of bytes.
const frameMax = 4096

// Pair returns the two ends of a freshly created full-duplex socket pair,
// each wrapped as a Channel. One end is kept by the supervisor, the other
// handed to the forked worker as an inherited file descriptor — the Go
// rendering of spec.md §4.2's "pre-established full-duplex socket pair".
func Pair() (parent, child *Channel, err error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, ErrorSocketPair.Error(err)
	}

	pf := os.NewFile(uintptr(fds[0]), "ipc-parent")
	cf := os.NewFile(uintptr(fds[1]), "ipc-child")

	pc, err := net.FileConn(pf)
	if err != nil {
		_ = pf.Close()
		_ = cf.Close()
		return nil, nil, ErrorSocketPair.Error(err)
	}
	cc, err := net.FileConn(cf)
	if err != nil {
		_ = pc.Close()
		_ = cf.Close()
		return nil, nil, ErrorSocketPair.Error(err)
	}
	// The net.Conn duplicates the fd internally; the *os.File originals are
	// no longer needed on this side once wrapped, except the child's, which
	// the caller still needs as an inheritable descriptor for exec.Cmd's
	// ExtraFiles before it is closed here.
	_ = pf.Close()

	return &Channel{conn: pc}, &Channel{conn: cc, file: cf}, nil
}

// FromFD adopts fd as a worker's end of its ipc Channel, the worker-side
// counterpart of the parent half Pair creates and a re-exec'd child
// inherits via ExtraFiles (spec.md §4.2).
func FromFD(fd int) (*Channel, error) {
	f := os.NewFile(uintptr(fd), "ipc-child")
	c, err := net.FileConn(f)
	if err != nil {
		_ = f.Close()
		return nil, ErrorSocketPair.Error(err)
	}
	_ = f.Close()
	return &Channel{conn: c}, nil
}

// Channel is one end of an ipc socket pair, framed as a 4-byte big-endian
// length prefix followed by a CBOR-encoded Message.
type Channel struct {
	conn net.Conn
	file *os.File // non-nil only on the end meant to be inherited by exec

	mu     sync.Mutex
	closed bool
}

// File returns the underlying descriptor for ExtraFiles-style inheritance
// across fork/exec; only populated on an end returned as the "child" half
// of Pair.
func (c *Channel) File() *os.File { return c.file }

// Conn exposes the raw net.Conn so the owning connection/event wiring can
// register it with a Demultiplexer as a readable fd.
func (c *Channel) Conn() net.Conn { return c.conn }

// Send encodes msg and writes one length-prefixed frame. Safe for
// concurrent use by multiple goroutines relaying messages to the same
// peer.
func (c *Channel) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrorChannelClosed.Error()
	}

	body, err := cbor.Marshal(msg)
	if err != nil {
		return ErrorDecode.Error(err)
	}

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(body)))
	if _, err := c.conn.Write(hdr[:]); err != nil {
		return err
	}
	_, err = c.conn.Write(body)
	return err
}

// Recv blocks for exactly one frame and decodes it into a Message. It
// returns io.EOF when the peer has closed its end (spec.md's CLOSE_CHANNEL
// is a Message on the wire; EOF is the lower-level "peer process exited
// without sending it").
func (c *Channel) Recv() (Message, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.conn, hdr[:]); err != nil {
		return Message{}, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > frameMax {
		return Message{}, ErrorShortRead.Error()
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return Message{}, ErrorShortRead.Error(err)
	}

	var msg Message
	if err := cbor.Unmarshal(body, &msg); err != nil {
		return Message{}, ErrorDecode.Error(err)
	}
	return msg, nil
}

// Close marks the channel closed and closes the underlying connection.
// Idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
