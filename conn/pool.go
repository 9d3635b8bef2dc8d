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

package conn

import (
	"net"
	"sync"

	"github.com/sabouaram/edgecore/event"
	"github.com/sabouaram/edgecore/internal/arena"
)

// Connection is state bound to one socket fd for its lifetime (spec.md
// §3). It is drawn from a Pool's freelist, never individually
// heap-allocated per accept: read, write and connection share one pool
// index for the connection's whole life (invariant 1).
type Connection struct {
	index int

	Conn net.Conn

	Read  *event.Event
	Write *event.Event

	Arena *arena.Arena

	// Proto holds the current protocol context (e.g. *httpcore.Request);
	// it is opaque to the pool and reset to nil on Release.
	Proto any

	Reusable bool
	Closing  bool
	HasError bool
	Buffered bool

	lruPrev, lruNext *Connection
	inReusable       bool

	freeNext int
}

// Index returns the connection's fixed slot in its owning Pool.
func (c *Connection) Index() int { return c.index }

// Pool is the fixed-size array of connection records plus paired
// read/write event records (spec.md §4.5): a freelist links unused slots,
// and a reusable LRU lets an idle keep-alive connection be reclaimed when
// the freelist is empty instead of refusing new accepts outright.
type Pool struct {
	// mu guards every field below. A single worker goroutine was the only
	// caller in the source; this port drives one goroutine per active
	// request plus the idle-connection event loop (see worker.Worker), so
	// the pool needs its own lock where the source needed none.
	mu sync.Mutex

	conns []*Connection
	free  int // head of freelist, -1 if empty

	lruHead, lruTail *Connection
	lruLen           int
}

const poolListEnd = -1

// NewPool allocates size connection records plus their paired event
// records up front, the way worker_connections is sized once at worker
// start rather than grown dynamically.
func NewPool(size int) *Pool {
	p := &Pool{conns: make([]*Connection, size), free: poolListEnd}

	for i := size - 1; i >= 0; i-- {
		c := &Connection{
			index: i,
			Read:  &event.Event{},
			Write: &event.Event{},
		}
		c.Read.Owner = c
		c.Write.Owner = c
		p.conns[i] = c
		c.freeNext = p.free
		p.free = i
	}
	return p
}

// Size returns the pool's fixed capacity.
func (p *Pool) Size() int { return len(p.conns) }

// Acquire pops a connection off the freelist, resetting its event
// records' instance bits and arena so a stale readiness batch for the
// slot's previous occupant is recognized on dispatch. If the freelist is
// empty, it reclaims the least-recently-used reusable connection instead
// of failing outright, mirroring the source's "invoke its read handler
// with a synthetic close" reclaim path; onReclaim is invoked with the
// reclaimed connection before it is reset so the caller can run that
// handler.
func (p *Pool) Acquire(onReclaim func(*Connection)) (*Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.free == poolListEnd {
		victim := p.lruHead
		if victim == nil {
			return nil, ErrorPoolExhausted.Error()
		}
		p.removeLRU(victim)
		if onReclaim != nil {
			onReclaim(victim)
		}
		p.pushFree(victim.index)
	}

	i := p.free
	c := p.conns[i]
	p.free = c.freeNext

	c.Conn = nil
	c.Proto = nil
	c.Reusable = false
	c.Closing = false
	c.HasError = false
	c.Buffered = false
	if c.Arena == nil {
		c.Arena = arena.Acquire()
	} else {
		c.Arena.Reset()
	}
	c.Read.Reset(c, event.Read, nil)
	c.Write.Reset(c, event.Write, nil)
	return c, nil
}

func (p *Pool) pushFree(i int) {
	p.conns[i].freeNext = p.free
	p.free = i
}

// Release returns c to the freelist, first removing it from the reusable
// LRU if present.
func (p *Pool) Release(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.inReusable {
		p.removeLRU(c)
	}
	c.Conn = nil
	c.Proto = nil
	if c.Arena != nil {
		c.Arena.Reset()
	}
	p.pushFree(c.index)
}

// MarkReusable enqueues c on the reusable LRU, the way an idle keep-alive
// connection is parked so its slot can be reclaimed under pressure instead
// of refusing new accepts.
func (p *Pool) MarkReusable(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.inReusable {
		p.removeLRU(c)
	}
	c.inReusable = true
	c.lruPrev = p.lruTail
	c.lruNext = nil
	if p.lruTail != nil {
		p.lruTail.lruNext = c
	} else {
		p.lruHead = c
	}
	p.lruTail = c
	p.lruLen++
}

// UnmarkReusable removes c from the reusable LRU, called when the
// connection becomes active again (a new request arrives) before its slot
// could be reclaimed.
func (p *Pool) UnmarkReusable(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !c.inReusable {
		return
	}
	p.removeLRU(c)
}

func (p *Pool) removeLRU(c *Connection) {
	if c.lruPrev != nil {
		c.lruPrev.lruNext = c.lruNext
	} else {
		p.lruHead = c.lruNext
	}
	if c.lruNext != nil {
		c.lruNext.lruPrev = c.lruPrev
	} else {
		p.lruTail = c.lruPrev
	}
	c.lruPrev, c.lruNext = nil, nil
	c.inReusable = false
	p.lruLen--
}

// ReusableLen reports how many connections currently sit on the reusable
// LRU, eligible for reclamation.
func (p *Pool) ReusableLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lruLen
}

// InUse reports how many connection slots are neither free nor the being
// currently iterated freelist; used by statusui to report load.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	free := 0
	for i := p.free; i != poolListEnd; i = p.conns[i].freeNext {
		free++
	}
	return len(p.conns) - free
}
