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

//go:build linux

package event

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/edgecore/errors"
)

// epollDemux is the readiness-based, edge-triggered-capable backend for
// Linux, the "epoll-like" back-end named in the runtime overview.
//
// The kernel's epoll_event carries only a 32-bit fd plus a 32-bit pad, not
// enough room for a full generation-tagged Cookie without risking a GC
// pointer escaping into kernel memory. Registration generation is instead
// kept in a side table keyed by fd, which Process consults on every
// delivery to reproduce the same stale-drop behavior the packed-pointer
// cookie gives the source.
type epollDemux struct {
	epfd int

	mu  sync.Mutex
	reg map[int32]*registration

	notifyFD      int
	notifyHandler Handler
}

type registration struct {
	read, write *Event
	generation  uint32
}

// NewDemultiplexer returns the Linux epoll backend.
func NewDemultiplexer() (Demultiplexer, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorBackendCreate.Error(err)
	}

	efd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(fd)
		return nil, ErrorNotifyCreate.Error(err)
	}

	d := &epollDemux{
		epfd:     fd,
		reg:      make(map[int32]*registration),
		notifyFD: efd,
	}

	if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_ADD, d.notifyFD, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(d.notifyFD),
	}); err != nil {
		_ = unix.Close(fd)
		_ = unix.Close(efd)
		return nil, ErrorBackendRegister.Error(err)
	}

	return d, nil
}

func (d *epollDemux) Add(ev *Event, fd int, flags Flags) error {
	d.mu.Lock()
	r, ok := d.reg[int32(fd)]
	if !ok {
		r = &registration{}
		d.reg[int32(fd)] = r
	}

	var evMask uint32
	if flags&EdgeTriggered != 0 {
		evMask |= unix.EPOLLET
	}

	switch ev.Kind {
	case Read:
		r.read = ev
		evMask |= unix.EPOLLIN
	case Write:
		r.write = ev
		evMask |= unix.EPOLLOUT
	}
	if r.read != nil {
		evMask |= unix.EPOLLIN
	}
	if r.write != nil {
		evMask |= unix.EPOLLOUT
	}
	r.generation = ev.Instance()
	d.mu.Unlock()

	op := unix.EPOLL_CTL_ADD
	if ok {
		op = unix.EPOLL_CTL_MOD
	}

	if err := unix.EpollCtl(d.epfd, op, fd, &unix.EpollEvent{Events: evMask, Fd: int32(fd)}); err != nil {
		return ErrorBackendRegister.Error(err)
	}

	ev.setActive(true)
	return nil
}

func (d *epollDemux) Del(ev *Event, fd int, flags Flags) error {
	d.mu.Lock()
	r, ok := d.reg[int32(fd)]
	if ok {
		switch ev.Kind {
		case Read:
			r.read = nil
		case Write:
			r.write = nil
		}
		if r.read == nil && r.write == nil {
			delete(d.reg, int32(fd))
		}
	}
	d.mu.Unlock()

	ev.setActive(false)

	if !ok {
		return nil
	}
	if err := unix.EpollCtl(d.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return ErrorBackendRegister.Error(err)
	}
	return nil
}

func (d *epollDemux) Notify(handler Handler) error {
	d.mu.Lock()
	d.notifyHandler = handler
	d.mu.Unlock()
	return nil
}

func (d *epollDemux) Wake() error {
	buf := [8]byte{1, 0, 0, 0, 0, 0, 0, 0}
	_, err := unix.Write(d.notifyFD, buf[:])
	return err
}

const maxBatch = 256

func (d *epollDemux) Process(timeout time.Duration, posted *PostedQueue) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}

	events := make([]unix.EpollEvent, maxBatch)

	n, err := unix.EpollWait(d.epfd, events, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	delivered := 0

	for i := 0; i < n; i++ {
		fd := events[i].Fd

		if int(fd) == d.notifyFD {
			var buf [8]byte
			_, _ = unix.Read(d.notifyFD, buf[:])
			if d.notifyHandler != nil {
				posted.Post(&Event{Handler: d.notifyHandler})
			}
			continue
		}

		d.mu.Lock()
		r := d.reg[fd]
		d.mu.Unlock()
		if r == nil {
			continue
		}

		mask := events[i].Events
		if mask&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 && r.read != nil {
			if r.generation == r.read.Instance() {
				r.read.SetReady(true)
				posted.Post(r.read)
				delivered++
			}
		}
		if mask&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0 && r.write != nil {
			if r.generation == r.write.Instance() {
				r.write.SetReady(true)
				posted.Post(r.write)
				delivered++
			}
		}
	}

	return delivered, nil
}

func (d *epollDemux) Close() error {
	_ = unix.Close(d.notifyFD)
	return unix.Close(d.epfd)
}
