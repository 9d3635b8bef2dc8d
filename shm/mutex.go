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

package shm

import (
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// Mutex is the contract every shared-zone lock backend satisfies, matching
// the source's ngx_shmtx_t: try_lock, lock, unlock, and a supervisor-only
// force_unlock used to recover a zone whose owning worker died holding it
// (invariant 5: the supervisor clears a dead worker's mutex ownership
// before respawning).
type Mutex interface {
	TryLock() bool
	Lock()
	Unlock()
	ForceUnlock(pid int)
}

// spinCount is how many times AtomicMutex.Lock spins a runtime.Gosched
// pause before falling back to a sleeping backoff, mirroring the source's
// "spin for ngx_atomic_t spin pause-instructions on multi-CPU" step before
// it parks on the semaphore.
const spinCount = 1024

// AtomicMutex is the CAS(0 -> pid)-based backend. The source blocks a
// spun-out waiter on a process-shared POSIX semaphore; a pure-Go port
// without cgo cannot obtain a true process-shared semaphore, so a waiter
// here backs off with short sleeps instead of parking the thread. The
// observable contract (mutual exclusion, ForceUnlock recovers a dead
// owner) is identical.
type AtomicMutex struct {
	owner   atomic.Int64
	waiters atomic.Int32
}

// NewAtomicMutex returns an unlocked AtomicMutex.
func NewAtomicMutex() *AtomicMutex {
	return &AtomicMutex{}
}

// TryLock attempts CAS(0 -> current pid) once and reports success.
func (m *AtomicMutex) TryLock() bool {
	pid := int64(os.Getpid())
	return m.owner.CompareAndSwap(0, pid)
}

// Lock spins briefly, then backs off with increasing sleeps until the
// CAS succeeds.
func (m *AtomicMutex) Lock() {
	if m.TryLock() {
		return
	}

	m.waiters.Add(1)
	defer m.waiters.Add(-1)

	for i := 0; ; i++ {
		if i < spinCount {
			runtime.Gosched()
		} else {
			time.Sleep(backoff(i))
		}
		if m.TryLock() {
			return
		}
	}
}

func backoff(i int) time.Duration {
	d := time.Duration(i-spinCount) * time.Microsecond
	if d > time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// Unlock clears ownership. If waiters are parked, nothing needs to be
// posted explicitly since waiters are polling CAS; this keeps the contract
// correct even without a real semaphore wake.
func (m *AtomicMutex) Unlock() {
	m.owner.Store(0)
}

// ForceUnlock clears ownership only if the current owner is pid, mirroring
// the supervisor's SIGCHLD-driven recovery of a zone held by a worker that
// just died.
func (m *AtomicMutex) ForceUnlock(pid int) {
	m.owner.CompareAndSwap(int64(pid), 0)
}

// Owner returns the pid currently holding the mutex, or 0 if unlocked.
func (m *AtomicMutex) Owner() int {
	return int(m.owner.Load())
}

// FileMutex guards a zone with advisory range locks on a single anonymous
// file descriptor: created, then unlinked immediately so only the open fd
// is referenced, exactly as the source's file-lock backend does to avoid
// leaving a lock file behind.
type FileMutex struct {
	fd int
}

// NewFileMutex creates and immediately unlinks a temp file in dir, and
// returns a FileMutex guarding range [0,1) of it with advisory locks.
func NewFileMutex(dir string) (*FileMutex, error) {
	f, err := os.CreateTemp(dir, "edgecore-shmtx-*")
	if err != nil {
		return nil, ErrorMutexBackend.Error(err)
	}
	path := f.Name()
	fd := int(f.Fd())
	_ = os.Remove(path)
	return &FileMutex{fd: fd}, nil
}

// TryLock attempts a non-blocking exclusive flock.
func (m *FileMutex) TryLock() bool {
	err := unix.Flock(m.fd, unix.LOCK_EX|unix.LOCK_NB)
	return err == nil
}

// Lock blocks until the exclusive flock is acquired.
func (m *FileMutex) Lock() {
	_ = unix.Flock(m.fd, unix.LOCK_EX)
}

// Unlock releases the flock.
func (m *FileMutex) Unlock() {
	_ = unix.Flock(m.fd, unix.LOCK_UN)
}

// ForceUnlock releases the flock unconditionally: flock has no concept of
// ownership by pid, so a dead holder's lock is already released by the
// kernel when its fd table is torn down. This is kept to satisfy the
// Mutex contract and to mirror the supervisor's uniform recovery path
// across both backends.
func (m *FileMutex) ForceUnlock(int) {
	_ = unix.Flock(m.fd, unix.LOCK_UN)
}
