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

package supervisor

import (
	"os/exec"
	"time"

	"github.com/sabouaram/edgecore/ipc"
)

// Worker is one process-table entry (spec.md §3: "a free slot is an entry
// with pid = −1").
type Worker struct {
	Slot int
	Pid  int

	Cmd     *exec.Cmd
	Channel *ipc.Channel

	// Respawn mirrors the source's w->respawn: a worker reaped with this
	// set is replaced by a fresh fork unless the supervisor is shutting
	// down.
	Respawn bool
	// JustSpawned marks a worker started during SIGHUP reconfiguration,
	// still running the new cycle while older workers drain.
	JustSpawned bool

	StartedAt time.Time
	exited    chan struct{}
}

// Free reports whether this slot holds no live process.
func (w *Worker) Free() bool { return w.Pid == -1 }

// Uptime returns how long the worker has been running.
func (w *Worker) Uptime() time.Duration {
	if w.Free() {
		return 0
	}
	return time.Since(w.StartedAt)
}

// ProcessTable is the supervisor's fixed-size worker slot array.
type ProcessTable struct {
	slots []*Worker
}

// NewProcessTable returns a table of n free slots.
func NewProcessTable(n int) *ProcessTable {
	t := &ProcessTable{slots: make([]*Worker, n)}
	for i := range t.slots {
		t.slots[i] = &Worker{Slot: i, Pid: -1}
	}
	return t
}

// FreeSlot returns the first free slot, or false if the table is full.
func (t *ProcessTable) FreeSlot() (*Worker, bool) {
	for _, w := range t.slots {
		if w.Free() {
			return w, true
		}
	}
	return nil, false
}

// Slots returns the full table, live and free entries alike.
func (t *ProcessTable) Slots() []*Worker { return t.slots }

// ByPID finds the worker whose pid matches, used when reaping SIGCHLD.
func (t *ProcessTable) ByPID(pid int) (*Worker, bool) {
	for _, w := range t.slots {
		if !w.Free() && w.Pid == pid {
			return w, true
		}
	}
	return nil, false
}

// Live returns every currently running worker.
func (t *ProcessTable) Live() []*Worker {
	var out []*Worker
	for _, w := range t.slots {
		if !w.Free() {
			out = append(out, w)
		}
	}
	return out
}
