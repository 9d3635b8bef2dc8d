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
	"context"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sabouaram/edgecore/conn"
	"github.com/sabouaram/edgecore/ipc"
	"github.com/sabouaram/edgecore/logger"
)

// WorkerFlag is the argument spawn appends to a re-exec'd child to mark it
// as an ordinary request-serving worker rather than a new supervisor
// generation; cmd/edgecored registers it as a hidden cobra flag and
// branches into the worker-serving path on seeing it, instead of re-running
// the supervisor loop that forked it (spec.md §4.1/§4.6 data flow).
const WorkerFlag = "--worker"

// IPCChannelFDEnv names the environment variable spawn sets to the
// inherited descriptor number of a worker's end of its ipc.Channel pair
// (the child half returned by ipc.Pair, carried across exec via
// cmd.ExtraFiles).
const IPCChannelFDEnv = "EDGECORE_IPC_FD"

// CacheHelper names the two one-off process roles the supervisor may fork
// in addition to ordinary workers (spec.md §4.1 "Cache helpers").
type CacheHelper int

const (
	CacheManager CacheHelper = iota
	CacheLoader
)

// Cycle is one generation of the supervisor's configuration: the worker
// count, the binary + args to re-exec for each worker, and the listeners
// new workers must inherit rather than rebind.
type Cycle struct {
	BinaryPath string
	Args       []string
	Env        []string
	Workers    int
	Listeners  []*conn.Listener

	// HelperArgs, if non-empty, appends extra arguments identifying a
	// worker process as the cache manager or loader instead of an ordinary
	// request-serving worker.
	HelperArgs map[CacheHelper][]string
}

// Supervisor drives the process table through the signal table of
// spec.md §4.1: it blocks the signals below, wakes on any of them, and
// reduces the wake to one of the documented actions.
type Supervisor struct {
	log logger.Logger

	mu      sync.Mutex
	cycle   *Cycle
	table   *ProcessTable
	reg     *ipc.Registry
	nextPid int // test seam; real pids come from exec.Cmd.Process.Pid

	shuttingDown bool
	upgrading    bool

	sigCh chan os.Signal
	done  chan struct{}
}

// New returns a Supervisor for the given cycle, with its process table
// sized to cycle.Workers.
func New(log logger.Logger, cycle *Cycle) *Supervisor {
	return &Supervisor{
		log:   log,
		cycle: cycle,
		table: NewProcessTable(cycle.Workers),
		reg:   ipc.NewRegistry(),
		sigCh: make(chan os.Signal, 16),
		done:  make(chan struct{}),
	}
}

// signalSet is the full table of spec.md §4.1, blocked for the duration of
// the supervision loop and inspected on wake.
var signalSet = []os.Signal{
	syscall.SIGTERM,
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGHUP,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGWINCH,
	syscall.SIGCHLD,
}

// Run starts cycle.Workers workers and blocks, reducing each received
// signal to spec.md §4.1's documented action, until a TERM/QUIT-driven
// shutdown completes or ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.startWorkers(s.cycle.Workers); err != nil {
		return err
	}
	if len(s.cycle.HelperArgs) > 0 {
		if err := s.StartHelpers(); err != nil {
			s.log.Error("cache helper start failed", err)
		}
	}

	signal.Notify(s.sigCh, signalSet...)
	defer signal.Stop(s.sigCh)

	var termDeadline <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case sig := <-s.sigCh:
			switch sig {
			case syscall.SIGTERM, syscall.SIGINT:
				s.log.Warning("supervisor received terminate signal", nil)
				s.shuttingDown = true
				_ = s.reg.Broadcast(ipc.Terminate)
				t := time.NewTimer(5 * time.Second)
				termDeadline = t.C
			case syscall.SIGQUIT:
				s.log.Info("supervisor received graceful-quit signal", nil)
				s.shuttingDown = true
				_ = s.reg.Broadcast(ipc.Quit)
				s.closeListeners()
			case syscall.SIGHUP:
				s.log.Info("supervisor received reconfigure signal", nil)
				if err := s.reconfigure(); err != nil {
					s.log.Error("reconfigure failed", err)
				}
			case syscall.SIGUSR1:
				s.log.Info("supervisor received reopen-logs signal", nil)
				_ = s.reg.Broadcast(ipc.Reopen)
			case syscall.SIGUSR2:
				s.log.Info("supervisor received change-binary signal", nil)
				if err := s.Upgrade(); err != nil {
					s.log.Error("binary upgrade failed", err)
				}
			case syscall.SIGWINCH:
				s.log.Info("supervisor received noaccept signal", nil)
				_ = s.reg.Broadcast(ipc.Quit)
			case syscall.SIGCHLD:
				s.reap()
			}
		case <-termDeadline:
			s.log.Warning("terminate deadline elapsed, broadcasting kill", nil)
			s.killAll()
			close(s.done)
		}

		if s.shuttingDown && len(s.table.Live()) == 0 {
			close(s.done)
		}
	}
}

func (s *Supervisor) closeListeners() {
	for _, l := range s.cycle.Listeners {
		_ = l.Close()
	}
}

func (s *Supervisor) killAll() {
	for _, w := range s.table.Live() {
		_ = syscall.Kill(w.Pid, syscall.SIGKILL)
	}
}

// reap implements the SIGCHLD action: non-blocking wait for any exited
// child, and if it had Respawn set and the supervisor is not shutting
// down, fork a replacement into the same slot.
func (s *Supervisor) reap() {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}

		w, ok := s.table.ByPID(pid)
		if !ok {
			continue
		}
		respawn := w.Respawn
		slot := w.Slot
		_ = s.reg.Close(slot)
		w.Pid = -1
		w.Cmd = nil
		w.Channel = nil

		if respawn && !s.shuttingDown {
			if err := s.spawn(slot); err != nil {
				s.log.Error("respawn failed", err)
			}
		}
	}
}

func (s *Supervisor) startWorkers(n int) error {
	for i := 0; i < n; i++ {
		w, ok := s.table.FreeSlot()
		if !ok {
			return ErrorNoFreeSlot.Error()
		}
		if err := s.spawn(w.Slot); err != nil {
			return err
		}
	}
	return nil
}

// spawn re-execs the supervisor's own binary with WorkerFlag appended,
// inheriting the cycle's listeners and a freshly created ipc pair (spec.md
// §4.1 "each worker inherits listeners and the IPC channel array"). The
// child's end of the ipc pair lands at fd 3 (the first ExtraFiles entry);
// IPCChannelFDEnv and ListenerFDEnv tell the child process which inherited
// descriptor is which, since a re-exec'd process otherwise has no way to
// tell an ipc channel fd from a listener fd.
func (s *Supervisor) spawn(slot int) error {
	w := s.table.slots[slot]

	parent, child, err := ipc.Pair()
	if err != nil {
		return err
	}

	cmd := exec.Command(s.cycle.BinaryPath, append(append([]string{}, s.cycle.Args...), WorkerFlag)...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	cmd.ExtraFiles = append(cmd.ExtraFiles, child.File())

	var addrs []string
	for _, l := range s.cycle.Listeners {
		if tl, ok := l.File(); ok {
			if f, err := tl.File(); err == nil {
				cmd.ExtraFiles = append(cmd.ExtraFiles, f)
				addrs = append(addrs, l.Addr)
			}
		}
	}

	cmd.Env = append(append([]string{}, s.cycle.Env...),
		IPCChannelFDEnv+"=3",
		ListenerFDEnv+"="+encodeInheritedFDs(addrs, 4))

	if err := cmd.Start(); err != nil {
		_ = parent.Close()
		_ = child.File().Close()
		return ErrorForkFailed.Error(err)
	}
	_ = child.File().Close()

	w.Pid = cmd.Process.Pid
	w.Cmd = cmd
	w.Channel = parent
	w.Respawn = true
	w.StartedAt = time.Now()

	for _, err := range s.reg.Open(slot, w.Pid, -1, parent) {
		s.log.Warning("open-channel broadcast partial failure", err)
	}
	return nil
}

// reconfigure builds a new generation of workers tagged "just-spawned" and
// sends graceful-quit to every worker from the previous generation (spec.md
// §4.1 SIGHUP action). It does not touch listeners: both generations share
// them.
func (s *Supervisor) reconfigure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.table.Live()
	for _, w := range old {
		w.Respawn = false
	}

	for i := 0; i < s.cycle.Workers; i++ {
		slot, ok := s.table.FreeSlot()
		if !ok {
			return ErrorNoFreeSlot.Error()
		}
		if err := s.spawn(slot.Slot); err != nil {
			return err
		}
		slot.JustSpawned = true
	}

	for _, w := range old {
		if w.Channel != nil {
			_ = w.Channel.Send(ipc.Message{Cmd: ipc.Quit})
		}
	}
	return nil
}

// Table exposes the process table for status reporting.
func (s *Supervisor) Table() *ProcessTable { return s.table }
