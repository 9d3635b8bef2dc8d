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
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ListenerFDEnv is the environment variable the old supervisor serializes
// its inherited listening descriptors into, and the new supervisor reads
// on startup to skip rebinding them (spec.md §4.1 "Hot binary upgrade").
const ListenerFDEnv = "EDGECORE_LISTENER_FDS"

// ParseInheritedFDs decodes ListenerFDEnv's "addr=fd;addr=fd" format into a
// map from listen address to inherited descriptor number, counted from 3
// (stdin/stdout/stderr occupy 0-2) in the new process's fd table.
func ParseInheritedFDs(val string) map[string]int {
	out := make(map[string]int)
	if val == "" {
		return out
	}
	for _, pair := range strings.Split(val, ";") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fd, err := strconv.Atoi(kv[1])
		if err != nil {
			continue
		}
		out[kv[0]] = fd
	}
	return out
}

// encodeInheritedFDs is Upgrade's inverse of ParseInheritedFDs.
func encodeInheritedFDs(addrs []string, firstFD int) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = fmt.Sprintf("%s=%d", a, firstFD+i)
	}
	return strings.Join(parts, ";")
}

// Upgrade execs a new copy of the running binary, passing every cycle
// listener as an inherited fd via ExtraFiles and ListenerFDEnv, so the new
// supervisor binds no socket and instead adopts the old ones directly
// (spec.md: "the new supervisor reads the variable, skips rebinding those
// fds, and starts its own workers"). The old supervisor remains running as
// the parent of both itself and its own workers until they drain.
func (s *Supervisor) Upgrade() error {
	s.mu.Lock()
	if s.upgrading {
		s.mu.Unlock()
		return ErrorUpgradeInProgress.Error()
	}
	s.upgrading = true
	s.mu.Unlock()

	var files []*os.File
	var addrs []string
	for _, l := range s.cycle.Listeners {
		tl, ok := l.File()
		if !ok {
			continue
		}
		f, err := tl.File()
		if err != nil {
			return ErrorForkFailed.Error(err)
		}
		files = append(files, f)
		addrs = append(addrs, l.Addr)
	}

	cmd := exec.Command(s.cycle.BinaryPath, s.cycle.Args...)
	cmd.Env = append(append([]string{}, s.cycle.Env...),
		ListenerFDEnv+"="+encodeInheritedFDs(addrs, 3))
	cmd.ExtraFiles = files
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr

	if err := cmd.Start(); err != nil {
		s.mu.Lock()
		s.upgrading = false
		s.mu.Unlock()
		return ErrorForkFailed.Error(err)
	}

	s.log.Info("new supervisor binary started", nil, "pid", cmd.Process.Pid)
	return nil
}
