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
	"os"
	"os/exec"
)

// StartHelpers forks the cache manager (periodic pruning, long-lived,
// Respawn set) and the cache loader (one-shot index rebuild, Respawn
// unset so its natural exit is not treated as a crash) named in
// cycle.HelperArgs, per spec.md §4.1 "Cache helpers": only forked "if any
// configured path declares a manager or loader".
func (s *Supervisor) StartHelpers() error {
	for kind, args := range s.cycle.HelperArgs {
		w, ok := s.table.FreeSlot()
		if !ok {
			return ErrorNoFreeSlot.Error()
		}

		cmd := exec.Command(s.cycle.BinaryPath, append(append([]string{}, s.cycle.Args...), args...)...)
		cmd.Env = s.cycle.Env
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		if err := cmd.Start(); err != nil {
			return ErrorForkFailed.Error(err)
		}

		w.Pid = cmd.Process.Pid
		w.Cmd = cmd
		w.Respawn = kind == CacheManager
	}
	return nil
}
