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

// Command tags every Message exchanged on a channel, per spec.md §4.2's
// fixed command set.
type Command uint8

const (
	OpenChannel Command = iota
	CloseChannel
	Quit
	Terminate
	Reopen
)

func (c Command) String() string {
	switch c {
	case OpenChannel:
		return "OPEN_CHANNEL"
	case CloseChannel:
		return "CLOSE_CHANNEL"
	case Quit:
		return "QUIT"
	case Terminate:
		return "TERMINATE"
	case Reopen:
		return "REOPEN"
	}
	return "UNKNOWN"
}

// Message is one record on a channel. Slot identifies the worker slot the
// message concerns (the new peer on OPEN_CHANNEL, the sender on broadcast
// commands). PID and FD are only meaningful for OPEN_CHANNEL, carrying the
// new peer's process id and the supervisor-side descriptor other workers
// should dial to reach it directly.
type Message struct {
	Cmd  Command
	Slot int
	PID  int
	FD   int
}
