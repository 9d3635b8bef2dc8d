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

// Package alerting sends a templated HTML email when the supervisor's
// respawn counter for a worker slot crosses a threshold inside one window
// (crash-loop detection, an elaboration of spec.md §7's Process-fatal
// handling: "abnormal exit triggers respawn unless shutting down").
package alerting

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorRenderFailed indicates the crash-loop email body could not be
	// generated.
	ErrorRenderFailed liberr.CodeError = iota + liberr.MinPkgAlerting
	// ErrorSendFailed indicates the SMTP client could not deliver the
	// rendered alert.
	ErrorSendFailed
)

func init() {
	if liberr.ExistInMapMessage(ErrorRenderFailed) {
		panic("error code collision in package alerting")
	}
	liberr.RegisterIdFctMessage(ErrorRenderFailed, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorRenderFailed:
		return "failed to render crash-loop alert email"
	case ErrorSendFailed:
		return "failed to send crash-loop alert email"
	}
	return liberr.NullMessage
}
