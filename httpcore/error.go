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

// Package httpcore implements the HTTP request-handling pipeline: the
// request-line/header parser, the phase engine, location matching, the
// output filter chain, and the postpone queue that orders subrequest
// output.
package httpcore

import (
	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	// ErrorHeaderTooLarge indicates the header block exceeded the
	// configured buffer size before a blank line was seen.
	ErrorHeaderTooLarge liberr.CodeError = iota + liberr.MinPkgHTTPCore
	// ErrorInvalidRequestLine indicates the request line failed to parse.
	ErrorInvalidRequestLine
	// ErrorInvalidHeader indicates a header line failed to parse.
	ErrorInvalidHeader
	// ErrorBodyTooLarge indicates the request body exceeded
	// client_max_body_size.
	ErrorBodyTooLarge
	// ErrorNoLocation indicates no configured location matched the
	// request URI.
	ErrorNoLocation
	// ErrorAccessDenied indicates an access-phase handler rejected the
	// request (spec.md §4.6 "access" phase).
	ErrorAccessDenied
)

func init() {
	if liberr.ExistInMapMessage(ErrorHeaderTooLarge) {
		panic("error code collision in package httpcore")
	}
	liberr.RegisterIdFctMessage(ErrorHeaderTooLarge, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case ErrorHeaderTooLarge:
		return "request header too large"
	case ErrorInvalidRequestLine:
		return "invalid request line"
	case ErrorInvalidHeader:
		return "invalid header line"
	case ErrorBodyTooLarge:
		return "request body too large"
	case ErrorNoLocation:
		return "no matching location"
	case ErrorAccessDenied:
		return "access denied"
	}
	return liberr.NullMessage
}
