/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package pool

import (
	"fmt"

	liberr "github.com/sabouaram/edgecore/errors"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgHttpServerPool
	ErrorPoolAdd
	ErrorPoolValidate
	ErrorPoolStart
	ErrorPoolStop
	ErrorPoolRestart
	ErrorPoolMonitor
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision with package golib/httpserver"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorPoolAdd:
		return "cannot add server on pool"
	case ErrorPoolValidate:
		return "at least one config server seems to be not valid"
	case ErrorPoolStart:
		return "at least one server has listen error"
	case ErrorPoolStop:
		return "at least one server has shutdown error"
	case ErrorPoolRestart:
		return "at least one server has restart error"
	case ErrorPoolMonitor:
		return "at least one server has monitor error"
	}

	return liberr.NullMessage
}
