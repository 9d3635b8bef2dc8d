/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package viper is a one-method indirection so config components depend on
// an interface instead of a concrete *viper.Viper, letting the top-level
// config model swap the instance at reload time.
package viper

import (
	spfvpr "github.com/spf13/viper"
)

// Viper exposes the underlying spf13/viper instance in use.
type Viper interface {
	Viper() *spfvpr.Viper
}

// FuncViper is registered by the top-level config model and called by
// components that need the live viper instance.
type FuncViper func() Viper

type holder struct {
	v *spfvpr.Viper
}

// New wraps an existing *viper.Viper so it satisfies Viper.
func New(v *spfvpr.Viper) Viper {
	return &holder{v: v}
}

func (h *holder) Viper() *spfvpr.Viper {
	return h.v
}
