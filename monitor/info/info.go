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

// Package info is the default types.Info implementation: a name and an
// info-map, each resolved through a registered callback.
package info

import (
	"fmt"
	"sync"

	montps "github.com/sabouaram/edgecore/monitor/types"
)

type info struct {
	mu       sync.RWMutex
	name     string
	fctName  func() (string, error)
	fctInfos func() (map[string]interface{}, error)
}

// New returns an Info seeded with a default name, used until RegisterName
// is called.
func New(name string) (montps.Info, error) {
	if name == "" {
		return nil, fmt.Errorf("monitor info: name cannot be empty")
	}

	return &info{name: name}, nil
}

func (i *info) RegisterName(fct func() (string, error)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fctName = fct
}

func (i *info) RegisterInfo(fct func() (map[string]interface{}, error)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fctInfos = fct
}

func (i *info) Name() (string, error) {
	i.mu.RLock()
	fct := i.fctName
	def := i.name
	i.mu.RUnlock()

	if fct != nil {
		return fct()
	}
	return def, nil
}

func (i *info) Infos() (map[string]interface{}, error) {
	i.mu.RLock()
	fct := i.fctInfos
	i.mu.RUnlock()

	if fct != nil {
		return fct()
	}
	return map[string]interface{}{}, nil
}
