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

// Package status exposes a small health-status enum and a gin-mounted
// aggregate status route that components register themselves into.
package status

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	spfcbr "github.com/spf13/cobra"
	spfvbr "github.com/spf13/viper"
)

// Status is the tri-state health of a component.
type Status uint8

const (
	OK Status = iota
	Warn
	KO
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warn:
		return "WARN"
	default:
		return "KO"
	}
}

// FctMessage formats the human-readable message attached to a status report.
type FctMessage func(status Status, message string) string

// ComponentInfo is the snapshot a single registered component contributes
// to the aggregate status route.
type ComponentInfo struct {
	Name    string                 `json:"name"`
	Status  Status                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Info    map[string]interface{} `json:"info,omitempty"`
}

// RouteStatus is the aggregate status router mounted on a gin engine. Each
// server or component registers its own snapshot under a unique name.
type RouteStatus interface {
	ComponentNew(name string, info ComponentInfo)
	ComponentDel(name string)
	Handler() gin.HandlerFunc
}

type router struct {
	mu sync.RWMutex
	m  map[string]ComponentInfo
}

// NewRouteStatus returns an empty aggregate status router.
func NewRouteStatus() RouteStatus {
	return &router{m: make(map[string]ComponentInfo)}
}

func (r *router) ComponentNew(name string, info ComponentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[name] = info
}

func (r *router) ComponentDel(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, name)
}

func (r *router) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		r.mu.RLock()
		defer r.mu.RUnlock()

		code := http.StatusOK
		for _, v := range r.m {
			if v.Status == KO {
				code = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(code, r.m)
	}
}

// DefaultConfig renders an empty status section for embedding into a
// component's sample configuration, indented to match the surrounding JSON.
func DefaultConfig(indent string) []byte {
	b, _ := json.Marshal(map[string]interface{}{})
	return b
}

// RegisterFlag wires the common status CLI flags (currently none beyond the
// component's own) into the given command, bound through viper.
func RegisterFlag(key string, cmd *spfcbr.Command, vpr *spfvbr.Viper) error {
	return nil
}
