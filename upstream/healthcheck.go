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

package upstream

import (
	"fmt"
	"time"

	libhtc "github.com/sabouaram/edgecore/httpcli"
)

// HealthChecker actively probes every peer of a RoundRobin on an interval,
// complementing the passive fails/max_fails accounting OnFailure already
// does. A peer that fails its active probe is marked Down immediately
// instead of waiting for a live request to find out; one that recovers is
// brought back automatically.
type HealthChecker struct {
	balancer *RoundRobin
	path     string
	interval time.Duration

	newClient func(uri string) (libhtc.HTTP, error)
}

// NewHealthChecker returns a checker probing path (e.g. "/healthz") on
// every peer of balancer.
func NewHealthChecker(balancer *RoundRobin, path string, interval time.Duration) *HealthChecker {
	return &HealthChecker{
		balancer: balancer,
		path:     path,
		interval: interval,
		newClient: func(uri string) (libhtc.HTTP, error) {
			cli, err := libhtc.NewClient(uri)
			if err != nil {
				return nil, err
			}
			return cli, nil
		},
	}
}

// Run probes every peer once per interval until ctx is done. Intended to
// run as one background goroutine per upstream pool.
func (h *HealthChecker) Run(stop <-chan struct{}) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			h.probeOnce()
		}
	}
}

func (h *HealthChecker) probeOnce() {
	for _, p := range h.balancer.AllPeers() {
		cli, err := h.newClient(fmt.Sprintf("http://%s%s", p.Addr, h.path))
		if err != nil {
			p.SetDown(true)
			continue
		}
		p.SetDown(cli.Check() != nil)
	}
}
