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
	"sync"
	"time"
)

// Peer is one backend endpoint in an upstream pool (spec.md §3): address,
// static weight, the dynamic effective/current weight pair the balancer
// mutates on every selection, failure counters, and the health flags that
// decide eligibility.
type Peer struct {
	mu sync.Mutex

	Addr string

	Weight          int
	EffectiveWeight int
	CurrentWeight   int

	Fails int
	Conns int

	MaxFails    int
	MaxConns    int
	FailTimeout time.Duration

	Down     bool
	checked  time.Time
	accessed time.Time
}

// eligible reports whether p may be selected for the request identified by
// tried, matching spec.md §4.7's eligibility rule: not down, not already
// tried by this request, under max_conns, and (if over max_fails) past its
// fail_timeout cool-down.
func (p *Peer) eligible(now time.Time, alreadyTried bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Down || alreadyTried {
		return false
	}
	if p.MaxConns > 0 && p.Conns >= p.MaxConns {
		return false
	}
	if p.MaxFails > 0 && p.Fails >= p.MaxFails {
		if now.Sub(p.checked) <= p.FailTimeout {
			return false
		}
	}
	return true
}

// onConnect bumps the in-flight connection counter, invoked once a peer is
// picked and before the connect attempt begins.
func (p *Peer) onConnect() {
	p.mu.Lock()
	p.Conns++
	p.accessed = time.Now()
	p.mu.Unlock()
}

// OnSuccess records a successful exchange with p: Conns is decremented,
// checked is stamped, and EffectiveWeight recovers by 1 toward Weight (the
// source's "slowly recovers toward weight on success", capped at Weight).
func (p *Peer) OnSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Conns > 0 {
		p.Conns--
	}
	p.checked = time.Now()
	if p.EffectiveWeight < p.Weight {
		p.EffectiveWeight++
		if p.EffectiveWeight > p.Weight {
			p.EffectiveWeight = p.Weight
		}
	}
}

// OnFailure records a failed exchange with p: Conns is decremented, Fails
// incremented, checked stamped, and EffectiveWeight decays by
// weight/max_fails (spec.md §4.7), clamped at zero so a persistently
// failing peer never goes negative and skews the weighted sum.
func (p *Peer) OnFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Conns > 0 {
		p.Conns--
	}
	p.Fails++
	p.checked = time.Now()

	decay := 1
	if p.MaxFails > 0 {
		decay = p.Weight / p.MaxFails
		if decay < 1 {
			decay = 1
		}
	}
	p.EffectiveWeight -= decay
	if p.EffectiveWeight < 0 {
		p.EffectiveWeight = 0
	}
}

// SetDown marks or clears the administrative down flag (distinct from the
// transient fails/fail_timeout eligibility check).
func (p *Peer) SetDown(down bool) {
	p.mu.Lock()
	p.Down = down
	p.mu.Unlock()
}

// Snapshot returns a point-in-time copy of p's counters for status
// reporting (statusui, prometheus gauges), without holding the lock past
// the call.
func (p *Peer) Snapshot() PeerStat {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PeerStat{
		Addr:            p.Addr,
		Weight:          p.Weight,
		EffectiveWeight: p.EffectiveWeight,
		CurrentWeight:   p.CurrentWeight,
		Fails:           p.Fails,
		Conns:           p.Conns,
		Down:            p.Down,
	}
}

// PeerStat is a read-only snapshot of a Peer's counters.
type PeerStat struct {
	Addr            string
	Weight          int
	EffectiveWeight int
	CurrentWeight   int
	Fails           int
	Conns           int
	Down            bool
}

// NewPeer returns a Peer with EffectiveWeight and CurrentWeight seeded
// from Weight, as the source initializes every peer before its first
// selection.
func NewPeer(addr string, weight, maxFails, maxConns int, failTimeout time.Duration) *Peer {
	if weight <= 0 {
		weight = 1
	}
	return &Peer{
		Addr:            addr,
		Weight:          weight,
		EffectiveWeight: weight,
		MaxFails:        maxFails,
		MaxConns:        maxConns,
		FailTimeout:     failTimeout,
	}
}
