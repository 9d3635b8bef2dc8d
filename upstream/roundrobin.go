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

	"github.com/bits-and-blooms/bitset"
)

// Balancer selects a Peer for one request. RoundRobin is the only
// implementation spec.md calls for; the interface exists so a future
// selection policy can be swapped in behind the same Try/request shape
// (module linkage per spec.md §9).
type Balancer interface {
	Pick(r *Try) (*Peer, error)
}

// Try tracks one request's progress across peer selections: the tried
// bitmap (invariant 4: a peer appears in tried at most once per request),
// the tier currently being drawn from, and the remaining retry budget.
type Try struct {
	tried *bitset.BitSet
	tier  int // 0 = primary, 1 = backup
	left  int
}

// NewTry returns a Try with budget retries remaining against a peer set
// sized n.
func NewTry(n, budget int) *Try {
	return &Try{tried: bitset.New(uint(n)), left: budget}
}

// MarkTried records that idx has been attempted by this request.
func (t *Try) MarkTried(idx int) { t.tried.Set(uint(idx)) }

// Exhausted reports whether the request's retry budget is spent.
func (t *Try) Exhausted() bool { return t.left <= 0 }

// consume decrements the retry budget by one.
func (t *Try) consume() { t.left-- }

// fallBack switches the Try to the backup tier and clears the tried
// bitmap, matching spec.md §4.7 "the balancer switches to the backup list
// ... and clears the tried bitmap": a peer is only ever excluded within
// one tier's traversal.
func (t *Try) fallBack(n int) {
	t.tier = 1
	t.tried = bitset.New(uint(n))
}

// RoundRobin implements the weighted round-robin selection algorithm of
// spec.md §4.7 / ngx_http_upstream_round_robin.c unchanged: for every
// eligible peer, current_weight += effective_weight; pick the max; the
// winner's current_weight -= total. Primary and backup are two
// independently-weighted tiers tried in order.
type RoundRobin struct {
	mu      sync.Mutex
	primary []*Peer
	backup  []*Peer
}

// NewRoundRobin returns a balancer over the given primary and backup peer
// lists.
func NewRoundRobin(primary, backup []*Peer) *RoundRobin {
	return &RoundRobin{primary: primary, backup: backup}
}

// Peers returns snapshots of every primary and backup peer, for status
// reporting and durable registry persistence (statusui, registry).
func (b *RoundRobin) Peers() (primary, backup []PeerStat) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.primary {
		primary = append(primary, p.Snapshot())
	}
	for _, p := range b.backup {
		backup = append(backup, p.Snapshot())
	}
	return primary, backup
}

// AllPeers returns the live *Peer values for both tiers, for subsystems
// (distpeer) that need to mutate peer state directly rather than read a
// snapshot.
func (b *RoundRobin) AllPeers() []*Peer {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := make([]*Peer, 0, len(b.primary)+len(b.backup))
	all = append(all, b.primary...)
	all = append(all, b.backup...)
	return all
}

// Pick selects the next peer for r, switching to the backup tier and
// clearing r's tried bitmap if every primary peer is ineligible, and
// failing with ErrorNoPeers only once both tiers have been exhausted.
func (b *RoundRobin) Pick(r *Try) (*Peer, error) {
	if r.Exhausted() {
		return nil, ErrorTriesExhausted.Error()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, idx, ok := b.pickTier(b.tierList(r.tier), r)
	if !ok && r.tier == 0 && len(b.backup) > 0 {
		r.fallBack(len(b.backup))
		p, idx, ok = b.pickTier(b.backup, r)
	}
	if !ok {
		return nil, ErrorNoPeers.Error()
	}

	r.MarkTried(idx)
	r.consume()
	p.onConnect()
	return p, nil
}

func (b *RoundRobin) tierList(tier int) []*Peer {
	if tier == 0 {
		return b.primary
	}
	return b.backup
}

// pickTier runs one round of the weighted round-robin discipline over
// peers, skipping any index already set in r.tried or otherwise
// ineligible.
func (b *RoundRobin) pickTier(peers []*Peer, r *Try) (*Peer, int, bool) {
	now := time.Now()
	var best *Peer
	bestIdx := -1
	total := 0

	for i, p := range peers {
		if !p.eligible(now, r.tried.Test(uint(i))) {
			continue
		}
		p.mu.Lock()
		p.CurrentWeight += p.EffectiveWeight
		total += p.EffectiveWeight
		cw := p.CurrentWeight
		p.mu.Unlock()

		if best == nil || cw > bestCurrentWeight(best) {
			best = p
			bestIdx = i
		}
	}

	if best == nil {
		return nil, -1, false
	}

	best.mu.Lock()
	best.CurrentWeight -= total
	best.mu.Unlock()

	return best, bestIdx, true
}

func bestCurrentWeight(p *Peer) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentWeight
}
