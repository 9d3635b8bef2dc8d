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

package distpeer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	dgbclt "github.com/lni/dragonboat/v3"
	dgbcfg "github.com/lni/dragonboat/v3/config"
	sm "github.com/lni/dragonboat/v3/statemachine"
	"github.com/fxamacker/cbor/v2"

	libclt "github.com/sabouaram/edgecore/cluster"
	"github.com/sabouaram/edgecore/logger"
	"github.com/sabouaram/edgecore/upstream"
)

// Gossip replicates one upstream pool's peer health across the nodes
// participating in its raft group. The balancer in upstream keeps working
// unmodified when Gossip is nil or never started (§3 of SPEC_FULL). It
// drives the teacher's cluster.Cluster (a dragonboat NodeHost wrapper)
// directly rather than talking to dragonboat itself.
type Gossip struct {
	log       logger.Logger
	cluster   libclt.Cluster
	clusterID uint64
	nodeID    uint64

	epoch atomic.Uint64

	mu    sync.RWMutex
	peers map[string]*upstream.Peer
}

// New returns a Gossip over host, bound to the given raft cluster/node id.
// The caller wires peers that should receive remote health reports via
// Watch before calling Start.
func New(log logger.Logger, host libclt.Cluster, clusterID, nodeID uint64) *Gossip {
	return &Gossip{
		log:       log,
		cluster:   host,
		clusterID: clusterID,
		nodeID:    nodeID,
		peers:     make(map[string]*upstream.Peer),
	}
}

// Start joins (or creates) the raft group backing this gossip instance.
func (g *Gossip) Start(members map[uint64]dgbclt.Target, join bool) error {
	create := func(clusterID, nodeID uint64) sm.IStateMachine {
		return newHealthTable()
	}
	return g.cluster.StartCluster(members, join, create, dgbcfg.Config{
		ClusterID: g.clusterID,
		NodeID:    g.nodeID,
	})
}

// Watch registers p to receive remote SetDown calls keyed by its address.
func (g *Gossip) Watch(p *upstream.Peer) {
	g.mu.Lock()
	g.peers[p.Addr] = p
	g.mu.Unlock()
}

// Report proposes a local observation of addr's health to the raft group.
// Invoked from the balancer's OnFailure/OnSuccess/SetDown paths.
func (g *Gossip) Report(ctx context.Context, addr string, down bool, fails, effectiveWeight int) error {
	rep := peerReport{
		Addr:            addr,
		Down:            down,
		Fails:           fails,
		EffectiveWeight: effectiveWeight,
		Epoch:           g.epoch.Add(1),
	}
	buf, err := cbor.Marshal(rep)
	if err != nil {
		return ErrorDecodeFailed.Error(err)
	}
	session := g.cluster.GetNoOPSession(g.clusterID)
	if _, err = g.cluster.SyncPropose(ctx, session, buf); err != nil {
		return ErrorProposeFailed.Error(err)
	}
	return nil
}

// Poll periodically reads the replicated table and applies remote Down
// flags to watched peers, until ctx is cancelled. Invoked once per worker
// as a background goroutine; it never touches the event loop.
func (g *Gossip) Poll(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g.applyOnce(ctx)
		}
	}
}

func (g *Gossip) applyOnce(ctx context.Context) {
	res, err := g.cluster.SyncRead(ctx, g.clusterID, nil)
	if err != nil {
		if g.log != nil {
			g.log.Error("distpeer: read failed", err)
		}
		return
	}
	rows, ok := res.(map[string]peerReport)
	if !ok {
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for addr, row := range rows {
		if p, found := g.peers[addr]; found {
			p.SetDown(row.Down)
		}
	}
}
