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

package statusui

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics registers the gauges every worker's statusui instance exposes:
// connections in use, reusable-LRU depth, per-peer current/effective
// weight, and per-cache-zone entry count. Modeled on the teacher stack's
// habit of registering one gauge family per subsystem rather than a single
// catch-all collector.
type Metrics struct {
	connInUse      prometheus.Gauge
	connReusable   prometheus.Gauge
	connSize       prometheus.Gauge
	peerWeight     *prometheus.GaugeVec
	peerFails      *prometheus.GaugeVec
	cacheEntries   *prometheus.GaugeVec
}

// NewMetrics registers a fresh set of gauges into reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		connInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "conn", Name: "in_use",
			Help: "Connections currently drawn from the pool.",
		}),
		connReusable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "conn", Name: "reusable",
			Help: "Idle keep-alive connections on the reusable LRU.",
		}),
		connSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "conn", Name: "pool_size",
			Help: "Fixed size of the worker's connection pool.",
		}),
		peerWeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "upstream", Name: "peer_current_weight",
			Help: "Weighted round-robin current_weight per peer.",
		}, []string{"pool", "addr"}),
		peerFails: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "upstream", Name: "peer_fails",
			Help: "Consecutive failure counter per peer.",
		}, []string{"pool", "addr"}),
		cacheEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "edgecore", Subsystem: "cache", Name: "entries",
			Help: "Entries currently indexed in a response cache zone.",
		}, []string{"zone"}),
	}

	reg.MustRegister(m.connInUse, m.connReusable, m.connSize, m.peerWeight, m.peerFails, m.cacheEntries)
	return m
}

// Observe updates every gauge from one snapshot. Called on each /status
// scrape tick or prometheus Collect, never from the event loop.
func (m *Metrics) Observe(s Snapshot) {
	m.connInUse.Set(float64(s.Conn.InUse))
	m.connReusable.Set(float64(s.Conn.ReusableLen))
	m.connSize.Set(float64(s.Conn.Size))

	for _, u := range s.Upstreams {
		for _, p := range u.Primary {
			m.peerWeight.WithLabelValues(u.Name, p.Addr).Set(float64(p.CurrentWeight))
			m.peerFails.WithLabelValues(u.Name, p.Addr).Set(float64(p.Fails))
		}
		for _, p := range u.Backup {
			m.peerWeight.WithLabelValues(u.Name, p.Addr).Set(float64(p.CurrentWeight))
			m.peerFails.WithLabelValues(u.Name, p.Addr).Set(float64(p.Fails))
		}
	}

	for _, c := range s.Caches {
		m.cacheEntries.WithLabelValues(c.Name).Set(float64(c.Entries))
	}
}
