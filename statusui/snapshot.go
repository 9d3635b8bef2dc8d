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
	"github.com/sabouaram/edgecore/upstream"
)

// ConnStats is the read-only view statusui takes of one worker's
// connection pool (conn.Pool), kept decoupled from the conn package so
// statusui never needs to reach into the event loop's own state.
type ConnStats struct {
	Size       int
	InUse      int
	ReusableLen int
}

// UpstreamStats names one upstream pool's peers, split by tier.
type UpstreamStats struct {
	Name    string
	Primary []upstream.PeerStat
	Backup  []upstream.PeerStat
}

// CacheStats is the read-only view of one rcache zone's occupancy.
type CacheStats struct {
	Name    string
	Entries int
}

// Source is implemented by whatever holds the live subsystem handles for
// one worker (normally supervisor.Worker-adjacent wiring in cmd/edgecored);
// statusui only ever reads through it.
type Source interface {
	Conn() ConnStats
	Upstreams() []UpstreamStats
	Caches() []CacheStats
}

// Snapshot is one point-in-time capture across every watched subsystem,
// the payload served by /status and rendered by the TUI.
type Snapshot struct {
	Conn      ConnStats
	Upstreams []UpstreamStats
	Caches    []CacheStats
}

// Capture reads src once and returns the combined snapshot.
func Capture(src Source) Snapshot {
	return Snapshot{
		Conn:      src.Conn(),
		Upstreams: src.Upstreams(),
		Caches:    src.Caches(),
	}
}
