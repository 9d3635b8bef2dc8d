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

package rcache

import (
	"context"
	"os"
	"time"

	"github.com/sabouaram/edgecore/logger"
)

// Manager is the cache manager process's pruning loop: wakes periodically,
// evicts least-recently-used entries while the index is over its size
// watermark, and removes their backing files (spec.md §4.8 "Background
// manager prunes by LRU until size under watermark").
type Manager struct {
	Index     *Index
	Store     *Store
	Watermark int // max entry count kept; a real deployment sizes this off disk usage
	Interval  time.Duration

	log logger.Logger
}

// NewManager returns a Manager over idx, optionally mirroring eviction
// into store (nil disables durable mirroring).
func NewManager(log logger.Logger, idx *Index, store *Store, watermark int, interval time.Duration) *Manager {
	return &Manager{Index: idx, Store: store, Watermark: watermark, Interval: interval, log: log}
}

// Run blocks, pruning on every tick until ctx is cancelled. This is the
// one-off "cache manager" process spec.md §4.1 forks when a manager path
// is configured.
func (m *Manager) Run(ctx context.Context) error {
	t := time.NewTicker(m.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.pruneOnce()
		}
	}
}

func (m *Manager) pruneOnce() {
	for m.Index.Len() > m.Watermark {
		e := m.Index.Evict()
		if e == nil {
			return
		}
		if e.Path != "" {
			if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
				m.log.Warning("cache prune: cannot remove file", err, "path", e.Path)
			}
		}
		if m.Store != nil {
			if err := m.Store.Delete(e.Key); err != nil {
				m.log.Warning("cache prune: durable index delete failed", err, "key", e.Key)
			}
		}
	}
}
